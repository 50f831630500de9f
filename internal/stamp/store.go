package stamp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"farmstay-go/internal/database"
	"farmstay-go/pkg/model"
)

// Store is data access for the visit ledger and the region aggregates.
// Functions taking a sqlx.ExtContext run against either the pool or a
// transaction; the exported methods always use the pool.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new stamp store
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ReviewKey identifies a review for batch processing
type ReviewKey struct {
	ID      int `db:"id"`
	GuestID int `db:"guest_id"`
}

// reviewVisit is the review and farm fields a sync reads
type reviewVisit struct {
	ReviewID       int            `db:"review_id"`
	GuestID        int            `db:"guest_id"`
	ExperienceDate time.Time      `db:"experience_date"`
	FarmID         sql.NullInt64  `db:"farm_id"`
	Prefecture     sql.NullString `db:"prefecture"`
	ExperienceType sql.NullString `db:"experience_type"`
}

// inTx runs fn in a transaction, committing only if fn succeeds
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError("begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit", err)
	}
	return nil
}

// lockPair serializes writers of one (user, region) aggregate until the
// transaction ends. SQLite already runs one writer at a time.
func lockPair(ctx context.Context, tx *sqlx.Tx, userID int, regionCode string) error {
	if !database.IsPostgres(tx) {
		return nil
	}
	key := fmt.Sprintf("stamp:%d:%s", userID, regionCode)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return storeError("lock aggregate", err)
	}
	return nil
}

func (s *Store) loadReviewVisit(ctx context.Context, reviewID int) (*reviewVisit, error) {
	var rv reviewVisit
	err := s.db.GetContext(ctx, &rv, s.db.Rebind(`
        SELECT r.id AS review_id, r.guest_id, r.experience_date,
               f.id AS farm_id, f.prefecture, f.experience_type
        FROM reviews r
        LEFT JOIN farms f ON f.id = r.farm_id
        WHERE r.id = ?`), reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
		}
		return nil, storeError("load review", err)
	}
	if !rv.FarmID.Valid {
		return nil, fmt.Errorf("%w: farm for review %d", ErrNotFound, reviewID)
	}
	return &rv, nil
}

func visitExists(ctx context.Context, q sqlx.ExtContext, reviewID int) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind("SELECT COUNT(*) FROM visit_records WHERE review_id = ?"), reviewID); err != nil {
		return false, storeError("check visit", err)
	}
	return n > 0, nil
}

func insertVisit(ctx context.Context, q sqlx.ExtContext, v *model.VisitRecord) error {
	now := time.Now().UTC()
	err := q.QueryRowxContext(ctx, q.Rebind(`
        INSERT INTO visit_records (user_id, region_code, farm_id, review_id, visit_date, experience_type, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        RETURNING id`),
		v.UserID, v.RegionCode, v.FarmID, v.ReviewID, v.VisitDate, v.ExperienceType, now).Scan(&v.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: review %d already has a visit record", ErrConsistencyViolation, v.ReviewID)
		}
		return storeError("insert visit", err)
	}
	v.CreatedAt = now
	return nil
}

func visitByReview(ctx context.Context, q sqlx.ExtContext, reviewID int) (*model.VisitRecord, error) {
	var v model.VisitRecord
	err := sqlx.GetContext(ctx, q, &v, q.Rebind(`
        SELECT id, user_id, region_code, farm_id, review_id, visit_date, experience_type, created_at
        FROM visit_records
        WHERE review_id = ?`), reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("load visit", err)
	}
	return &v, nil
}

func deleteVisit(ctx context.Context, q sqlx.ExtContext, reviewID int) (bool, error) {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM visit_records WHERE review_id = ?"), reviewID)
	if err != nil {
		return false, storeError("delete visit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError("delete visit", err)
	}
	return n > 0, nil
}

func listVisits(ctx context.Context, q sqlx.ExtContext, userID int, regionCode string) ([]model.VisitRecord, error) {
	visits := []model.VisitRecord{}
	err := sqlx.SelectContext(ctx, q, &visits, q.Rebind(`
        SELECT id, user_id, region_code, farm_id, review_id, visit_date, experience_type, created_at
        FROM visit_records
        WHERE user_id = ? AND region_code = ?
        ORDER BY visit_date, id`), userID, regionCode)
	if err != nil {
		return nil, storeError("list visits", err)
	}
	return visits, nil
}

func countDistinctFarms(ctx context.Context, q sqlx.ExtContext, userID int, regionCode string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(`
        SELECT COUNT(DISTINCT farm_id) FROM visit_records
        WHERE user_id = ? AND region_code = ?`), userID, regionCode)
	if err != nil {
		return 0, storeError("count farms", err)
	}
	return n, nil
}

func getAggregate(ctx context.Context, q sqlx.ExtContext, userID int, regionCode string) (*model.RegionAggregate, error) {
	var a model.RegionAggregate
	err := sqlx.GetContext(ctx, q, &a, q.Rebind(`
        SELECT id, user_id, region_code, visit_count, first_visit_date, last_visit_date,
               unique_farm_count, created_at, updated_at
        FROM region_aggregates
        WHERE user_id = ? AND region_code = ?`), userID, regionCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("load aggregate", err)
	}
	return &a, nil
}

func insertAggregate(ctx context.Context, q sqlx.ExtContext, a *model.RegionAggregate) error {
	now := time.Now().UTC()
	err := q.QueryRowxContext(ctx, q.Rebind(`
        INSERT INTO region_aggregates
            (user_id, region_code, visit_count, first_visit_date, last_visit_date, unique_farm_count, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`),
		a.UserID, a.RegionCode, a.VisitCount, a.FirstVisitDate, a.LastVisitDate, a.UniqueFarmCount, now, now).Scan(&a.ID)
	if err != nil {
		return storeError("insert aggregate", err)
	}
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

func updateAggregate(ctx context.Context, q sqlx.ExtContext, a *model.RegionAggregate) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, q.Rebind(`
        UPDATE region_aggregates
        SET visit_count = ?, first_visit_date = ?, last_visit_date = ?, unique_farm_count = ?, updated_at = ?
        WHERE id = ?`),
		a.VisitCount, a.FirstVisitDate, a.LastVisitDate, a.UniqueFarmCount, now, a.ID)
	if err != nil {
		return storeError("update aggregate", err)
	}
	a.UpdatedAt = now
	return nil
}

func deleteAggregate(ctx context.Context, q sqlx.ExtContext, userID int, regionCode string) error {
	_, err := q.ExecContext(ctx, q.Rebind("DELETE FROM region_aggregates WHERE user_id = ? AND region_code = ?"), userID, regionCode)
	if err != nil {
		return storeError("delete aggregate", err)
	}
	return nil
}

// ListAggregates returns a user's aggregates ordered by region code
func (s *Store) ListAggregates(ctx context.Context, userID int) ([]model.RegionAggregate, error) {
	aggs := []model.RegionAggregate{}
	err := s.db.SelectContext(ctx, &aggs, s.db.Rebind(`
        SELECT id, user_id, region_code, visit_count, first_visit_date, last_visit_date,
               unique_farm_count, created_at, updated_at
        FROM region_aggregates
        WHERE user_id = ?
        ORDER BY region_code`), userID)
	if err != nil {
		return nil, storeError("list aggregates", err)
	}
	return aggs, nil
}

// GetAggregate returns the aggregate for a pair, or nil if there is none
func (s *Store) GetAggregate(ctx context.Context, userID int, regionCode string) (*model.RegionAggregate, error) {
	return getAggregate(ctx, s.db, userID, regionCode)
}

// ListVisits returns the ledger rows for a pair in visit order
func (s *Store) ListVisits(ctx context.Context, userID int, regionCode string) ([]model.VisitRecord, error) {
	return listVisits(ctx, s.db, userID, regionCode)
}

// ListVisitedFarms returns the ledger rows for a pair with farm names, newest first
func (s *Store) ListVisitedFarms(ctx context.Context, userID int, regionCode string) ([]model.VisitedFarm, error) {
	farms := []model.VisitedFarm{}
	err := s.db.SelectContext(ctx, &farms, s.db.Rebind(`
        SELECT v.farm_id, COALESCE(f.name, '') AS farm_name, v.visit_date, v.experience_type, v.review_id
        FROM visit_records v
        LEFT JOIN farms f ON f.id = v.farm_id
        WHERE v.user_id = ? AND v.region_code = ?
        ORDER BY v.visit_date DESC, v.id DESC`), userID, regionCode)
	if err != nil {
		return nil, storeError("list visited farms", err)
	}
	return farms, nil
}

// ListReviewKeys returns every review in ascending id order
func (s *Store) ListReviewKeys(ctx context.Context) ([]ReviewKey, error) {
	keys := []ReviewKey{}
	if err := s.db.SelectContext(ctx, &keys, "SELECT id, guest_id FROM reviews ORDER BY id"); err != nil {
		return nil, storeError("list reviews", err)
	}
	return keys, nil
}

type pair struct {
	UserID     int    `db:"user_id"`
	RegionCode string `db:"region_code"`
}

// listPairs returns every (user, region) present in either table
func (s *Store) listPairs(ctx context.Context) ([]pair, error) {
	pairs := []pair{}
	err := s.db.SelectContext(ctx, &pairs, `
        SELECT user_id, region_code FROM region_aggregates
        UNION
        SELECT user_id, region_code FROM visit_records`)
	if err != nil {
		return nil, storeError("list pairs", err)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].UserID != pairs[j].UserID {
			return pairs[i].UserID < pairs[j].UserID
		}
		return pairs[i].RegionCode < pairs[j].RegionCode
	})
	return pairs, nil
}

func (s *Store) rankPage(ctx context.Context, limit int) ([]model.RankEntry, error) {
	entries := []model.RankEntry{}
	err := s.db.SelectContext(ctx, &entries, s.db.Rebind(`
        SELECT a.user_id,
               COALESCE(u.name, '') AS user_name,
               COALESCE(u.avatar_url, '') AS avatar_url,
               COUNT(DISTINCT a.region_code) AS region_count
        FROM region_aggregates a
        LEFT JOIN users u ON u.id = a.user_id
        GROUP BY a.user_id, u.name, u.avatar_url
        ORDER BY region_count DESC, a.user_id ASC
        LIMIT ?`), limit)
	if err != nil {
		return nil, storeError("rank page", err)
	}
	return entries, nil
}

func (s *Store) countParticipants(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(DISTINCT user_id) FROM region_aggregates"); err != nil {
		return 0, storeError("count participants", err)
	}
	return n, nil
}

// rankOf computes one user's leaderboard position without loading the page.
// ok is false when the user has no aggregates.
func (s *Store) rankOf(ctx context.Context, userID int) (entry model.RankEntry, ok bool, err error) {
	var regions int
	err = s.db.GetContext(ctx, &regions, s.db.Rebind(
		"SELECT COUNT(DISTINCT region_code) FROM region_aggregates WHERE user_id = ?"), userID)
	if err != nil {
		return entry, false, storeError("rank of user", err)
	}
	if regions == 0 {
		return entry, false, nil
	}

	var ahead int
	err = s.db.GetContext(ctx, &ahead, s.db.Rebind(`
        SELECT COUNT(*) FROM (
            SELECT user_id, COUNT(DISTINCT region_code) AS region_count
            FROM region_aggregates
            GROUP BY user_id
        ) t
        WHERE t.region_count > ? OR (t.region_count = ? AND t.user_id < ?)`), regions, regions, userID)
	if err != nil {
		return entry, false, storeError("rank of user", err)
	}

	entry = model.RankEntry{Rank: ahead + 1, GuestID: userID, TotalPrefectures: regions}
	var u struct {
		Name      string `db:"name"`
		AvatarURL string `db:"avatar_url"`
	}
	err = s.db.GetContext(ctx, &u, s.db.Rebind(
		"SELECT name, COALESCE(avatar_url, '') AS avatar_url FROM users WHERE id = ?"), userID)
	switch {
	case err == nil:
		entry.GuestName, entry.AvatarURL = u.Name, u.AvatarURL
	case !errors.Is(err, sql.ErrNoRows):
		return entry, false, storeError("rank of user", err)
	}
	return entry, true, nil
}

// Stats reports ledger and aggregate volume plus the top users by region count
func (s *Store) Stats(ctx context.Context, top int) (*model.StampStats, error) {
	stats := &model.StampStats{TopUsers: []model.UserRegions{}}
	if err := s.db.GetContext(ctx, &stats.AggregateRows, "SELECT COUNT(*) FROM region_aggregates"); err != nil {
		return nil, storeError("stats", err)
	}
	if err := s.db.GetContext(ctx, &stats.VisitRows, "SELECT COUNT(*) FROM visit_records"); err != nil {
		return nil, storeError("stats", err)
	}
	n, err := s.countParticipants(ctx)
	if err != nil {
		return nil, err
	}
	stats.Users = n

	err = s.db.SelectContext(ctx, &stats.TopUsers, s.db.Rebind(`
        SELECT user_id, COUNT(*) AS region_count
        FROM region_aggregates
        GROUP BY user_id
        ORDER BY region_count DESC, user_id ASC
        LIMIT ?`), top)
	if err != nil {
		return nil, storeError("stats", err)
	}
	return stats, nil
}
