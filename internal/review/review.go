package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"farmstay-go/internal/database"
	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrFarmNotFound    = errors.New("farm not found")
	ErrNotOwner        = errors.New("review belongs to another guest")
	ErrDuplicateReview = errors.New("reservation already reviewed")
	ErrFutureDate      = errors.New("experience date is in the future")
)

// StampSyncer is the part of the stamp synchronizer reviews drive
type StampSyncer interface {
	Synchronize(ctx context.Context, reviewID int) (stamp.Outcome, error)
	RetractTx(ctx context.Context, tx *sqlx.Tx, reviewID int) (*model.VisitRecord, error)
	InvalidateRanking(ctx context.Context)
}

// ReviewService handles review operations
type ReviewService struct {
	db     *sqlx.DB
	stamps StampSyncer
	log    *logger.Logger
	now    func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(db *sqlx.DB, stamps StampSyncer, log *logger.Logger) *ReviewService {
	return &ReviewService{
		db:     db,
		stamps: stamps,
		log:    log.With("service", "ReviewService"),
		now:    time.Now,
	}
}

const reviewColumns = "id, reservation_id, guest_id, farm_id, rating, comment, experience_date, created_at, updated_at"

// CreateReview stores a review and stamps the visit behind it. A stamp
// failure is logged and reported in StampStatus; the review is kept either
// way and the next backfill picks it up.
func (s *ReviewService) CreateReview(ctx context.Context, guestID int, req model.ReviewCreateRequest) (*model.ReviewResponse, error) {
	experienceDate, err := time.Parse("2006-01-02", req.ExperienceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid experience date %q: %w", req.ExperienceDate, err)
	}
	if experienceDate.After(s.now().UTC()) {
		return nil, ErrFutureDate
	}

	var active bool
	err = s.db.GetContext(ctx, &active, s.db.Rebind("SELECT is_active FROM farms WHERE id = ?"), req.FarmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}
	if !active {
		return nil, ErrFarmNotFound
	}

	var reservation sql.NullInt64
	if req.ReservationID != nil {
		reservation = sql.NullInt64{Int64: *req.ReservationID, Valid: true}
	}
	comment := strings.TrimSpace(req.Comment)

	now := s.now().UTC()
	rv := model.Review{
		ReservationID:  reservation,
		GuestID:        guestID,
		FarmID:         req.FarmID,
		Rating:         req.Rating,
		Comment:        sql.NullString{String: comment, Valid: comment != ""},
		ExperienceDate: experienceDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.db.QueryRowxContext(ctx, s.db.Rebind(`
        INSERT INTO reviews (reservation_id, guest_id, farm_id, rating, comment, experience_date, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`),
		rv.ReservationID, rv.GuestID, rv.FarmID, rv.Rating, rv.Comment, rv.ExperienceDate, rv.CreatedAt, rv.UpdatedAt).Scan(&rv.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	out, err := s.stamps.Synchronize(ctx, rv.ID)
	if err != nil {
		s.log.Warn("Failed to stamp review, leaving it for backfill", "review_id", rv.ID, "error", err)
	}

	return &model.ReviewResponse{Review: rv, Comment: comment, StampStatus: string(out.Status)}, nil
}

// GetReview fetches a review by id
func (s *ReviewService) GetReview(ctx context.Context, reviewID int) (*model.Review, error) {
	var rv model.Review
	err := s.db.GetContext(ctx, &rv, s.db.Rebind("SELECT "+reviewColumns+" FROM reviews WHERE id = ?"), reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// ListByGuest returns a guest's reviews, newest experience first
func (s *ReviewService) ListByGuest(ctx context.Context, guestID int) ([]model.Review, error) {
	reviews := []model.Review{}
	err := s.db.SelectContext(ctx, &reviews, s.db.Rebind(
		"SELECT "+reviewColumns+" FROM reviews WHERE guest_id = ? ORDER BY experience_date DESC, id DESC"), guestID)
	return reviews, err
}

// DeleteReview removes a guest's own review and retracts its stamp in the same transaction
func (s *ReviewService) DeleteReview(ctx context.Context, guestID, reviewID int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var owner int
	err = tx.GetContext(ctx, &owner, tx.Rebind("SELECT guest_id FROM reviews WHERE id = ?"), reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if owner != guestID {
		return ErrNotOwner
	}

	visit, err := s.stamps.RetractTx(ctx, tx, reviewID)
	if err != nil {
		return fmt.Errorf("error retracting stamp: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM reviews WHERE id = ?"), reviewID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if visit != nil {
		s.stamps.InvalidateRanking(ctx)
		s.log.Info("Retracted stamp for deleted review", "review_id", reviewID, "region_code", visit.RegionCode)
	}
	return nil
}
