package model

import "time"

// VisitRecord is one ledger row: a single reviewed visit to a farm
type VisitRecord struct {
	ID             int       `json:"id" db:"id"`
	UserID         int       `json:"user_id" db:"user_id"`
	RegionCode     string    `json:"prefecture_code" db:"region_code"`
	FarmID         int       `json:"farm_id" db:"farm_id"`
	ReviewID       int       `json:"review_id" db:"review_id"`
	VisitDate      time.Time `json:"visit_date" db:"visit_date"`
	ExperienceType string    `json:"experience_type" db:"experience_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RegionAggregate is the per (user, region) rollup of the ledger
type RegionAggregate struct {
	ID              int       `json:"id" db:"id"`
	UserID          int       `json:"user_id" db:"user_id"`
	RegionCode      string    `json:"prefecture_code" db:"region_code"`
	VisitCount      int       `json:"visit_count" db:"visit_count"`
	FirstVisitDate  time.Time `json:"first_visit_date" db:"first_visit_date"`
	LastVisitDate   time.Time `json:"last_visit_date" db:"last_visit_date"`
	UniqueFarmCount int       `json:"unique_farms_count" db:"unique_farm_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CollectionSummary totals a user's stamp collection
type CollectionSummary struct {
	TotalPrefectures int     `json:"total_prefectures"`
	TotalVisits      int     `json:"total_visits"`
	TotalFarms       int     `json:"total_farms"`
	CompletionRate   float64 `json:"completion_rate"`
}

// PrefectureStatus is the visited/unvisited state of one catalog region
type PrefectureStatus struct {
	PrefectureCode  string     `json:"prefecture_code"`
	Name            string     `json:"name"`
	ImageURL        string     `json:"image_url"`
	Region          string     `json:"region"`
	IsVisited       bool       `json:"is_visited"`
	VisitCount      int        `json:"visit_count"`
	FirstVisitDate  *time.Time `json:"first_visit_date"`
	LastVisitDate   *time.Time `json:"last_visit_date"`
	UniqueFarmCount int        `json:"unique_farms_count"`
}

// CollectionResponse is the full collection view for one user
type CollectionResponse struct {
	Summary CollectionSummary  `json:"summary"`
	Stamps  []PrefectureStatus `json:"stamps"`
}

// VisitedFarm is a ledger row joined with its farm name
type VisitedFarm struct {
	FarmID         int       `json:"farm_id" db:"farm_id"`
	FarmName       string    `json:"farm_name" db:"farm_name"`
	VisitDate      time.Time `json:"visit_date" db:"visit_date"`
	ExperienceType string    `json:"experience_type" db:"experience_type"`
	ReviewID       int       `json:"review_id" db:"review_id"`
}

// PrefectureDetailResponse is one user's detail for one region
type PrefectureDetailResponse struct {
	PrefectureCode  string        `json:"prefecture_code"`
	Name            string        `json:"name"`
	VisitCount      int           `json:"visit_count"`
	FirstVisitDate  time.Time     `json:"first_visit_date"`
	LastVisitDate   time.Time     `json:"last_visit_date"`
	UniqueFarmCount int           `json:"unique_farms_count"`
	VisitedFarms    []VisitedFarm `json:"visited_farms"`
}

// RankEntry is one leaderboard row
type RankEntry struct {
	Rank             int     `json:"rank"`
	GuestID          int     `json:"guest_id" db:"user_id"`
	GuestName        string  `json:"guest_name" db:"user_name"`
	AvatarURL        string  `json:"avatar_url" db:"avatar_url"`
	TotalPrefectures int     `json:"total_prefectures" db:"region_count"`
	CompletionRate   float64 `json:"completion_rate"`
}

// RankingResponse is the leaderboard page plus the caller's own entry
type RankingResponse struct {
	Rankings   []RankEntry `json:"rankings"`
	MyRanking  *RankEntry  `json:"my_ranking"`
	TotalUsers int         `json:"total_users"`
}

// BackfillFailure is one review the backfill could not apply
type BackfillFailure struct {
	ReviewID int    `json:"review_id"`
	Error    string `json:"error"`
}

// BackfillReport summarizes a backfill run
type BackfillReport struct {
	RunID          string            `json:"run_id"`
	Total          int               `json:"total"`
	Processed      int               `json:"processed"`
	Applied        int               `json:"applied"`
	AlreadyApplied int               `json:"already_applied"`
	Skipped        int               `json:"skipped"`
	SkippedReasons map[string]int    `json:"skipped_reasons"`
	Failed         int               `json:"failed"`
	FailedDetails  []BackfillFailure `json:"failed_details"`
	Cancelled      bool              `json:"cancelled"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
}

// AggregateDrift describes an aggregate that no longer matches its ledger rows
type AggregateDrift struct {
	UserID     int              `json:"user_id"`
	RegionCode string           `json:"prefecture_code"`
	Stored     *RegionAggregate `json:"stored"`
	Expected   *RegionAggregate `json:"expected"`
}

// StampStats is a snapshot of ledger/aggregate volume
type StampStats struct {
	AggregateRows int           `json:"aggregate_rows"`
	VisitRows     int           `json:"visit_rows"`
	Users         int           `json:"users"`
	TopUsers      []UserRegions `json:"top_users"`
}

// UserRegions pairs a user with their visited-region count
type UserRegions struct {
	UserID      int `json:"user_id" db:"user_id"`
	RegionCount int `json:"region_count" db:"region_count"`
}
