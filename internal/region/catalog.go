package region

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"farmstay-go/pkg/model"
)

// ErrRegionNotFound is returned when a region code is not in the catalog
var ErrRegionNotFound = errors.New("region not found")

// Catalog is read access to the prefecture reference table
type Catalog struct {
	db *sqlx.DB
}

// NewCatalog creates a new region catalog
func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// ResolveCode maps a farm's prefecture name to its catalog code.
// Both the native name and the romanized name are accepted.
func (c *Catalog) ResolveCode(ctx context.Context, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}

	var code string
	err := c.db.GetContext(ctx, &code, c.db.Rebind(`
        SELECT code FROM regions
        WHERE name = ? OR LOWER(name_romaji) = LOWER(?)
        ORDER BY display_order
        LIMIT 1`), name, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error resolving region %q: %w", name, err)
	}
	return code, true, nil
}

// ListActive returns active regions in display order
func (c *Catalog) ListActive(ctx context.Context) ([]model.Region, error) {
	regions := []model.Region{}
	err := c.db.SelectContext(ctx, &regions, c.db.Rebind(`
        SELECT code, name, name_romaji, area, image_url, display_order, is_active, created_at, updated_at
        FROM regions
        WHERE is_active = ?
        ORDER BY display_order, code`), true)
	if err != nil {
		return nil, fmt.Errorf("error listing regions: %w", err)
	}
	return regions, nil
}

// Get fetches a single region by code
func (c *Catalog) Get(ctx context.Context, code string) (*model.Region, error) {
	var r model.Region
	err := c.db.GetContext(ctx, &r, c.db.Rebind(`
        SELECT code, name, name_romaji, area, image_url, display_order, is_active, created_at, updated_at
        FROM regions
        WHERE code = ?`), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegionNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Seed upserts the prefecture catalog keyed by code and returns the number of rows written
func (c *Catalog) Seed(ctx context.Context) (int, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := tx.Rebind(`
        INSERT INTO regions (code, name, name_romaji, area, image_url, display_order, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
        ON CONFLICT (code) DO UPDATE SET
            name = excluded.name,
            name_romaji = excluded.name_romaji,
            area = excluded.area,
            image_url = excluded.image_url,
            display_order = excluded.display_order,
            updated_at = CURRENT_TIMESTAMP`)

	for _, p := range Prefectures {
		if _, err := tx.ExecContext(ctx, query,
			p.Code, p.Name, p.NameRomaji, p.Area, ImageURL(p), p.DisplayOrder, true); err != nil {
			return 0, fmt.Errorf("error seeding region %s: %w", p.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(Prefectures), nil
}
