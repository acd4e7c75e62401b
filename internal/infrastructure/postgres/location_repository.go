package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/location"
)

const locationColumns = `id, name, city, address, phone_number, image_url, type, capacity, imported_from_api, created_at, updated_at`

type locationRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	City            *string   `db:"city"`
	Address         *string   `db:"address"`
	PhoneNumber     *string   `db:"phone_number"`
	ImageURL        *string   `db:"image_url"`
	Type            *string   `db:"type"`
	Capacity        *int      `db:"capacity"`
	ImportedFromAPI bool      `db:"imported_from_api"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *locationRow) toEntity() *location.Location {
	l := &location.Location{
		ID:              r.ID,
		Name:            r.Name,
		ImportedFromAPI: r.ImportedFromAPI,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.City != nil {
		l.City = *r.City
	}
	if r.Address != nil {
		l.Address = *r.Address
	}
	if r.PhoneNumber != nil {
		l.PhoneNumber = *r.PhoneNumber
	}
	if r.ImageURL != nil {
		l.ImageURL = *r.ImageURL
	}
	if r.Type != nil {
		l.Type = *r.Type
	}
	if r.Capacity != nil {
		l.Capacity = *r.Capacity
	}
	return l
}

// LocationRepository は会場リポジトリのPostgreSQL実装
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository はLocationRepositoryを作成する
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create は新しい会場を作成する
func (r *LocationRepository) Create(ctx context.Context, l *location.Location) error {
	query := `
		INSERT INTO locations (name, city, address, phone_number, image_url, type, capacity, imported_from_api, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		l.Name, nullable(l.City), nullable(l.Address), nullable(l.PhoneNumber),
		nullable(l.ImageURL), nullable(l.Type), nullableInt(l.Capacity),
		l.ImportedFromAPI, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから会場を取得する
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*location.Location, error) {
	var row locationRow
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, location.ErrLocationNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByName は名前から会場を取得する
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*location.Location, error) {
	var row locationRow
	query := `SELECT ` + locationColumns + ` FROM locations WHERE name = $1`
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, location.ErrLocationNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は会場一覧を名前順に取得する
func (r *LocationRepository) List(ctx context.Context, limit, offset int) ([]*location.Location, error) {
	var rows []locationRow
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("会場一覧取得に失敗しました: %w", err)
	}
	locations := make([]*location.Location, len(rows))
	for i, row := range rows {
		locations[i] = row.toEntity()
	}
	return locations, nil
}

// Count は会場の総数を返す
func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM locations`); err != nil {
		return 0, fmt.Errorf("会場数取得に失敗しました: %w", err)
	}
	return count, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

var _ location.Repository = (*LocationRepository)(nil)
