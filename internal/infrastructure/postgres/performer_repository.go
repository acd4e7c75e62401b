package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/performer"
)

const performerColumns = `id, stage_name, type, image_url, imported_from_api, created_at, updated_at`

type performerRow struct {
	ID              string    `db:"id"`
	StageName       string    `db:"stage_name"`
	Type            *string   `db:"type"`
	ImageURL        *string   `db:"image_url"`
	ImportedFromAPI bool      `db:"imported_from_api"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *performerRow) toEntity() *performer.Performer {
	p := &performer.Performer{
		ID:              r.ID,
		StageName:       r.StageName,
		ImportedFromAPI: r.ImportedFromAPI,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Type != nil {
		p.Type = *r.Type
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	return p
}

// PerformerRepository は出演者リポジトリのPostgreSQL実装
type PerformerRepository struct {
	db *sqlx.DB
}

// NewPerformerRepository はPerformerRepositoryを作成する
func NewPerformerRepository(db *sqlx.DB) *PerformerRepository {
	return &PerformerRepository{db: db}
}

// Create は新しい出演者を作成する
func (r *PerformerRepository) Create(ctx context.Context, p *performer.Performer) error {
	query := `
		INSERT INTO performers (stage_name, type, image_url, imported_from_api, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		p.StageName, nullable(p.Type), nullable(p.ImageURL), p.ImportedFromAPI, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("出演者作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから出演者を取得する
func (r *PerformerRepository) GetByID(ctx context.Context, id string) (*performer.Performer, error) {
	var row performerRow
	query := `SELECT ` + performerColumns + ` FROM performers WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, performer.ErrPerformerNotFound
		}
		return nil, fmt.Errorf("出演者取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByStageName はステージ名から出演者を取得する
func (r *PerformerRepository) GetByStageName(ctx context.Context, stageName string) (*performer.Performer, error) {
	var row performerRow
	query := `SELECT ` + performerColumns + ` FROM performers WHERE stage_name = $1`
	if err := r.db.GetContext(ctx, &row, query, stageName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, performer.ErrPerformerNotFound
		}
		return nil, fmt.Errorf("出演者取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は出演者一覧をステージ名順に取得する
func (r *PerformerRepository) List(ctx context.Context, limit, offset int) ([]*performer.Performer, error) {
	var rows []performerRow
	query := `SELECT ` + performerColumns + ` FROM performers ORDER BY stage_name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("出演者一覧取得に失敗しました: %w", err)
	}
	performers := make([]*performer.Performer, len(rows))
	for i, row := range rows {
		performers[i] = row.toEntity()
	}
	return performers, nil
}

// Count は出演者の総数を返す
func (r *PerformerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM performers`); err != nil {
		return 0, fmt.Errorf("出演者数取得に失敗しました: %w", err)
	}
	return count, nil
}

var _ performer.Repository = (*PerformerRepository)(nil)
