package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/transaction"
)

const eventColumns = `id, title, start_at, price_per_person, available_spots, poster_image_url, external_event_code, imported_from_api, location_id, main_act_id, dj_id, created_at, updated_at, version`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID                string    `db:"id"`
	Title             string    `db:"title"`
	StartAt           time.Time `db:"start_at"`
	PricePerPerson    int       `db:"price_per_person"`
	AvailableSpots    int       `db:"available_spots"`
	PosterImageURL    *string   `db:"poster_image_url"`
	ExternalEventCode *string   `db:"external_event_code"`
	ImportedFromAPI   bool      `db:"imported_from_api"`
	LocationID        string    `db:"location_id"`
	MainActID         *string   `db:"main_act_id"`
	DJID              *string   `db:"dj_id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
	Version           int       `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var poster, code string
	if r.PosterImageURL != nil {
		poster = *r.PosterImageURL
	}
	if r.ExternalEventCode != nil {
		code = *r.ExternalEventCode
	}
	return &event.Event{
		ID:                r.ID,
		Title:             r.Title,
		StartAt:           r.StartAt,
		PricePerPerson:    r.PricePerPerson,
		AvailableSpots:    r.AvailableSpots,
		PosterImageURL:    poster,
		ExternalEventCode: code,
		ImportedFromAPI:   r.ImportedFromAPI,
		LocationID:        r.LocationID,
		MainActID:         r.MainActID,
		DJID:              r.DJID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, start_at, price_per_person, available_spots, poster_image_url, external_event_code, imported_from_api, location_id, main_act_id, dj_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var poster, code *string
	if e.PosterImageURL != "" {
		poster = &e.PosterImageURL
	}
	if e.ExternalEventCode != "" {
		code = &e.ExternalEventCode
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.StartAt, e.PricePerPerson, e.AvailableSpots, poster, code,
		e.ImportedFromAPI, e.LocationID, e.MainActID, e.DJID, e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は行ロック付きでイベントを取得する
// AvailableSpotsの読み取り・判定・更新をイベント単位で直列化する
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("不正なトランザクション型です")
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var row eventRow
	err := sqlxTx.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByExternalCode は外部フィードのイベントコードからイベントを取得する
func (r *EventRepository) GetByExternalCode(ctx context.Context, code string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE external_event_code = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を開始時刻順に取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_at LIMIT $1 OFFSET $2`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return toEntities(rows), nil
}

// ListUpcoming は開始前のイベント一覧を開始時刻順に取得する
func (r *EventRepository) ListUpcoming(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE start_at >= NOW() ORDER BY start_at LIMIT $1 OFFSET $2`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return toEntities(rows), nil
}

// Update はイベントの属性を更新する（楽観的ロック）
// available_spotsはこのクエリでは触らない
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, start_at = $2, price_per_person = $3, poster_image_url = $4,
		    location_id = $5, main_act_id = $6, dj_id = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
	`

	var poster *string
	if e.PosterImageURL != "" {
		poster = &e.PosterImageURL
	}

	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.StartAt, e.PricePerPerson, poster,
		e.LocationID, e.MainActID, e.DJID, time.Now(), e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	return nil
}

// UpdateSpots はAvailableSpotsを更新する
// 呼び出し元がGetByIDForUpdateで行ロックを取っていることが前提
func (r *EventRepository) UpdateSpots(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	query := `UPDATE events SET available_spots = $1, updated_at = $2, version = version + 1 WHERE id = $3`

	result, err := sqlxTx.ExecContext(ctx, query, e.AvailableSpots, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("テーブル数更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}

	e.Version++
	return nil
}

// Delete はイベントを削除する
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// Count はイベントの総数を返す
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("イベント数取得に失敗しました: %w", err)
	}
	return count, nil
}

func toEntities(rows []eventRow) []*event.Event {
	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
