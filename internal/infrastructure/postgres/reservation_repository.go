package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/transaction"
)

const reservationColumns = `id, event_id, user_id, reservation_name, party_size, phone_number, status, created_at, updated_at`

type reservationRow struct {
	ID              string    `db:"id"`
	EventID         string    `db:"event_id"`
	UserID          string    `db:"user_id"`
	ReservationName string    `db:"reservation_name"`
	PartySize       int       `db:"party_size"`
	PhoneNumber     string    `db:"phone_number"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID:              r.ID,
		EventID:         r.EventID,
		UserID:          r.UserID,
		ReservationName: r.ReservationName,
		PartySize:       r.PartySize,
		PhoneNumber:     r.PhoneNumber,
		Status:          reservation.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ReservationRepository は予約リポジトリのPostgreSQL実装
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository はReservationRepositoryを作成する
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は新しい予約を作成する
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	query := `
		INSERT INTO reservations (event_id, user_id, reservation_name, party_size, phone_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := sqlxTx.QueryRowContext(ctx, query,
		res.EventID, res.UserID, res.ReservationName, res.PartySize, res.PhoneNumber,
		string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("予約作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから予約を取得する
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は行ロック付きで予約を取得する
func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("不正なトランザクション型です")
	}

	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByUserID はユーザーの予約一覧を新しい順に取得する
func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗しました: %w", err)
	}
	return toReservationEntities(rows), nil
}

// List は予約一覧を新しい順に取得する（eventIDが空なら全件）
func (r *ReservationRepository) List(ctx context.Context, eventID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	var err error
	if eventID == "" {
		query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		err = r.db.SelectContext(ctx, &rows, query, limit, offset)
	} else {
		query := `SELECT ` + reservationColumns + ` FROM reservations WHERE event_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &rows, query, eventID, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗しました: %w", err)
	}
	return toReservationEntities(rows), nil
}

// Update は予約の状態を更新する
func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := sqlxTx.ExecContext(ctx, query, string(res.Status), res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// CountByEventID はイベントに紐づく予約件数を返す
func (r *ReservationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE event_id = $1`, eventID); err != nil {
		return 0, fmt.Errorf("予約件数取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByStatus は状態ごとの予約件数を返す
func (r *ReservationRepository) CountByStatus(ctx context.Context) (map[reservation.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM reservations GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("予約件数取得に失敗しました: %w", err)
	}
	counts := make(map[reservation.Status]int, len(rows))
	for _, row := range rows {
		counts[reservation.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// SumApprovedRevenue は承認済み予約の売上合計を返す
// （イベントの1人あたり料金 × 予約人数の総和）
func (r *ReservationRepository) SumApprovedRevenue(ctx context.Context) (int, error) {
	var total int
	query := `
		SELECT COALESCE(SUM(e.price_per_person * r.party_size), 0)
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE r.status = 'approved'
	`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("売上集計に失敗しました: %w", err)
	}
	return total, nil
}

// SumApprovedPeopleByEvent はイベントごとの承認済み予約の合計人数を返す
func (r *ReservationRepository) SumApprovedPeopleByEvent(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		EventID string `db:"event_id"`
		People  int    `db:"people"`
	}
	query := `
		SELECT event_id, SUM(party_size) AS people
		FROM reservations
		WHERE status = 'approved'
		GROUP BY event_id
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("人数集計に失敗しました: %w", err)
	}
	people := make(map[string]int, len(rows))
	for _, row := range rows {
		people[row.EventID] = row.People
	}
	return people, nil
}

func toReservationEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)
