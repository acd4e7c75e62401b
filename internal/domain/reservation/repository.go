package reservation

import (
	"context"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByIDForUpdate は予約の行ロックを取って取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// GetByUserID はユーザーの予約一覧を新しい順に取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// List は予約一覧を新しい順に取得する（eventIDが空なら全件）
	List(ctx context.Context, eventID string, limit, offset int) ([]*Reservation, error)

	// Update は予約の状態を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// CountByEventID はイベントに紐づく予約件数を返す（状態を問わない）
	CountByEventID(ctx context.Context, eventID string) (int, error)

	// CountByStatus は状態ごとの予約件数を返す
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// SumApprovedRevenue は承認済み予約の売上合計を返す
	// （イベントの1人あたり料金 × 予約人数の総和）
	SumApprovedRevenue(ctx context.Context) (int, error)

	// SumApprovedPeopleByEvent はイベントごとの承認済み予約の合計人数を返す
	SumApprovedPeopleByEvent(ctx context.Context) (map[string]int, error)
}
