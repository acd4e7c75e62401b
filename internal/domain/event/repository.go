package event

import (
	"context"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, e *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate は行ロック付きでイベントを取得する（トランザクション必須）
	// AvailableSpotsを変更する操作は必ずこちらを使う
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// GetByExternalCode は外部フィードのイベントコードからイベントを取得する
	GetByExternalCode(ctx context.Context, code string) (*Event, error)

	// List はイベント一覧を開始時刻順に取得する
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// ListUpcoming は開始前のイベント一覧を開始時刻順に取得する
	ListUpcoming(ctx context.Context, limit, offset int) ([]*Event, error)

	// Update はイベントの属性を更新する（楽観的ロック）
	// AvailableSpotsはこのメソッドでは変更されない
	Update(ctx context.Context, e *Event) error

	// UpdateSpots はAvailableSpotsを更新する（トランザクション必須）
	UpdateSpots(ctx context.Context, tx transaction.Tx, e *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id string) error

	// Count はイベントの総数を返す
	Count(ctx context.Context) (int, error)
}
