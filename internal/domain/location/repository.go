package location

import "context"

// Repository は会場リポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, id string) (*Location, error)

	// GetByName は名前から会場を取得する（外部フィード取込時の重複判定に使う）
	GetByName(ctx context.Context, name string) (*Location, error)

	List(ctx context.Context, limit, offset int) ([]*Location, error)
	Count(ctx context.Context) (int, error)
}
