package performer

import "context"

// Repository は出演者リポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, p *Performer) error
	GetByID(ctx context.Context, id string) (*Performer, error)

	// GetByStageName はステージ名から出演者を取得する（外部フィード取込時の重複判定に使う）
	GetByStageName(ctx context.Context, stageName string) (*Performer, error)

	List(ctx context.Context, limit, offset int) ([]*Performer, error)
	Count(ctx context.Context) (int, error)
}
