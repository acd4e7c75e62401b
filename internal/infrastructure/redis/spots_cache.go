package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// SpotsCache はイベントの空きテーブル数キャッシュを管理する
// カウンタの正は常にDBで、キャッシュは一覧表示の読み取り負荷を下げるためだけに使う
type SpotsCache struct {
	client *redis.Client
}

// NewSpotsCache はSpotsCacheを作成する
func NewSpotsCache(client *redis.Client) *SpotsCache {
	return &SpotsCache{client: client}
}

// GetAvailableSpots はイベントの空きテーブル数をキャッシュから取得する
func (c *SpotsCache) GetAvailableSpots(ctx context.Context, eventID string) (int, error) {
	key := c.spotsKey(eventID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableSpots はイベントの空きテーブル数をキャッシュに保存する
func (c *SpotsCache) SetAvailableSpots(ctx context.Context, eventID string, spots int, ttl time.Duration) error {
	key := c.spotsKey(eventID)
	if err := c.client.Set(ctx, key, spots, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
// 予約ライフサイクルがカウンタを動かすたびに呼ばれる
func (c *SpotsCache) Invalidate(ctx context.Context, eventID string) error {
	key := c.spotsKey(eventID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *SpotsCache) spotsKey(eventID string) string {
	return fmt.Sprintf("spots:available:%s", eventID)
}
