package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
	redisinfra "github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/redis"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/logger"
)

// 空きテーブル数キャッシュのTTL
const spotsCacheTTL = 30 * time.Second

// EventService はイベント在庫の管理（CRUD）を担う
// AvailableSpotsの増減は行わない（それはReservationServiceの責務）
type EventService struct {
	eventRepo       event.Repository
	reservationRepo reservation.Repository
	spotsCache      *redisinfra.SpotsCache
}

// NewEventService はEventServiceを作成する
// spotsCacheはnil可（キャッシュなしでは毎回DBを読む）
func NewEventService(er event.Repository, rr reservation.Repository, sc *redisinfra.SpotsCache) *EventService {
	return &EventService{eventRepo: er, reservationRepo: rr, spotsCache: sc}
}

// CreateEventInput はイベント作成の入力
type CreateEventInput struct {
	Title          string
	StartAt        time.Time
	PricePerPerson int
	AvailableSpots int
	PosterImageURL string
	LocationID     string
	MainActID      *string
	DJID           *string
}

// CreateEvent は新しいイベントを作成する
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Title, input.StartAt, input.PricePerPerson, input.AvailableSpots, input.LocationID)
	e.PosterImageURL = input.PosterImageURL
	e.MainActID = input.MainActID
	e.DJID = input.DJID
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

// GetEvent はイベントを取得する
func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// GetAvailableSpots はイベントの空きテーブル数を返す
// キャッシュを先に読み、ミス時はDBから取得してキャッシュに書き戻す
// （カウンタ変更時はReservationServiceが無効化するため、ヒットした値は最新）
func (s *EventService) GetAvailableSpots(ctx context.Context, eventID string) (int, error) {
	// キャッシュから取得を試みる
	if s.spotsCache != nil {
		spots, err := s.spotsCache.GetAvailableSpots(ctx, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("event_id", eventID), zap.Int("spots", spots))
			return spots, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	// DBから取得
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	// キャッシュに保存
	if s.spotsCache != nil {
		if cacheErr := s.spotsCache.SetAvailableSpots(ctx, eventID, e.AvailableSpots, spotsCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return e.AvailableSpots, nil
}

// ListEvents はイベント一覧を開始時刻順に取得する
func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.List(ctx, limit, offset)
}

// ListUpcomingEvents は開始前のイベント一覧を取得する
func (s *EventService) ListUpcomingEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.ListUpcoming(ctx, limit, offset)
}

// UpdateEventInput はイベント更新の入力
// AvailableSpotsは含まない（作成後のカウンタ変更は予約ライフサイクル専用）
type UpdateEventInput struct {
	ID             string
	Title          string
	StartAt        time.Time
	PricePerPerson int
	PosterImageURL string
	LocationID     string
	MainActID      *string
	DJID           *string
}

// UpdateEvent はイベントの属性を更新する
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	e.Title = input.Title
	e.StartAt = input.StartAt
	e.PricePerPerson = input.PricePerPerson
	e.PosterImageURL = input.PosterImageURL
	e.LocationID = input.LocationID
	e.MainActID = input.MainActID
	e.DJID = input.DJID
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEvent はイベントを削除する
// 予約が1件でも紐づいている場合は削除を拒否する
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	count, err := s.reservationRepo.CountByEventID(ctx, id)
	if err != nil {
		return fmt.Errorf("予約件数の確認に失敗しました: %w", err)
	}
	if count > 0 {
		return event.ErrEventHasReservations
	}
	return s.eventRepo.Delete(ctx, id)
}
