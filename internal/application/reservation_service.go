package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/transaction"
	redisinfra "github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/redis"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/metrics"
)

// イベントごとの分散ロックの設定
const (
	eventLockTTL        = 10 * time.Second
	eventLockMaxRetries = 3
	eventLockRetryDelay = 100 * time.Millisecond
)

// ReservationService は予約ライフサイクル（作成・キャンセル・承認・拒否）を司る
// AvailableSpotsカウンタの増減は必ずこのサービスを経由する
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	eventRepo       event.Repository
	lockManager     *redisinfra.LockManager
	spotsCache      *redisinfra.SpotsCache
}

// NewReservationService はReservationServiceを作成する
// lockManagerとspotsCacheはnil可（単一プロセス構成では行ロックのみで直列化される）
func NewReservationService(
	tm transaction.Manager,
	rr reservation.Repository,
	er event.Repository,
	lm *redisinfra.LockManager,
	sc *redisinfra.SpotsCache,
) *ReservationService {
	return &ReservationService{
		txManager:       tm,
		reservationRepo: rr,
		eventRepo:       er,
		lockManager:     lm,
		spotsCache:      sc,
	}
}

// CreateReservationInput は予約作成の入力
type CreateReservationInput struct {
	EventID         string
	UserID          string
	ReservationName string
	PartySize       int
	PhoneNumber     string
}

// CreateReservation は新しい予約を作成する
// 空きテーブルの確認とカウンタ減算は、イベント行ロックの下で
// 1トランザクションとして行われる（同時予約による売り過ぎ防止）
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	res := reservation.NewReservation(input.EventID, input.UserID, input.ReservationName, input.PartySize, input.PhoneNumber)
	if err := res.Validate(); err != nil {
		s.recordOutcome("invalid_input")
		return nil, err
	}

	release, err := s.acquireEventLock(ctx, input.EventID)
	if err != nil {
		s.recordOutcome("lock_failed")
		return nil, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, input.EventID)
	if err != nil {
		s.recordOutcome("event_not_found")
		return nil, err
	}
	if !ev.HasAvailableSpots() {
		s.recordOutcome("capacity_exceeded")
		return nil, event.ErrNoSpotsAvailable
	}

	if err := ev.ApplySpotDelta(reservation.SpotDelta(reservation.StatusNone, res.Status)); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.eventRepo.UpdateSpots(ctx, tx, ev); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.afterSpotsChanged(ctx, ev)
	s.recordOutcome("created")
	return res, nil
}

// CancelReservation は本人による予約キャンセルを行う
// イベント開始まで24時間を切っている場合は(false, nil)を返す
// （エラーではなく業務上の拒否として扱う）
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID, userID string) (bool, error) {
	// 所有者確認のための事前読み取り（イベントIDもここで判明する）
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	// 所有者以外には予約の存在自体を隠す
	if res.UserID != userID {
		return false, reservation.ErrReservationNotFound
	}

	release, err := s.acquireEventLock(ctx, res.EventID)
	if err != nil {
		s.recordOutcome("lock_failed")
		return false, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// ロック下で読み直す（事前読み取りは別操作と競合しうる）
	res, err = s.reservationRepo.GetByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return false, err
	}
	ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, res.EventID)
	if err != nil {
		return false, err
	}

	if res.IsFinal() {
		return false, reservation.ErrAlreadyFinal
	}
	if !reservation.CanCancelAt(ev.StartAt, time.Now()) {
		s.recordOutcome("cancel_refused")
		return false, nil
	}

	prev := res.Status
	if err := res.Cancel(); err != nil {
		return false, err
	}
	if err := ev.ApplySpotDelta(reservation.SpotDelta(prev, res.Status)); err != nil {
		return false, err
	}
	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return false, err
	}
	if err := s.eventRepo.UpdateSpots(ctx, tx, ev); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.afterSpotsChanged(ctx, ev)
	s.recordOutcome("cancelled")
	return true, nil
}

// Approve は予約を承認する（管理者操作）
// 拒否済みからの再承認はテーブルを再確保する（カウンタ-1）
func (s *ReservationService) Approve(ctx context.Context, reservationID string) (*reservation.Reservation, error) {
	res, err := s.transition(ctx, reservationID, func(r *reservation.Reservation) {
		r.Approve()
	})
	if err != nil {
		return nil, err
	}
	s.recordOutcome("approved")
	return res, nil
}

// Reject は予約を拒否する（管理者操作）
// pending・approvedからの拒否はテーブルを解放する（カウンタ+1）
func (s *ReservationService) Reject(ctx context.Context, reservationID string) (*reservation.Reservation, error) {
	res, err := s.transition(ctx, reservationID, func(r *reservation.Reservation) {
		r.Reject()
	})
	if err != nil {
		return nil, err
	}
	s.recordOutcome("rejected")
	return res, nil
}

// transition は状態遷移と、それに対応するカウンタ増減を1トランザクションで適用する
// 増減量は遷移前の状態から決まる（reservation.SpotDelta）
func (s *ReservationService) transition(ctx context.Context, reservationID string, apply func(*reservation.Reservation)) (*reservation.Reservation, error) {
	pre, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireEventLock(ctx, pre.EventID)
	if err != nil {
		s.recordOutcome("lock_failed")
		return nil, err
	}
	defer release()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, res.EventID)
	if err != nil {
		return nil, err
	}

	prev := res.Status
	apply(res)
	delta := reservation.SpotDelta(prev, res.Status)
	if delta != 0 {
		if err := ev.ApplySpotDelta(delta); err != nil {
			return nil, err
		}
		if err := s.eventRepo.UpdateSpots(ctx, tx, ev); err != nil {
			return nil, err
		}
	}
	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	if delta != 0 {
		s.afterSpotsChanged(ctx, ev)
	}
	return res, nil
}

// GetReservation は予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// GetUserReservations はユーザーの予約一覧を新しい順に取得する
func (s *ReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	limit, offset = normalizePage(limit, offset)
	return s.reservationRepo.GetByUserID(ctx, userID, limit, offset)
}

// ListReservations は全予約を新しい順に取得する（管理者向け、eventIDで絞り込み可）
func (s *ReservationService) ListReservations(ctx context.Context, eventID string, limit, offset int) ([]*reservation.Reservation, error) {
	limit, offset = normalizePage(limit, offset)
	return s.reservationRepo.List(ctx, eventID, limit, offset)
}

// acquireEventLock はイベント単位の分散ロックを取得する
// カウンタの読み取り・判定・書き込みをイベントIDごとに直列化する
func (s *ReservationService) acquireEventLock(ctx context.Context, eventID string) (func(), error) {
	if s.lockManager == nil {
		return func() {}, nil
	}
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, "event:"+eventID, eventLockTTL, eventLockMaxRetries, eventLockRetryDelay)
	s.recordLock("acquire", err, time.Since(start))
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, fmt.Errorf("このイベントの予約は他の操作で処理中です: %w", err)
		}
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	return func() {
		start := time.Now()
		err := lock.Release(ctx)
		s.recordLock("release", err, time.Since(start))
	}, nil
}

// afterSpotsChanged はカウンタ変更後のキャッシュ無効化とメトリクス更新を行う
func (s *ReservationService) afterSpotsChanged(ctx context.Context, ev *event.Event) {
	if s.spotsCache != nil {
		// 失敗してもTTLで回復するため呼び出し元には伝播させない
		_ = s.spotsCache.Invalidate(ctx, ev.ID)
	}
	if m := metrics.Get(); m != nil {
		m.AvailableSpots.WithLabelValues(ev.ID).Set(float64(ev.AvailableSpots))
	}
}

func (s *ReservationService) recordOutcome(outcome string) {
	if m := metrics.Get(); m != nil {
		m.ReservationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *ReservationService) recordLock(operation string, err error, d time.Duration) {
	if m := metrics.Get(); m != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		m.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
