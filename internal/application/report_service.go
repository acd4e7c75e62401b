package application

import (
	"context"
	"fmt"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/location"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/performer"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
)

// ReportService は集計系の読み取り専用ビューを提供する
// 業務ルールは持たず、ストアの内容を射影するだけ
type ReportService struct {
	reservationRepo reservation.Repository
	eventRepo       event.Repository
	locationRepo    location.Repository
	performerRepo   performer.Repository
}

// NewReportService はReportServiceを作成する
func NewReportService(
	rr reservation.Repository,
	er event.Repository,
	lr location.Repository,
	pr performer.Repository,
) *ReportService {
	return &ReportService{
		reservationRepo: rr,
		eventRepo:       er,
		locationRepo:    lr,
		performerRepo:   pr,
	}
}

// DashboardSummary は管理ダッシュボードの集計値
type DashboardSummary struct {
	TotalEvents          int
	TotalLocations       int
	TotalPerformers      int
	TotalReservations    int
	PendingReservations  int
	ApprovedReservations int
	ApprovedRevenue      int
}

// Dashboard は管理ダッシュボード用の集計を返す
// 売上は承認済み予約の（1人あたり料金 × 人数）の総和
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("イベント数の取得に失敗: %w", err)
	}
	locations, err := s.locationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("会場数の取得に失敗: %w", err)
	}
	performers, err := s.performerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("出演者数の取得に失敗: %w", err)
	}
	byStatus, err := s.reservationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約件数の取得に失敗: %w", err)
	}
	revenue, err := s.reservationRepo.SumApprovedRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("売上の取得に失敗: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &DashboardSummary{
		TotalEvents:          events,
		TotalLocations:       locations,
		TotalPerformers:      performers,
		TotalReservations:    total,
		PendingReservations:  byStatus[reservation.StatusPending],
		ApprovedReservations: byStatus[reservation.StatusApproved],
		ApprovedRevenue:      revenue,
	}, nil
}

// ApprovedPeopleByEvent はイベントごとの承認済み予約の合計人数を返す
// イベント一覧画面での来場予定人数の表示に使う
func (s *ReportService) ApprovedPeopleByEvent(ctx context.Context) (map[string]int, error) {
	return s.reservationRepo.SumApprovedPeopleByEvent(ctx)
}
