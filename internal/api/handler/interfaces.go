package handler

import (
	"context"

	"github.com/Engjell02/NightOut-Event-Management/internal/application"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
)

// ReservationServiceInterface は予約ライフサイクルサービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, userID string) (bool, error)
	Approve(ctx context.Context, reservationID string) (*reservation.Reservation, error)
	Reject(ctx context.Context, reservationID string) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	ListReservations(ctx context.Context, eventID string, limit, offset int) ([]*reservation.Reservation, error)
}

// EventServiceInterface はイベント在庫サービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	GetAvailableSpots(ctx context.Context, eventID string) (int, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	ListUpcomingEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// ReportServiceInterface は集計サービスのインターフェース
type ReportServiceInterface interface {
	Dashboard(ctx context.Context) (*application.DashboardSummary, error)
	ApprovedPeopleByEvent(ctx context.Context) (map[string]int, error)
}

// ImportServiceInterface は外部フィード取込サービスのインターフェース
type ImportServiceInterface interface {
	ImportEvents(ctx context.Context) (int, error)
}
