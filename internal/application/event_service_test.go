package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
)

func newEventServiceDeps() (*MockEventRepository, *MockReservationRepository, *EventService) {
	eventRepo := new(MockEventRepository)
	resRepo := new(MockReservationRepository)
	return eventRepo, resRepo, NewEventService(eventRepo, resRepo, nil)
}

func TestEventService_CreateEvent(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	eventRepo.On("Create", ctx, mock.AnythingOfType("*event.Event")).Return(nil)

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		Title:          "Neon Nights",
		StartAt:        time.Now().Add(72 * time.Hour),
		PricePerPerson: 2500,
		AvailableSpots: 20,
		LocationID:     "loc-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Neon Nights", result.Title)
	assert.Equal(t, 20, result.AvailableSpots)
	eventRepo.AssertExpectations(t)
}

func TestEventService_CreateEvent_ValidationError(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	result, err := svc.CreateEvent(ctx, CreateEventInput{
		Title:          "",
		StartAt:        time.Now().Add(72 * time.Hour),
		PricePerPerson: 2500,
		AvailableSpots: 20,
		LocationID:     "loc-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, event.ErrTitleRequired)
	eventRepo.AssertNotCalled(t, "Create")
}

func TestEventService_GetAvailableSpots_NoCache(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, "event-1").Return(&event.Event{
		ID:             "event-1",
		Title:          "Neon Nights",
		AvailableSpots: 7,
	}, nil)

	// キャッシュなしではDBの値をそのまま返す
	spots, err := svc.GetAvailableSpots(ctx, "event-1")

	require.NoError(t, err)
	assert.Equal(t, 7, spots)
	eventRepo.AssertExpectations(t)
}

func TestEventService_GetAvailableSpots_EventNotFound(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, "missing").Return(nil, event.ErrEventNotFound)

	spots, err := svc.GetAvailableSpots(ctx, "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	assert.Equal(t, 0, spots)
}

func TestEventService_UpdateEvent(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	existing := &event.Event{
		ID:             "event-1",
		Title:          "旧タイトル",
		StartAt:        time.Now().Add(24 * time.Hour),
		PricePerPerson: 2000,
		AvailableSpots: 7,
		LocationID:     "loc-1",
		Version:        3,
	}
	eventRepo.On("GetByID", ctx, "event-1").Return(existing, nil)
	eventRepo.On("Update", ctx, existing).Return(nil)

	newStart := time.Now().Add(96 * time.Hour)
	result, err := svc.UpdateEvent(ctx, UpdateEventInput{
		ID:             "event-1",
		Title:          "Midnight Madness",
		StartAt:        newStart,
		PricePerPerson: 3000,
		LocationID:     "loc-2",
	})

	require.NoError(t, err)
	assert.Equal(t, "Midnight Madness", result.Title)
	assert.Equal(t, 3000, result.PricePerPerson)
	// 更新ではテーブルカウンタを触らない
	assert.Equal(t, 7, result.AvailableSpots)
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, "nonexistent").Return(nil, event.ErrEventNotFound)

	result, err := svc.UpdateEvent(ctx, UpdateEventInput{ID: "nonexistent", Title: "x", LocationID: "loc-1"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestEventService_DeleteEvent(t *testing.T) {
	tests := []struct {
		name             string
		reservationCount int
		wantErr          error
	}{
		{"予約なしなら削除できる", 0, nil},
		{"予約があれば削除を拒否", 3, event.ErrEventHasReservations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo, resRepo, svc := newEventServiceDeps()
			ctx := context.Background()

			resRepo.On("CountByEventID", ctx, "event-1").Return(tt.reservationCount, nil)
			if tt.wantErr == nil {
				eventRepo.On("Delete", ctx, "event-1").Return(nil)
			}

			err := svc.DeleteEvent(ctx, "event-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				eventRepo.AssertNotCalled(t, "Delete")
			} else {
				require.NoError(t, err)
				eventRepo.AssertExpectations(t)
			}
		})
	}
}

func TestEventService_DeleteEvent_CountError(t *testing.T) {
	_, resRepo, svc := newEventServiceDeps()
	ctx := context.Background()

	resRepo.On("CountByEventID", ctx, "event-1").Return(0, errors.New("db error"))

	err := svc.DeleteEvent(ctx, "event-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "予約件数の確認に失敗")
}

func TestEventService_ListEvents(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	expected := []*event.Event{{ID: "event-1"}, {ID: "event-2"}}
	eventRepo.On("List", ctx, 20, 0).Return(expected, nil)

	result, err := svc.ListEvents(ctx, 0, 0)

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestEventService_ListUpcomingEvents(t *testing.T) {
	eventRepo, _, svc := newEventServiceDeps()
	ctx := context.Background()

	expected := []*event.Event{{ID: "event-1"}}
	eventRepo.On("ListUpcoming", ctx, 10, 5).Return(expected, nil)

	result, err := svc.ListUpcomingEvents(ctx, 10, 5)

	require.NoError(t, err)
	assert.Len(t, result, 1)
}
