package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Engjell02/NightOut-Event-Management/internal/application"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
)

// EventHandler はイベント在庫のHTTPハンドラー
type EventHandler struct {
	eventService EventServiceInterface
}

// NewEventHandler はEventHandlerを作成する
func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title          string  `json:"title" validate:"required" example:"Neon Nights"`
	StartAt        string  `json:"start_at" validate:"required" example:"2026-09-12T22:00:00+02:00"`
	PricePerPerson int     `json:"price_per_person" validate:"gte=0" example:"25"`
	AvailableSpots int     `json:"available_spots" validate:"required,gte=0" example:"20"`
	PosterImageURL string  `json:"poster_image_url" example:"https://example.com/poster.jpg"`
	LocationID     string  `json:"location_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	MainActID      *string `json:"main_act_id"`
	DJID           *string `json:"dj_id"`
}

type UpdateEventRequest struct {
	Title          string  `json:"title" validate:"required"`
	StartAt        string  `json:"start_at" validate:"required"`
	PricePerPerson int     `json:"price_per_person" validate:"gte=0"`
	PosterImageURL string  `json:"poster_image_url"`
	LocationID     string  `json:"location_id" validate:"required"`
	MainActID      *string `json:"main_act_id"`
	DJID           *string `json:"dj_id"`
}

type EventResponse struct {
	ID                string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title             string  `json:"title" example:"Neon Nights"`
	StartAt           string  `json:"start_at" example:"2026-09-12T22:00:00+02:00"`
	PricePerPerson    int     `json:"price_per_person" example:"25"`
	AvailableSpots    int     `json:"available_spots" example:"20"`
	PosterImageURL    string  `json:"poster_image_url,omitempty"`
	ExternalEventCode string  `json:"external_event_code,omitempty"`
	ImportedFromAPI   bool    `json:"imported_from_api"`
	LocationID        string  `json:"location_id"`
	MainActID         *string `json:"main_act_id,omitempty"`
	DJID              *string `json:"dj_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		StartAt:           e.StartAt.Format(time.RFC3339),
		PricePerPerson:    e.PricePerPerson,
		AvailableSpots:    e.AvailableSpots,
		PosterImageURL:    e.PosterImageURL,
		ExternalEventCode: e.ExternalEventCode,
		ImportedFromAPI:   e.ImportedFromAPI,
		LocationID:        e.LocationID,
		MainActID:         e.MainActID,
		DJID:              e.DJID,
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開始時刻の形式が不正です")
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Title:          req.Title,
		StartAt:        startAt,
		PricePerPerson: req.PricePerPerson,
		AvailableSpots: req.AvailableSpots,
		PosterImageURL: req.PosterImageURL,
		LocationID:     req.LocationID,
		MainActID:      req.MainActID,
		DJID:           req.DJID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

type AvailableSpotsResponse struct {
	EventID        string `json:"event_id"`
	AvailableSpots int    `json:"available_spots" example:"20"`
}

// AvailableSpots godoc
// @Summary 空きテーブル数を取得
// @Description イベントの空きテーブル数を取得します（キャッシュ経由）
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} AvailableSpotsResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/spots/available [get]
func (h *EventHandler) AvailableSpots(c echo.Context) error {
	eventID := c.Param("id")
	spots, err := h.eventService.GetAvailableSpots(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailableSpotsResponse{EventID: eventID, AvailableSpots: spots})
}

// List godoc
// @Summary イベント一覧を取得
// @Description イベント一覧を開始時刻順に取得します。upcoming=trueで開始前のみ
// @Tags events
// @Produce json
// @Param upcoming query bool false "開始前のイベントのみ"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	var (
		events []*event.Event
		err    error
	)
	if c.QueryParam("upcoming") == "true" {
		events, err = h.eventService.ListUpcomingEvents(c.Request().Context(), limit, offset)
	} else {
		events, err = h.eventService.ListEvents(c.Request().Context(), limit, offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]*EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary イベントを更新
// @Description イベントの属性を更新します。available_spotsは変更できません
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開始時刻の形式が不正です")
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:             c.Param("id"),
		Title:          req.Title,
		StartAt:        startAt,
		PricePerPerson: req.PricePerPerson,
		PosterImageURL: req.PosterImageURL,
		LocationID:     req.LocationID,
		MainActID:      req.MainActID,
		DJID:           req.DJID,
	})
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description イベントを削除します。予約が存在する場合は拒否されます
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "予約が存在する"
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrEventHasReservations):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
