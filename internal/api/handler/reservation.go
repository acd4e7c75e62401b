package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Engjell02/NightOut-Event-Management/internal/application"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/reservation"
)

// ReservationHandler は予約ライフサイクルのHTTPハンドラー
type ReservationHandler struct {
	service ReservationServiceInterface
}

// NewReservationHandler はReservationHandlerを作成する
func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	EventID         string `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	ReservationName string `json:"reservation_name" validate:"required" example:"Birthday table"`
	PartySize       int    `json:"party_size" validate:"required" example:"4"`
	PhoneNumber     string `json:"phone_number" validate:"required" example:"+389-70-123-456"`
}

type ReservationResponse struct {
	ID              string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID         string    `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID          string    `json:"user_id" example:"user-123"`
	ReservationName string    `json:"reservation_name" example:"Birthday table"`
	PartySize       int       `json:"party_size" example:"4"`
	PhoneNumber     string    `json:"phone_number" example:"+389-70-123-456"`
	Status          string    `json:"status" example:"pending"`
	CreatedAt       time.Time `json:"created_at"`
}

type CancelReservationResponse struct {
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason,omitempty"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		EventID:         r.EventID,
		UserID:          r.UserID,
		ReservationName: r.ReservationName,
		PartySize:       r.PartySize,
		PhoneNumber:     r.PhoneNumber,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description イベントのテーブルを1つ予約します（2〜6名、承認待ちで開始）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "空きテーブルなし"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		EventID:         req.EventID,
		UserID:          userID,
		ReservationName: req.ReservationName,
		PartySize:       req.PartySize,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrNoSpotsAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, reservation.ErrInvalidPartySize),
			errors.Is(err, reservation.ErrReservationNameRequired),
			errors.Is(err, reservation.ErrPhoneNumberRequired),
			errors.Is(err, reservation.ErrEventIDRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 本人の予約をキャンセルします。イベント開始24時間前を過ぎている場合、キャンセルは拒否されます（エラーではありません）
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} CancelReservationResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "既にキャンセル・拒否済み"
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	id := c.Param("id")
	ok, err := h.service.CancelReservation(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrReservationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, reservation.ErrAlreadyFinal):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := CancelReservationResponse{Cancelled: ok}
	if !ok {
		resp.Reason = "イベント開始まで24時間を切っているためキャンセルできません"
	}
	return c.JSON(http.StatusOK, resp)
}

// My godoc
// @Summary 自分の予約一覧を取得
// @Description ログインユーザーの予約一覧を新しい順に取得します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) My(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	reservations, err := h.service.GetUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReservationResponses(reservations))
}

// ListAll godoc
// @Summary 全予約一覧を取得（管理者）
// @Description 全予約を新しい順に取得します。event_idで絞り込み可能
// @Tags admin
// @Produce json
// @Param event_id query string false "イベントID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Router /admin/reservations [get]
func (h *ReservationHandler) ListAll(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	eventID := c.QueryParam("event_id")
	reservations, err := h.service.ListReservations(c.Request().Context(), eventID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReservationResponses(reservations))
}

// Approve godoc
// @Summary 予約を承認（管理者）
// @Description 予約を承認します。拒否済みからの再承認はテーブルを再確保します
// @Tags admin
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /admin/reservations/{id}/approve [post]
func (h *ReservationHandler) Approve(c echo.Context) error {
	r, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Reject godoc
// @Summary 予約を拒否（管理者）
// @Description 予約を拒否し、保持していたテーブルを解放します
// @Tags admin
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /admin/reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c echo.Context) error {
	r, err := h.service.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func toReservationResponses(reservations []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return resp
}
