package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Engjell02/NightOut-Event-Management/internal/application"
)

// ReportHandler は管理ダッシュボードと集計のHTTPハンドラー
type ReportHandler struct {
	reportService ReportServiceInterface
	importService ImportServiceInterface
}

// NewReportHandler はReportHandlerを作成する
func NewReportHandler(rs ReportServiceInterface, is ImportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: rs, importService: is}
}

type DashboardResponse struct {
	TotalEvents          int `json:"total_events"`
	TotalLocations       int `json:"total_locations"`
	TotalPerformers      int `json:"total_performers"`
	TotalReservations    int `json:"total_reservations"`
	PendingReservations  int `json:"pending_reservations"`
	ApprovedReservations int `json:"approved_reservations"`
	ApprovedRevenue      int `json:"approved_revenue"`
}

type ImportResponse struct {
	ImportedCount int `json:"imported_count"`
}

func toDashboardResponse(s *application.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		TotalEvents:          s.TotalEvents,
		TotalLocations:       s.TotalLocations,
		TotalPerformers:      s.TotalPerformers,
		TotalReservations:    s.TotalReservations,
		PendingReservations:  s.PendingReservations,
		ApprovedReservations: s.ApprovedReservations,
		ApprovedRevenue:      s.ApprovedRevenue,
	}
}

// Dashboard godoc
// @Summary 管理ダッシュボードを取得
// @Description イベント・会場・出演者・予約の件数と承認済み売上を返します
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardResponse
// @Router /admin/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	summary, err := h.reportService.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}

// ApprovedPeople godoc
// @Summary イベントごとの承認済み人数を取得
// @Description イベントIDごとの承認済み予約の合計人数を返します
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int
// @Router /admin/reports/approved-people [get]
func (h *ReportHandler) ApprovedPeople(c echo.Context) error {
	people, err := h.reportService.ApprovedPeopleByEvent(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, people)
}

// Import godoc
// @Summary 外部フィードからイベントを取込
// @Description 外部フィードを取得し、新規イベントを取り込みます
// @Tags admin
// @Produce json
// @Success 200 {object} ImportResponse
// @Router /admin/import [post]
func (h *ReportHandler) Import(c echo.Context) error {
	count, err := h.importService.ImportEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, ImportResponse{ImportedCount: count})
}
