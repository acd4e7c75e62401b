package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultFeedURL は外部イベントフィードの既定URL
const DefaultFeedURL = "https://raw.githubusercontent.com/Engjell02/reservation-app-api/main/events.json"

// ExternalEvent は外部フィードのイベント1件を表す
type ExternalEvent struct {
	EventCode string             `json:"eventCode"`
	DJ        *ExternalPerformer `json:"dj"`
	MainAct   *ExternalPerformer `json:"mainAct"`
	Venue     *ExternalVenue     `json:"venue"`
	Schedule  *ExternalSchedule  `json:"schedule"`
}

// ExternalPerformer はフィード上の出演者情報
type ExternalPerformer struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// ExternalVenue はフィード上の会場情報
type ExternalVenue struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	BaseFee     int    `json:"baseFee"`
}

// ExternalSchedule はフィード上のタイムテーブル
type ExternalSchedule struct {
	DoorsOpen    string `json:"doorsOpen"`
	DJStart      string `json:"djStart"`
	MainActStart string `json:"mainActStart"`
}

type feedResponse struct {
	Events []ExternalEvent `json:"events"`
}

// Client は外部イベントフィードのHTTPクライアント
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient はフィードクライアントを作成する
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// FetchEvents はフィードから候補イベント一覧を取得する
func (c *Client) FetchEvents(ctx context.Context) ([]ExternalEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("フィード取得に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("フィードが異常なステータスを返しました: %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("フィードの解析に失敗: %w", err)
	}
	return body.Events, nil
}
