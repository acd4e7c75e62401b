package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("URLが指定されている場合はそのまま使う", func(t *testing.T) {
		c := NewClient("https://example.com/feed.json", 5*time.Second)
		assert.Equal(t, "https://example.com/feed.json", c.url)
	})

	t.Run("URLが空の場合はデフォルトURLを使う", func(t *testing.T) {
		c := NewClient("", 5*time.Second)
		assert.Equal(t, DefaultFeedURL, c.url)
	})
}

func TestClient_FetchEvents(t *testing.T) {
	t.Run("正常にイベント一覧を取得できる", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"events": [
					{
						"eventCode": "EVENT001",
						"dj": {"name": "DJ Pulse", "price": 1500},
						"mainAct": {"name": "The Velvet Band", "price": 3000},
						"venue": {
							"name": "Club Inferno",
							"address": "Partizanska 12",
							"phoneNumber": "+389 70 123 456",
							"baseFee": 500
						},
						"schedule": {
							"doorsOpen": "21:00",
							"djStart": "22:00",
							"mainActStart": "23:30"
						}
					},
					{
						"eventCode": "EVENT002",
						"venue": {"name": "Sky Bar", "address": "Makedonija 5", "phoneNumber": "", "baseFee": 300}
					}
				]
			}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		events, err := c.FetchEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "EVENT001", events[0].EventCode)
		require.NotNil(t, events[0].DJ)
		assert.Equal(t, "DJ Pulse", events[0].DJ.Name)
		assert.Equal(t, 1500, events[0].DJ.Price)
		require.NotNil(t, events[0].Venue)
		assert.Equal(t, "Club Inferno", events[0].Venue.Name)
		assert.Equal(t, 500, events[0].Venue.BaseFee)
		require.NotNil(t, events[0].Schedule)
		assert.Equal(t, "21:00", events[0].Schedule.DoorsOpen)

		assert.Equal(t, "EVENT002", events[1].EventCode)
		assert.Nil(t, events[1].DJ)
		assert.Nil(t, events[1].Schedule)
	})

	t.Run("イベントが空の場合は空スライスを返す", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"events": []}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		events, err := c.FetchEvents(context.Background())

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("異常なステータスコードはエラーになる", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		events, err := c.FetchEvents(context.Background())

		assert.Error(t, err)
		assert.Nil(t, events)
		assert.Contains(t, err.Error(), "異常なステータス")
	})

	t.Run("不正なJSONはエラーになる", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{invalid json`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		events, err := c.FetchEvents(context.Background())

		assert.Error(t, err)
		assert.Nil(t, events)
		assert.Contains(t, err.Error(), "解析に失敗")
	})

	t.Run("接続できない場合はエラーになる", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", 1*time.Second)
		events, err := c.FetchEvents(context.Background())

		assert.Error(t, err)
		assert.Nil(t, events)
	})
}
