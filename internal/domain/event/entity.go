package event

import "time"

// Event はナイトライフイベントのエンティティを表す
// AvailableSpotsは残りテーブル数のカウンタで、作成後は予約ライフサイクル
// （作成・キャンセル・承認・拒否）だけが増減させる
type Event struct {
	ID                string
	Title             string
	StartAt           time.Time
	PricePerPerson    int
	AvailableSpots    int
	PosterImageURL    string
	ExternalEventCode string
	ImportedFromAPI   bool
	LocationID        string
	MainActID         *string
	DJID              *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int // 楽観的ロック用
}

// NewEvent は新しいイベントを作成する
func NewEvent(title string, startAt time.Time, pricePerPerson, availableSpots int, locationID string) *Event {
	now := time.Now()
	return &Event{
		Title:          title,
		StartAt:        startAt,
		PricePerPerson: pricePerPerson,
		AvailableSpots: availableSpots,
		LocationID:     locationID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        0,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if e.AvailableSpots < 0 {
		return ErrInvalidAvailableSpots
	}
	if e.PricePerPerson < 0 {
		return ErrInvalidPrice
	}
	if e.LocationID == "" {
		return ErrLocationIDRequired
	}
	return nil
}

// HasAvailableSpots は空きテーブルが残っているかを返す
func (e *Event) HasAvailableSpots() bool {
	return e.AvailableSpots > 0
}

// ApplySpotDelta はテーブルカウンタに増減を適用する
func (e *Event) ApplySpotDelta(delta int) error {
	next := e.AvailableSpots + delta
	if next < 0 {
		return ErrNoSpotsAvailable
	}
	e.AvailableSpots = next
	e.UpdatedAt = time.Now()
	return nil
}
