package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	// StatusNone は予約が存在しない状態（作成遷移の起点）
	StatusNone      Status = ""
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// 1テーブルあたりの人数制限
const (
	MinPartySize = 2
	MaxPartySize = 6
)

// CancellationWindow はキャンセル締切（イベント開始の24時間前まで）
const CancellationWindow = 24 * time.Hour

// Reservation は予約エンティティを表す
// 1件の予約はイベントのテーブルを1つ消費する（人数ではなくテーブル単位）
type Reservation struct {
	ID              string
	EventID         string
	UserID          string
	ReservationName string
	PartySize       int
	PhoneNumber     string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation は新しい予約を作成する（初期状態はpending）
func NewReservation(eventID, userID, reservationName string, partySize int, phoneNumber string) *Reservation {
	now := time.Now()
	return &Reservation{
		EventID:         eventID,
		UserID:          userID,
		ReservationName: reservationName,
		PartySize:       partySize,
		PhoneNumber:     phoneNumber,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.ReservationName == "" {
		return ErrReservationNameRequired
	}
	if r.PhoneNumber == "" {
		return ErrPhoneNumberRequired
	}
	if r.PartySize < MinPartySize || r.PartySize > MaxPartySize {
		return ErrInvalidPartySize
	}
	return nil
}

// IsFinal は予約が確定的な終了状態（キャンセル済み・拒否済み）かを返す
func (r *Reservation) IsFinal() bool {
	return r.Status == StatusRejected || r.Status == StatusCancelled
}

// Cancel は予約をキャンセルする
// 締切判定（開始24時間前）はイベントの開始時刻を知るサービス層が行う
func (r *Reservation) Cancel() error {
	if r.IsFinal() {
		return ErrAlreadyFinal
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Approve は予約を承認する
// 起点の状態に制限はない（拒否済みからの再承認も許可される）
func (r *Reservation) Approve() {
	r.Status = StatusApproved
	r.UpdatedAt = time.Now()
}

// Reject は予約を拒否する
func (r *Reservation) Reject() {
	r.Status = StatusRejected
	r.UpdatedAt = time.Now()
}

// CanCancelAt はイベント開始時刻に対してキャンセル可能な時点かを返す
// 開始まで24時間を切っている場合は不可（エラーではなく業務上の拒否）
func CanCancelAt(eventStart, now time.Time) bool {
	return eventStart.After(now.Add(CancellationWindow))
}
