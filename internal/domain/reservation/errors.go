package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound     = errors.New("予約が見つかりません")
	ErrAlreadyFinal            = errors.New("予約は既にキャンセルまたは拒否されています")
	ErrInvalidPartySize        = errors.New("人数は2名から6名までである必要があります")
	ErrEventIDRequired         = errors.New("イベントIDは必須です")
	ErrUserIDRequired          = errors.New("ユーザーIDは必須です")
	ErrReservationNameRequired = errors.New("予約名は必須です")
	ErrPhoneNumberRequired     = errors.New("電話番号は必須です")
)
