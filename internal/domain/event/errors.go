package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrNoSpotsAvailable       = errors.New("このイベントには空きテーブルがありません")
	ErrTitleRequired          = errors.New("イベント名は必須です")
	ErrInvalidAvailableSpots  = errors.New("テーブル数は0以上である必要があります")
	ErrInvalidPrice           = errors.New("料金は0以上である必要があります")
	ErrLocationIDRequired     = errors.New("会場IDは必須です")
	ErrEventHasReservations   = errors.New("予約が存在するイベントは削除できません")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
