package reservation

// ConsumesSpot は状態がイベントのテーブルを1つ保持しているかを返す
// テーブルを保持するのはpendingとapprovedのみ
func (s Status) ConsumesSpot() bool {
	return s == StatusPending || s == StatusApproved
}

// SpotDelta は状態遷移に伴うAvailableSpotsの増減を返す
// テーブル保持状態への出入りだけがカウンタを動かす:
//
//	none/rejected/cancelled → pending/approved : -1
//	pending/approved → rejected/cancelled      : +1
//	それ以外                                    :  0
//
// 同一状態への再承認・再拒否はデルタ0になる
func SpotDelta(from, to Status) int {
	switch {
	case !from.ConsumesSpot() && to.ConsumesSpot():
		return -1
	case from.ConsumesSpot() && !to.ConsumesSpot():
		return +1
	default:
		return 0
	}
}
