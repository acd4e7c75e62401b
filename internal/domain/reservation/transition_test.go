package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_ConsumesSpot(t *testing.T) {
	assert.True(t, StatusPending.ConsumesSpot())
	assert.True(t, StatusApproved.ConsumesSpot())
	assert.False(t, StatusNone.ConsumesSpot())
	assert.False(t, StatusRejected.ConsumesSpot())
	assert.False(t, StatusCancelled.ConsumesSpot())
}

func TestSpotDelta(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want int
	}{
		{"新規作成でテーブル消費", StatusNone, StatusPending, -1},
		{"Pendingの承認は消費継続", StatusPending, StatusApproved, 0},
		{"Pendingの拒否でテーブル返却", StatusPending, StatusRejected, +1},
		{"Pendingのキャンセルでテーブル返却", StatusPending, StatusCancelled, +1},
		{"Approvedの拒否でテーブル返却", StatusApproved, StatusRejected, +1},
		{"Approvedのキャンセルでテーブル返却", StatusApproved, StatusCancelled, +1},
		{"Rejectedの承認でテーブル再消費", StatusRejected, StatusApproved, -1},
		{"Approvedの再承認はデルタ0", StatusApproved, StatusApproved, 0},
		{"Rejectedの再拒否はデルタ0", StatusRejected, StatusRejected, 0},
		{"Cancelledの拒否はデルタ0", StatusCancelled, StatusRejected, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpotDelta(tt.from, tt.to))
		})
	}
}

// 作成から最終状態までの遷移列を通した正味デルタは必ず0になる
// （テーブルは借りたら返す）
func TestSpotDelta_RoundTrip(t *testing.T) {
	paths := [][]Status{
		{StatusNone, StatusPending, StatusCancelled},
		{StatusNone, StatusPending, StatusApproved, StatusCancelled},
		{StatusNone, StatusPending, StatusRejected},
		{StatusNone, StatusPending, StatusRejected, StatusApproved, StatusRejected},
		{StatusNone, StatusPending, StatusApproved, StatusRejected, StatusApproved, StatusCancelled},
	}
	for _, path := range paths {
		net := 0
		for i := 1; i < len(path); i++ {
			net += SpotDelta(path[i-1], path[i])
		}
		assert.Equal(t, 0, net, "遷移列 %v の正味デルタ", path)
	}
}
