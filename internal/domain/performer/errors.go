package performer

import "errors"

var (
	ErrPerformerNotFound = errors.New("出演者が見つかりません")
	ErrStageNameRequired = errors.New("ステージ名は必須です")
)
