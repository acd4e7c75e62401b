package location

import "errors"

var (
	ErrLocationNotFound = errors.New("会場が見つかりません")
	ErrNameRequired     = errors.New("会場名は必須です")
)
