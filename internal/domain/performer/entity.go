package performer

import "time"

// 出演者の種別
const (
	TypeDJ     = "DJ"
	TypeBand   = "Band"
	TypeSinger = "Singer"
)

// Performer は出演者（DJ・バンド・シンガー）のエンティティを表す
type Performer struct {
	ID              string
	StageName       string
	Type            string
	ImageURL        string
	ImportedFromAPI bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPerformer は新しい出演者を作成する
func NewPerformer(stageName, performerType string) *Performer {
	now := time.Now()
	return &Performer{
		StageName: stageName,
		Type:      performerType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は出演者の検証を行う
func (p *Performer) Validate() error {
	if p.StageName == "" {
		return ErrStageNameRequired
	}
	return nil
}
