package location

import "time"

// Location は会場（クラブ・バー等）のエンティティを表す
type Location struct {
	ID              string
	Name            string
	City            string
	Address         string
	PhoneNumber     string
	ImageURL        string
	Type            string
	Capacity        int
	ImportedFromAPI bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLocation は新しい会場を作成する
func NewLocation(name, city, address, phoneNumber, venueType string, capacity int) *Location {
	now := time.Now()
	return &Location{
		Name:        name,
		City:        city,
		Address:     address,
		PhoneNumber: phoneNumber,
		Type:        venueType,
		Capacity:    capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は会場の検証を行う
func (l *Location) Validate() error {
	if l.Name == "" {
		return ErrNameRequired
	}
	return nil
}
