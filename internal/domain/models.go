package domain

import (
	"time"
)

type Game struct {
	ID            string // BGG object id
	Name          string
	YearPublished int
	IsBaseGame    bool
	IsExpansion   bool
	IsExpandalone bool // expansion playable without its base game
	Copies        []GameCopy
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type GameCopy struct {
	ID              string // nanoid
	GameID          string
	StatusOwned     bool
	AcquisitionDate *time.Time
	PricePaid       *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Play struct {
	ID                string
	GameID            string
	Date              time.Time // day granularity
	DurationMin       int
	DurationEstimated bool
	CopyID            string
	Players           int
	LocationID        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OwnedCopies returns the copies currently marked as owned.
func (g Game) OwnedCopies() []GameCopy {
	var owned []GameCopy
	for _, c := range g.Copies {
		if c.StatusOwned {
			owned = append(owned, c)
		}
	}
	return owned
}

// TotalPricePaid sums the price paid across owned copies. The second return
// is false when no owned copy has price data.
func (g Game) TotalPricePaid() (float64, bool) {
	var total float64
	var known bool
	for _, c := range g.Copies {
		if c.StatusOwned && c.PricePaid != nil {
			total += *c.PricePaid
			known = true
		}
	}
	return total, known
}
