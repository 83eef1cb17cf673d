package model

import (
	"fmt"
	"strings"
)

// WeeksPerSeason bounds WorldState.Week
const WeeksPerSeason = 12

// Season is one quarter of the in-game year
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Seasons returns the seasons in calendar order
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
}

// Valid returns true for a known season
func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter:
		return true
	}
	return false
}

// DisplayName returns the capitalised season name
func (s Season) DisplayName() string {
	return titleWords(string(s))
}

// ParseSeason converts a slug into a season
func ParseSeason(s string) (Season, error) {
	season := Season(strings.ToLower(strings.TrimSpace(s)))
	if !season.Valid() {
		return "", ErrInvalidWorldState
	}
	return season, nil
}

// WorldState is a read-only snapshot of the in-game calendar. It is loaded
// once per request and passed explicitly to anything that needs it.
type WorldState struct {
	Year   int    `json:"year"`
	Season Season `json:"season"`
	Week   int    `json:"week"`
}

// DefaultWorldState is the calendar of a freshly created world
func DefaultWorldState() WorldState {
	return WorldState{Year: 1, Season: SeasonSpring, Week: 1}
}

// Validate checks the calendar bounds
func (w WorldState) Validate() error {
	if w.Year < 1 || !w.Season.Valid() || w.Week < 1 || w.Week > WeeksPerSeason {
		return ErrInvalidWorldState
	}
	return nil
}

// String renders the calendar as "Year 3, Summer, Week 4"
func (w WorldState) String() string {
	return fmt.Sprintf("Year %d, %s, Week %d", w.Year, w.Season.DisplayName(), w.Week)
}

// Next returns the calendar one week later, rolling over season and year
func (w WorldState) Next() WorldState {
	next := w
	next.Week++
	if next.Week <= WeeksPerSeason {
		return next
	}
	next.Week = 1
	seasons := Seasons()
	for i, s := range seasons {
		if s == w.Season {
			if i == len(seasons)-1 {
				next.Season = seasons[0]
				next.Year++
			} else {
				next.Season = seasons[i+1]
			}
			break
		}
	}
	return next
}
