package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	Username    string
	DisplayName string
	IsGuest     bool // true for unregistered players

	Gold      int64
	Energy    int
	MaxEnergy int

	HomeLocation    Location
	CurrentLocation Location
	TitleTier       int

	// BannedAt is set when the player is excluded from competitive listings
	BannedAt *time.Time

	// Version is bumped on every update and checked by storage
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBanned returns true if the player has been banned
func (p *Player) IsBanned() bool {
	return p.BannedAt != nil
}

// AddEnergy adds amount to the player's energy, clamped to [0, MaxEnergy],
// and returns the change actually applied
func (p *Player) AddEnergy(amount int) int {
	before := p.Energy
	next := before + amount
	if next > p.MaxEnergy {
		next = p.MaxEnergy
	}
	if next < 0 {
		next = 0
	}
	p.Energy = next
	return next - before
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	if p.BannedAt != nil {
		t := *p.BannedAt
		c.BannedAt = &t
	}
	return &c
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
