package model

// RegenBonus is one line of an energy regeneration breakdown
type RegenBonus struct {
	Source string `json:"source"` // e.g. "House (Bed)"
	Amount string `json:"amount"` // e.g. "+5%" or "+2"
}

// RegenInfo explains how much energy one regen tick yields and why
type RegenInfo struct {
	Base        int          `json:"base"`
	Bonuses     []RegenBonus `json:"bonuses"`
	TotalGained int          `json:"total_gained"`
}

// HouseEntry is one ranked row of the houses leaderboard
type HouseEntry struct {
	Rank      int       `json:"rank"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	HouseID   HouseID   `json:"house_id"`
	HouseName string    `json:"house_name"`
	Tier      string    `json:"tier"`
	KingdomID KingdomID `json:"kingdom_id"`
}

// WealthEntry is one ranked row of the wealth leaderboard
type WealthEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}
