package model

// KingdomID identifies a kingdom
type KingdomID int64

// BaronyID identifies a barony
type BaronyID int64

// VillageID identifies a village
type VillageID int64

// Kingdom is the top of the realm hierarchy and hosts a market
type Kingdom struct {
	ID   KingdomID `json:"id"`
	Name string    `json:"name"`
}

// Barony belongs to a kingdom
type Barony struct {
	ID        BaronyID  `json:"id"`
	Name      string    `json:"name"`
	KingdomID KingdomID `json:"kingdom_id"`
}

// Village belongs to a barony
type Village struct {
	ID       VillageID `json:"id"`
	Name     string    `json:"name"`
	BaronyID BaronyID  `json:"barony_id"`
}
