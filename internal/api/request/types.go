package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate implements validator
func (r *CreateGuestRequest) Validate() error {
	return required("display_name", r.DisplayName)
}

// Validate implements validator. DisplayName defaults to the username.
func (r *RegisterRequest) Validate() error {
	if err := required("username", r.Username); err != nil {
		return err
	}
	if err := required("password", r.Password); err != nil {
		return err
	}
	if r.DisplayName == "" {
		r.DisplayName = r.Username
	}
	return nil
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements validator
func (r *LoginRequest) Validate() error {
	if err := required("username", r.Username); err != nil {
		return err
	}
	return required("password", r.Password)
}

// TravelRequest moves the player to a village, barony or kingdom
type TravelRequest struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// CreateHouseRequest is the request body for building a house
type CreateHouseRequest struct {
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	KingdomID int64  `json:"kingdom_id"`
}

// AddRoomRequest is the request body for adding a room to a house
type AddRoomRequest struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// PlaceFurnitureRequest is the request body for placing furniture
type PlaceFurnitureRequest struct {
	Key     string `json:"key"`
	Hotspot string `json:"hotspot"`
}

// Validate implements validator
func (r *PlaceFurnitureRequest) Validate() error {
	return required("key", r.Key)
}
