package model

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps one of these so callers
// can branch on the family with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// Common errors used across the application
var (
	// Not found errors
	ErrPlayerNotFound     = fmt.Errorf("player %w", ErrNotFound)
	ErrHouseNotFound      = fmt.Errorf("house %w", ErrNotFound)
	ErrRoomNotFound       = fmt.Errorf("room %w", ErrNotFound)
	ErrFurnitureNotFound  = fmt.Errorf("furniture %w", ErrNotFound)
	ErrCatalogKeyNotFound = fmt.Errorf("catalog entry %w", ErrNotFound)
	ErrKingdomNotFound    = fmt.Errorf("kingdom %w", ErrNotFound)
	ErrBaronyNotFound     = fmt.Errorf("barony %w", ErrNotFound)
	ErrVillageNotFound    = fmt.Errorf("village %w", ErrNotFound)
	ErrWorldStateNotFound = fmt.Errorf("world state %w", ErrNotFound)

	// Validation errors
	ErrInvalidLocation    = fmt.Errorf("%w: invalid location", ErrValidation)
	ErrInvalidTier        = fmt.Errorf("%w: invalid house tier", ErrValidation)
	ErrInvalidCondition   = fmt.Errorf("%w: condition must be between 0 and 100", ErrValidation)
	ErrInvalidRoomType    = fmt.Errorf("%w: invalid room type", ErrValidation)
	ErrRoomNotAllowed     = fmt.Errorf("%w: room type not allowed for this house tier", ErrValidation)
	ErrGridOutOfBounds    = fmt.Errorf("%w: grid position outside the house", ErrValidation)
	ErrGridPositionTaken  = fmt.Errorf("%w: grid position already has a room", ErrValidation)
	ErrInvalidHotspot     = fmt.Errorf("%w: hotspot not valid for room type", ErrValidation)
	ErrHotspotMismatch    = fmt.Errorf("%w: furniture does not fit this hotspot", ErrValidation)
	ErrHotspotOccupied    = fmt.Errorf("%w: hotspot already occupied", ErrValidation)
	ErrUnknownFurniture   = fmt.Errorf("%w: unknown furniture", ErrValidation)
	ErrSkillTooLow        = fmt.Errorf("%w: skill level too low", ErrValidation)
	ErrNotHouseOwner      = fmt.Errorf("%w: player does not own this house", ErrValidation)
	ErrInvalidSkill       = fmt.Errorf("%w: invalid skill", ErrValidation)
	ErrInvalidWorldState  = fmt.Errorf("%w: invalid world state", ErrValidation)
	ErrInvalidLeaderboard = fmt.Errorf("%w: unknown leaderboard tab", ErrValidation)
	ErrEmptyName          = fmt.Errorf("%w: name is required", ErrValidation)

	// Conflict errors
	ErrVersionConflict = fmt.Errorf("%w: record was modified concurrently", ErrConflict)
	ErrUsernameTaken   = fmt.Errorf("%w: username already exists", ErrConflict)
)
