package domain

import (
	"time"
)

// GameStatus - статус игровой сессии
type GameStatus string

const (
	StatusWaiting GameStatus = "waiting"
	StatusActive  GameStatus = "active"
	StatusEnded   GameStatus = "ended"
)

// Role of a participant inside one game
type Role string

const (
	RoleHider  Role = "hider"
	RoleSeeker Role = "seeker"
)

// GameSize - размер игры, фиксируется при создании
type GameSize string

const (
	SizeSmall  GameSize = "small"
	SizeMedium GameSize = "medium"
	SizeLarge  GameSize = "large"
)

// Hiding zone radii in meters (0.25 mile / 0.5 mile).
const (
	RadiusSmallMedium = 402.336
	RadiusLarge       = 804.672
)

// HidingZoneRadius returns the zone radius in meters for a game size.
func (s GameSize) HidingZoneRadius() float64 {
	if s == SizeLarge {
		return RadiusLarge
	}
	return RadiusSmallMedium
}

// HidingPeriod returns how long the hiding period lasts for a game size.
func (s GameSize) HidingPeriod() time.Duration {
	switch s {
	case SizeSmall:
		return 30 * time.Minute
	case SizeLarge:
		return 180 * time.Minute
	default:
		return 60 * time.Minute
	}
}

// Valid reports whether s is a known game size.
func (s GameSize) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// LatLng - географическая точка
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PendingQuestion - единственный активный вопрос в игре
type PendingQuestion struct {
	Category  string     `json:"category"`
	Question  Question   `json:"question"`
	Timestamp time.Time  `json:"timestamp"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Curse is an instance created when a curse card is played. It is never
// mutated afterwards; expiry is advisory and decided by the reader.
type Curse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Timestamp   time.Time `json:"timestamp"`
}

// IsExpired reports whether the curse has logically run out at the given time.
func (c Curse) IsExpired(now time.Time) bool {
	return now.After(c.Timestamp.Add(time.Duration(c.Duration) * time.Minute))
}

// Game - общий документ игровой сессии. Единственный владелец - session store,
// все мутации идут через session manager.
type Game struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    GameStatus `json:"status"`

	Hider   string   `json:"hider,omitempty"`
	Seekers []string `json:"seekers"`

	TotalHidingTime int     `json:"totalHidingTime"` // bonus seconds from played cards
	ActiveCurses    []Curse `json:"activeCurses"`
	Coins           int     `json:"coins"`

	HiderLocation   *LatLng           `json:"hiderLocation,omitempty"`
	SeekerLocations map[string]LatLng `json:"seekerLocations"`

	PendingQuestion *PendingQuestion `json:"pendingQuestion,omitempty"`
	ChatMessages    []ChatMessage    `json:"chatMessages"`

	// Fixed at creation, read-only afterwards.
	GameSize           GameSize  `json:"gameSize"`
	HidingZoneRadius   float64   `json:"hidingZoneRadius"`
	HidingPeriodEndsAt time.Time `json:"hidingPeriodEndsAt"`

	// Version is bumped by the store on every accepted patch; commands carry
	// the version of the snapshot they were computed from.
	Version int64 `json:"version"`
}

// HasSeeker reports whether userID is already registered as a seeker.
func (g *Game) HasSeeker(userID string) bool {
	for _, s := range g.Seekers {
		if s == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the role of userID in the game, if any.
func (g *Game) RoleOf(userID string) (Role, bool) {
	if g.Hider == userID && g.Hider != "" {
		return RoleHider, true
	}
	if g.HasSeeker(userID) {
		return RoleSeeker, true
	}
	return "", false
}

// PruneExpiredCurses returns the curses still running at the given time.
// The stored game keeps the full append-only list; display layers decide
// whether to prune.
func (g *Game) PruneExpiredCurses(now time.Time) []Curse {
	var alive []Curse
	for _, c := range g.ActiveCurses {
		if !c.IsExpired(now) {
			alive = append(alive, c)
		}
	}
	return alive
}
