package models

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// ZoneKind selects what a zone does when clicked.
type ZoneKind string

const (
	ZoneNavigate ZoneKind = "navigate"
	ZonePopup    ZoneKind = "popup"
)

// UnmarshalYAML rejects kinds other than navigate and popup.
func (k *ZoneKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch ZoneKind(s) {
	case ZoneNavigate, ZonePopup:
		*k = ZoneKind(s)
		return nil
	default:
		return fmt.Errorf("invalid zone action %q (must be %s or %s)", s, ZoneNavigate, ZonePopup)
	}
}

// Button is an action button shown in a popup.
type Button struct {
	Label  string `yaml:"label"`
	Action Action `yaml:"action"`
}

// Zone is a clickable hotspot positioned in percent of the viewport.
type Zone struct {
	ID     string   `yaml:"id"`
	Label  string   `yaml:"label"`
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	W      float64  `yaml:"w"`
	H      float64  `yaml:"h"`
	Action ZoneKind `yaml:"action"`

	// navigate
	Target string `yaml:"target,omitempty"`

	// popup
	PopupTitle   string   `yaml:"popupTitle,omitempty"`
	PopupBody    string   `yaml:"popupBody,omitempty"`
	PopupImage   string   `yaml:"popupImage,omitempty"` // URL or path; empty hides the image
	PopupButtons []Button `yaml:"popupButtons,omitempty"`
}

// Contains reports whether the percentage point (px, py) falls inside the zone.
func (z Zone) Contains(px, py float64) bool {
	return px >= z.X && px < z.X+z.W && py >= z.Y && py < z.Y+z.H
}

// Room is a single explorable location.
type Room struct {
	ID    string `yaml:"-"` // Also the key in the registry.
	Hint  string `yaml:"hint"`
	Zones []Zone `yaml:"zones"`
}

// GameState is the mutable state of one play session.
type GameState struct {
	CurrentRoom string          `yaml:"current_room"`
	Inventory   []string        `yaml:"inventory"`
	Flags       map[string]bool `yaml:"flags"`
}

// NewGameState returns an empty state positioned in room.
func NewGameState(room string) *GameState {
	return &GameState{
		CurrentRoom: room,
		Inventory:   []string{},
		Flags:       make(map[string]bool),
	}
}

// AddItem appends item to the inventory.
func (s *GameState) AddItem(item string) {
	s.Inventory = append(s.Inventory, item)
}

func (s *GameState) HasItem(item string) bool {
	return slices.Contains(s.Inventory, item)
}

func (s *GameState) SetFlag(name string, value bool) {
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
	}
	s.Flags[name] = value
}

// Flag returns the flag value; unset flags are false.
func (s *GameState) Flag(name string) bool {
	return s.Flags[name]
}
