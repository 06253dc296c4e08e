package models

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

//go:embed rooms.yaml
var defaultRooms []byte

// DefaultStartRoom is used when the config does not name a start room.
const DefaultStartRoom = "entrance"

// Registry is the read-only set of rooms loaded at startup.
type Registry struct {
	start string
	rooms map[string]*Room
}

type registryFile struct {
	Start string           `yaml:"start"`
	Rooms map[string]*Room `yaml:"rooms"`
}

// DefaultRegistry loads the rooms embedded in the binary.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultRooms)
}

// LoadRegistryFile loads and validates a room config from disk.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rooms file: %w", err)
	}
	return LoadRegistry(data)
}

// LoadRegistry parses a YAML room config and validates cross references.
func LoadRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rooms YAML: %w", err)
	}

	r := &Registry{
		start: f.Start,
		rooms: make(map[string]*Room, len(f.Rooms)),
	}
	if r.start == "" {
		r.start = DefaultStartRoom
	}
	for id, room := range f.Rooms {
		if room == nil {
			room = &Room{}
		}
		room.ID = id
		r.rooms[id] = room
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that every navigate target resolves, zone ids are unique
// within a room and every rectangle fits the viewport.
func (r *Registry) Validate() error {
	el := errors.NewErrorList()

	if len(r.rooms) == 0 {
		el.Add(fmt.Errorf("at least one room is required"))
	}
	if _, ok := r.rooms[r.start]; !ok {
		el.Add(fmt.Errorf("start room %q is not defined", r.start))
	}

	for _, id := range r.IDs() {
		room := r.rooms[id]
		seen := make(map[string]bool, len(room.Zones))
		for i, z := range room.Zones {
			where := fmt.Sprintf("room %s: zone %d (%s)", id, i, z.ID)
			if z.ID == "" {
				el.Add(fmt.Errorf("%s: id is required", where))
			} else if seen[z.ID] {
				el.Add(fmt.Errorf("%s: duplicate zone id", where))
			}
			seen[z.ID] = true

			if z.X < 0 || z.Y < 0 || z.W <= 0 || z.H <= 0 || z.X+z.W > 100 || z.Y+z.H > 100 {
				el.Add(fmt.Errorf("%s: rectangle (%g,%g,%g,%g) must lie within 0..100 with positive size",
					where, z.X, z.Y, z.W, z.H))
			}

			switch z.Action {
			case ZoneNavigate:
				if z.Target == "" {
					el.Add(fmt.Errorf("%s: target is required for navigate", where))
				} else if _, ok := r.rooms[z.Target]; !ok {
					el.Add(fmt.Errorf("%s: target room %q is not defined", where, z.Target))
				}
			case ZonePopup:
				for j, b := range z.PopupButtons {
					if b.Label == "" {
						el.Add(fmt.Errorf("%s: button %d: label is required", where, j))
					}
					if b.Action == ActionNone {
						el.Add(fmt.Errorf("%s: button %d: action is required", where, j))
					}
				}
			default:
				el.Add(fmt.Errorf("%s: action is required (must be %s or %s)", where, ZoneNavigate, ZonePopup))
			}
		}
	}

	return el.Err()
}

// Get returns the room with the given id.
func (r *Registry) Get(id string) (*Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// IDs returns all room ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Start returns the room a new session begins in.
func (r *Registry) Start() string {
	return r.start
}
