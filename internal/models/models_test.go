package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, "entrance", reg.Start())
	assert.Equal(t, []string{"entrance", "hallway", "library"}, reg.IDs())

	hallway, ok := reg.Get("hallway")
	require.True(t, ok)
	assert.Equal(t, "hallway", hallway.ID)
	assert.Len(t, hallway.Zones, 3)

	library, _ := reg.Get("library")
	fireplace := library.Zones[2]
	assert.Equal(t, "fireplace", fireplace.ID)
	assert.Equal(t, ZonePopup, fireplace.Action)
	require.Len(t, fireplace.PopupButtons, 1)
	assert.Equal(t, ActionTakeBurntPaper, fireplace.PopupButtons[0].Action)

	entrance, _ := reg.Get("entrance")
	assert.Empty(t, entrance.Zones[1].PopupImage, "null image decodes to empty")

	_, ok = reg.Get("attic")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	tests := map[string]struct {
		yaml   string
		expErr string
	}{
		"unknown action name": {
			yaml: `
rooms:
  entrance:
    zones:
      - {id: a, x: 0, y: 0, w: 10, h: 10, action: popup, popupButtons: [{label: Go, action: useKey}]}
`,
			expErr: `unknown popup action "useKey"`,
		},
		"unknown zone kind": {
			yaml: `
rooms:
  entrance:
    zones:
      - {id: a, x: 0, y: 0, w: 10, h: 10, action: teleport}
`,
			expErr: `invalid zone action "teleport"`,
		},
		"dangling target": {
			yaml: `
rooms:
  entrance:
    zones:
      - {id: a, x: 0, y: 0, w: 10, h: 10, action: navigate, target: attic}
`,
			expErr: `target room "attic" is not defined`,
		},
		"missing start room": {
			yaml: `
start: cellar
rooms:
  entrance:
    hint: hi
`,
			expErr: `start room "cellar" is not defined`,
		},
		"rectangle out of bounds": {
			yaml: `
rooms:
  entrance:
    zones:
      - {id: a, x: 95, y: 0, w: 10, h: 10, action: popup}
`,
			expErr: "must lie within 0..100",
		},
		"duplicate zone id": {
			yaml: `
rooms:
  entrance:
    zones:
      - {id: a, x: 0, y: 0, w: 10, h: 10, action: popup}
      - {id: a, x: 20, y: 0, w: 10, h: 10, action: popup}
`,
			expErr: "duplicate zone id",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRegistry([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expErr)
		})
	}
}

func TestZoneContains(t *testing.T) {
	z := Zone{X: 10, Y: 20, W: 30, H: 40}

	assert.True(t, z.Contains(10, 20))
	assert.True(t, z.Contains(39.9, 59.9))
	assert.False(t, z.Contains(40, 30), "right edge is exclusive")
	assert.False(t, z.Contains(9.9, 30))
	assert.False(t, z.Contains(20, 60))
}

func TestGameState(t *testing.T) {
	s := NewGameState("entrance")

	assert.False(t, s.HasItem("burntPaper"))
	assert.False(t, s.Flag("hasBurntPaper"))

	s.AddItem("burntPaper")
	s.SetFlag("hasBurntPaper", true)

	assert.Equal(t, []string{"burntPaper"}, s.Inventory)
	assert.True(t, s.HasItem("burntPaper"))
	assert.True(t, s.Flag("hasBurntPaper"))

	var zero GameState
	zero.SetFlag("x", true)
	assert.True(t, zero.Flag("x"))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("takeBurntPaper")
	require.NoError(t, err)
	assert.Equal(t, ActionTakeBurntPaper, a)
	assert.Equal(t, "takeBurntPaper", a.String())

	_, err = ParseAction("useKey")
	assert.Error(t, err)
	assert.Equal(t, "Action(42)", Action(42).String())
}
