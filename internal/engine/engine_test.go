package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
)

// recordingPresenter keeps the last value of every surface and counts calls.
type recordingPresenter struct {
	rooms map[string]bool

	loadingVisible bool
	segments       int
	showLoading    int
	active         map[string]bool
	zones          map[string][]models.Zone
	hint           string
	hintRestarts   int
	popup          PopupView
	popupVisible   bool
}

func newRecordingPresenter(rooms ...string) *recordingPresenter {
	p := &recordingPresenter{
		rooms:  make(map[string]bool),
		active: make(map[string]bool),
		zones:  make(map[string][]models.Zone),
	}
	for _, r := range rooms {
		p.rooms[r] = true
	}
	return p
}

func (p *recordingPresenter) HasRoom(id string) bool { return p.rooms[id] }

func (p *recordingPresenter) ShowLoading(segments int) {
	p.segments = segments
	p.showLoading++
	p.loadingVisible = true
}

func (p *recordingPresenter) HideLoading() { p.loadingVisible = false }

func (p *recordingPresenter) SetActiveRoom(id string) {
	for r := range p.active {
		p.active[r] = false
	}
	if p.rooms[id] {
		p.active[id] = true
	}
}

func (p *recordingPresenter) RenderZones(roomID string, zones []models.Zone) {
	p.zones[roomID] = append([]models.Zone(nil), zones...)
}

func (p *recordingPresenter) SetHint(text string) {
	p.hint = text
	p.hintRestarts++
}

func (p *recordingPresenter) ShowPopup(v PopupView) {
	p.popup = v
	p.popupVisible = true
}

func (p *recordingPresenter) HidePopup() { p.popupVisible = false }

func (p *recordingPresenter) activeRooms() []string {
	var out []string
	for r, on := range p.active {
		if on {
			out = append(out, r)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	eng   *Engine
	view  *recordingPresenter
	sched *ManualScheduler
	reg   *models.Registry
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	reg, err := models.DefaultRegistry()
	require.NoError(t, err)

	view := newRecordingPresenter(reg.IDs()...)
	sched := NewManualScheduler()
	eng, err := NewEngine(reg, view, sched, testLogger(), opts)
	require.NoError(t, err)

	return &fixture{eng: eng, view: view, sched: sched, reg: reg}
}

// settled starts the engine and lets the first transition finish.
func settled(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := newFixture(t, opts)
	require.NoError(t, f.eng.Start())
	f.sched.RunAll()
	return f
}

func TestNewEngine_UnknownStartRoom(t *testing.T) {
	reg, err := models.DefaultRegistry()
	require.NoError(t, err)

	_, err = NewEngine(reg, newRecordingPresenter(), NewManualScheduler(), testLogger(), Options{StartRoom: "attic"})
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestGoToRoom_EveryRoom(t *testing.T) {
	f := settled(t, Options{})
	require.Same(t, f.reg, f.eng.Registry())

	for _, id := range f.eng.Registry().IDs() {
		t.Run(id, func(t *testing.T) {
			require.NoError(t, f.eng.GoToRoom(id))
			f.sched.RunAll()

			room, _ := f.reg.Get(id)
			assert.Equal(t, id, f.eng.State().CurrentRoom)
			assert.Equal(t, []string{id}, f.view.activeRooms())
			assert.Equal(t, room.Zones, f.view.zones[id])
			assert.Equal(t, room.Zones, f.eng.Zones())
			assert.Equal(t, room.Hint, f.view.hint)
			assert.False(t, f.view.loadingVisible)
			assert.Equal(t, PhaseIdle, f.eng.Phase())
		})
	}
}

func TestGoToRoom_Phases(t *testing.T) {
	f := settled(t, Options{})
	hallway, _ := f.reg.Get("hallway")

	require.NoError(t, f.eng.GoToRoom("hallway"))

	// phase 1: overlay up, previous room still active underneath
	assert.Equal(t, PhaseLoading, f.eng.Phase())
	assert.True(t, f.view.loadingVisible)
	assert.Equal(t, DefaultLoadingSegments, f.view.segments)
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)
	assert.Equal(t, []string{"entrance"}, f.view.activeRooms())

	f.sched.Advance(DefaultLoadingDelay - 1)
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)

	// phase 2: room committed, overlay still up
	f.sched.Advance(1)
	assert.Equal(t, PhaseSettling, f.eng.Phase())
	assert.Equal(t, "hallway", f.eng.State().CurrentRoom)
	assert.Equal(t, []string{"hallway"}, f.view.activeRooms())
	assert.Equal(t, hallway.Hint, f.view.hint)
	assert.True(t, f.view.loadingVisible)

	// phase 3: overlay hidden
	f.sched.Advance(DefaultSettleDelay)
	assert.Equal(t, PhaseIdle, f.eng.Phase())
	assert.False(t, f.view.loadingVisible)
	assert.Zero(t, f.sched.Pending())
}

func TestGoToRoom_Unknown(t *testing.T) {
	f := settled(t, Options{})
	shows := f.view.showLoading
	zones := f.view.zones["entrance"]

	err := f.eng.GoToRoom("attic")
	assert.ErrorIs(t, err, ErrUnknownRoom)

	f.sched.RunAll()
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)
	assert.Equal(t, []string{"entrance"}, f.view.activeRooms())
	assert.Equal(t, zones, f.view.zones["entrance"])
	assert.Equal(t, shows, f.view.showLoading, "overlay untouched")
	assert.Equal(t, PhaseIdle, f.eng.Phase())
}

func TestGoToRoom_HintRestartsOnSameText(t *testing.T) {
	f := settled(t, Options{})
	before := f.view.hintRestarts

	require.NoError(t, f.eng.GoToRoom("entrance"))
	f.sched.RunAll()

	assert.Equal(t, before+1, f.view.hintRestarts)
}

func TestGoToRoom_QueuePolicy(t *testing.T) {
	f := settled(t, Options{Transitions: TransitionQueue})

	require.NoError(t, f.eng.GoToRoom("hallway"))
	require.NoError(t, f.eng.GoToRoom("library"))
	require.NoError(t, f.eng.GoToRoom("entrance"), "latest request replaces the queued one")

	f.sched.Advance(DefaultLoadingDelay + DefaultSettleDelay)
	assert.Equal(t, "hallway", f.eng.State().CurrentRoom)
	assert.Equal(t, PhaseLoading, f.eng.Phase(), "queued request starts immediately")

	f.sched.RunAll()
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)
	assert.Equal(t, []string{"entrance"}, f.view.activeRooms())
}

func TestGoToRoom_RejectPolicy(t *testing.T) {
	f := settled(t, Options{Transitions: TransitionReject})

	require.NoError(t, f.eng.GoToRoom("hallway"))
	assert.ErrorIs(t, f.eng.GoToRoom("entrance"), ErrTransitionInProgress)

	f.sched.RunAll()
	assert.Equal(t, "hallway", f.eng.State().CurrentRoom)
	assert.Zero(t, f.sched.Pending())
}

func TestCancelTransition(t *testing.T) {
	f := settled(t, Options{})

	require.NoError(t, f.eng.GoToRoom("hallway"))
	require.NoError(t, f.eng.GoToRoom("library"))
	f.eng.CancelTransition()

	assert.Equal(t, PhaseIdle, f.eng.Phase())
	assert.False(t, f.view.loadingVisible)
	assert.Zero(t, f.sched.Pending())

	f.sched.RunAll()
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)
}

func TestMissingRoomSurface(t *testing.T) {
	reg, err := models.DefaultRegistry()
	require.NoError(t, err)

	view := newRecordingPresenter("entrance")
	sched := NewManualScheduler()
	eng, err := NewEngine(reg, view, sched, testLogger(), Options{})
	require.NoError(t, err)

	require.NoError(t, eng.Start())
	sched.RunAll()
	require.Equal(t, []string{"entrance"}, view.activeRooms())
	require.NotEmpty(t, eng.Zones())

	require.NoError(t, eng.GoToRoom("hallway"))
	sched.RunAll()

	assert.Equal(t, "hallway", eng.State().CurrentRoom)
	assert.Empty(t, view.activeRooms(), "previous room is deactivated")
	assert.Empty(t, eng.Zones(), "previous room's zones are dropped")
	assert.NotContains(t, view.zones, "hallway")

	// the entrance door to the hallway sat here
	assert.False(t, eng.ClickAt(50, 60))
	assert.False(t, eng.Busy())
}

func TestClickAt(t *testing.T) {
	f := settled(t, Options{})

	assert.False(t, f.eng.ClickAt(1, 1), "empty wall")

	// coat rack: x 8..20, y 35..75
	assert.True(t, f.eng.ClickAt(10, 40))
	assert.True(t, f.eng.PopupOpen())
	assert.Equal(t, "Coat Rack", f.view.popup.Title)

	assert.False(t, f.eng.ClickAt(50, 60), "popup swallows clicks")
	f.eng.Dismiss(DismissBackdrop)

	// hallway door: x 42..58, y 55..85
	assert.True(t, f.eng.ClickAt(50, 60))
	assert.True(t, f.eng.Busy())
	assert.False(t, f.eng.ClickAt(10, 40), "overlay swallows clicks")

	f.sched.RunAll()
	assert.Equal(t, "hallway", f.eng.State().CurrentRoom)
}

func TestWalkthrough(t *testing.T) {
	f := settled(t, Options{})
	assert.Equal(t, "entrance", f.eng.State().CurrentRoom)

	entrance, _ := f.reg.Get("entrance")
	f.eng.HandleZoneClick(entrance.Zones[0])
	f.sched.RunAll()

	hallway, _ := f.reg.Get("hallway")
	assert.Equal(t, "hallway", f.eng.State().CurrentRoom)
	assert.Equal(t, hallway.Hint, f.view.hint)
	assert.Len(t, f.view.zones["hallway"], 3)

	f.eng.HandleZoneClick(hallway.Zones[2])
	f.sched.RunAll()
	assert.Equal(t, "library", f.eng.State().CurrentRoom)

	library, _ := f.reg.Get("library")
	f.eng.HandleZoneClick(library.Zones[2])
	require.True(t, f.view.popupVisible)
	assert.Equal(t, "Cold Fireplace", f.view.popup.Title)
	require.Len(t, f.view.popup.Buttons, 1)
	assert.Equal(t, "Take the scrap", f.view.popup.Buttons[0].Label)

	assert.True(t, f.eng.PressButton(0))
	assert.Equal(t, "You carefully tuck the scrap into your pocket.", f.view.popup.Body)
	assert.Equal(t, []string{"burntPaper"}, f.eng.State().Inventory)
}
