package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
)

var (
	ErrUnknownRoom          = errors.New("room is not defined")
	ErrTransitionInProgress = errors.New("room transition already in progress")
	ErrUnknownAction        = errors.New("no handler for popup action")
)

// Phase is the state of the room transition state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSettling:
		return "settling"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// TransitionPolicy decides what happens to a navigation request made while a
// transition is running.
type TransitionPolicy string

const (
	// TransitionQueue keeps the latest request and runs it once the current
	// transition returns to idle.
	TransitionQueue  TransitionPolicy = "queue"
	TransitionReject TransitionPolicy = "reject"
)

// PopupPolicy decides whether consumed popup actions stay consumed.
type PopupPolicy string

const (
	// PopupEphemeral reopens a popup with its original content even after an
	// action has run.
	PopupEphemeral  PopupPolicy = "ephemeral"
	// PopupPersistent hides buttons whose action flag is already set.
	PopupPersistent PopupPolicy = "persistent"
)

const (
	DefaultLoadingDelay    = 400 * time.Millisecond
	DefaultSettleDelay     = 450 * time.Millisecond
	DefaultLoadingSegments = 10
	DefaultPopupTitle      = "Examine"
)

// Options tunes the engine. Zero values take the defaults.
type Options struct {
	StartRoom       string
	LoadingDelay    time.Duration
	SettleDelay     time.Duration
	LoadingSegments int
	Transitions     TransitionPolicy
	Popups          PopupPolicy
}

func (o Options) withDefaults() Options {
	if o.LoadingDelay <= 0 {
		o.LoadingDelay = DefaultLoadingDelay
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.LoadingSegments <= 0 {
		o.LoadingSegments = DefaultLoadingSegments
	}
	if o.Transitions == "" {
		o.Transitions = TransitionQueue
	}
	if o.Popups == "" {
		o.Popups = PopupEphemeral
	}
	return o
}

type popupState struct {
	open bool
	zone models.Zone
	view PopupView
}

// Engine owns the game state and drives rooms, zones and the popup. It is
// not safe for concurrent use; every call and every scheduled callback must
// happen on one goroutine.
type Engine struct {
	registry *models.Registry
	state    *models.GameState
	view     Presenter
	sched    Scheduler
	logger   *slog.Logger
	opts     Options

	phase   Phase
	task    Task
	target  string
	pending string

	zones []models.Zone
	popup popupState
}

// NewEngine creates an engine positioned in the start room. Nothing is drawn
// until Start is called.
func NewEngine(reg *models.Registry, view Presenter, sched Scheduler, logger *slog.Logger, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if opts.StartRoom == "" {
		opts.StartRoom = reg.Start()
	}
	if _, ok := reg.Get(opts.StartRoom); !ok {
		return nil, fmt.Errorf("start room %q: %w", opts.StartRoom, ErrUnknownRoom)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		registry: reg,
		state:    models.NewGameState(opts.StartRoom),
		view:     view,
		sched:    sched,
		logger:   logger,
		opts:     opts,
	}, nil
}

// Start enters the current room.
func (e *Engine) Start() error {
	return e.GoToRoom(e.state.CurrentRoom)
}

func (e *Engine) State() *models.GameState {
	return e.state
}

func (e *Engine) Registry() *models.Registry {
	return e.registry
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Busy reports whether the loading overlay is up.
func (e *Engine) Busy() bool {
	return e.phase != PhaseIdle
}

// GoToRoom starts a transition to room id. Unknown rooms are logged and
// ignored.
func (e *Engine) GoToRoom(id string) error {
	if _, ok := e.registry.Get(id); !ok {
		e.logger.Warn("Room is not defined", "room", id)
		return fmt.Errorf("%q: %w", id, ErrUnknownRoom)
	}

	if e.phase != PhaseIdle {
		switch e.opts.Transitions {
		case TransitionReject:
			e.logger.Debug("Navigation rejected during transition", "room", id, "phase", e.phase)
			return ErrTransitionInProgress
		default:
			e.logger.Debug("Navigation queued", "room", id, "phase", e.phase, "replaces", e.pending)
			e.pending = id
			return nil
		}
	}

	e.logger.Debug("Room transition started", "from", e.state.CurrentRoom, "to", id)
	e.target = id
	e.phase = PhaseLoading
	e.view.ShowLoading(e.opts.LoadingSegments)
	e.task = e.sched.Schedule(e.opts.LoadingDelay, e.settle)
	return nil
}

func (e *Engine) settle() {
	id := e.target
	room, _ := e.registry.Get(id)

	if !e.view.HasRoom(id) {
		e.logger.Debug("No surface for room, deactivating all rooms", "room", id)
	}
	e.view.SetActiveRoom(id)
	e.view.SetHint(room.Hint)
	e.RenderZones(id, room.Zones)
	e.state.CurrentRoom = id

	e.phase = PhaseSettling
	e.task = e.sched.Schedule(e.opts.SettleDelay, e.finish)
}

func (e *Engine) finish() {
	e.view.HideLoading()
	e.phase = PhaseIdle
	e.task = nil
	e.target = ""
	e.logger.Info("Entered room", "room", e.state.CurrentRoom)

	if next := e.pending; next != "" {
		e.pending = ""
		if err := e.GoToRoom(next); err != nil {
			e.logger.Warn("Queued navigation failed", "room", next, "error", err)
		}
	}
}

// CancelTransition stops a running transition and drops any queued request.
// If the room was already committed it stays committed.
func (e *Engine) CancelTransition() {
	if e.phase == PhaseIdle {
		return
	}
	if e.task != nil {
		e.task.Stop()
	}
	e.logger.Debug("Room transition cancelled", "phase", e.phase, "target", e.target)
	e.view.HideLoading()
	e.phase = PhaseIdle
	e.task = nil
	e.target = ""
	e.pending = ""
}

// RenderZones replaces the room's hotspots with zones.
func (e *Engine) RenderZones(roomID string, zones []models.Zone) {
	e.zones = nil
	if !e.view.HasRoom(roomID) {
		e.logger.Debug("No surface for room, skipping zones", "room", roomID)
		return
	}
	e.zones = append([]models.Zone(nil), zones...)
	e.view.RenderZones(roomID, e.zones)
}

// Zones returns the hotspots currently rendered.
func (e *Engine) Zones() []models.Zone {
	return e.zones
}

// ClickAt handles a click at percentage coordinates. The loading overlay and
// an open popup both sit above the room and swallow the click. It reports
// whether a zone was hit.
func (e *Engine) ClickAt(px, py float64) bool {
	if e.Busy() || e.popup.open {
		return false
	}
	for i := len(e.zones) - 1; i >= 0; i-- {
		if e.zones[i].Contains(px, py) {
			e.HandleZoneClick(e.zones[i])
			return true
		}
	}
	return false
}

// HandleZoneClick dispatches on the zone's kind.
func (e *Engine) HandleZoneClick(z models.Zone) {
	switch z.Action {
	case models.ZoneNavigate:
		e.ClosePopup()
		// unknown targets are already logged by GoToRoom
		_ = e.GoToRoom(z.Target)
	case models.ZonePopup:
		e.OpenPopup(z)
	default:
		e.logger.Warn("Zone has no action", "zone", z.ID, "action", z.Action)
	}
}
