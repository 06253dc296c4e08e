package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/config"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/engine"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/logger"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/tui"
)

// step is one scripted click: a zone id in the current room, or a popup
// button index when button is set.
type step struct {
	zone   string
	button int
}

var script = []step{
	{zone: "door-to-hallway"},
	{zone: "door-to-library"},
	{zone: "fireplace"},
	{zone: "fireplace", button: 1},
}

// printer is a headless presenter that narrates what a screen would show.
type printer struct{}

func (printer) HasRoom(string) bool { return true }

func (printer) ShowLoading(segments int) {
	fmt.Printf("  [loading %d segments]\n", segments)
}

func (printer) HideLoading() {
	fmt.Println("  [loading hidden]")
}

func (printer) SetActiveRoom(id string) {
	fmt.Printf("  Room: %s\n", id)
}

func (printer) SetHint(text string) {
	fmt.Printf("  Hint: %s\n", text)
}

func (printer) HidePopup() {}

func (printer) RenderZones(_ string, zones []models.Zone) {
	for i, z := range zones {
		fmt.Printf("    %d. %s (%s)\n", i+1, z.Label, z.Action)
	}
}

func (printer) ShowPopup(v engine.PopupView) {
	fmt.Printf("  Popup %q: %s\n", v.Title, v.Body)
	for i, b := range v.Buttons {
		fmt.Printf("    [%d] %s\n", i+1, b.Label)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.New(os.Stderr, &config.Config{LogLevel: slog.LevelWarn, Environment: cfg.Environment})

	reg, err := tui.LoadRooms(cfg)
	if err != nil {
		log.Fatalf("Failed to load rooms: %v", err)
	}

	sched := engine.NewManualScheduler()
	eng, err := engine.NewEngine(reg, printer{}, sched, lg, cfg.EngineOptions())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	fmt.Println("--- Entering the manor ---")
	if err := eng.Start(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	sched.RunAll()

	for turn, s := range script {
		fmt.Printf("--- Step %d ---\n", turn+1)
		if s.button > 0 {
			fmt.Printf("Press button %d\n", s.button)
			if !eng.PressButton(s.button - 1) {
				fmt.Println("  (nothing happens)")
			}
			continue
		}

		fmt.Printf("Click %s\n", s.zone)
		found := false
		for _, z := range eng.Zones() {
			if z.ID == s.zone {
				eng.HandleZoneClick(z)
				found = true
				break
			}
		}
		if !found {
			fmt.Println("  (no such zone here)")
		}
		sched.RunAll()
	}

	st := eng.State()
	fmt.Printf("\nRoom=%s Inventory=%v Flags=%v\n", st.CurrentRoom, st.Inventory, st.Flags)
}
