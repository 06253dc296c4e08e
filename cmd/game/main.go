package main

import (
	"fmt"
	"os"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/config"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Launch(cfg); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
