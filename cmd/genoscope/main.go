package main

import (
	"fmt"
	"os"

	"genoscope/genome"
	"genoscope/models"
	"genoscope/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultServerUrl = "ws://localhost:3001/"

func main() {
	// Gather environment variables
	_ = godotenv.Load()

	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	serverUrl := cfg.Tui.ServerUrl
	if serverUrl == "" {
		serverUrl = defaultServerUrl
	}

	// Positional arguments are genome files to open on startup
	store := genome.NewStore()
	bridge := tui.NewBridge(serverUrl)
	model := tui.NewModel(&cfg, store, bridge, os.Args[1:]...)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
