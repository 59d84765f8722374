package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Ruhithpasha/emsfrontend/internal/api"
	"github.com/Ruhithpasha/emsfrontend/internal/app"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/session"
	"github.com/Ruhithpasha/emsfrontend/internal/store"
	appsync "github.com/Ruhithpasha/emsfrontend/internal/sync"
)

var (
	flagConfig string
	flagAPIURL string
)

func main() {
	root := &cobra.Command{
		Use:   "emsdash",
		Short: "Terminal dashboard for the employee management backend",
		Long: "emsdash is a terminal client for the employee management " +
			"backend: sign in as an admin to manage the roster, assign " +
			"tasks, and export reports, or as an employee to work your " +
			"personal task board.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	root.Flags().StringVar(
		&flagConfig, "config", "",
		"path to config file (default ~/.config/emsdash/config.yaml)",
	)
	root.Flags().StringVar(
		&flagAPIURL, "api-url", "",
		"backend base URL (overrides config and EMS_API_URL)",
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A local .env is optional; missing file is not an error.
	_ = godotenv.Load()

	configPath := flagConfig
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}

	dataDir := model.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}

	s, err := store.NewSQLiteStore(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer s.Close()

	client := api.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)
	sessions := session.NewManager(dataDir)
	refresher := appsync.New(
		client, s,
		time.Duration(cfg.Display.RefreshIntervalSec)*time.Second,
	)

	if os.Getenv("EMS_DEBUG") != "" {
		f, err := tea.LogToFile(filepath.Join(dataDir, "debug.log"), "emsdash")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	m := app.New(client, s, sessions, refresher, filepath.Join(dataDir, "exports"))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
