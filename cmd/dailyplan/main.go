package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"dailyplan/internal/notify"
	"dailyplan/internal/planner"
	"dailyplan/internal/storage"
	"dailyplan/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dailyplan failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := update.LoadRuntimeConfig(update.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	opts := []notify.Option{notify.WithPolicy(notify.FullPresentation)}
	if cfg.DesktopNotifications {
		opts = append(opts, notify.WithSender(notify.ExecSender{}))
	}
	notifier := notify.NewLocalNotifier(cfg.NotifierBuffer, opts...)
	notifier.Start()
	defer notifier.Stop()

	granted, err := notifier.RequestPermission(context.Background())
	if err != nil {
		return fmt.Errorf("request notification permission: %w", err)
	}
	if !granted {
		log.Printf("desktop notifications unavailable, using in-app banners only")
	}

	coord := notify.NewCoordinator(notifier)
	p := planner.New(repo, coord)

	// Pending schedules do not survive a restart, so rebuild them from the
	// store before the UI starts.
	rescheduled, err := p.RehydrateNotifications(context.Background())
	if err != nil {
		return fmt.Errorf("reschedule notifications: %w", err)
	}
	if rescheduled > 0 {
		log.Printf("rescheduled %d pending notifications", rescheduled)
	}

	program := tea.NewProgram(update.NewModel(p, notifier.C()))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
