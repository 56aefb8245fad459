package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/svelazco/cronos/internal/cli"
	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/repository"
	"github.com/svelazco/cronos/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.cronos/cronos.db
	dbPath := os.Getenv("CRONOS_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".cronos", "cronos.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// CRONOS_LOG enables use-case telemetry on stderr for the write-heavy
	// services.
	var observers []service.UseCaseObserver
	if os.Getenv("CRONOS_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Calendars: service.NewCalendarService(repository.NewSQLiteCalendarRepo(database)),
		Schedules: service.NewScheduleService(repository.NewSQLiteScheduleRepo(database), uow),
		Nodes:     service.NewNodeService(repository.NewSQLiteNodeRepo(database), uow),
		Deps:      service.NewDependencyService(repository.NewSQLiteDependencyRepo(database), uow),
		Generate:  service.NewGenerateService(uow, observers...),
		Export:    service.NewExportService(uow, observers...),
		Gantt:     service.NewProjectionService(uow),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
