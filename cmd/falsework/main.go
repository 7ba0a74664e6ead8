package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/falsework/internal/cli"
	"github.com/alexanderramin/falsework/internal/config"
	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/repository"
	"github.com/alexanderramin/falsework/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.falsework/falsework.db
	dbPath := os.Getenv("FALSEWORK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".falsework", "falsework.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Calendar settings come from the global config plus an optional
	// falsework.toml in the working directory, unless --calendar points at
	// an explicit file.
	var cfg *config.Config
	var err error
	if calPath := calendarOverride(os.Args[1:]); calPath != "" {
		cfg, err = config.LoadFile(calPath)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("finding working directory: %w", err)
		}
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cal, err := cfg.BuildCalendar()
	if err != nil {
		return fmt.Errorf("building calendar: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and the unit of work for transactional writes.
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Structured use-case logging goes to stderr only when attached to a
	// terminal and FALSEWORK_LOG is set.
	var observers []service.UseCaseObserver
	if os.Getenv("FALSEWORK_LOG") != "" && isatty.IsTerminal(os.Stderr.Fd()) {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, taskRepo),
		Schedule: service.NewScheduleService(projectRepo, taskRepo, uow, cal, observers...),
		Edits:    service.NewEditService(projectRepo, taskRepo, uow, cal),
		Import:   service.NewImportService(uow),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// calendarOverride pre-scans the arguments for --calendar. The calendar has
// to be known before services are wired, which is earlier than cobra parses
// flags; the flag is still registered on the root command for help output.
func calendarOverride(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--calendar" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--calendar="):
			return strings.TrimPrefix(arg, "--calendar=")
		}
	}
	return ""
}
