package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/planforge/internal/cli"
	"github.com/alexanderramin/planforge/internal/config"
	"github.com/alexanderramin/planforge/internal/db"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repository and unit of work
	planRepo := repository.NewSQLitePlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	opts := service.Options{
		Limits: cfg.DomainLimits(),
		User:   cfg.User,
	}

	var logOut io.Writer
	if cfg.Log.UseCases {
		logOut = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(logOut, level)

	app := &cli.App{
		Plans:  service.NewPlanService(planRepo, uow, opts, observer),
		Nodes:  service.NewNodeService(planRepo, uow, opts, observer),
		Import: service.NewImportService(planRepo, uow, opts, observer),
		Limits: opts.Limits,
	}

	// Forms and the tree editor need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// loadConfig reads --config-dir ahead of cobra, which only parses flags once
// the services it needs are already wired.
func loadConfig(args []string) (*config.Config, error) {
	dir, err := config.ResolveDir(configDirArg(args))
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

func configDirArg(args []string) string {
	flag := "--" + cli.ConfigDirFlag
	for i, a := range args {
		if a == "--" {
			break
		}
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v
		}
	}
	return ""
}
