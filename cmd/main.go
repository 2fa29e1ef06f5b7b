package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jwpark-data/subsync/internal/cleaner"
	"github.com/jwpark-data/subsync/internal/config"
	"github.com/jwpark-data/subsync/internal/persistence"
	"github.com/jwpark-data/subsync/internal/service"
	"github.com/jwpark-data/subsync/pkg/log"
)

func main() {
	// optional .env file next to the binary
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "subsync",
		Short:         "Clean and time-align paired dual-language subtitle files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newBatchCommand(), newWatchCommand(), newHistoryCommand())

	if err := root.Execute(); err != nil {
		service.NewDefaultErrorHandler().Handle(err)
		os.Exit(1)
	}
}

type app struct {
	cfg   *config.Config
	svc   *service.Service
	store *persistence.SQLiteStore
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

func setup() (*app, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, service.WrapError(err, service.ErrConfig, "failed to load configuration")
	}

	level := log.ParseLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		if err := log.InitFileLogger(cfg.Log.File, level); err != nil {
			return nil, service.WrapError(err, service.ErrConfig, "failed to open log file")
		}
	} else {
		log.InitLogger(level)
	}

	rules := cleaner.DefaultRules()
	if cfg.Clean.RulesFile != "" {
		rules, err = cleaner.LoadRules(cfg.Clean.RulesFile)
		if err != nil {
			return nil, service.WrapError(err, service.ErrConfig, "failed to load cleaning rules")
		}
	}
	textCleaner, err := cleaner.New(rules)
	if err != nil {
		return nil, service.WrapError(err, service.ErrConfig, "invalid cleaning rules")
	}

	store, err := persistence.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		return nil, service.WrapError(err, service.ErrConfig, "failed to open run history store")
	}

	return &app{
		cfg:   cfg,
		svc:   service.New(*cfg, textCleaner, store),
		store: store,
	}, nil
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <base-name>",
		Short: "Process one subtitle pair by its shared base name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			return a.svc.RunBase(cmd.Context(), args[0])
		},
	}
}

func newBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Process every complete pair found in the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			return a.svc.RunBatch(cmd.Context())
		},
	}
}

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rescan the input directory on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			c := cron.New()
			if err := a.svc.Schedule(context.Background(), c); err != nil {
				return err
			}
			c.Run()
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pair runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			records, err := a.store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, record := range records {
				line := fmt.Sprintf("%s  %-7s  %s  cues=%d", record.CreatedAt.Format("2006-01-02 15:04:05"),
					record.Status, record.PairKey, record.CueCount)
				if record.Error != "" {
					line += "  error=" + record.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")
	return cmd
}
