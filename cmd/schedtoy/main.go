package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	lg "github.com/Andrej220/go-utils/zlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfg config

	rootCmd := &cobra.Command{
		Use:           "schedtoy",
		Short:         "Scheduling toys for the workqueue package",
		Long:          "schedtoy drives the priority work scheduler with concurrent producers and prints the resulting execution order.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(v); err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			cmd.SetContext(lg.Attach(cmd.Context(), zlogger{logger.Named("workqueue")}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	if err := bindFlags(rootCmd.PersistentFlags(), v); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "queue",
			Short: "Run producers against a single priority scheduler",
			RunE: func(cmd *cobra.Command, args []string) error {
				outcomes, err := runQueueDemo(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				printOutcomes(cmd.OutOrStdout(), "priority queue", outcomes)
				return nil
			},
		},
		&cobra.Command{
			Use:   "lanes",
			Short: "Run producers against the high/normal lane scheduler",
			RunE: func(cmd *cobra.Command, args []string) error {
				outcomes, err := runLanesDemo(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				printOutcomes(cmd.OutOrStdout(), fmt.Sprintf("lanes (ambient %t)", cfg.Ambient), outcomes)
				return nil
			},
		},
		&cobra.Command{
			Use:   "lockorder",
			Short: "Show the order in which contending goroutines acquire Go locks",
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, lk := range lockKinds() {
					res, err := runLockOrder(cmd.Context(), lk, cfg.Threads)
					if err != nil {
						return err
					}
					printLockOrder(cmd.OutOrStdout(), lk.name, res)
				}
				return nil
			},
		},
	)

	return rootCmd
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
