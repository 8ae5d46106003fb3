package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/debug"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool

	once      sync.Once
	cfg       *config.Config
	cfgPath   string
	configErr error
	logger    *slog.Logger
}

// ensureConfig loads .env, the config file and GRIDDLE_* overrides once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		if err := config.LoadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.ApplyEnv(); err != nil {
			c.configErr = err
			return
		}
		if *c.debugFlag {
			cfg.Debug = true
		}
		_ = cfg.Validate()
		c.cfg, c.cfgPath = cfg, path

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		c.logger = NewLogger(level)
	})
	return c.cfg, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var debugFlag bool
	ctx := &commandContext{configFlag: &configFlag, debugFlag: &debugFlag}

	rootCmd := &cobra.Command{
		Use:           "griddle",
		Short:         "Patty timers and cooking-state classification for a griddle display",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Debug {
				debug.StartGoroutineLogger(0, ctx.logger)
				debug.StartMemLogger(0, ctx.logger)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (.json, .toml or .yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging and runtime metrics")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newSimulateCommand(ctx))
	rootCmd.AddCommand(newClassifyCommand(ctx))
	rootCmd.AddCommand(newDetectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	return rootCmd
}
