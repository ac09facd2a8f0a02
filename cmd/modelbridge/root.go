package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelbridge/internal/config"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries state shared by subcommands.
type cli struct {
	out        io.Writer
	configPath string
	cfg        config.Config
	log        zerolog.Logger
}

// loadConfig resolves the effective configuration: file, then MODELBRIDGE_*
// env overrides, then defaults for whatever is still unset.
func (c *cli) loadConfig() error {
	var cfg config.Config
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg
	c.log = newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return nil
}

func newLogger(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:           "modelbridge",
		Short:         "Native model session manager: handshake, load, free and embed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.loadConfig()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")

	root.AddCommand(
		newServeCmd(c),
		newHandshakeCmd(c),
		newEmbedCmd(c),
		newInspectCmd(c),
		newVerifyCmd(c),
		newSearchCmd(c),
		&cobra.Command{Use: "version", Short: "Print the version", RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, version)
			return err
		}},
	)
	return root
}
