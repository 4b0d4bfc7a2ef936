package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcount/internal/logging"
)

const (
	envPrefix  = "CLIPCOUNT"
	configName = "clipcount"
)

// configDirs lists where clipcount.toml is looked for, first match wins.
func configDirs() []string {
	dirs := []string{"/etc/clipcount"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "clipcount"))
	}
	return dirs
}

// bindViper layers, lowest to highest: flag defaults, clipcount.toml,
// CLIPCOUNT_* env vars (dashes become underscores), explicitly set flags.
// An explicit --config that cannot be read is an error; a missing
// auto-discovered file is not.
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	if err := readConfig(cmd, v); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

func readConfig(cmd *cobra.Command, v *viper.Viper) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("config: %w", err)
}

// addCommonFlags adds --config and, for long-running commands, the
// logging flags.
func addCommonFlags(cmd *cobra.Command, withLogging bool) {
	f := cmd.Flags()
	f.String("config", "", "path to config file (overrides auto-discovery)")
	if !withLogging {
		return
	}
	f.Bool("no-background", false, "run interactively: coloured logs at debug level")
	f.String("log-format", "auto", "log format: auto|text|json")
	f.String("log-level", "", "log level: debug|info|warn|error (default: info, debug when interactive)")
}

// setupLogging configures slog from the bound logging flags. A terminal on
// stderr counts as interactive.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}
