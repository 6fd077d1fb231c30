// Package cli implements the mala command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/mala/internal/feedback"
	"github.com/mesh-intelligence/mala/internal/logging"
	"github.com/mesh-intelligence/mala/pkg/mala"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values read directly by subcommands. The
// directory, backend and log level flags are resolved through viper.
type rootFlags struct {
	jsonMode bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags rootFlags

	configDir string
	cfg       types.Config
	serveAddr string
	log       *slog.Logger

	// vibrator replaces terminal detection for haptic pulses when set.
	vibrator feedback.Vibrator
}

// NewRootCmd creates the top-level "mala" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{log: logging.NewNop()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "mala",
		Short:   "A persistent prayer-bead and mantra counter",
		Long:    "Mala counts repetitions in cycles of beads, tracks completed cycles\nagainst a goal and keeps the tally across runs.",
		Version: mala.Version,
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.Root().PersistentFlags())
		},
	}

	root.PersistentFlags().String("config-dir", "", "configuration directory (env MALA_CONFIG_DIR, default: platform config dir)")
	root.PersistentFlags().String("data-dir", "", "data directory (env MALA_DATA_DIR, default: platform data dir)")
	root.PersistentFlags().String("backend", "", "storage backend: sqlite or redis")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newShowCmd(a),
		newIncCmd(a),
		newDecCmd(a),
		newResetCmd(a),
		newResetCycleCmd(a),
		newSetCmd(a),
		newModeCmd(a),
		newSessionCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mala:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup loads config.yaml and resolves the storage configuration.
func (a *app) setup(flags *pflag.FlagSet) error {
	configDir, err := resolveConfigDir(flags)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	v, err := loadConfig(configDir, flags)
	if err != nil {
		return sysErr(err)
	}
	settings, err := decodeSettings(v)
	if err != nil {
		return userErr(err)
	}

	lvl, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return userErr(err)
	}
	a.log = logging.New(lvl)

	a.cfg = settings.Config
	if a.cfg.Backend == types.BackendSQLite {
		a.cfg.DataDir, err = resolveDataDir(settings.DataDir)
		if err != nil {
			return sysErr(fmt.Errorf("resolve data dir: %w", err))
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return userErr(fmt.Errorf("config: %w", err))
	}
	a.serveAddr = settings.Serve.Addr
	return nil
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error { return &exitError{code: exitUserError, err: err} }
func sysErr(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error to an exit code. Errors raised by cobra itself
// (unknown command, bad flags or arguments) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}
