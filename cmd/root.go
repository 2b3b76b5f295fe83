package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/productdevbook/serial-logger/internal/config"
	"github.com/productdevbook/serial-logger/internal/logger"
	"github.com/productdevbook/serial-logger/internal/notify"
	"github.com/productdevbook/serial-logger/internal/pipeline"
	"github.com/productdevbook/serial-logger/internal/scanner"
	"github.com/productdevbook/serial-logger/internal/ui"
)

const appID = "serial-logger"

var (
	version      = "0.1.0"
	silent       bool
	debug        bool
	baseDir      string
	settingsFile string
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "serial-logger",
	Short: "Record connected serial ports and post the report to Slack",
	Long: `serial-logger lists the serial ports attached to this machine, saves them to
csv_logs/serial_ports_<hostname>_<YYYYMMDD_HHMMSS>.csv and uploads the file to the
Slack channel configured in slack_settings.toml.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCollect,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

// loggedError wraps a failure the run has already written to the log.
type loggedError struct {
	error
}

func (e loggedError) Unwrap() error {
	return e.error
}

func printError(cmd *cobra.Command, err error) {
	var logged loggedError
	if errors.As(err, &logged) {
		return
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&silent, "silent", false, "Run without interactive output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Base directory for csv_logs, the settings file and the log (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", config.DefaultSettingsFile, "Slack settings file, relative to --dir")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file, relative to --dir (default: $LOG_FILE or "+logger.DefaultFile+")")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.Version = version
}

func runCollect(cmd *cobra.Command, args []string) error {
	dir, err := resolveBaseDir()
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, dir)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info().Str("version", version).Str("dir", dir).Msg("Collecting serial ports")

	p := pipeline.New(log.Logger, scanner.New(), notify.New(log.Logger))

	res, err := p.Run(cmd.Context(), pipeline.Options{
		BaseDir:      dir,
		SettingsPath: settingsFile,
	})
	if err != nil {
		return loggedError{err}
	}

	if interactive(cmd) {
		fmt.Fprint(cmd.OutOrStdout(), ui.Summary(res))
	}

	return nil
}

// resolveBaseDir returns the absolute base directory, once per process.
func resolveBaseDir() (string, error) {
	if baseDir == "" {
		return os.Getwd()
	}

	dir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve --dir: %w", err)
	}

	return dir, nil
}

func newLogger(cmd *cobra.Command, dir string) (*logger.Logger, error) {
	cfg := logger.DefaultConfig()
	if logFile != "" {
		cfg.File = logFile
	}
	if debug {
		cfg.Debug = true
	}
	if !filepath.IsAbs(cfg.File) {
		cfg.File = filepath.Join(dir, cfg.File)
	}

	log, err := logger.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	ctx := log.With().Str("run_id", uuid.NewString())
	if id, err := machineid.ProtectedID(appID); err == nil {
		ctx = ctx.Str("machine_id", id)
	}
	log.Logger = ctx.Logger()

	return log, nil
}

func interactive(cmd *cobra.Command) bool {
	return !silent && logger.IsTerminal(cmd.OutOrStdout())
}
