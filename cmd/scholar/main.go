package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/scholar/config"
	"github.com/spektr-org/scholar/engine"
	"github.com/spektr-org/scholar/helpers"
	"github.com/spektr-org/scholar/logging"
)

// ============================================================================
// SCHOLAR CLI -- statistics, filters and pivots over a student roster
// ============================================================================

const version = "0.1.0"

// app is the state shared by every command of one invocation.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	students []engine.Student

	file    string
	format  string
	out     string
	envFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "scholar",
		Short: "Scholar -- statistics and reports over a student roster",
		Long: `Scholar loads a student roster (CSV or XLSX, one row per course) and
answers questions about it: GPA statistics, runtime filters, grouped averages
and pivots.

Without --file the built-in three-student sample roster is used.

Environment:
  SCHOLAR_LOG_LEVEL        debug, info, warn, error (default info)
  SCHOLAR_LOG_DEV          console logs instead of json (default false)
  SCHOLAR_ROSTER_FILE      roster used when --file is not given
  SCHOLAR_FORMAT           default output format (default text)
  SCHOLAR_DEFAULT_MEASURE  measure aggregated when none is named (default GPA)

Formats:
  text      Human-readable report (default)
  json      Full JSON output
  pretty    Pretty-printed JSON
  csv       Table data as CSV (ready for Sheets/Excel)
  xlsx      Excel workbook, one sheet per table (use with --out)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.file, "file", "", "Roster file (.csv or .xlsx)")
	flags.StringVar(&a.format, "format", "text", "Output format: text, json, pretty, csv, xlsx")
	flags.StringVar(&a.out, "out", "", "Write output to file instead of stdout")
	flags.StringVar(&a.envFile, "env", "", "Load environment from this file instead of .env")

	rootCmd.AddCommand(
		newStatsCmd(a),
		newFilterCmd(a),
		newGroupCmd(a),
		newPivotCmd(a),
		newReportCmd(a),
		newFieldsCmd(a),
		newQueryCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

// setup loads configuration, builds the logger and reads the roster.
// Flags given on the command line win over configuration.
func (a *app) setup(cmd *cobra.Command) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if !cmd.Flags().Changed("format") {
		a.format = cfg.Report.Format
	}
	if !cmd.Flags().Changed("file") {
		a.file = cfg.Report.RosterFile
	}

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logCfg.Level = cfg.Logging.Level
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}
	a.log = logger.WithRun(uuid.New().String())

	a.students, err = loadRoster(a.file)
	if err != nil {
		return err
	}
	a.log.Debug("roster loaded",
		zap.String("command", cmd.Name()),
		zap.String("source", rosterSource(a.file)),
		zap.Int("students", len(a.students)))
	return nil
}

// loadRoster reads a roster by extension; an empty path yields the sample.
func loadRoster(path string) ([]engine.Student, error) {
	if path == "" {
		return helpers.SampleStudents(), nil
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster: %w", err)
		}
		defer f.Close()
		students, err := helpers.ParseRosterXLSX(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return students, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	students, err := helpers.ParseRosterCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return students, nil
}

func rosterSource(path string) string {
	if path == "" {
		return "sample"
	}
	return path
}

// engineOptions routes engine logging through the invocation logger.
func (a *app) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithLogger(a.log.Logger),
		engine.WithDefaultMeasure(a.cfg.Report.DefaultMeasure),
	}
}
