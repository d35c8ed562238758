package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/helixml/cgc/application/service"
	"github.com/helixml/cgc/infrastructure/persistence"
	"github.com/helixml/cgc/internal/config"
	"github.com/helixml/cgc/internal/database"
	"github.com/helixml/cgc/internal/log"
	"github.com/spf13/cobra"
)

// stdoutName selects standard output for the report and unique destinations.
const stdoutName = "-"

type compareFlags struct {
	envFile        string
	dbURL          string
	reportFormat   string
	callerFromName bool
	progress       bool
	messages       bool
	warnings       bool
	dest           destinations
}

// destinations holds output paths keyed by their argument name.
type destinations struct {
	log        string
	superset   string
	consensus  string
	commonCore string
	gff        string
	report     string
	unique     string
}

func (d *destinations) field(key string) *string {
	switch key {
	case "log":
		return &d.log
	case "superset":
		return &d.superset
	case "consensus":
		return &d.consensus
	case "commoncore":
		return &d.commonCore
	case "gff", "cgc":
		return &d.gff
	case "report":
		return &d.report
	case "unique":
		return &d.unique
	default:
		return nil
	}
}

var keywordPattern = regexp.MustCompile(`^[A-Za-z]+$`)

func compareCmd() *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare [flags] FILE FILE... [key=path...]",
		Short: "Compare gene calls from two or more callers",
		Long: `Compare gene calls from two or more callers.

Each FILE holds one caller's calls (see "cgc input"). Output destinations may
be given as flags or as key=path arguments: log=, cgc= (GFF), superset=,
consensus=, commoncore=, report=, unique=. Superset, consensus and
commoncore are required.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  DB_URL                Store runs in this database (sqlite:///path or postgres://...)
  LOG_LEVEL             Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT            Log format: pretty, json, plain (default: pretty)
  REPORT_FORMAT         Report format: text, yaml (default: text)
  VERBOSITY_PROGRESS    Log stage progress (default: false)
  VERBOSITY_MESSAGES    Log informational messages (default: false)
  VERBOSITY_WARNINGS    Log warnings (default: false)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCompare(cmd, f, args)
			var ce *service.ConfigurationError
			if errors.As(err, &ce) {
				fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	flags.StringVar(&f.dest.log, "log", "", "Run log file (default: stderr)")
	flags.StringVar(&f.dest.superset, "superset", "", "Superset output file")
	flags.StringVar(&f.dest.consensus, "consensus", "", "Consensus output file")
	flags.StringVar(&f.dest.commonCore, "commoncore", "", "Common core output file")
	flags.StringVar(&f.dest.gff, "gff", "", "GFF3 output file")
	flags.StringVar(&f.dest.report, "report", stdoutName, "Report output file")
	flags.StringVar(&f.dest.unique, "unique", "", "Unique calls output file (default: appended to the report)")
	flags.StringVar(&f.dbURL, "db", "", "Store the run in this database (overrides DB_URL)")
	flags.StringVar(&f.reportFormat, "report-format", "", "Report format: text or yaml (overrides REPORT_FORMAT)")
	flags.BoolVar(&f.callerFromName, "caller-from-filename", false, "Name headerless inputs after their file")
	flags.BoolVar(&f.progress, "progress", false, "Log stage progress")
	flags.BoolVar(&f.messages, "messages", false, "Log informational messages")
	flags.BoolVar(&f.warnings, "warnings", false, "Log warnings")

	return cmd
}

func runCompare(cmd *cobra.Command, f compareFlags, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(f.envFile)
	if err != nil {
		return err
	}
	cfg, err = applyCompareOverrides(cmd, cfg, f)
	if err != nil {
		return err
	}

	dest := f.dest
	inputs, err := splitArgs(cmd, args, &dest)
	if err != nil {
		return err
	}
	if err := checkInvocation(inputs, dest); err != nil {
		return err
	}

	logOut := cmd.ErrOrStderr()
	logCfg := cfg
	if dest.log != "" {
		lf, oerr := os.Create(dest.log)
		if oerr != nil {
			return &service.IOError{Op: "create", Path: dest.log, Err: oerr}
		}
		defer func() {
			if cerr := lf.Close(); cerr != nil && err == nil {
				err = &service.IOError{Op: "close", Path: dest.log, Err: cerr}
			}
		}()
		logOut = lf
		if cfg.LogFormat() == config.LogFormatPretty {
			logCfg = cfg.Apply(config.WithLogFormat(config.LogFormatPlain))
		}
	}
	logger := log.NewLogger(logCfg, logOut)
	diag := log.NewDiagnostics(logger, cfg.Verbosity())

	attrs := append([]slog.Attr{slog.String("version", version)}, logCfg.LogAttrs()...)
	logger.Slog().LogAttrs(ctx, slog.LevelInfo, "starting cgc", attrs...)

	if err := compare(ctx, cmd, cfg, diag, f.callerFromName, inputs, dest); err != nil {
		diag.Error(ctx, "comparison failed", err)
		return err
	}
	return nil
}

func compare(
	ctx context.Context,
	cmd *cobra.Command,
	cfg config.AppConfig,
	diag *log.Diagnostics,
	callerFromName bool,
	paths []string,
	dest destinations,
) (err error) {
	var files closers
	defer func() {
		if cerr := files.closeAll(); cerr != nil && err == nil {
			err = cerr
		}
		// Outputs of a failed run are removed.
		if err != nil {
			if rerr := files.removeCreated(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()

	inputs := make([]service.Input, 0, len(paths))
	for _, p := range paths {
		fh, err := files.open(p)
		if err != nil {
			return err
		}
		in := service.Input{Name: p, Reader: fh}
		if callerFromName {
			in.Caller = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		inputs = append(inputs, in)
	}

	out := service.Outputs{ReportFormat: cfg.ReportFormat()}
	targets := []struct {
		path string
		dst  *service.Destination
	}{
		{dest.superset, &out.Superset},
		{dest.consensus, &out.Consensus},
		{dest.commonCore, &out.CommonCore},
		{dest.gff, &out.GFF},
		{dest.report, &out.Report},
		{dest.unique, &out.Unique},
	}
	for _, t := range targets {
		switch t.path {
		case "":
			continue
		case stdoutName:
			*t.dst = service.Destination{Name: "stdout", Writer: cmd.OutOrStdout()}
		default:
			fh, err := files.create(t.path)
			if err != nil {
				return err
			}
			*t.dst = service.Destination{Name: t.path, Writer: fh}
		}
	}

	var opts []service.ReconcilerOption
	if cfg.PersistenceEnabled() {
		db, derr := database.NewDatabase(ctx, cfg.DBURL(), diag.Logger().Slog())
		if derr != nil {
			return fmt.Errorf("open database: %w", derr)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close database: %w", cerr)
			}
		}()
		if merr := persistence.AutoMigrate(db); merr != nil {
			return fmt.Errorf("migrate database: %w", merr)
		}
		opts = append(opts, service.WithRunStore(persistence.NewRunStore(db)))
	}

	_, err = service.NewReconciler(diag, opts...).Run(ctx, inputs, out)
	return err
}

func applyCompareOverrides(cmd *cobra.Command, cfg config.AppConfig, f compareFlags) (config.AppConfig, error) {
	var opts []config.AppConfigOption
	if f.dbURL != "" {
		opts = append(opts, config.WithDBURL(f.dbURL))
	}
	if f.reportFormat != "" {
		format, ok := config.ParseReportFormat(f.reportFormat)
		if !ok {
			return config.AppConfig{}, &service.ConfigurationError{
				Field:  "report-format",
				Reason: fmt.Sprintf("unknown report format %q", f.reportFormat),
				Err:    service.ErrInvalidArgument,
			}
		}
		opts = append(opts, config.WithReportFormat(format))
	}

	v := cfg.Verbosity()
	progress, messages, warnings := v.Progress(), v.Messages(), v.Warnings()
	if cmd.Flags().Changed("progress") {
		progress = f.progress
	}
	if cmd.Flags().Changed("messages") {
		messages = f.messages
	}
	if cmd.Flags().Changed("warnings") {
		warnings = f.warnings
	}
	opts = append(opts, config.WithVerbosity(config.NewVerbosity(progress, messages, warnings)))

	return cfg.Apply(opts...), nil
}

// splitArgs separates input files from key=path output assignments.
// An assignment conflicts with a flag only when both name different paths.
func splitArgs(cmd *cobra.Command, args []string, dest *destinations) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || !keywordPattern.MatchString(key) {
			inputs = append(inputs, arg)
			continue
		}

		key = strings.ToLower(key)
		target := dest.field(key)
		if target == nil {
			return nil, &service.ConfigurationError{
				Field:  key,
				Reason: fmt.Sprintf("unknown argument %q", arg),
				Err:    service.ErrInvalidArgument,
			}
		}
		if value == "" {
			return nil, &service.ConfigurationError{
				Field:  key,
				Reason: "empty path",
				Err:    service.ErrInvalidArgument,
			}
		}

		flagName := key
		if key == "cgc" {
			flagName = "gff"
		}
		if cmd.Flags().Changed(flagName) && *target != value {
			return nil, &service.ConfigurationError{
				Field:  key,
				Reason: fmt.Sprintf("%s given as both --%s=%s and %s", key, flagName, *target, arg),
				Err:    service.ErrInvalidArgument,
			}
		}
		*target = value
	}
	return inputs, nil
}

// checkInvocation rejects an invocation before any file is opened.
func checkInvocation(inputs []string, dest destinations) error {
	if len(inputs) < 2 {
		return &service.ConfigurationError{
			Field:  "inputs",
			Reason: fmt.Sprintf("got %d, %v", len(inputs), service.ErrTooFewInputs),
			Err:    service.ErrTooFewInputs,
		}
	}
	required := []struct {
		field string
		path  string
	}{
		{"superset", dest.superset},
		{"consensus", dest.consensus},
		{"commoncore", dest.commonCore},
	}
	for _, r := range required {
		if r.path == "" {
			return &service.ConfigurationError{Field: r.field, Err: service.ErrMissingOutput}
		}
	}
	return nil
}
