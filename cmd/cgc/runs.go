package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helixml/cgc/application/service"
	"github.com/helixml/cgc/infrastructure/cgcformat"
	"github.com/helixml/cgc/infrastructure/persistence"
	"github.com/helixml/cgc/internal/config"
	"github.com/helixml/cgc/internal/database"
	"github.com/helixml/cgc/internal/log"
	"github.com/spf13/cobra"
)

type runsFlags struct {
	envFile string
	dbURL   string
}

func runsCmd() *cobra.Command {
	var f runsFlags

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect comparison runs stored with --db",
	}
	cmd.PersistentFlags().StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.PersistentFlags().StringVar(&f.dbURL, "db", "", "Run database (overrides DB_URL)")

	cmd.AddCommand(runsListCmd(&f))
	cmd.AddCommand(runsShowCmd(&f))
	return cmd
}

func runsListCmd(f *runsFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunQuery(cmd, f, func(ctx context.Context, q *service.RunQuery) error {
				runs, err := q.List(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "id\tcreated\tcallers\tloci\tcommon_core")
				for _, r := range runs {
					fmt.Fprintf(out, "%d\t%s\t%s\t%d\t%d\n",
						r.ID(),
						r.CreatedAt().UTC().Format(time.RFC3339),
						strings.Join(r.Callers(), ","),
						r.LocusCount(),
						r.CommonCoreCount(),
					)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many runs (0 for all)")
	return cmd
}

func runsShowCmd(f *runsFlags) *cobra.Command {
	var (
		runID      int64
		commonCore bool
		contig     string
		count      bool
	)

	cmd := &cobra.Command{
		Use:   "show --run ID",
		Short: "Print the loci of a stored run as CGC records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID <= 0 {
				return &service.ConfigurationError{Field: "run", Reason: "a run id is required", Err: service.ErrInvalidArgument}
			}
			filter := service.LocusFilter{CommonCore: commonCore, Contig: contig}

			return withRunQuery(cmd, f, func(ctx context.Context, q *service.RunQuery) error {
				if count {
					n, err := q.Count(ctx, runID, filter)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), n)
					return nil
				}

				_, loci, err := q.Show(ctx, runID, filter)
				if err != nil {
					return err
				}
				kind := cgcformat.KindSuperset
				if commonCore {
					kind = cgcformat.KindCommonCore
				}
				return cgcformat.WriteRecords(cmd.OutOrStdout(), kind, loci)
			})
		},
	}
	cmd.Flags().Int64Var(&runID, "run", 0, "Run id (see \"cgc runs list\")")
	cmd.Flags().BoolVar(&commonCore, "common-core", false, "Only loci every caller agreed on")
	cmd.Flags().StringVar(&contig, "contig", "", "Only loci on this contig")
	cmd.Flags().BoolVar(&count, "count", false, "Print the number of matching loci instead")
	return cmd
}

// withRunQuery opens the configured run database for the duration of fn.
func withRunQuery(cmd *cobra.Command, f *runsFlags, fn func(context.Context, *service.RunQuery) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(f.envFile)
	if err != nil {
		return err
	}
	if f.dbURL != "" {
		cfg = cfg.Apply(config.WithDBURL(f.dbURL))
	}
	if !cfg.PersistenceEnabled() {
		return &service.ConfigurationError{Field: "db", Reason: "set --db or DB_URL", Err: service.ErrInvalidArgument}
	}

	logger := log.NewLogger(cfg, cmd.ErrOrStderr())
	db, err := database.NewDatabase(ctx, cfg.DBURL(), logger.Slog())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()
	if err := persistence.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return fn(ctx, service.NewRunQuery(persistence.NewRunStore(db), persistence.NewLocusStore(db)))
}
