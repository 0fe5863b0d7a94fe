package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/persistence"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/repository"
	"github.com/spec-kit/backoffice-service/migrations"
)

// records is the read side the CLI reports on.
type records struct {
	licenses repository.LicenseRepository
	leads    repository.LeadRepository
	close    func()
}

type recordOpener func(ctx context.Context) (*records, error)

// openRecords uses Postgres when POSTGRES_DSN is set and the seeded data otherwise.
func openRecords(ctx context.Context) (*records, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if !pg.Enabled() {
		return seededRecords(), nil
	}
	pool := pg.PoolHandle()
	return &records{
		licenses: repository.NewLicenseRepository(pool),
		leads:    repository.NewLeadRepository(pool),
		close:    pg.Close,
	}, nil
}

func seededRecords() *records {
	return &records{
		licenses: repository.NewMemoryLicenseRepository(repository.SeedLicenses()),
		leads:    repository.NewMemoryLeadRepository(repository.SeedLeads()),
		close:    func() {},
	}
}

func newRootCmd(out io.Writer, open recordOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "backofficectl",
		Short:         "Reporting utilities for the back-office service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newExportCmd(open), newSummaryCmd(open), newMigrateCmd(persistence.RunMigrations))
	return root
}

func newExportCmd(open recordOpener) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:       "export [licenses|leads]",
		Short:     "Write a CSV export to stdout or a file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"licenses", "leads"},
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer recs.close()

			var data []byte
			var filename string
			switch args[0] {
			case "licenses":
				all, err := recs.licenses.List(cmd.Context())
				if err != nil {
					return err
				}
				data, filename = reporting.ExportLicensesCSV(all), reporting.LicenseExportFilename
			case "leads":
				all, err := recs.leads.List(cmd.Context())
				if err != nil {
					return err
				}
				data, filename = reporting.ExportLeadsCSV(all), reporting.LeadExportFilename
			default:
				return fmt.Errorf("unknown export %q", args[0])
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if outPath == "." {
				outPath = filename
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", `output path; "." uses the default export filename`)
	return cmd
}

type summaryReport struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Licenses    reporting.LicenseSummary  `json:"licenses"`
	Pipeline    reporting.PipelineSummary `json:"pipeline"`
}

func newSummaryCmd(open recordOpener) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print license and pipeline summaries as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.DateOnly, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				now = parsed
			}

			recs, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer recs.close()

			licenses, err := recs.licenses.List(cmd.Context())
			if err != nil {
				return err
			}
			leads, err := recs.leads.List(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summaryReport{
				GeneratedAt: now,
				Licenses:    reporting.SummarizeLicenses(licenses, now),
				Pipeline:    reporting.SummarizePipeline(leads),
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate expiry as of this date (YYYY-MM-DD)")
	return cmd
}

type migrateFunc func(dsn string, src fs.FS, logger *zap.Logger) error

func newMigrateCmd(run migrateFunc) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := run(cfg.Postgres.DSN, persistence.MigrationSource(dir, migrations.FS), logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "read migrations from this directory instead of the embedded set")
	return cmd
}
