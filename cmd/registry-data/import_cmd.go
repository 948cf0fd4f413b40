package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/civreg/modules/registry"
	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/spreadsheet"
	"github.com/iota-uz/civreg/modules/registry/services"
	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/configuration"
	"github.com/iota-uz/civreg/pkg/eventbus"
)

type importOptions struct {
	kind    string
	file    string
	sheet   string
	actor   string
	apply   bool
	offline bool
}

type importSummary struct {
	File string `json:"file"`
	services.Result
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import one spreadsheet of civil-registry records",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			return runImport(cmd.Context(), opts, conf, conf.Logger(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "Record kind, see `registry-data kinds` (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Spreadsheet to import, .xlsx or .csv (required)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().StringVar(&opts.actor, "actor", os.Getenv("USER"), "Operator recorded in the activity log")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Dry-run against an empty in-memory store without connecting to the DB")

	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, opts importOptions, conf *configuration.Configuration, logger *logrus.Logger, out io.Writer) error {
	kind, err := record.ParseKind(opts.kind)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("invalid --kind: %w", err))
	}
	if strings.TrimSpace(opts.file) == "" {
		return withCode(exitUsage, fmt.Errorf("--file is required"))
	}
	if opts.apply && opts.offline {
		return withCode(exitUsage, fmt.Errorf("--apply cannot be combined with --offline"))
	}

	rows, err := readRows(opts.file, opts.sheet)
	if err != nil {
		return err
	}

	var (
		repo    record.Repository
		reports record.ReportRepository
	)
	if opts.offline {
		repo = persistence.NewMemoryRepository()
	} else {
		pool, err := connectDB(ctx, conf.Database)
		if err != nil {
			return withCode(exitDB, err)
		}
		defer pool.Close()
		ctx = composables.WithPool(ctx, pool)
		repo = persistence.NewRegistryRepository()

		var closeReports func()
		reports, closeReports = registry.NewReportRepository(ctx, conf.Reports, logger)
		defer closeReports()
	}

	mod := registry.NewModule(repo, reports, eventbus.NewEventPublisher(logger), logger, conf)
	ctx = composables.WithLogger(ctx, logger.WithField("component", "registry-data"))

	res, err := mod.Imports.Import(ctx, kind, rows, services.Options{
		DryRun: !opts.apply,
		Actor:  opts.actor,
	})
	if err != nil {
		return importError(err)
	}
	return writeJSONLine(out, importSummary{File: opts.file, Result: res})
}

func readRows(path, sheet string) ([]record.RawRow, error) {
	format, err := spreadsheet.DetectFormat(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f, format, spreadsheet.Options{Sheet: sheet})
	if err != nil {
		return nil, withCode(exitValidation, fmt.Errorf("%s: %w", path, err))
	}
	return rows, nil
}

func importError(err error) error {
	switch {
	case errors.Is(err, services.ErrUpsertFailed):
		return withCode(exitDBWrite, err)
	case errors.Is(err, services.ErrLookupFailed):
		return withCode(exitDB, err)
	case errors.Is(err, record.ErrUnknownKind):
		return withCode(exitUsage, err)
	default:
		return err
	}
}
