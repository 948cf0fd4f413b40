package registry

import (
	"context"
	"embed"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
	"github.com/iota-uz/civreg/modules/registry/presentation/controllers"
	"github.com/iota-uz/civreg/modules/registry/services"
	"github.com/iota-uz/civreg/pkg/configuration"
	"github.com/iota-uz/civreg/pkg/eventbus"
	"github.com/iota-uz/civreg/pkg/redisclient"
	"github.com/iota-uz/civreg/pkg/server"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

// SchemaFS returns the embedded schema directory.
func SchemaFS() fs.FS {
	sub, err := fs.Sub(MigrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		panic(err)
	}
	return sub
}

func ServiceConfig(opts configuration.ImportOptions) services.Config {
	return services.Config{
		LookupChunkSize:    opts.LookupChunkSize,
		LookupConcurrency:  opts.LookupConcurrency,
		UpsertTimeout:      opts.UpsertTimeout,
		SampleHeadersLimit: opts.SampleHeaders,
	}
}

// NewReportRepository picks the report backend from configuration. An unreachable redis
// falls back to process memory so imports keep working.
func NewReportRepository(ctx context.Context, opts configuration.ReportOptions, logger *logrus.Logger) (record.ReportRepository, func()) {
	if opts.Storage != "redis" {
		return persistence.NewMemoryReportStore(), func() {}
	}
	client, err := redisclient.New(ctx, opts.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Failed to connect import report store to redis, falling back to memory")
		return persistence.NewMemoryReportStore(), func() {}
	}
	return persistence.NewRedisReportStore(client, opts.TTL), func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}
}

type Module struct {
	Imports *services.ImportService
	Reports *services.ReportService
}

// NewModule builds the import service over repo and subscribes the activity log and the
// report recorder to its completion events. A nil reports keeps reports in memory.
func NewModule(
	repo record.Repository,
	reports record.ReportRepository,
	bus eventbus.EventBus,
	logger *logrus.Logger,
	conf *configuration.Configuration,
) *Module {
	if reports == nil {
		reports = persistence.NewMemoryReportStore()
	}
	reportService := services.NewReportService(reports)
	bus.Subscribe(services.NewActivityLogSubscriber(logger))
	bus.Subscribe(services.NewReportRecorder(reportService, logger))
	return &Module{
		Imports: services.NewImportService(repo, bus, ServiceConfig(conf.Import)),
		Reports: reportService,
	}
}

func (m *Module) Controllers(conf *configuration.Configuration) []server.Controller {
	return []server.Controller{
		controllers.NewRegistryAPIController(m.Imports, m.Reports, conf.MaxUploadSize),
	}
}

func (m *Module) Name() string {
	return "registry"
}
