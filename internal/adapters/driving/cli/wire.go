package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/custodia-labs/yuque-export/internal/adapters/driven/config/file"
	"github.com/custodia-labs/yuque-export/internal/adapters/driven/credentials"
	"github.com/custodia-labs/yuque-export/internal/adapters/driven/exporter"
	"github.com/custodia-labs/yuque-export/internal/adapters/driven/notify"
	"github.com/custodia-labs/yuque-export/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/yuque-export/internal/connectors/yuque"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
	"github.com/custodia-labs/yuque-export/internal/core/services"
	"github.com/custodia-labs/yuque-export/internal/logger"
	"github.com/custodia-labs/yuque-export/internal/normalisers/html"
)

// Services used by commands. They are wired from the config directory on
// first use unless injected with SetServices.
var (
	settingsService driving.SettingsService
	pipelineService driving.Pipeline

	// relay lets the TUI attach to events of an already built pipeline.
	relay = &notify.Relay{}

	closers []io.Closer
)

// SetServices injects services, bypassing wiring from configuration.
func SetServices(settings driving.SettingsService, pipeline driving.Pipeline) {
	settingsService = settings
	pipelineService = pipeline
}

// pipelineOptions overrides the export destination of a wired pipeline.
type pipelineOptions struct {
	// stdout sends the export to this writer instead of a directory.
	stdout io.Writer

	// outputDir overrides export.output_dir.
	outputDir string
}

func getSettingsService() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}

	dir := configDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("config: %s", store.Path())

	settingsService = services.NewSettingsService(store)
	return settingsService, nil
}

func getPipeline(opts pipelineOptions) (driving.Pipeline, error) {
	if pipelineService != nil {
		return pipelineService, nil
	}

	ss, err := getSettingsService()
	if err != nil {
		return nil, err
	}
	settings, err := ss.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.Auth.IsConfigured() {
		return nil, fmt.Errorf("%w: run 'yuque-export login' first", domain.ErrAuthRequired)
	}

	if settings.Upstream.UserAgent == domain.DefaultSettings().Upstream.UserAgent {
		settings.Upstream.UserAgent += "/" + version
	}
	client, err := yuque.NewClient(yuque.ConfigFromSettings(settings.Upstream), credentials.FromSettings(settings.Auth))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	dataDir := settings.Store.DataDir
	if dataDir == "" && configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	closers = append(closers, store)
	logger.Debug("store: %s", store.Path())

	pipelineService = services.NewPipeline(
		yuque.NewSource(client),
		html.New(),
		store,
		newExporter(settings.Export, opts),
		notify.Multi{notify.Logger{}, relay},
		*settings,
	)
	return pipelineService, nil
}

func newExporter(s domain.ExportSettings, opts pipelineOptions) driven.FileExporter {
	if opts.stdout != nil {
		return exporter.NewWriterExporter(opts.stdout, "stdout")
	}
	dir := s.OutputDir
	if opts.outputDir != "" {
		dir = opts.outputDir
	}
	return exporter.NewDirExporter(dir)
}

func closeServices() {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn("closing resources: %v", err)
	}
}
