// Package container provides dependency injection for the ledger-import application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/delimiter"
	"fjacquet/ledger-import/internal/ingest"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/rules"
	"fjacquet/ledger-import/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.Store
	rules       rules.Source
	formats     *bankformat.Registry
	coordinator *ingest.Coordinator
}

// NewContainer creates and wires all application dependencies.
// The store backend is opened according to cfg.Store.Driver.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	s, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keywords := columnmap.DefaultKeywords()
	if cfg.Import.KeywordsFile != "" {
		keywords, err = columnmap.LoadKeywords(cfg.Import.KeywordsFile)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("loading header keywords: %w", err)
		}
	}

	candidates, err := cfg.DelimiterCandidates()
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	var source rules.Source = rules.NewDocumentSource(s)
	if cfg.Rules.File != "" {
		source = rules.NewFileSource(cfg.Rules.File)
	}

	formats := bankformat.Default()
	coordinator := ingest.New(s, source,
		ingest.WithFormats(formats),
		ingest.WithMapper(columnmap.NewMapper(keywords, formats)),
		ingest.WithDelimiters(delimiter.Detector{Candidates: candidates}),
		ingest.WithConfig(ingest.Config{
			PreviewRows:          cfg.Import.PreviewRows,
			Placeholder:          cfg.Import.PlaceholderDescription,
			DescriptionPrefixLen: cfg.Import.DescriptionPrefixLen,
		}),
		ingest.WithLogger(logger))

	logger.Debug("Container initialized successfully",
		logging.F("store_driver", cfg.Store.Driver),
		logging.F("rules_file", cfg.Rules.File))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       s,
		rules:       source,
		formats:     formats,
		coordinator: coordinator,
	}, nil
}

// OpenStore opens the store backend selected by cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil
	case config.DriverFile:
		s, err := store.OpenFile(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := store.OpenPostgres(ctx, cfg.Store.DSN, cfg.Store.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the document store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetRules returns the rule source used by ingestions.
func (c *Container) GetRules() rules.Source {
	return c.rules
}

// GetFormats returns the bank layout registry.
func (c *Container) GetFormats() *bankformat.Registry {
	return c.formats
}

// GetCoordinator returns the ingestion coordinator.
func (c *Container) GetCoordinator() *ingest.Coordinator {
	return c.coordinator
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
