// Package ingest turns an uploaded statement file into stored, categorized transactions.
//
// A Coordinator decodes the bytes, detects the delimiter, recognizes the bank layout,
// maps columns, parses rows, applies the owner's rules and inserts every transaction
// that is not already stored. Files are processed row by row in file order, so a
// duplicate inside the same file is caught by the lookup of its first occurrence.
package ingest

import (
	"context"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/delimiter"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/rowparser"
	"fjacquet/ledger-import/internal/rules"
	"fjacquet/ledger-import/internal/store"
)

// Config holds the tunables of an ingestion.
type Config struct {
	// PreviewRows is the default number of sample rows returned by Preview.
	PreviewRows int
	// Placeholder replaces empty descriptions.
	Placeholder string
	// DescriptionPrefixLen is how many runes of the description enter an external id.
	DescriptionPrefixLen int
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		PreviewRows:          10,
		Placeholder:          models.DefaultDescription,
		DescriptionPrefixLen: 20,
	}
}

// Coordinator runs ingestions against one store. It keeps no state between calls.
type Coordinator struct {
	store      store.Store
	rules      rules.Source
	formats    *bankformat.Registry
	mapper     *columnmap.Mapper
	delimiters delimiter.Detector
	config     Config
	logger     logging.Logger
	now        func() time.Time
	rowCheck   func(rowparser.RawRow) error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFormats sets the bank layout registry.
func WithFormats(formats *bankformat.Registry) Option {
	return func(c *Coordinator) {
		if formats != nil {
			c.formats = formats
		}
	}
}

// WithMapper sets the column mapper.
func WithMapper(mapper *columnmap.Mapper) Option {
	return func(c *Coordinator) {
		if mapper != nil {
			c.mapper = mapper
		}
	}
}

// WithDelimiters sets the delimiter candidates.
func WithDelimiters(d delimiter.Detector) Option {
	return func(c *Coordinator) {
		if len(d.Candidates) > 0 {
			c.delimiters = d
		}
	}
}

// WithConfig sets the ingestion settings. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(c *Coordinator) {
		if cfg.PreviewRows > 0 {
			c.config.PreviewRows = cfg.PreviewRows
		}
		if cfg.Placeholder != "" {
			c.config.Placeholder = cfg.Placeholder
		}
		if cfg.DescriptionPrefixLen > 0 {
			c.config.DescriptionPrefixLen = cfg.DescriptionPrefixLen
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRowCheck rejects rows before parsing: a row for which check returns an error is
// reported in RowErrors and the rest of the file is still processed.
func WithRowCheck(check func(rowparser.RawRow) error) Option {
	return func(c *Coordinator) {
		c.rowCheck = check
	}
}

// New creates a Coordinator persisting into s and reading rules from src.
// A nil src means no rules: every transaction gets the default category.
func New(s store.Store, src rules.Source, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      s,
		rules:      src,
		formats:    bankformat.Default(),
		delimiters: delimiter.Default(),
		config:     DefaultConfig(),
		logger:     logging.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapper == nil {
		c.mapper = columnmap.NewMapper(columnmap.DefaultKeywords(), c.formats)
	}
	return c
}

// engine loads the owner's active rules once for a whole ingestion.
func (c *Coordinator) engine(ctx context.Context, ownerID string) (*rules.Engine, error) {
	if c.rules == nil {
		return rules.NewEngine(nil, c.logger), nil
	}
	active, err := c.rules.ActiveRules(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching active rules: %w", err)
	}
	engine := rules.NewEngine(active, c.logger)
	c.logger.Debug("Loaded active rules",
		logging.F(logging.FieldOwner, ownerID),
		logging.F(logging.FieldCount, engine.Len()))
	return engine, nil
}
