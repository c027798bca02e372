package sss

import (
	"fmt"

	"sss-go/internal/dedupe"
)

// Journal operation names.
const (
	OpDedupe   = "dedupe"
	OpOrganize = "organize"
)

// Service is the orchestration layer behind the CLI. It plans and executes
// both the dedupe and the date-based organize flows and journals every
// applied move.
type Service struct {
	database Database
	scanner  Scanner
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	opts     Options
	hasher   *dedupe.Hasher
}

// NewService creates a Service. Options are defaulted and validated here so
// that a bad configuration fails before any file is touched.
func NewService(database Database, scanner Scanner, logger Logger, clock Clock, idgen IDGenerator, opts Options) (*Service, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hasher, err := dedupe.NewHasher(opts.Algorithm, opts.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Service{
		database: database,
		scanner:  scanner,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		opts:     opts,
		hasher:   hasher,
	}, nil
}

// Options returns the effective options after defaulting.
func (s *Service) Options() Options {
	return s.opts
}
