package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sss-go/internal/config"
	"sss-go/internal/database"
	"sss-go/internal/dedupe"
	"sss-go/internal/fs"
	"sss-go/internal/metadata"
	"sss-go/internal/organize"
	"sss-go/internal/sss"
)

// SSSApp is the application layer between the CLI and sss.Service.
// It constructs all dependencies from config, accepts raw string paths,
// and releases the journal and log file on Close.
type SSSApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	service *sss.Service
	op      *Operation
	logger  *slogAdapter
	logFile *os.File
}

// NewSSSApp creates a fully wired SSSApp from cfg. operation names the CLI
// command being run. Log lines go to cfg.LogDir and to stderr.
// The caller must call Close when done.
func NewSSSApp(cfg *config.Config, operation string, stderr io.Writer) (*SSSApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	clock := sss.RealClock{}
	op := NewOperation(operation, clock.Now())
	l, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.LogLevel, stderr)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l}

	scanner := fs.NewScanner(cfg.Scan.Extensions, cfg.Scan.Ignore,
		[]string{cfg.Organize.OutDirName, cfg.Dedupe.TargetDirName})

	svc, err := sss.NewService(db, scanner, logger, clock, sss.UUIDGenerator{}, opts)
	if err != nil {
		logFile.Close()
		db.Close()
		return nil, err
	}

	logger.Debug("operation started", "operation", operation, "database", db.Path())
	return &SSSApp{
		cfg:     cfg,
		db:      db,
		service: svc,
		op:      op,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// OptionsFromConfig translates the config sections into service options.
func OptionsFromConfig(cfg *config.Config) (sss.Options, error) {
	policy, err := dedupe.ParsePolicy(cfg.Dedupe.KeeperPolicy)
	if err != nil {
		return sss.Options{}, err
	}
	alg, err := dedupe.ParseAlgorithm(cfg.Dedupe.HashAlgorithm)
	if err != nil {
		return sss.Options{}, err
	}
	onConflict, err := dedupe.ParseCollisionPolicy(cfg.Dedupe.OnConflict)
	if err != nil {
		return sss.Options{}, err
	}
	source, err := organize.NewDateSource(cfg.Organize.DateSource)
	if err != nil {
		return sss.Options{}, err
	}
	return sss.Options{
		Recursive:     cfg.Scan.Recursive,
		Policy:        policy,
		Algorithm:     alg,
		ChunkSize:     cfg.Dedupe.ChunkSize,
		Workers:       cfg.Dedupe.Workers,
		OnConflict:    onConflict,
		TargetDirName: cfg.Dedupe.TargetDirName,
		OutDirName:    cfg.Organize.OutDirName,
		DateSource:    source,
	}, nil
}

// resolveDir turns a raw path into an absolute directory path.
func resolveDir(rawPath string) (string, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("path not found: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}

// PlanDedupe finds duplicates below rawPath. target may be empty.
func (a *SSSApp) PlanDedupe(rawPath, target string) (*sss.DedupePlan, error) {
	root, err := resolveDir(rawPath)
	if err != nil {
		return nil, a.op.Track(err)
	}
	plan, err := a.service.PlanDedupe(root, target)
	return plan, a.op.Track(err)
}

// ExecuteDedupe applies a dedupe plan.
func (a *SSSApp) ExecuteDedupe(plan *sss.DedupePlan) (*sss.RunReport, error) {
	report, err := a.service.ExecuteDedupe(plan)
	return report, a.op.Track(err)
}

// PlanOrganize plans the dated relocation of files below rawPath. outDir may be empty.
func (a *SSSApp) PlanOrganize(rawPath, outDir string) (*sss.OrganizePlan, error) {
	root, err := resolveDir(rawPath)
	if err != nil {
		return nil, a.op.Track(err)
	}
	plan, err := a.service.PlanOrganize(root, outDir)
	return plan, a.op.Track(err)
}

// ExecuteOrganize applies an organize plan.
func (a *SSSApp) ExecuteOrganize(plan *sss.OrganizePlan) (*sss.RunReport, error) {
	report, err := a.service.ExecuteOrganize(plan)
	return report, a.op.Track(err)
}

// Simulate reports what executing plan would do.
func (a *SSSApp) Simulate(plan sss.Plan) *sss.RunReport {
	return a.service.SimulateReport(plan)
}

// History returns the most recent journal runs.
func (a *SSSApp) History(limit int) ([]*database.Run, error) {
	runs, err := a.service.History(limit)
	return runs, a.op.Track(err)
}

// RunMoves returns a journal run with its moves.
func (a *SSSApp) RunMoves(runID int64) (*database.Run, []*database.Move, error) {
	run, moves, err := a.service.RunMoves(runID)
	return run, moves, a.op.Track(err)
}

// Inspect extracts metadata for each file, hashing with the configured algorithm.
func (a *SSSApp) Inspect(rawPaths []string) ([]*metadata.Metadata, error) {
	opts := a.service.Options()
	hasher, err := dedupe.NewHasher(opts.Algorithm, opts.ChunkSize)
	if err != nil {
		return nil, a.op.Track(err)
	}

	out := make([]*metadata.Metadata, 0, len(rawPaths))
	for _, p := range rawPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, a.op.Track(fmt.Errorf("resolving path: %w", err))
		}
		md, err := metadata.Extract(abs, hasher)
		if err != nil {
			return nil, a.op.Track(err)
		}
		out = append(out, md)
	}
	return out, nil
}

// Close logs the outcome of the operation and closes the journal and log file.
func (a *SSSApp) Close() error {
	elapsed := time.Since(a.op.StartedAt).Round(time.Millisecond)
	if a.op.Failed() {
		a.logger.Error("operation failed", "operation", a.op.Name, "elapsed", elapsed)
	} else {
		a.logger.Debug("operation finished", "operation", a.op.Name, "elapsed", elapsed)
	}

	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
