package sss

import (
	"fmt"
	"path/filepath"
	"strings"

	"sss-go/internal/database"
	"sss-go/internal/dedupe"
)

// GroupPlan is one duplicate group with its keeper and planned moves.
type GroupPlan struct {
	Group   dedupe.Group
	Keeper  string
	Actions []dedupe.Action
}

// DedupePlan is the complete, not yet executed result of a dedupe pass.
// Actions is the flattened, collision-resolved list the executor runs.
type DedupePlan struct {
	Root      string
	TargetDir string
	Scanned   int
	Groups    []GroupPlan
	Actions   []dedupe.Action
}

// Empty reports whether there is nothing to move.
func (p *DedupePlan) Empty() bool {
	return len(p.Actions) == 0
}

func (p *DedupePlan) operation() string   { return OpDedupe }
func (p *DedupePlan) size() int           { return len(p.Actions) }
func (p *DedupePlan) destination() string { return p.TargetDir }

// PlanDedupe scans root, groups byte-identical files, chooses a keeper per
// group and plans the relocation of every other member into targetDir
// (root/<TargetDirName> when empty). Nothing on disk is changed.
func (s *Service) PlanDedupe(root, targetDir string) (*DedupePlan, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if targetDir == "" {
		targetDir = filepath.Join(root, s.opts.TargetDirName)
	} else if targetDir, err = filepath.Abs(targetDir); err != nil {
		return nil, fmt.Errorf("resolving target: %w", err)
	}

	files, err := s.scanner.FindFiles(root, s.opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}
	files = excludeUnder(files, targetDir)
	s.logger.Debug("scanned", "root", root, "files", len(files))

	groups, err := dedupe.NewGrouper(s.hasher, s.opts.Workers).FindDuplicateGroups(files)
	if err != nil {
		return nil, fmt.Errorf("grouping duplicates: %w", err)
	}

	plan := &DedupePlan{Root: root, TargetDir: targetDir, Scanned: len(files)}
	var all []dedupe.Action
	for _, g := range groups {
		keeper, err := dedupe.ChooseKeeper(g, s.opts.Policy)
		if err != nil {
			return nil, fmt.Errorf("choosing keeper: %w", err)
		}
		actions, err := dedupe.PlanMoves(g, keeper, targetDir)
		if err != nil {
			return nil, fmt.Errorf("planning moves: %w", err)
		}
		plan.Groups = append(plan.Groups, GroupPlan{Group: g, Keeper: keeper})
		all = append(all, actions...)
	}

	resolved, err := dedupe.ResolveCollisions(all, s.opts.OnConflict, dedupe.PathExists)
	if err != nil {
		return nil, fmt.Errorf("resolving destinations: %w", err)
	}

	// Hand each group its slice of the resolved actions. ResolveCollisions
	// keeps length and order, and every group contributes len(Files)-1.
	offset := 0
	for i := range plan.Groups {
		n := len(plan.Groups[i].Group.Files) - 1
		plan.Groups[i].Actions = resolved[offset : offset+n]
		offset += n
	}
	plan.Actions = resolved

	s.logger.Info("dedupe planned",
		"root", root,
		"files", len(files),
		"groups", len(plan.Groups),
		"duplicates", len(plan.Actions),
		"policy", string(s.opts.Policy),
		"algorithm", string(s.hasher.Algorithm()),
	)
	return plan, nil
}

// ExecuteDedupe applies the plan's moves in order and journals each one.
// The first failure stops execution; moves already applied stay applied and
// stay journaled. An empty plan is not journaled.
func (s *Service) ExecuteDedupe(plan *DedupePlan) (*RunReport, error) {
	report := &RunReport{Operation: OpDedupe, OutRoot: plan.TargetDir}
	if plan.Empty() {
		return report, nil
	}

	params := fmt.Sprintf("target=%s policy=%s algorithm=%s on_conflict=%s",
		plan.TargetDir, s.opts.Policy, s.hasher.Algorithm(), s.opts.OnConflict)
	run, err := s.startRun(report, plan.Root, params)
	if err != nil {
		return nil, err
	}

	var execErr error
	for _, a := range plan.Actions {
		applied, err := dedupe.ExecuteActions([]dedupe.Action{a})
		for _, done := range applied.Applied {
			report.Moved++
			s.record(run, done.Src, done.Dst, done.Kind.String(), done.Reason)
		}
		if err != nil {
			execErr = err
			break
		}
	}
	return s.finishRun(run, report, execErr)
}

func (s *Service) startRun(report *RunReport, root, params string) (*database.Run, error) {
	run, err := s.database.CreateRun(s.idgen.New(), report.Operation, root, params, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}
	report.RunID = run.ID
	report.RunUUID = run.UUID
	s.logger.Info("run started", "run", run.ID, "operation", report.Operation, "root", root)
	return run, nil
}

// record journals a move that already happened on disk. A journal failure
// is logged, not returned: the move cannot be undone.
func (s *Service) record(run *database.Run, src, dst, kind, reason string) {
	s.logger.Info("moved", "src", src, "dst", dst, "reason", reason)
	err := s.database.RecordMove(&database.Move{
		RunID:   run.ID,
		Src:     src,
		Dst:     dst,
		Kind:    kind,
		Reason:  reason,
		MovedAt: s.clock.Now(),
	})
	if err != nil {
		s.logger.Error("journaling move failed", "src", src, "dst", dst, "error", err)
	}
}

func (s *Service) finishRun(run *database.Run, report *RunReport, execErr error) (*RunReport, error) {
	status := database.StatusSuccess
	if execErr != nil {
		status = database.StatusError
		s.logger.Error("run failed", "run", run.ID, "moved", report.Moved, "error", execErr)
	}
	if err := s.database.FinishRun(run.ID, status, s.clock.Now()); err != nil {
		if execErr == nil {
			return report, fmt.Errorf("finishing run: %w", err)
		}
		s.logger.Error("finishing run failed", "run", run.ID, "error", err)
	}
	if execErr != nil {
		return report, fmt.Errorf("executing %s: %w", report.Operation, execErr)
	}
	s.logger.Info("run finished", "run", run.ID, "moved", report.Moved)
	return report, nil
}

// excludeUnder drops paths inside dir, so a previous run's output is
// never rescanned.
func excludeUnder(paths []string, dir string) []string {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}
