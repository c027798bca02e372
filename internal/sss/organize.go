package sss

import (
	"fmt"
	"path/filepath"

	"sss-go/internal/organize"
)

// OrganizePlan lists the files to relocate into OutRoot/YYYY/MM.
type OrganizePlan struct {
	Root    string
	OutRoot string
	Items   []organize.Item
}

// Empty reports whether no files were found.
func (p *OrganizePlan) Empty() bool {
	return len(p.Items) == 0
}

func (p *OrganizePlan) operation() string   { return OpOrganize }
func (p *OrganizePlan) size() int           { return len(p.Items) }
func (p *OrganizePlan) destination() string { return p.OutRoot }

// PlanOrganize scans root and computes a dated destination directory for
// every file below outRoot (root/<OutDirName> when empty), newest first.
func (s *Service) PlanOrganize(root, outRoot string) (*OrganizePlan, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if outRoot == "" {
		outRoot = filepath.Join(root, s.opts.OutDirName)
	} else if outRoot, err = filepath.Abs(outRoot); err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	files, err := s.scanner.FindFiles(root, s.opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}
	files = excludeUnder(files, outRoot)

	items, err := organize.BuildPlan(files, outRoot, s.opts.DateSource)
	if err != nil {
		return nil, fmt.Errorf("building plan: %w", err)
	}

	s.logger.Info("organize planned", "root", root, "out_root", outRoot, "files", len(items))
	return &OrganizePlan{Root: root, OutRoot: outRoot, Items: items}, nil
}

// ExecuteOrganize moves every planned file into its dated directory under
// a collision-free name, journaling each move. It stops at the first
// failure.
func (s *Service) ExecuteOrganize(plan *OrganizePlan) (*RunReport, error) {
	report := &RunReport{Operation: OpOrganize, OutRoot: plan.OutRoot}
	if plan.Empty() {
		return report, nil
	}

	run, err := s.startRun(report, plan.Root, "out_root="+plan.OutRoot)
	if err != nil {
		return nil, err
	}

	var execErr error
	for _, item := range plan.Items {
		dst, err := organize.SafeMove(item.Src, item.DestDir)
		if err != nil {
			execErr = err
			break
		}
		report.Moved++
		s.record(run, item.Src, dst, "move", "dated "+item.Date.Format("2006-01"))
	}
	return s.finishRun(run, report, execErr)
}
