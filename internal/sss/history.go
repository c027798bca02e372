package sss

import (
	"fmt"

	"sss-go/internal/database"
)

// History returns the most recent runs, ordered newest first.
func (s *Service) History(limit int) ([]*database.Run, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	runs, err := s.database.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// RunMoves returns a run and the moves it applied.
func (s *Service) RunMoves(runID int64) (*database.Run, []*database.Move, error) {
	run, err := s.database.GetRun(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding run: %w", err)
	}
	if run == nil {
		return nil, nil, fmt.Errorf("run %d not found", runID)
	}
	moves, err := s.database.MovesForRun(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing moves: %w", err)
	}
	return run, moves, nil
}
