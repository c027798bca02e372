package dedupe

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecuteActions applies actions in order and stops at the first failure.
// Moves replace an existing destination. The returned Report lists the
// actions applied before any error; nothing applied is rolled back.
func ExecuteActions(actions []Action) (Report, error) {
	var report Report
	for _, a := range actions {
		switch a.Kind {
		case ActionMove:
			if err := move(a.Src, a.Dst); err != nil {
				return report, err
			}
		default:
			return report, fmt.Errorf("%w: %s for %s", ErrUnsupportedAction, a.Kind, a.Src)
		}
		report.Applied = append(report.Applied, a)
	}
	return report, nil
}

func move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", src, err)
	}
	return nil
}
