package dedupe

import (
	"fmt"
	"os"
	"time"
)

// Policy selects which member of a duplicate group stays in place.
type Policy string

const (
	PolicyNewest       Policy = "newest"
	PolicyOldest       Policy = "oldest"
	PolicyShortestPath Policy = "shortest_path"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyNewest

// ParsePolicy validates a policy name. The empty string selects DefaultPolicy.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "":
		return DefaultPolicy, nil
	case PolicyNewest, PolicyOldest, PolicyShortestPath:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown keeper policy %q", ErrInvalidArgument, name)
	}
}

// ChooseKeeper picks the one member of g that is retained under policy.
// Modification times are read from disk at call time. Among exact mtime
// ties the member listed first wins.
func ChooseKeeper(g Group, policy Policy) (string, error) {
	if len(g.Files) == 0 {
		return "", fmt.Errorf("%w: duplicate group has no files", ErrInvalidArgument)
	}

	if policy == "" {
		policy = DefaultPolicy
	}

	switch policy {
	case PolicyNewest:
		return pickByModTime(g.Files, func(candidate, best time.Time) bool { return candidate.After(best) })
	case PolicyOldest:
		return pickByModTime(g.Files, func(candidate, best time.Time) bool { return candidate.Before(best) })
	case PolicyShortestPath:
		best := g.Files[0]
		for _, f := range g.Files[1:] {
			if len(f) < len(best) || (len(f) == len(best) && f < best) {
				best = f
			}
		}
		return best, nil
	default:
		return "", fmt.Errorf("%w: unknown keeper policy %q", ErrInvalidArgument, policy)
	}
}

// pickByModTime returns the file whose mtime beats every earlier choice.
func pickByModTime(files []string, better func(candidate, best time.Time) bool) (string, error) {
	var best string
	var bestTime time.Time
	for i, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return "", fmt.Errorf("%w: stat %s: %w", ErrReadFailure, f, err)
		}
		if i == 0 || better(info.ModTime(), bestTime) {
			best, bestTime = f, info.ModTime()
		}
	}
	return best, nil
}
