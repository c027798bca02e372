package dedupe

import (
	"fmt"
	"path/filepath"
)

// PrefixLen is the number of leading digest characters used as the bucket
// directory for relocated duplicates.
const PrefixLen = 8

// ShortDigest returns the bucket prefix of digest.
func ShortDigest(digest string) string {
	if len(digest) < PrefixLen {
		return digest
	}
	return digest[:PrefixLen]
}

// PlanMoves plans the relocation of every member of g except keeper to
// targetDir/<digest prefix>/<basename>. It does not touch the filesystem
// and does not resolve name collisions at the destination.
func PlanMoves(g Group, keeper, targetDir string) ([]Action, error) {
	if len(g.Digest) < PrefixLen {
		return nil, fmt.Errorf("%w: digest %q shorter than %d characters", ErrInvalidArgument, g.Digest, PrefixLen)
	}

	found := false
	for _, f := range g.Files {
		if f == keeper {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: keeper %s is not a member of the group", ErrInvalidArgument, keeper)
	}

	prefix := ShortDigest(g.Digest)
	base := filepath.Join(targetDir, prefix)
	reason := fmt.Sprintf("duplicate of %s (%s)", filepath.Base(keeper), prefix)

	actions := make([]Action, 0, len(g.Files)-1)
	for _, f := range g.Files {
		if f == keeper {
			continue
		}
		dst := filepath.Join(base, filepath.Base(f))
		if dst == f {
			return nil, fmt.Errorf("%w: %s is already at its planned destination", ErrInvalidArgument, f)
		}
		actions = append(actions, Action{
			Src:    f,
			Dst:    dst,
			Kind:   ActionMove,
			Reason: reason,
		})
	}
	return actions, nil
}
