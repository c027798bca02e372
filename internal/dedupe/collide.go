package dedupe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CollisionPolicy decides what happens when a planned destination is
// already taken on disk or by an earlier action in the same batch.
type CollisionPolicy string

const (
	CollisionRename    CollisionPolicy = "rename"
	CollisionOverwrite CollisionPolicy = "overwrite"
	CollisionFail      CollisionPolicy = "fail"
)

// ParseCollisionPolicy validates a policy name. The empty string selects
// CollisionRename.
func ParseCollisionPolicy(name string) (CollisionPolicy, error) {
	switch CollisionPolicy(name) {
	case "":
		return CollisionRename, nil
	case CollisionRename, CollisionOverwrite, CollisionFail:
		return CollisionPolicy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown collision policy %q", ErrInvalidArgument, name)
	}
}

// PathExists reports whether anything exists at p.
func PathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// ResolveCollisions returns a copy of actions whose destinations honour
// policy. Under CollisionRename a taken destination becomes "stem (n).ext"
// with the smallest free n. exists is consulted for on-disk state; the
// function itself never touches the filesystem.
func ResolveCollisions(actions []Action, policy CollisionPolicy, exists func(string) bool) ([]Action, error) {
	if policy == "" {
		policy = CollisionRename
	}
	out := make([]Action, len(actions))
	copy(out, actions)

	if policy == CollisionOverwrite {
		return out, nil
	}
	if policy != CollisionRename && policy != CollisionFail {
		return nil, fmt.Errorf("%w: unknown collision policy %q", ErrInvalidArgument, policy)
	}

	claimed := make(map[string]bool, len(out))
	taken := func(p string) bool { return claimed[p] || exists(p) }

	for i := range out {
		dst := out[i].Dst
		if taken(dst) {
			if policy == CollisionFail {
				return nil, fmt.Errorf("%w: %s", ErrDestinationConflict, dst)
			}
			dir := filepath.Dir(dst)
			stem, ext := splitName(filepath.Base(dst))
			for n := 1; taken(dst); n++ {
				dst = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
			}
			out[i].Dst = dst
		}
		claimed[dst] = true
	}
	return out, nil
}

// splitName splits a file name into stem and extension. Dot-files without
// a further extension have no extension.
func splitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}
