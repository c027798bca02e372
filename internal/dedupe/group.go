package dedupe

import (
	"os"
	"sort"
	"sync"
)

// Group is a set of two or more files with byte-identical content.
// Groups are built once per grouping pass and never modified afterwards.
type Group struct {
	Size   int64
	Digest string
	Files  []string
}

// Grouper partitions candidate files into duplicate groups.
// Files are bucketed by size first; only sizes shared by at least two
// files are hashed. Equal (size, digest) is trusted as equal content,
// there is no byte-for-byte confirmation pass.
type Grouper struct {
	digest  func(path string) (string, error)
	workers int
}

// NewGrouper creates a Grouper. workers bounds the number of files hashed
// concurrently; values below 1 hash sequentially.
func NewGrouper(hasher *Hasher, workers int) *Grouper {
	if workers < 1 {
		workers = 1
	}
	return &Grouper{digest: hasher.Digest, workers: workers}
}

// FindDuplicateGroups returns the duplicate groups among paths, sorted by
// size then digest. Members keep the order they had in paths.
// Entries that are not regular files at inspection time are skipped.
// Any hashing failure aborts the pass and no groups are returned.
func (g *Grouper) FindDuplicateGroups(paths []string) ([]Group, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	bySize := make(map[int64][]string)
	var sizes []int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if _, ok := bySize[info.Size()]; !ok {
			sizes = append(sizes, info.Size())
		}
		bySize[info.Size()] = append(bySize[info.Size()], p)
	}

	// Only files sharing a size with another file are worth hashing.
	var toHash []string
	var toHashSize []int64
	for _, size := range sizes {
		if len(bySize[size]) < 2 {
			continue
		}
		for _, p := range bySize[size] {
			toHash = append(toHash, p)
			toHashSize = append(toHashSize, size)
		}
	}
	if len(toHash) == 0 {
		return nil, nil
	}

	digests, err := g.hashAll(toHash)
	if err != nil {
		return nil, err
	}

	type key struct {
		size   int64
		digest string
	}
	buckets := make(map[key][]string)
	var order []key
	for i, p := range toHash {
		k := key{size: toHashSize[i], digest: digests[i]}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], p)
	}

	var groups []Group
	for _, k := range order {
		files := buckets[k]
		if len(files) < 2 {
			continue
		}
		groups = append(groups, Group{Size: k.size, Digest: k.digest, Files: files})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size < groups[j].Size
		}
		return groups[i].Digest < groups[j].Digest
	})
	return groups, nil
}

// hashAll digests every path and returns the results indexed like paths.
// Workers only write their own slots, so the outcome does not depend on
// completion order. The first failure in input order is reported.
func (g *Grouper) hashAll(paths []string) ([]string, error) {
	digests := make([]string, len(paths))
	errs := make([]error, len(paths))

	if g.workers == 1 || len(paths) == 1 {
		for i, p := range paths {
			d, err := g.digest(p)
			if err != nil {
				return nil, err
			}
			digests[i] = d
		}
		return digests, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(g.workers, len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				digests[i], errs[i] = g.digest(paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return digests, nil
}

// FindDuplicateGroups groups paths using SHA-256, sequentially.
func FindDuplicateGroups(paths []string) ([]Group, error) {
	h, err := NewHasher(SHA256, DefaultChunkSize)
	if err != nil {
		return nil, err
	}
	return NewGrouper(h, 1).FindDuplicateGroups(paths)
}
