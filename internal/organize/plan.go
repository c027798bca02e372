package organize

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// Item is one file planned for date-based relocation.
type Item struct {
	Src     string
	DestDir string
	Date    time.Time
	ModTime time.Time
	Size    int64
}

// BuildPlan computes the destination directory of every file under
// outRoot. Items are ordered newest modification first.
func BuildPlan(files []string, outRoot string, source DateSource) ([]Item, error) {
	items := make([]Item, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		date, err := source.Date(f, info)
		if err != nil {
			return nil, fmt.Errorf("dating %s: %w", f, err)
		}
		items = append(items, Item{
			Src:     f,
			DestDir: TargetDir(outRoot, date),
			Date:    date,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})
	return items, nil
}
