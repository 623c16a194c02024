package sorter

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"dropsort/internal/categories"
	"dropsort/internal/logging"
)

// planItem is one top-level drop entry scheduled for relocation.
type planItem struct {
	Name     string
	Source   string
	Category string
	IsDir    bool
}

// cyclePlan is the immutable move schedule computed before any file is
// touched.
type cyclePlan struct {
	Items []planItem
	// Destinations is the set of category directories the plan requires,
	// with planned item counts per category.
	Destinations map[string]int
	Skipped      int
}

// buildPlan classifies the top-level entries of the drop directory. Regular
// files are routed by extension; directories are treated as single units and
// routed to the fallback category without descending into them. Irregular
// entries (sockets, device nodes, dangling symlinks) are skipped.
func buildPlan(srcDir string, entries []fs.DirEntry, mapping categories.Mapping, fallback string, logger *slog.Logger) cyclePlan {
	plan := cyclePlan{Destinations: make(map[string]int)}
	for _, entry := range entries {
		name := entry.Name()
		item := planItem{
			Name:   name,
			Source: filepath.Join(srcDir, name),
		}
		switch {
		case entry.IsDir():
			item.IsDir = true
			item.Category = fallback
		case entry.Type().IsRegular():
			item.Category, _ = categories.ClassifyPath(name, mapping, fallback)
		default:
			plan.Skipped++
			if logger != nil {
				logger.Debug("skipping irregular drop entry",
					logging.String(logging.FieldPath, item.Source),
					logging.String("mode", entry.Type().String()),
				)
			}
			continue
		}
		plan.Items = append(plan.Items, item)
		plan.Destinations[item.Category]++
	}
	return plan
}
