package agg

import (
	"path"
	"sort"
	"strings"

	"github.com/huangsam/gitmine/schema"
)

// RootModule names the repository root.
const RootModule = "."

// ModulePaths returns the ancestor folders of a file, root first.
//
//	a/b/c.txt -> [".", "./a", "./a/b"]
//	c.txt     -> ["."]
func ModulePaths(filePath string) []string {
	dir := path.Dir(strings.TrimPrefix(filePath, "./"))
	modules := []string{RootModule}
	if dir == "." || dir == "/" {
		return modules
	}
	current := RootModule
	for part := range strings.SplitSeq(strings.Trim(dir, "/"), "/") {
		current += "/" + part
		modules = append(modules, current)
	}
	return modules
}

// moduleChurnMap is the fold state of ModuleChurn, keyed by module path.
type moduleChurnMap map[string]*schema.ModuleChurn

func (m moduleChurnMap) add(file schema.FileChurn) {
	for _, module := range ModulePaths(file.Path) {
		entry, ok := m[module]
		if !ok {
			entry = &schema.ModuleChurn{Module: module}
			m[module] = entry
		}
		entry.NumFiles++
		entry.Cloc += file.Cloc
		entry.LinesAdded += file.LinesAdded
		entry.LinesDeleted += file.LinesDeleted
		entry.LinesAddDel += file.LinesAddDel
		if !file.Created.IsZero() {
			entry.Created = minTime(entry.Created, file.Created)
		}
	}
}

// Sorted returns the modules by churn, largest first, ties broken by module path.
func (m moduleChurnMap) Sorted() []schema.ModuleChurn {
	out := make([]schema.ModuleChurn, 0, len(m))
	for _, entry := range m {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LinesAddDel != out[j].LinesAddDel {
			return out[i].LinesAddDel > out[j].LinesAddDel
		}
		return out[i].Module < out[j].Module
	})
	return out
}

// ModuleChurn rolls file churn up into every ancestor folder of each file.
func ModuleChurn(fileChurn []schema.FileChurn) []schema.ModuleChurn {
	acc := make(moduleChurnMap)
	for _, file := range fileChurn {
		acc.add(file)
	}
	return acc.Sorted()
}
