package agg

import (
	"iter"
	"sort"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// fileChurnMap is the fold state of FileChurn, keyed by path.
type fileChurnMap map[string]*schema.FileChurn

func (m fileChurnMap) add(rec schema.EnrichedFileRecord) {
	entry, ok := m[rec.Path]
	if !ok {
		// cloc is taken from the first record only
		entry = &schema.FileChurn{Path: rec.Path, Cloc: rec.Code}
		m[rec.Path] = entry
	}
	entry.Commits++
	entry.LinesAdded += rec.LinesAdded
	entry.LinesDeleted += rec.LinesDeleted
	entry.LinesAddDel += rec.LinesAddDel()
	entry.Created = minTime(entry.Created, rec.CommitterDate)
}

// Sorted returns the files by churn, largest first, ties broken by path.
func (m fileChurnMap) Sorted() []schema.FileChurn {
	out := make([]schema.FileChurn, 0, len(m))
	for _, entry := range m {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LinesAddDel != out[j].LinesAddDel {
			return out[i].LinesAddDel > out[j].LinesAddDel
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// FileChurn sums commits and line churn per path.
//
// Records dated before after are excluded; a record dated exactly at after is kept. Created is the
// earliest committer date inside that window, not the global creation date of the record.
func FileChurn(records iter.Seq2[schema.EnrichedFileRecord, error], after time.Time) ([]schema.FileChurn, error) {
	acc := make(fileChurnMap)
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		if beforeCutoff(rec.CommitterDate, after) {
			continue
		}
		acc.add(rec)
	}
	return acc.Sorted(), nil
}
