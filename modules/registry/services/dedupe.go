package services

import "github.com/iota-uz/civreg/modules/registry/domain/record"

// Deduplicate collapses records sharing a natural key. The last occurrence wins, placed at
// the position where the key was first seen. The second result lists every key that
// occurred more than once, in first-seen order.
func Deduplicate(records []record.Record) ([]record.Record, []string) {
	pos := make(map[string]int, len(records))
	out := make([]record.Record, 0, len(records))
	var dupes []string
	seenDupe := map[string]struct{}{}

	for _, rec := range records {
		key := rec.Key()
		if i, ok := pos[key]; ok {
			out[i] = rec
			if _, done := seenDupe[key]; !done {
				seenDupe[key] = struct{}{}
				dupes = append(dupes, key)
			}
			continue
		}
		pos[key] = len(out)
		out = append(out, rec)
	}
	return out, dupes
}
