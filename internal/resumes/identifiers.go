package resumes

import (
	"github.com/google/uuid"
)

var idSections = []string{"education", "workExperience", "projects", "skills"}

// EnsureEntryIDs gives every entry of the list sections a unique id. Missing,
// non-string, blank or repeated ids are replaced with random UUIDs. It returns
// the number of ids it assigned. Entries that are not objects are skipped.
func EnsureEntryIDs(r Resume) int {
	seen := make(map[string]struct{})
	filled := 0
	for _, section := range idSections {
		entries, ok := r[section].([]any)
		if !ok {
			continue
		}
		for _, raw := range entries {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := entry["id"].(string); ok && id != "" {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					continue
				}
			}
			id := uuid.NewString()
			entry["id"] = id
			seen[id] = struct{}{}
			filled++
		}
	}
	return filled
}
