package task

import (
	"os"
	"sort"
	"strings"
)

// mergeEnv returns base with overrides applied. Variables already present in
// base are replaced in place, new ones are appended in key order. A nil base
// stands for the environment of the current process.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	if base == nil {
		base = os.Environ()
	}

	merged := make([]string, 0, len(base)+len(overrides))
	applied := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if value, ok := overrides[key]; ok {
			if !applied[key] {
				merged = append(merged, key+"="+value)
				applied[key] = true
			}
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		if !applied[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		merged = append(merged, key+"="+overrides[key])
	}

	return merged
}
