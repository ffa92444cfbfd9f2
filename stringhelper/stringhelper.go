package stringhelper

import "strings"

func Deduplicate(items []string) []string {
	seen := map[string]struct{}{}
	ret := make([]string, 0, len(items))
	for _, s := range items {
		if _, exists := seen[s]; exists {
			continue
		}
		seen[s] = struct{}{}
		ret = append(ret, s)
	}
	return ret
}

// FirstWord returns the first whitespace-separated word of s, lowercased and
// stripped of trailing punctuation. Empty input returns the empty string.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimRight(fields[0], ":,.;"))
}
