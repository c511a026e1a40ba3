package memo

import "strings"

// Overflow recipients beyond the legacy primary column are stored as a
// pipe-delimited list.
const recipientSep = "|"

// dedupeRecipients removes duplicates with case-sensitive exact matching,
// preserving first-seen order. Blank entries are dropped.
func dedupeRecipients(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, r := range list {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// foldRecipients de-duplicates and splits a recipient list into the legacy
// primary slot plus a pipe-joined overflow list.
func foldRecipients(list []string) (primary string, overflow string) {
	deduped := dedupeRecipients(list)
	if len(deduped) == 0 {
		return "", ""
	}
	return deduped[0], strings.Join(deduped[1:], recipientSep)
}

// mergeRecipients resolves the full recipient set from the stored primary
// slot and overflow list.
func mergeRecipients(primary, overflow string) []string {
	merged := []string{primary}
	if overflow != "" {
		merged = append(merged, strings.Split(overflow, recipientSep)...)
	}
	return dedupeRecipients(merged)
}
