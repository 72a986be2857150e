package clockify

import "strings"

// SlashJoin joins URL fragments with exactly one "/" between them. The first
// part keeps its leading text and loses trailing slashes; every later part is
// trimmed of slashes on both sides. A single part is returned unchanged.
func SlashJoin(parts ...string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	joined := make([]string, 0, len(parts))
	joined = append(joined, strings.TrimRight(parts[0], "/"))
	for _, part := range parts[1:] {
		joined = append(joined, strings.Trim(part, "/"))
	}
	return strings.Join(joined, "/")
}
