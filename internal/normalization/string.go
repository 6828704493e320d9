package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString keeps the original casing, for display fields.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
