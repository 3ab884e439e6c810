package internal

import (
	"fmt"
	"strings"
)

// CharacterRune reads a single-character setting such as the censoring replacement.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_CHARACTER must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitList reads a comma separated setting, dropping blank entries.
func SplitList(str string) []string {
	var res []string
	for _, part := range strings.Split(str, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
