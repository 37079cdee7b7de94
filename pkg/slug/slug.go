package slug

import (
	"fmt"

	gosimple "github.com/gosimple/slug"
)

// Fallback is used when a title has no characters that survive normalisation.
const Fallback = "video"

// Checker reports whether a slug is already taken.
type Checker interface {
	SlugExists(slug string) (bool, error)
}

// Make turns a title into a lowercase, ASCII, hyphen separated slug.
func Make(title string) string {
	s := gosimple.Make(title)
	if s == "" {
		return Fallback
	}
	return s
}

// Unique probes base, base-1, base-2, ... until checker reports a free slug.
// The result is only a candidate: callers still rely on the unique index and
// retry when a concurrent insert wins the race.
func Unique(checker Checker, title string) (string, error) {
	base := Make(title)
	candidate := base
	for n := 1; ; n++ {
		taken, err := checker.SlugExists(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
