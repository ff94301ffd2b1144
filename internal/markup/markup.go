// Package markup sanitizes user-supplied card text. The server keeps a safe
// subset of HTML so cards can carry emphasis, images and MathJax spans; the
// CLI strips all markup before printing to a terminal.
package markup

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrEmpty is returned by Clean when nothing is left after sanitizing.
var ErrEmpty = errors.New("input is empty or unsafe")

var (
	storagePolicy = bluemonday.UGCPolicy().
			AllowElements("img").
			AllowAttrs("src", "alt").OnElements("img").
			AllowElements("math", "span").
			AllowAttrs("class").OnElements("span")

	plainPolicy = bluemonday.StrictPolicy()
)

// Clean sanitizes input for storage. It returns ErrEmpty when the result is
// blank, which covers input made only of disallowed markup.
func Clean(input string) (string, error) {
	out := strings.TrimSpace(storagePolicy.Sanitize(input))
	if out == "" {
		return "", ErrEmpty
	}
	return out, nil
}

// CleanOptional is Clean for fields that may be empty.
func CleanOptional(input string) string {
	return strings.TrimSpace(storagePolicy.Sanitize(input))
}

// Strip removes every tag and decodes entities, leaving text fit for a
// terminal. Runs of whitespace left behind by removed block elements are
// collapsed.
func Strip(input string) string {
	text := html.UnescapeString(plainPolicy.Sanitize(input))
	return strings.Join(strings.Fields(text), " ")
}
