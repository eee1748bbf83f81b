package parser

import (
	"regexp"
	"strings"
)

func fenceFor(lang string) *regexp.Regexp {
	return regexp.MustCompile("(?s)```" + lang + "\\s*\\n(.*?)```")
}

// extractBlock returns the content of a ```lang fenced block if present,
// otherwise the whole response trimmed, so a parser accepts either a
// fenced block or a raw payload.
func extractBlock(response, lang string) string {
	if m := fenceFor(lang).FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}
