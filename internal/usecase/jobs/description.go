package jobs

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlTagPattern = regexp.MustCompile(`<(?i:p|br|div|ul|ol|li|strong|b|em|i|h[1-6]|a|span|table)\b[^>]*>`)

// normalizeDescription converts HTML descriptions pasted from job boards to
// markdown. Plain text and unconvertible input are returned trimmed.
func normalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !htmlTagPattern.MatchString(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil || strings.TrimSpace(md) == "" {
		return s
	}
	return strings.TrimSpace(md)
}
