package image

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePrompt composes the prompt to NFC and collapses runs of whitespace.
// It decides whether a prompt is blank; requests carry the original text.
func NormalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(norm.NFC.String(prompt)), " ")
}
