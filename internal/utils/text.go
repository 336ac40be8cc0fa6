package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

var commandPunct = strings.NewReplacer(
	"：", ":",
	"／", "/",
	"　", " ",
)

// NormalizeCommand prepares text for command matching: full-width colon,
// slash and space become half-width, other full-width ASCII is narrowed,
// letters are lowercased and whitespace runs collapse to one space.
func NormalizeCommand(text string) string {
	text = commandPunct.Replace(text)
	text = width.Fold.String(text)
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most maxRunes code points without splitting
// a grapheme cluster. maxRunes <= 0 disables truncation.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	var sb strings.Builder
	count := 0
	rest := text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)
		if count+n > maxRunes {
			break
		}
		sb.WriteString(cluster)
		count += n
	}
	return sb.String()
}
