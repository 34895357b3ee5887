//go:build chroma

package display

import (
	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

// Span is one run of a highlighted command/script buffer, painted
// with Style instead of the default Style{}.
type Span struct {
	Text  string
	Style Style
}

// Highlight tokenizes code as lang using Chroma and maps token
// categories onto the editor's own Style attributes, for optional
// syntax tinting of "@"-prefixed command/script buffers (teacher
// tui/highlight_chroma.go, restyled onto Style's Bold/ColorPair
// fields instead of raw ANSI escape strings).
func Highlight(code, lang string) []Span {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return []Span{{Text: code, Style: Style{}}}
	}

	var spans []Span
	for _, token := range iterator.Tokens() {
		entry := style.Get(token.Type)
		st := Style{}
		if entry.Bold == chroma.Yes {
			st.Bold = true
		}
		if entry.Underline == chroma.Yes {
			st.Underline = true
		}

		switch token.Type.Category() {
		case chroma.Keyword:
			st.ColorPair, st.Bold = 5, true // magenta
		case chroma.Name:
			st.ColorPair = 7 // white
		case chroma.LiteralString:
			st.ColorPair = 2 // green
		case chroma.LiteralNumber:
			st.ColorPair = 6 // cyan
		case chroma.Comment:
			st.ColorPair = 4 // blue
		case chroma.Operator, chroma.Punctuation:
			st.ColorPair = 7
		}

		spans = append(spans, Span{Text: token.Value, Style: st})
	}
	return spans
}
