package tui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// SyntaxHighlighter colors fenced code blocks that appear inside reasoning
// text. Output is ANSI for line-oriented rendering; the cell-based path
// strips it.
type SyntaxHighlighter struct {
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewSyntaxHighlighter() *SyntaxHighlighter {
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &SyntaxHighlighter{
		formatter: formatter,
		style:     styles.Get("monokai"),
	}
}

// Highlight returns code with ANSI coloring. The language hint comes from
// the fence; content analysis is the fallback. On any error the code comes
// back unchanged.
func (sh *SyntaxHighlighter) Highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := sh.formatter.Format(&buf, sh.style, iterator); err != nil {
		return code
	}
	return buf.String()
}
