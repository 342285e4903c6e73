// Package render turns draft bodies into preview HTML: markdown with highlighted code blocks.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/theme"
	"github.com/debemdeboas/postdeck/internal/util"
)

var renderLogger zerolog.Logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Rendered previews keyed by content hash and syntax theme.
var previewCache = cache.NewCache[string, template.HTML]()

// HighlightCode returns code as chroma HTML. Unknown languages use the fallback lexer and
// any formatting failure returns the code escaped.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return template.HTMLEscapeString(code)
	}

	style := styles.Get(highlightTheme)
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, style, iterator); err != nil {
		return template.HTMLEscapeString(code)
	}
	return buf.String()
}

// Markdown renders md to HTML. Raw HTML in the input is dropped.
func Markdown(md []byte, highlightTheme string) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank | md_html.SkipHTML | md_html.Safelink,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, highlightTheme))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough |
			parser.SpaceHeadings | parser.BackslashLineBreak | parser.NoIntraEmphasis,
	).Parse(markdown.NormalizeNewlines(md))

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Preview renders a draft body, reusing earlier output for identical content and theme.
func Preview(body, highlightTheme string) template.HTML {
	key := util.ContentHashString(body) + ":" + highlightTheme
	html, hit := previewCache.GetOrSet(key, func() template.HTML {
		return template.HTML(Markdown([]byte(body), highlightTheme))
	})
	renderLogger.Debug().Str("key", key).Bool("hit", hit).Msg("Rendered preview")
	return html
}

// ClearCache drops all cached previews.
func ClearCache() {
	previewCache.Clear()
}
