package html

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// MaxDepth is the deepest element nesting the tree walk accepts.
const MaxDepth = 512

var errTooDeep = errors.New("element nesting exceeds limit")

// Converter turns HTML fragments into normalised text.
type Converter struct {
	maxDepth int
}

// New creates a new HTML converter.
func New() *Converter {
	return &Converter{maxDepth: MaxDepth}
}

// Convert returns the text form of fragment. It never panics.
func (c *Converter) Convert(fragment string) string {
	out, _ := c.ConvertWithReport(fragment)
	return out
}

// ConvertWithReport is Convert but also returns the parse error that
// forced the pattern fallback, if any. The text is usable either way.
func (c *Converter) ConvertWithReport(fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}

	text, err := c.convertTree(fragment)
	if err != nil {
		return postProcess(stripPatterns(fragment), true), &domain.ParseError{Input: "html", Err: err}
	}
	return postProcess(text, false), nil
}

// convertTree parses and walks the fragment, turning panics into errors.
func (c *Converter) convertTree(fragment string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tree walk: %v", r)
		}
	}()

	ctx := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := nethtml.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", err
	}

	w := &walker{maxDepth: c.maxDepth}
	var sb strings.Builder
	for _, n := range nodes {
		s, err := w.node(n, 0)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

type walker struct {
	maxDepth int
	inPre    int
}

func (w *walker) children(n *nethtml.Node, depth int) (string, error) {
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		s, err := w.node(ch, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (w *walker) node(n *nethtml.Node, depth int) (string, error) {
	if depth > w.maxDepth {
		return "", errTooDeep
	}

	switch n.Type {
	case nethtml.TextNode:
		return n.Data, nil
	case nethtml.ElementNode:
		return w.element(n, depth)
	case nethtml.DocumentNode:
		return w.children(n, depth)
	default:
		// Comments and doctypes carry no text.
		return "", nil
	}
}

//nolint:gocyclo // One case per recognised tag.
func (w *walker) element(n *nethtml.Node, depth int) (string, error) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Template, atom.Noscript:
		return "", nil
	case atom.Br:
		return "\n", nil
	case atom.Pre:
		w.inPre++
		inner, err := w.children(n, depth)
		w.inPre--
		if err != nil {
			return "", err
		}
		return "\n\n```\n" + strings.Trim(inner, "\n") + "\n```\n\n", nil
	}

	inner, err := w.children(n, depth)
	if err != nil {
		return "", err
	}

	switch n.DataAtom {
	case atom.H1:
		return heading("##", inner), nil
	case atom.H2:
		return heading("###", inner), nil
	case atom.H3:
		return heading("####", inner), nil
	case atom.H4, atom.H5, atom.H6:
		return heading("#####", inner), nil
	case atom.Strong, atom.B:
		return wrapInline("**", inner), nil
	case atom.Em, atom.I:
		return wrapInline("*", inner), nil
	case atom.Code:
		if w.inPre > 0 {
			return inner, nil
		}
		return wrapInline("`", inner), nil
	case atom.Blockquote:
		return quote(inner), nil
	case atom.Ul, atom.Ol:
		return "\n\n" + inner + "\n\n", nil
	case atom.Li:
		return "- " + strings.TrimSpace(inner) + "\n", nil
	case atom.P, atom.Div:
		return "\n" + inner + "\n", nil
	default:
		return inner, nil
	}
}

func heading(marker, inner string) string {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return ""
	}
	return "\n\n" + marker + " " + inner + "\n\n"
}

// wrapInline keeps surrounding whitespace outside the markers so
// "<b> x </b>" does not become "** x **".
func wrapInline(marker, inner string) string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return inner
	}
	lead := inner[:strings.Index(inner, trimmed)]
	tail := inner[len(lead)+len(trimmed):]
	return lead + marker + trimmed + marker + tail
}

func quote(inner string) string {
	inner = strings.Trim(normaliseNewlines(inner), "\n")
	if strings.TrimSpace(inner) == "" {
		return ""
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

// Pre-compiled regular expressions for the pattern fallback and post-processing.
var (
	listOpenTags  = regexp.MustCompile(`(?i)<(ul|ol)(\s[^>]*)?>`)
	listCloseTags = regexp.MustCompile(`(?i)</(ul|ol)\s*>`)
	itemOpenTags  = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	itemCloseTags = regexp.MustCompile(`(?i)</li\s*>`)
	paraOpenTags  = regexp.MustCompile(`(?i)<p(\s[^>]*)?>`)
	paraCloseTags = regexp.MustCompile(`(?i)</p\s*>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]*>`)
	danglingTag   = regexp.MustCompile(`<[^>]*$`)
	blankRuns     = regexp.MustCompile(`\n\s*\n`)
)

// stripPatterns removes markup without parsing. RE2 matching is linear,
// so arbitrary input terminates.
func stripPatterns(content string) string {
	content = listOpenTags.ReplaceAllString(content, "\n")
	content = listCloseTags.ReplaceAllString(content, "")
	content = itemOpenTags.ReplaceAllString(content, "- ")
	content = itemCloseTags.ReplaceAllString(content, "\n")
	content = paraOpenTags.ReplaceAllString(content, "\n")
	content = paraCloseTags.ReplaceAllString(content, "")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	return danglingTag.ReplaceAllString(content, "")
}

func normaliseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// postProcess applies the shared clean-up, in order. Only the pattern
// path decodes entities; the tree parser has already resolved them.
func postProcess(text string, decode bool) string {
	text = strings.ReplaceAll(text, "\u200b", "")
	text = normaliseNewlines(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	if decode {
		text = html.UnescapeString(text)
	}
	return strings.TrimSpace(text)
}
