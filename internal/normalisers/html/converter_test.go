package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

func TestNew(t *testing.T) {
	converter := New()
	require.NotNil(t, converter)
	assert.Equal(t, MaxDepth, converter.maxDepth)
}

func TestConvert_ParagraphAndList(t *testing.T) {
	converter := New()

	out := converter.Convert(`<p>Hello <strong>world</strong></p><ul><li>a</li><li>b</li></ul>`)

	assert.Equal(t, "Hello **world**\n\n- a\n- b", out)
}

func TestConvert_EmptyInput(t *testing.T) {
	assert.Equal(t, "", New().Convert(""))
}

func TestConvert_Elements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"h1", "<h1>Title</h1>", "## Title"},
		{"h2", "<h2>Title</h2>", "### Title"},
		{"h3", "<h3>Title</h3>", "#### Title"},
		{"h4 collapses", "<h4>Title</h4>", "##### Title"},
		{"h6 collapses", "<h6>Title</h6>", "##### Title"},
		{"bold", "<b>x</b>", "**x**"},
		{"emphasis", "<em>x</em>", "*x*"},
		{"italic", "<i>x</i>", "*x*"},
		{"inline code", "use <code>go test</code> here", "use `go test` here"},
		{"pre block", "<pre><code>a := 1\nb := 2</code></pre>", "```\na := 1\nb := 2\n```"},
		{"line break", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"paragraphs", "<p>a</p><p>b</p>", "a\n\nb"},
		{"unknown element passes text", "<span class=\"x\">plain</span> <font>text</font>", "plain text"},
		{"script dropped", "<p>keep</p><script>alert(1)</script>", "keep"},
		{"ordered list", "<ol><li>one</li><li>two</li></ol>", "- one\n- two"},
		{"whitespace kept outside markers", "a<strong> b </strong>c", "a **b** c"},
		{"empty strong", "<strong></strong>x", "x"},
		{"comment dropped", "a<!-- hidden -->b", "ab"},
	}

	converter := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, converter.Convert(tc.input))
		})
	}
}

func TestConvert_BlockquotePrefixesEveryLine(t *testing.T) {
	out := New().Convert("<blockquote>first<br>second<br><br>third</blockquote>")

	assert.Equal(t, "> first\n> second\n>\n> third", out)
}

func TestConvert_PostProcessing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"zero width space", "a\u200bb", "ab"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"blank runs collapse", "<p>a</p><br><br><br><p>b</p>", "a\n\nb"},
		{"escaped entity text kept", "&amp;lt;tag&amp;gt;", "&lt;tag&gt;"},
		{"named entity", "a &amp; b &lt;c&gt;", "a & b <c>"},
		{"numeric entity", "&#20013;&#x6587;", "中文"},
		{"trim", "  \n <p> x </p>\n  ", "x"},
	}

	converter := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, converter.Convert(tc.input))
		})
	}
}

func TestConvert_EntitiesDecodedOnce(t *testing.T) {
	in := "<p>Write &amp;lt;br&amp;gt; for a break, and &amp;amp; for ampersand</p>"

	out := New().Convert(in)

	assert.Equal(t, "Write &lt;br&gt; for a break, and &amp; for ampersand", out)
}

func TestConvert_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed tags", "<p>open <strong>bold <em>both"},
		{"unterminated tag", "text <a href=\"x"},
		{"stray closers", "</div></p>text</li>"},
		{"angle soup", "<<<>>><><"},
	}

	converter := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				out := converter.Convert(tc.input)
				assert.NotContains(t, out, "<p>")
			})
		})
	}
}

func TestConvert_DeepNestingFallsBack(t *testing.T) {
	input := strings.Repeat("<div>", MaxDepth+100) + "deep <b>text</b>" + strings.Repeat("</div>", MaxDepth+100)

	out, err := New().ConvertWithReport(input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, "deep text", out)
}

func TestConvert_IdempotentOnOutput(t *testing.T) {
	inputs := []string{
		`<p>Hello <strong>world</strong></p><ul><li>a</li><li>b</li></ul>`,
		`<h2>Plan</h2><p>Ship <em>soon</em></p><blockquote>quoted<br>twice</blockquote>`,
		`<ol><li>one</li><li>two</li></ol><p>done</p>`,
	}

	converter := New()
	for _, in := range inputs {
		once := converter.Convert(in)
		assert.Equal(t, once, converter.Convert(once), "input %q", in)
	}
}

func TestStripPatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"list", "<ul><li>a</li><li>b</li></ul>", "- a\n- b"},
		{"paragraph", "<p class=\"x\">hi</p>", "hi"},
		{"break", "a<br />b", "a\nb"},
		{"unterminated", "keep <span", "keep"},
		{"entities", "a &amp; b", "a & b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, postProcess(stripPatterns(tc.input), true))
		})
	}
}
