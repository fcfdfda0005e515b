package richtext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRendersBasics(t *testing.T) {
	out := string(Markdown("Áo **cotton**\n\n- Form regular\n- Giặt máy"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "cotton", doc.Find("strong").Text())
	require.Equal(t, 2, doc.Find("ul li").Length())
}

func TestMarkdownStripsScripts(t *testing.T) {
	out := string(Markdown("hello <script>alert(1)</script> <img src=x onerror=alert(2)>"))
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "onerror")
	require.Contains(t, out, "hello")
}

func TestMarkdownLinksAreNoFollow(t *testing.T) {
	out := string(Markdown("[shop](https://example.com)"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	rel, _ := doc.Find("a").Attr("rel")
	require.Contains(t, rel, "nofollow")
	target, _ := doc.Find("a").Attr("target")
	require.Equal(t, "_blank", target)
}

func TestMarkdownEmpty(t *testing.T) {
	require.Empty(t, Markdown("   "))
}

func TestHTMLSanitizes(t *testing.T) {
	out := string(HTML(`<p onclick="x()">ok</p>`))
	require.Equal(t, "<p>ok</p>", out)
}
