package widgets

import (
	"bytes"
	"html/template"
	"strings"
)

// Placeholder is the 1x1 transparent image lazy images show until storefront.js
// swaps in data-src on first intersection.
const Placeholder = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

var lazyImageTmpl = template.Must(template.New("lazy").Parse(
	`<img class="{{.Class}}" src="{{.Placeholder}}" data-src="{{.Src}}" alt="{{.Alt}}" loading="lazy">`))

// LazyImage renders an img.lazy element whose real source waits in data-src.
func LazyImage(src, alt string, classes ...string) template.HTML {
	class := strings.TrimSpace(strings.Join(append([]string{"lazy"}, classes...), " "))
	var buf bytes.Buffer
	err := lazyImageTmpl.Execute(&buf, struct {
		Class       string
		Placeholder template.URL
		Src         string
		Alt         string
	}{Class: class, Placeholder: template.URL(Placeholder), Src: src, Alt: alt})
	if err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
