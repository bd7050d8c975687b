package utils

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	// Allow images
	policy.AllowImages()
	// Force links to open in new tab
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
	// 允许 EnhanceHTMLContent 之前的图片懒加载属性
	policy.AllowAttrs("loading").OnElements("img")
}

func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}

	// Sanitize HTML
	sanitized := policy.SanitizeBytes(buf.Bytes())

	return EnhanceHTMLContent(string(sanitized))
}

// RenderKey identifies one version of a rendered document.
type RenderKey struct {
	ID      int
	Version time.Time
}

// Renderer memoises RenderMarkdown per document.
type Renderer struct {
	cache *Cache[RenderKey, template.HTML]
}

func NewRenderer(size int, ttl time.Duration) (*Renderer, error) {
	c, err := NewCache[RenderKey, template.HTML](size, ttl)
	if err != nil {
		return nil, err
	}
	return &Renderer{cache: c}, nil
}

func (r *Renderer) Render(key RenderKey, source string) template.HTML {
	if out, ok := r.cache.Get(key); ok {
		return out
	}
	out := RenderMarkdown(source)
	r.cache.Set(key, out)
	return out
}
