package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	assert.Equal(t, "AJ", Initials("Alex Johnson"))
	assert.Equal(t, "AU", Initials(AnonymousName))
	assert.Equal(t, "S", Initials("  samantha  "))
	assert.Equal(t, "ÉL", Initials("élodie lambert"))
	assert.Equal(t, "", Initials(""))
}

func TestStringToInt(t *testing.T) {
	assert.Equal(t, 3, StringToInt("3", 1))
	assert.Equal(t, 1, StringToInt("", 1))
	assert.Equal(t, 1, StringToInt("abc", 1))
	assert.Equal(t, -2, StringToInt("-2", 1))
}

func TestCacheExpires(t *testing.T) {
	c, err := NewCache[string, int](2, time.Minute)
	require.NoError(t, err)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewCache[string, int](2, time.Hour)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)

	c.Delete("a")
	assert.Equal(t, 1, c.Len())
}

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("# Hello\n\nSome **bold** text.\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdownImagesAndLinks(t *testing.T) {
	out := string(RenderMarkdown("![logo](https://example.com/logo.png)\n\n[site](https://example.com)"))
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestRenderMarkdownEmbedsYouTube(t *testing.T) {
	out := string(RenderMarkdown("Watch this:\n\nhttps://www.youtube.com/watch?v=abc123&t=10"))
	assert.Contains(t, out, "https://www.youtube.com/embed/abc123")
	assert.Contains(t, out, "Watch this:")
}

func TestYoutubeID(t *testing.T) {
	assert.Equal(t, "abc", youtubeID("https://youtu.be/abc?si=x"))
	assert.Equal(t, "xyz", youtubeID("https://www.youtube.com/watch?v=xyz"))
	assert.Equal(t, "", youtubeID("https://vimeo.com/1"))
}

func TestRendererCachesByVersion(t *testing.T) {
	r, err := NewRenderer(10, time.Hour)
	require.NoError(t, err)

	v1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := r.Render(RenderKey{ID: 1, Version: v1}, "first")
	assert.Contains(t, string(first), "first")

	// 同一版本命中缓存，即使内容不同
	assert.Equal(t, first, r.Render(RenderKey{ID: 1, Version: v1}, "second"))
	assert.Contains(t, string(r.Render(RenderKey{ID: 1, Version: v1.Add(time.Second)}, "second")), "second")
}
