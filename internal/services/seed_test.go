package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	posts := seedPosts(t)
	require.Len(t, posts, 6)

	assert.Equal(t, 2, posts[0].CommentCount())
	assert.Equal(t, 1, posts[1].CommentCount())
	assert.Equal(t, models.CategoryCSS, posts[5].Category)
	for _, p := range posts {
		assert.True(t, p.Category.Valid())
		assert.NotNil(t, p.Comments)
		assert.False(t, p.Date.IsZero())
		assert.NotEmpty(t, p.Author.OwnerID)
	}
}

func TestLoadSeedNumbersComments(t *testing.T) {
	posts, err := LoadSeed(strings.NewReader(`
- id: 10
  title: One
  category: Design
  comments:
    - author: A
      content: first
    - author: B
      content: second
`))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []int{1, 2}, []int{posts[0].Comments[0].ID, posts[0].Comments[1].ID})
}

func TestLoadSeedRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing id":   "- title: x\n  category: CSS\n",
		"duplicate id": "- id: 1\n  category: CSS\n- id: 1\n  category: CSS\n",
		"bad category": "- id: 1\n  category: Cooking\n",
		"comment gap":  "- id: 1\n  category: CSS\n  comments:\n    - id: 2\n      content: hi\n",
		"comment dup":  "- id: 1\n  category: CSS\n  comments:\n    - id: 1\n    - id: 1\n",
		"not yaml":     "{{{",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeed(strings.NewReader(src))
			assert.Error(t, err)
		})
	}

	posts, err := LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 3\n  title: File\n  category: Backend\n"), 0o644))

	posts, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "File", posts[0].Title)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
