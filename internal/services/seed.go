package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"inkwell/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed/posts.yaml
var defaultSeed []byte

// DefaultSeed 内置的示例文章
func DefaultSeed() ([]models.Post, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

func LoadSeedFile(path string) ([]models.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSeed(f)
}

// LoadSeed decodes a YAML list of posts. Ids must be positive and unique;
// comment ids left at zero are numbered in order, explicit ones must
// already be 1..n so that AddComment keeps them unique.
func LoadSeed(r io.Reader) ([]models.Post, error) {
	var posts []models.Post
	if err := yaml.NewDecoder(r).Decode(&posts); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seen := make(map[int]bool, len(posts))
	for i := range posts {
		p := &posts[i]
		if p.ID <= 0 {
			return nil, fmt.Errorf("seed post %q: id must be positive", p.Title)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("seed post %d: duplicate id", p.ID)
		}
		seen[p.ID] = true
		if !p.Category.Valid() {
			return nil, fmt.Errorf("seed post %d: unknown category %q", p.ID, p.Category)
		}
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
		for j := range p.Comments {
			c := &p.Comments[j]
			if c.ID == 0 {
				c.ID = j + 1
			} else if c.ID != j+1 {
				return nil, fmt.Errorf("seed post %d: comment id %d out of order, want %d", p.ID, c.ID, j+1)
			}
		}
	}
	return posts, nil
}
