package main

import (
	"encoding/json"
	"fmt"
	"io"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type postsOptions struct {
	text     string
	category string
	page     int
	pageSize int
	recent   int
	output   string
	seedOnly bool
}

// newPostsCmd 离线查询文章，不启动 HTTP 服务
func newPostsCmd() *cobra.Command {
	var opts postsOptions
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Query posts from the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			var posts []models.Post
			if opts.seedOnly {
				seed, err := services.DefaultSeed()
				if err != nil {
					return err
				}
				posts = seed
			} else {
				cfg, _ := config.Load()
				store, closeStore, err := openStore(cmd.Context(), cfg, zap.NewNop().Sugar())
				if err != nil {
					return err
				}
				defer closeStore()
				posts = store.List()
			}
			return runPosts(cmd.OutOrStdout(), posts, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.text, "query", "q", "", "search title and excerpt")
	f.StringVarP(&opts.category, "category", "c", "", "category filter (All for every category)")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.IntVar(&opts.pageSize, "page-size", models.DefaultPageSize, "posts per page")
	f.IntVar(&opts.recent, "recent", 0, "print the N most recent posts instead of a page")
	f.StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")
	f.BoolVar(&opts.seedOnly, "seed", false, "query the built-in seed posts")
	return cmd
}

func runPosts(w io.Writer, posts []models.Post, opts postsOptions) error {
	var out any
	if opts.recent > 0 {
		out = services.Recent(posts, opts.recent)
	} else {
		q := models.Query{Text: opts.text, Page: opts.page, PageSize: opts.pageSize}
		if opts.category != "" {
			cat, ok := models.ParseCategory(opts.category)
			if !ok {
				return fmt.Errorf("unknown category %q", opts.category)
			}
			q.Category = cat
		}
		out = services.Query(posts, q)
	}

	switch opts.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}
