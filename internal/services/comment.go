package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"inkwell/internal/models"
)

// AddComment 在文章末尾追加评论，评论一经发布不可修改或删除
func (s *ContentStore) AddComment(ctx context.Context, postID int, draft models.CommentDraft) (models.Comment, error) {
	draft.Author = strings.TrimSpace(draft.Author)
	draft.Content = strings.TrimSpace(draft.Content)

	verr := &models.ValidationError{}
	if err := toValidationError(validate.Struct(draft), verr); err != nil {
		return models.Comment{}, err
	}
	if err := verr.Err(); err != nil {
		return models.Comment{}, err
	}

	s.mu.Lock()
	idx := s.indexOf(postID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Comment{}, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}

	post := s.posts[idx]
	comment := models.Comment{
		ID:      len(post.Comments) + 1,
		Author:  draft.Author,
		Content: draft.Content,
		Date:    s.now(),
	}
	comments := make([]models.Comment, len(post.Comments), len(post.Comments)+1)
	copy(comments, post.Comments)
	post.Comments = append(comments, comment)

	next := slices.Clone(s.posts)
	next[idx] = post

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Comment{}, err
	}
	s.mu.Unlock()

	s.logger.Debugw("comment added", "post", postID, "comment", comment.ID)
	s.publish(Event{Kind: EventCommentAdded, PostID: postID, CommentID: comment.ID, Snapshot: next})
	return comment, nil
}
