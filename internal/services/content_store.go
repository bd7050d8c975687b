package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"go.uber.org/zap"
)

// Persister is an optional storage adapter behind the content store.
// Save receives the complete snapshot after every mutation.
type Persister interface {
	Load(ctx context.Context) ([]models.Post, error)
	Save(ctx context.Context, posts []models.Post) error
}

type EventKind string

const (
	EventPostCreated  EventKind = "post_created"
	EventPostDeleted  EventKind = "post_deleted"
	EventCommentAdded EventKind = "comment_added"
)

// Event is published after a mutation has been committed. Snapshot is the
// new collection and must be treated as read-only.
type Event struct {
	Kind      EventKind     `json:"kind"`
	PostID    int           `json:"post_id"`
	CommentID int           `json:"comment_id,omitempty"`
	Snapshot  []models.Post `json:"-"`
}

// ContentStore owns the canonical collection of posts. Every mutation
// builds a new snapshot and swaps it in, so a slice handed out earlier is
// never modified.
type ContentStore struct {
	mu     sync.RWMutex
	posts  []models.Post
	nextID int

	persister Persister
	seed      []models.Post
	now       func() time.Time
	logger    *zap.SugaredLogger

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int
}

type Option func(*ContentStore)

func WithPersister(p Persister) Option {
	return func(s *ContentStore) { s.persister = p }
}

// WithSeed sets the posts used when the persister is empty or absent.
func WithSeed(posts []models.Post) Option {
	return func(s *ContentStore) { s.seed = posts }
}

func WithClock(now func() time.Time) Option {
	return func(s *ContentStore) { s.now = now }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *ContentStore) { s.logger = logger }
}

// NewContentStore initialises the store from the persister, falling back to
// the seed when nothing has been stored yet.
func NewContentStore(ctx context.Context, opts ...Option) (*ContentStore, error) {
	s := &ContentStore{
		now:         time.Now,
		logger:      zap.NewNop().Sugar(),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	var posts []models.Post
	if s.persister != nil {
		loaded, err := s.persister.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load posts: %w", err)
		}
		posts = loaded
	}
	if len(posts) == 0 && len(s.seed) > 0 {
		posts = clonePosts(s.seed)
		if s.persister != nil {
			if err := s.persister.Save(ctx, posts); err != nil {
				return nil, fmt.Errorf("save seed posts: %w", err)
			}
		}
		s.logger.Infow("content store seeded", "posts", len(posts))
	}

	s.posts = posts
	s.nextID = 1
	for _, p := range posts {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s, nil
}

// Create 发布新文章；subject 为空时返回 ErrNotAuthenticated
func (s *ContentStore) Create(ctx context.Context, subject *models.Subject, draft models.Draft) (models.Post, error) {
	if subject == nil {
		return models.Post{}, models.ErrNotAuthenticated
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Excerpt = strings.TrimSpace(draft.Excerpt)
	draft.Content = strings.TrimSpace(draft.Content)
	draft.Category = models.Category(strings.TrimSpace(string(draft.Category)))
	if err := validateDraft(draft); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	post := models.Post{
		ID:       s.nextID,
		Title:    draft.Title,
		Excerpt:  draft.Excerpt,
		Content:  draft.Content,
		Category: draft.Category,
		Author:   authorFor(*subject, draft.Author),
		Date:     s.now(),
		Comments: []models.Comment{},
	}
	next := make([]models.Post, len(s.posts), len(s.posts)+1)
	copy(next, s.posts)
	next = append(next, post)

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Post{}, err
	}
	// ID 只增不减，删除后也不会复用
	s.nextID++
	s.mu.Unlock()

	s.logger.Debugw("post created", "id", post.ID, "owner", post.Author.OwnerID)
	s.publish(Event{Kind: EventPostCreated, PostID: post.ID, Snapshot: next})
	return post, nil
}

// Delete removes the post and its comments. Deleting a missing id is a no-op.
func (s *ContentStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	next := make([]models.Post, 0, len(s.posts)-1)
	next = append(next, s.posts[:idx]...)
	next = append(next, s.posts[idx+1:]...)

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Debugw("post deleted", "id", id)
	s.publish(Event{Kind: EventPostDeleted, PostID: id, Snapshot: next})
	return nil
}

// List returns a deep copy of the current snapshot in insertion order.
func (s *ContentStore) List() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.posts)
}

// Get 返回的文章连同评论都是副本，调用方修改不会影响快照
func (s *ContentStore) Get(id int) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		p := s.posts[idx]
		p.Comments = slices.Clone(p.Comments)
		return p, true
	}
	return models.Post{}, false
}

// Subscribe registers fn for every committed mutation. Callbacks run on the
// mutating goroutine after the store lock is released.
func (s *ContentStore) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *ContentStore) publish(ev Event) {
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// commit 先持久化，成功后再替换快照；调用方必须持有写锁
func (s *ContentStore) commit(ctx context.Context, next []models.Post) error {
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			return fmt.Errorf("persist posts: %w", err)
		}
	}
	s.posts = next
	return nil
}

func (s *ContentStore) indexOf(id int) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func validateDraft(draft models.Draft) error {
	verr := &models.ValidationError{}
	if err := toValidationError(validate.Struct(draft), verr); err != nil {
		return err
	}
	if draft.Category != "" && !draft.Category.Valid() {
		verr.Add("category", "must be one of the listed categories")
	}
	return verr.Err()
}

// authorFor 作者信息缺省时从当前用户推导，OwnerID 始终取 subject.ID
func authorFor(subject models.Subject, given models.Author) models.Author {
	name := strings.TrimSpace(given.Name)
	if name == "" {
		name = strings.TrimSpace(subject.Name)
	}
	if name == "" {
		name = utils.AnonymousName
	}

	avatar := given.Avatar
	if avatar == "" {
		avatar = subject.Avatar
	}
	if avatar == "" {
		avatar = utils.DefaultAvatar
	}

	initials := given.Initials
	if initials == "" {
		initials = utils.Initials(name)
	}

	return models.Author{
		Name:     name,
		Avatar:   avatar,
		Initials: initials,
		OwnerID:  subject.ID,
	}
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		p.Comments = slices.Clone(p.Comments)
		out[i] = p
	}
	return out
}
