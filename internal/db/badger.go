package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"inkwell/internal/models"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

var postPrefix = []byte("post:")

// postKey 补零保证按 key 迭代即按 id 排序
func postKey(id int) []byte {
	return []byte(fmt.Sprintf("post:%010d", id))
}

// badgerLogger adapts zap to badger's Logger interface.
type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

// BadgerPersister keeps one JSON document per post in an embedded badger
// database.
type BadgerPersister struct {
	db *badger.DB
}

// OpenBadger opens the database at path, or an in-memory one when path is
// empty. logger may be nil.
func OpenBadger(path string, logger *zap.SugaredLogger) (*BadgerPersister, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerPersister{db: db}, nil
}

func (p *BadgerPersister) Close() error {
	return p.db.Close()
}

func (p *BadgerPersister) Load(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := p.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 50, Prefix: postPrefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if post.Comments == nil {
				post.Comments = []models.Comment{}
			}
			posts = append(posts, post)
		}
		return nil
	})
	return posts, err
}

// Save writes every post and removes keys that are no longer present.
func (p *BadgerPersister) Save(ctx context.Context, posts []models.Post) error {
	return p.db.Update(func(txn *badger.Txn) error {
		keep := make(map[string]bool, len(posts))
		for _, post := range posts {
			val, err := json.Marshal(post)
			if err != nil {
				return err
			}
			key := postKey(post.ID)
			keep[string(key)] = true
			if err := txn.Set(key, val); err != nil {
				return err
			}
		}

		var stale [][]byte
		it := txn.NewIterator(badger.IteratorOptions{Prefix: postPrefix})
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !keep[string(key)] && bytes.HasPrefix(key, postPrefix) {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return ctx.Err()
	})
}
