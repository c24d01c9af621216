package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"article-view/internal/model"
)

const (
	queueKey  = "queue:archive"
	recentKey = "list:recent"
	maxRecent = 50

	fieldLike     = "like"
	fieldBookmark = "bookmark"
)

func articleKey(id uuid.UUID) string  { return fmt.Sprintf("article:%s", id) }
func personalKey(id uuid.UUID) string { return fmt.Sprintf("personal:%s", id) }

// HybridStore combines Redis (metadata, personal info, queue) and Badger
// (content blocks).
type HybridStore struct {
	rdb *redis.Client
	db  *badger.DB
}

// NewHybridStore initializes databases.
// Pass badgerPath="" to run in "Redis-Only" mode (for CLI tools).
func NewHybridStore(redisAddr string, badgerPath string) (*HybridStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var db *badger.DB
	if badgerPath != "" {
		opts := badger.DefaultOptions(badgerPath)
		opts.Logger = nil // Silence default logger
		var err error
		db, err = badger.Open(opts)
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}
	}

	return &HybridStore{rdb: rdb, db: db}, nil
}

// Close cleans up connections
func (s *HybridStore) Close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// Save combines data: Metadata to Redis + Blocks to Badger
func (s *HybridStore) Save(ctx context.Context, article *model.Article) error {
	meta := *article
	meta.Blocks = nil

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, articleKey(article.ID), data, 0)

	// A new pending article goes on the queue and the recent list.
	if article.Status == model.StatusPending {
		pipe.LPush(ctx, queueKey, article.ID.String())
		pipe.LRem(ctx, recentKey, 0, article.ID.String())
		pipe.LPush(ctx, recentKey, article.ID.String())
		pipe.LTrim(ctx, recentKey, 0, maxRecent-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if len(article.Blocks) > 0 {
		if s.db == nil {
			return fmt.Errorf("cannot save content: badgerdb is not initialized")
		}
		blocks, err := json.Marshal(article.Blocks)
		if err != nil {
			return err
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(article.ID.String()), blocks)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Get combines data: Metadata from Redis + Blocks from Badger
func (s *HybridStore) Get(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	val, err := s.rdb.Get(ctx, articleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var article model.Article
	if err := json.Unmarshal(val, &article); err != nil {
		return nil, err
	}

	if s.db != nil {
		err = s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(id.String()))
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, &article.Blocks)
			})
		})

		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return nil, err
		}
	}

	return &article, nil
}

// List fetches the most recent articles from Redis, without content.
func (s *HybridStore) List(ctx context.Context, limit int) ([]model.Article, error) {
	ids, err := s.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	var articles []model.Article
	for _, idStr := range ids {
		val, err := s.rdb.Get(ctx, "article:"+idStr).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		} else if err != nil {
			return nil, err
		}

		var a model.Article
		if err := json.Unmarshal(val, &a); err == nil {
			articles = append(articles, a)
		}
	}

	return articles, nil
}

// UpdateStatus is a helper to just flip the status flag in Redis
func (s *HybridStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus) error {
	val, err := s.rdb.Get(ctx, articleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	var article model.Article
	if err := json.Unmarshal(val, &article); err != nil {
		return err
	}

	article.Status = status
	return s.Save(ctx, &article)
}

// PopQueue waits for a job in the Redis queue (Blocking)
func (s *HybridStore) PopQueue(ctx context.Context) (uuid.UUID, error) {
	// 0 means wait forever until an item arrives
	result, err := s.rdb.BRPop(ctx, 0, queueKey).Result()
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(result[1])
}

// GetPersonalInfo reads the like/bookmark flags. Articles the reader never
// touched have both flags unset.
func (s *HybridStore) GetPersonalInfo(ctx context.Context, id uuid.UUID) (model.ArticlePersonalInfo, error) {
	fields, err := s.rdb.HGetAll(ctx, personalKey(id)).Result()
	if err != nil {
		return model.ArticlePersonalInfo{}, err
	}

	var info model.ArticlePersonalInfo
	if info.IsLike, err = parseFlag(fields[fieldLike]); err != nil {
		return model.ArticlePersonalInfo{}, fmt.Errorf("field %s: %w", fieldLike, err)
	}
	if info.IsBookmark, err = parseFlag(fields[fieldBookmark]); err != nil {
		return model.ArticlePersonalInfo{}, fmt.Errorf("field %s: %w", fieldBookmark, err)
	}
	return info, nil
}

// SavePersonalInfo stores the like/bookmark flags in a Redis hash.
func (s *HybridStore) SavePersonalInfo(ctx context.Context, id uuid.UUID, info model.ArticlePersonalInfo) error {
	return s.rdb.HSet(ctx, personalKey(id),
		fieldLike, strconv.FormatBool(info.IsLike),
		fieldBookmark, strconv.FormatBool(info.IsBookmark),
	).Err()
}

func parseFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
