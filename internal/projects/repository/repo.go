// Package repository implements the project store on Redis. A project is a
// JSON document under project:{id}; its like-records live in a hash and its
// pinned user ids in a list so membership toggles stay atomic server-side.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/domain"
)

const (
	projectKeyPrefix = "project:"
	likedKeySuffix   = ":liked"
	pinnedKeySuffix  = ":pinned"
	indexKey         = "projects:all"
)

func projectKey(id string) string { return projectKeyPrefix + id }
func likedKey(id string) string   { return projectKeyPrefix + id + likedKeySuffix }
func pinnedKey(id string) string  { return projectKeyPrefix + id + pinnedKeySuffix }

// Toggle scripts return {matched, modified}: matched is 0 when the project
// document does not exist, modified is 0 when the toggle changed nothing.
// Both counters come from one script execution, so concurrent identical
// toggles cannot both report a change.
var (
	addLikeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return {0, 0}
end
return {1, redis.call("HSETNX", KEYS[2], ARGV[1], ARGV[2])}
`)

	removeLikeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return {0, 0}
end
return {1, redis.call("HDEL", KEYS[2], ARGV[1])}
`)

	addPinScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return {0, 0}
end
local members = redis.call("LRANGE", KEYS[2], 0, -1)
for _, m in ipairs(members) do
  if m == ARGV[1] then
    return {1, 0}
  end
end
redis.call("RPUSH", KEYS[2], ARGV[1])
return {1, 1}
`)

	removePinScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return {0, 0}
end
return {1, redis.call("LREM", KEYS[2], 0, ARGV[1])}
`)
)

// Store handles Redis operations for project documents.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// List fetches up to limit projects in index order. Every fetched document is
// validated against the project schema; a single invalid document anywhere in
// the batch aborts the whole call.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Project, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidAttribute
	}
	if s == nil || s.client == nil {
		return nil, domain.ErrInexistentDB
	}

	ids, err := s.client.LRange(ctx, indexKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	if len(out) == 0 {
		return nil, domain.ErrNoProjectsFound
	}
	return out, nil
}

// GetByID fetches one project by its public id.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidAttribute
	}
	if s == nil || s.client == nil {
		return nil, domain.ErrInexistentDB
	}
	return s.load(ctx, id)
}

// AddLike records a like on a project. Liking an already-liked project is a
// distinct failure, not a silent success.
func (s *Store) AddLike(ctx context.Context, projectID string, like domain.LikeRecord) error {
	if like.User == "" {
		return domain.ErrInvalidUserID
	}
	if projectID == "" {
		return domain.ErrInvalidProjectID
	}
	if s == nil || s.client == nil {
		return domain.ErrInexistentDB
	}

	date := like.Date
	if date.IsZero() {
		date = time.Now()
	}

	matched, modified, err := s.runToggle(ctx, addLikeScript,
		[]string{projectKey(projectID), likedKey(projectID)},
		like.User, date.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInexistentProject
	}
	if !modified {
		return domain.ErrAlreadyLiked
	}
	return nil
}

// RemoveLike removes a user's like from a project.
func (s *Store) RemoveLike(ctx context.Context, projectID, userID string) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}
	if projectID == "" {
		return domain.ErrInvalidProjectID
	}
	if s == nil || s.client == nil {
		return domain.ErrInexistentDB
	}

	matched, modified, err := s.runToggle(ctx, removeLikeScript,
		[]string{projectKey(projectID), likedKey(projectID)}, userID)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInexistentProject
	}
	if !modified {
		return domain.ErrAlreadyRemovedLike
	}
	return nil
}

// AddPin records a pin on a project, preserving pin order.
func (s *Store) AddPin(ctx context.Context, projectID, userID string) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}
	if projectID == "" {
		return domain.ErrInvalidProjectID
	}
	if s == nil || s.client == nil {
		return domain.ErrInexistentDB
	}

	matched, modified, err := s.runToggle(ctx, addPinScript,
		[]string{projectKey(projectID), pinnedKey(projectID)}, userID)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInexistentProject
	}
	if !modified {
		return domain.ErrAlreadyPinned
	}
	return nil
}

// RemovePin removes a user's pin from a project.
func (s *Store) RemovePin(ctx context.Context, projectID, userID string) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}
	if projectID == "" {
		return domain.ErrInvalidProjectID
	}
	if s == nil || s.client == nil {
		return domain.ErrInexistentDB
	}

	matched, modified, err := s.runToggle(ctx, removePinScript,
		[]string{projectKey(projectID), pinnedKey(projectID)}, userID)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrInexistentProject
	}
	if !modified {
		return domain.ErrAlreadyRemovedPin
	}
	return nil
}

// Insert writes a validated project document and registers it in the listing
// index. Used by the seeder and tests.
func (s *Store) Insert(ctx context.Context, p domain.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s == nil || s.client == nil {
		return domain.ErrInexistentDB
	}

	doc := p
	doc.Liked = nil
	doc.Pinned = nil
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, projectKey(p.ID), data, 0)
	pipe.Del(ctx, likedKey(p.ID), pinnedKey(p.ID))
	for _, like := range p.Liked {
		pipe.HSet(ctx, likedKey(p.ID), like.User, like.Date.UTC().Format(time.RFC3339Nano))
	}
	if len(p.Pinned) > 0 {
		args := make([]any, len(p.Pinned))
		for i, u := range p.Pinned {
			args[i] = u
		}
		pipe.RPush(ctx, pinnedKey(p.ID), args...)
	}
	pipe.LRem(ctx, indexKey, 0, p.ID)
	pipe.RPush(ctx, indexKey, p.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Store) runToggle(ctx context.Context, script *redis.Script, keys []string, args ...any) (matched, modified bool, err error) {
	res, err := script.Run(ctx, s.client, keys, args...).Result()
	if err != nil {
		return false, false, fmt.Errorf("toggle script: %w", err)
	}

	counters, ok := res.([]any)
	if !ok || len(counters) != 2 {
		return false, false, fmt.Errorf("toggle script: unexpected reply %v", res)
	}
	return asInt(counters[0]) > 0, asInt(counters[1]) > 0, nil
}

func asInt(v any) int64 {
	n, _ := v.(int64)
	return n
}

// load reads and reassembles one project document with its like and pin
// structures, then validates it against the schema.
func (s *Store) load(ctx context.Context, id string) (*domain.Project, error) {
	data, err := s.client.Get(ctx, projectKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrInexistentProject
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, domain.MsgInvalidProject, err)
	}

	likes, err := s.client.HGetAll(ctx, likedKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get likes: %w", err)
	}
	p.Liked = likeRecords(likes)

	pinned, err := s.client.LRange(ctx, pinnedKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get pins: %w", err)
	}
	p.Pinned = pinned

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// likeRecords rebuilds the ordered like sequence from the hash, oldest first.
func likeRecords(raw map[string]string) []domain.LikeRecord {
	out := make([]domain.LikeRecord, 0, len(raw))
	for user, date := range raw {
		t, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			t = time.Time{}
		}
		out = append(out, domain.LikeRecord{User: user, Date: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].User < out[j].User
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
