package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a game id has no saved snapshot.
var ErrNotFound = errors.New("saved game not found")

// Store keeps snapshots by game id.
type Store interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh game id.
func NewID() string {
	return uuid.NewString()
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("game id %q: %w", id, err)
	}
	return nil
}

// FileStore keeps one <id>.json file per game in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.Dir, id+".json")
}

// Put writes the snapshot to a temporary file and renames it into place.
func (f *FileStore) Put(_ context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	tmp := f.path(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("put %s: %w", id, err)
	}
	if err := os.Rename(tmp, f.path(id)); err != nil {
		return fmt.Errorf("put %s: %w", id, err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return data, nil
}

// List returns the saved game ids sorted.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	var ids []string
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() || checkID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(f.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return err
}

const (
	gameKeyPrefix = "deadzone:game:"
	gameIndexKey  = "deadzone:games"
)

// RedisStore keeps snapshots as string values with an index set of ids.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps saves forever.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis store: client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// DialRedis connects to a single redis instance and checks it answers.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis: address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) Put(ctx context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gameKeyPrefix+id, data, r.ttl)
	pipe.SAdd(ctx, gameIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return data, nil
}

// List returns the indexed ids whose snapshot has not expired, sorted.
// Expired ids are dropped from the index.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	var live []string
	for _, id := range ids {
		n, err := r.client.Exists(ctx, gameKeyPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		if n == 0 {
			if err := r.client.SRem(ctx, gameIndexKey, id).Err(); err != nil {
				return nil, fmt.Errorf("list: pruning %s: %w", id, err)
			}
			continue
		}
		live = append(live, id)
	}
	sort.Strings(live)
	return live, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, gameKeyPrefix+id)
	pipe.SRem(ctx, gameIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}
