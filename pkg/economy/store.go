package economy

import (
	"context"
	"fmt"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// Store persists snapshots by slot name.
type Store interface {
	// Load returns the snapshot saved under slot. A missing slot yields an
	// error with code NOT_FOUND.
	Load(ctx context.Context, slot string) (Snapshot, error)

	// Save stores s under s.Slot, replacing any previous save.
	Save(ctx context.Context, s Snapshot) error

	// Delete removes a slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error

	// Close releases the backend connection.
	Close() error
}

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// StoreOptions selects and configures a store backend.
type StoreOptions struct {
	Backend       string // file (default), redis or mongo
	Dir           string // file backend directory
	RedisAddr     string
	RedisPrefix   string
	MongoURI      string
	MongoDatabase string
}

// OpenStore connects to the configured backend.
func OpenStore(ctx context.Context, opts StoreOptions) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		s, err = NewFileStore(opts.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: opts.RedisAddr, Prefix: opts.RedisPrefix})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: opts.MongoURI, Database: opts.MongoDatabase})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func notFound(slot string) error {
	return errors.New(errors.ErrCodeNotFound, "no save in slot %q", slot)
}

func unavailable(backend string, err error) error {
	return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "%s store", backend)
}

func checkSnapshot(s Snapshot) error {
	if err := errors.ValidateSlotName(s.Slot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
