package economy

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "upgradetree"
	DefaultMongoCollection = "saves"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string // defaults to DefaultMongoDatabase
	Collection string // defaults to DefaultMongoCollection
}

// MongoStore keeps one document per slot, keyed by the slot field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := errors.ValidateURI(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, unavailable(BackendMongo, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, unavailable(BackendMongo, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load reads a slot.
func (s *MongoStore) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := errors.ValidateSlotName(slot); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	err := s.coll.FindOne(ctx, bson.M{"slot": slot}).Decode(&snap)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, notFound(slot)
	}
	if err != nil {
		return Snapshot{}, unavailable(BackendMongo, err)
	}
	return snap, nil
}

// Save upserts the slot document.
func (s *MongoStore) Save(ctx context.Context, snap Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"slot": snap.Slot}, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable(BackendMongo, err)
	}
	return nil
}

// Delete removes the slot document.
func (s *MongoStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"slot": slot}); err != nil {
		return unavailable(BackendMongo, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
