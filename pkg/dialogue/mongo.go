package dialogue

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "graphbot"
	DefaultMongoCollection = "dialogues"
)

// mongoDoc is the stored document; the session ID is the primary key.
type mongoDoc struct {
	ID    string `bson:"_id"`
	State `bson:",inline"`
}

// MongoStore keeps dialogue state in a MongoDB collection. A TTL index on
// updated_at lets the server expire abandoned dialogues.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

// NewMongoStore connects to uri, pings the server and ensures the TTL index.
func NewMongoStore(ctx context.Context, uri, database string, ttl time.Duration) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultMongoCollection),
		ttl:    ttl,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, sessionID string) (State, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return State{}, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return StartState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("find session: %w", err)
	}
	// The TTL monitor runs about once a minute.
	if doc.State.expired(s.ttl, time.Now()) {
		return StartState(), nil
	}
	return doc.State.normalize(), nil
}

func (s *MongoStore) Set(ctx context.Context, sessionID string, st State) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	// Millisecond precision is all BSON dates hold.
	st.UpdatedAt = st.UpdatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": sessionID},
		mongoDoc{ID: sessionID, State: st},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, sessionID string) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
