package storage

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/currency-converter"
)

const (
	mongoTTLIndex = "updatedAt_ttl"

	mongoIndexOptionsConflict  = 85
	mongoIndexKeySpecsConflict = 86
)

type (
	mongoStorage struct {
		client     *mongo.Client
		collection *mongo.Collection
		ttl        time.Duration
	}

	mongoEntry struct {
		Key       string    `bson:"_id"`
		Value     string    `bson:"value"`
		UpdatedAt time.Time `bson:"updatedAt"`
	}
)

func NewMongoStorage(ctx context.Context, c MongoDBConfig) (currency.Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.ConnectionString))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	database := c.Database
	if database == "" {
		database = "currency"
	}

	collection := c.Collection
	if collection == "" {
		collection = "cache"
	}

	st := mongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		ttl:        c.TTL,
	}

	if c.Migrate {
		if err := st.Migrate(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return st, nil
}

func (m mongoStorage) Get(ctx context.Context, key string) (string, bool, error) {
	filter := bson.M{"_id": key}

	if m.ttl > 0 {
		filter["updatedAt"] = bson.M{"$gte": time.Now().UTC().Add(-m.ttl)}
	}

	entry := mongoEntry{}

	if err := m.collection.FindOne(ctx, filter).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}

		return "", false, err
	}

	return entry.Value, true, nil
}

func (m mongoStorage) Set(ctx context.Context, key, value string) error {
	_, err := m.collection.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		mongoEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)

	return err
}

// Migrate creates a TTL index so expired entries are removed by the server.
// An existing index on updatedAt with another lifetime is replaced.
func (m mongoStorage) Migrate(ctx context.Context) error {
	if m.ttl <= 0 {
		return nil
	}

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName(mongoTTLIndex).
			SetExpireAfterSeconds(expireAfterSeconds(m.ttl)),
	}

	_, err := m.collection.Indexes().CreateOne(ctx, index)
	if !isIndexConflict(err) {
		return err
	}

	if err := m.dropUpdatedAtIndexes(ctx); err != nil {
		return err
	}

	_, err = m.collection.Indexes().CreateOne(ctx, index)

	return err
}

func (m mongoStorage) dropUpdatedAtIndexes(ctx context.Context) error {
	specs, err := m.collection.Indexes().ListSpecifications(ctx)
	if err != nil {
		return err
	}

	for _, spec := range specs {
		if spec.Name != mongoTTLIndex && !isUpdatedAtIndex(spec.KeysDocument) {
			continue
		}

		if _, err := m.collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return err
		}
	}

	return nil
}

func isUpdatedAtIndex(keys bson.Raw) bool {
	elements, err := keys.Elements()
	if err != nil || len(elements) != 1 {
		return false
	}

	return elements[0].Key() == "updatedAt"
}

// expireAfterSeconds rounds up, the server accepts whole seconds only.
func expireAfterSeconds(ttl time.Duration) int32 {
	seconds := (ttl + time.Second - 1) / time.Second

	if seconds < 1 {
		return 1
	}

	if seconds > math.MaxInt32 {
		return math.MaxInt32
	}

	return int32(seconds)
}

func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError

	if !errors.As(err, &cmdErr) {
		return false
	}

	return cmdErr.Code == mongoIndexOptionsConflict || cmdErr.Code == mongoIndexKeySpecsConflict
}

func (m mongoStorage) Drop(ctx context.Context) error {
	return m.collection.Drop(ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}
