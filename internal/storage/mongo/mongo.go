// mongo предоставляет реализацию storage.ProfilesStorage на базе MongoDB.
// Профиль хранится одним документом; коллекции вложены массивами/объектами.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/valet/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const profilesCollection = "profiles"

// ProfilesStorage — адаптер MongoDB для профилей.
type ProfilesStorage struct {
	client   *mongodriver.Client
	profiles *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение и обеспечивает индексы.
func New(ctx context.Context, uri, database string) (*ProfilesStorage, error) {
	const op = "storage/mongo/New"

	if uri == "" || database == "" {
		return nil, fmt.Errorf("%s: empty uri or database", op)
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := &ProfilesStorage{
		client:   cli,
		profiles: cli.Database(database).Collection(profilesCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// Ping проверяет доступность primary (используется /healthz).
func (s *ProfilesStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close отключает клиента.
func (s *ProfilesStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = s.client.Disconnect(ctx)
}

// ensureIndexes создает индексы:
// - один собственный профиль на владельца (уникальный частичный по owner_id для variant=1);
// - список близких: owner_id + variant + created_at(desc).
func (s *ProfilesStorage) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().
				SetName("self_owner_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "variant", Value: variantSelf}}),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "variant", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("owner_variant_created_desc"),
		},
	}

	if _, err := s.profiles.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	return nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.ProfilesStorage = (*ProfilesStorage)(nil)
