package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	variantSelf     = int32(models.VariantSelf)
	variantLovedOne = int32(models.VariantLovedOne)
)

// profileDoc — документ коллекции profiles. Идентификаторы хранятся строками UUID.
type profileDoc struct {
	ID      string `bson:"_id"`
	OwnerID string `bson:"owner_id"`
	Variant int32  `bson:"variant"`

	Name           string     `bson:"name"`
	Relationship   string     `bson:"relationship"`
	Birthday       *time.Time `bson:"birthday"`
	Location       string     `bson:"location"`
	Email          string     `bson:"email"`
	PhotoURL       string     `bson:"photo_url"`
	FavoriteFood   string     `bson:"favorite_food"`
	FavoriteArtist string     `bson:"favorite_artist"`
	SplurgeOn      string     `bson:"splurge_on"`

	Interests      []string               `bson:"interests"`
	Places         []models.Place         `bson:"places"`
	Notes          []models.Note          `bson:"notes"`
	ImportantDates []models.ImportantDate `bson:"important_dates"`
	Sizes          map[string]string      `bson:"sizes"`
	GiftIdeas      []models.GiftIdea      `bson:"gift_ideas"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// toMS — MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

// fieldsSet — $set-часть документа для полного снимка полей.
// Поля, не относящиеся к виду профиля, принудительно очищаются.
func fieldsSet(v models.Variant, f models.Fields) bson.D {
	f = f.Normalize()

	if v == models.VariantSelf {
		f.Relationship, f.FavoriteFood, f.FavoriteArtist, f.SplurgeOn = "", "", "", ""
	} else {
		f.Email = ""
	}

	sizes := make(map[string]string, len(f.Sizes))
	for k, val := range f.Sizes {
		sizes[string(k)] = val
	}

	dates := make([]models.ImportantDate, len(f.ImportantDates))
	for i, d := range f.ImportantDates {
		d.Date = toMS(d.Date)
		dates[i] = d
	}

	return bson.D{
		{Key: "name", Value: f.Name},
		{Key: "relationship", Value: f.Relationship},
		{Key: "birthday", Value: f.Birthday},
		{Key: "location", Value: f.Location},
		{Key: "email", Value: f.Email},
		{Key: "photo_url", Value: f.PhotoURL},
		{Key: "favorite_food", Value: f.FavoriteFood},
		{Key: "favorite_artist", Value: f.FavoriteArtist},
		{Key: "splurge_on", Value: f.SplurgeOn},
		{Key: "interests", Value: f.Interests},
		{Key: "places", Value: f.Places},
		{Key: "notes", Value: f.Notes},
		{Key: "important_dates", Value: dates},
		{Key: "sizes", Value: sizes},
		{Key: "gift_ideas", Value: f.GiftIdeas},
	}
}

// toModel переводит документ в доменную модель и проверяет форму коллекций.
func (d profileDoc) toModel() (*models.Profile, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: _id %q", storage.ErrCorruptRecord, d.ID)
	}

	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: owner_id %q", storage.ErrCorruptRecord, d.OwnerID)
	}

	sizes := make(map[models.SizeCategory]string, len(d.Sizes))
	for k, v := range d.Sizes {
		sizes[models.SizeCategory(k)] = v
	}

	p := &models.Profile{
		ID:      id,
		OwnerID: owner,
		Variant: models.Variant(d.Variant),
		Fields: models.Fields{
			Name:           d.Name,
			Relationship:   d.Relationship,
			Birthday:       d.Birthday,
			Location:       d.Location,
			Email:          d.Email,
			PhotoURL:       d.PhotoURL,
			FavoriteFood:   d.FavoriteFood,
			FavoriteArtist: d.FavoriteArtist,
			SplurgeOn:      d.SplurgeOn,
			Interests:      d.Interests,
			Places:         d.Places,
			Notes:          d.Notes,
			ImportantDates: d.ImportantDates,
			Sizes:          sizes,
			GiftIdeas:      d.GiftIdeas,
		}.Normalize(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if !p.Variant.Valid() {
		return nil, fmt.Errorf("%w: variant %d", storage.ErrCorruptRecord, d.Variant)
	}

	if err := models.ValidateShape(p.Fields); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", storage.ErrCorruptRecord, d.ID, err)
	}

	return p, nil
}

func (s *ProfilesStorage) findOne(ctx context.Context, filter bson.D) (*models.Profile, error) {
	var doc profileDoc
	if err := s.profiles.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, storage.ErrNotFoundProfile
		}

		return nil, err
	}

	return doc.toModel()
}

// SelfProfile возвращает собственный профиль владельца.
func (s *ProfilesStorage) SelfProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	const op = "storage/mongo/profiles/SelfProfile"

	p, err := s.findOne(ctx, bson.D{{Key: "owner_id", Value: ownerID.String()}, {Key: "variant", Value: variantSelf}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpsertSelfProfile — findOneAndUpdate с upsert: поля заменяются целиком,
// _id и created_at выставляются только при вставке.
func (s *ProfilesStorage) UpsertSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/mongo/profiles/UpsertSelfProfile"

	now := toMS(time.Now())
	set := append(fieldsSet(models.VariantSelf, fields), bson.E{Key: "updated_at", Value: now})

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "created_at", Value: now},
		}},
	}

	filter := bson.D{{Key: "owner_id", Value: ownerID.String()}, {Key: "variant", Value: variantSelf}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc profileDoc
	if err := s.profiles.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// OwnedProfiles возвращает профили близких, новые первыми.
func (s *ProfilesStorage) OwnedProfiles(ctx context.Context, ownerID uuid.UUID) ([]*models.Profile, error) {
	const op = "storage/mongo/profiles/OwnedProfiles"

	filter := bson.D{{Key: "owner_id", Value: ownerID.String()}, {Key: "variant", Value: variantLovedOne}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := s.profiles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	result := make([]*models.Profile, 0)
	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		p, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return result, nil
}

// OwnedProfile возвращает профиль близкого по (id, owner_id).
func (s *ProfilesStorage) OwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (*models.Profile, error) {
	const op = "storage/mongo/profiles/OwnedProfile"

	p, err := s.findOne(ctx, ownedFilter(id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// CreateOwnedProfile вставляет профиль близкого с новым id.
func (s *ProfilesStorage) CreateOwnedProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/mongo/profiles/CreateOwnedProfile"

	now := toMS(time.Now())
	doc := bson.D{
		{Key: "_id", Value: uuid.NewString()},
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "variant", Value: variantLovedOne},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
	doc = append(doc, fieldsSet(models.VariantLovedOne, fields)...)

	res, err := s.profiles.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, _ := res.InsertedID.(string)

	p, err := s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpdateOwnedProfile заменяет поля профиля близкого полным снимком.
func (s *ProfilesStorage) UpdateOwnedProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/mongo/profiles/UpdateOwnedProfile"

	set := append(fieldsSet(models.VariantLovedOne, fields), bson.E{Key: "updated_at", Value: toMS(time.Now())})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDoc
	err := s.profiles.FindOneAndUpdate(ctx, ownedFilter(id, ownerID), bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// DeleteOwnedProfile удаляет профиль близкого по (id, owner_id).
func (s *ProfilesStorage) DeleteOwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	const op = "storage/mongo/profiles/DeleteOwnedProfile"

	res, err := s.profiles.DeleteOne(ctx, ownedFilter(id, ownerID))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

func ownedFilter(id, ownerID uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "variant", Value: variantLovedOne},
	}
}
