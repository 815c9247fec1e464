package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const profileColumns = `
id, owner_id, variant, name, relationship, birthday, location, email, photo_url,
favorite_food, favorite_artist, splurge_on,
interests, places, notes, important_dates, sizes, gift_ideas,
created_at, updated_at
`

// row — аргументы INSERT/UPDATE: скаляры и закодированные jsonb-коллекции.
type row struct {
	birthday       *time.Time
	interests      []byte
	places         []byte
	notes          []byte
	importantDates []byte
	sizes          []byte
	giftIdeas      []byte
}

func encodeFields(f models.Fields) (row, error) {
	f = f.Normalize()

	var (
		r   row
		err error
	)

	r.birthday = f.Birthday

	enc := func(dst *[]byte, v any) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}

	enc(&r.interests, f.Interests)
	enc(&r.places, f.Places)
	enc(&r.notes, f.Notes)
	enc(&r.importantDates, f.ImportantDates)
	enc(&r.sizes, f.Sizes)
	enc(&r.giftIdeas, f.GiftIdeas)

	return r, err
}

// decodeStrict декодирует jsonb без неизвестных полей.
func decodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	return dec.Decode(dst)
}

// scanProfile сканирует строку профиля и проверяет форму jsonb-коллекций.
// Нарушение формы -> storage.ErrCorruptRecord.
func scanProfile(r pgx.Row) (*models.Profile, error) {
	var (
		p       models.Profile
		variant int16
		raw     [6][]byte
	)

	if err := r.Scan(
		&p.ID,
		&p.OwnerID,
		&variant,
		&p.Name,
		&p.Relationship,
		&p.Birthday,
		&p.Location,
		&p.Email,
		&p.PhotoURL,
		&p.FavoriteFood,
		&p.FavoriteArtist,
		&p.SplurgeOn,
		&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5],
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Variant = models.Variant(variant)

	targets := []any{&p.Interests, &p.Places, &p.Notes, &p.ImportantDates, &p.Sizes, &p.GiftIdeas}
	for i, dst := range targets {
		if err := decodeStrict(raw[i], dst); err != nil {
			return nil, fmt.Errorf("%w: profile %s: %v", storage.ErrCorruptRecord, p.ID, err)
		}
	}

	p.Fields = p.Fields.Normalize()
	if err := models.ValidateShape(p.Fields); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", storage.ErrCorruptRecord, p.ID, err)
	}

	return &p, nil
}

// SelfProfile возвращает собственный профиль владельца.
// Ошибки: storage.ErrNotFoundProfile, либо ошибка выполнения запроса.
func (s *ProfilesStorage) SelfProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/SelfProfile"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1 AND variant = $2`

	result, err := scanProfile(s.db.QueryRow(ctx, q, ownerID, int16(models.VariantSelf)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// UpsertSelfProfile вставляет собственный профиль или заменяет все его поля.
// Ключ конфликта — частичный уникальный индекс по owner_id для variant = 1.
func (s *ProfilesStorage) UpsertSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpsertSelfProfile"

	f := fields.Normalize()
	r, err := encodeFields(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := `
	INSERT INTO profiles (
		id, owner_id, variant, name, relationship, birthday, location, email, photo_url,
		favorite_food, favorite_artist, splurge_on,
		interests, places, notes, important_dates, sizes, gift_ideas
	)
	VALUES ($1, $2, 1, $3, '', $4, $5, $6, $7, '', '', '', $8, $9, $10, $11, $12, $13)
	ON CONFLICT (owner_id) WHERE variant = 1 DO UPDATE SET
		name = EXCLUDED.name,
		birthday = EXCLUDED.birthday,
		location = EXCLUDED.location,
		email = EXCLUDED.email,
		photo_url = EXCLUDED.photo_url,
		interests = EXCLUDED.interests,
		places = EXCLUDED.places,
		notes = EXCLUDED.notes,
		important_dates = EXCLUDED.important_dates,
		sizes = EXCLUDED.sizes,
		gift_ideas = EXCLUDED.gift_ideas,
		updated_at = now()
	RETURNING
	` + profileColumns

	result, err := scanProfile(s.db.QueryRow(ctx, q,
		uuid.New(), ownerID,
		f.Name, r.birthday, f.Location, f.Email, f.PhotoURL,
		r.interests, r.places, r.notes, r.importantDates, r.sizes, r.giftIdeas,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return result, nil
}

// mapWriteErr переводит нарушение CHECK-ограничения в storage.ErrInvalidArgument.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return fmt.Errorf("%w: %s", storage.ErrInvalidArgument, pgErr.ConstraintName)
	}

	return err
}

// OwnedProfiles возвращает профили близких владельца, новые первыми.
func (s *ProfilesStorage) OwnedProfiles(ctx context.Context, ownerID uuid.UUID) ([]*models.Profile, error) {
	const op = "storage/postgres/profiles/OwnedProfiles"

	q := `SELECT ` + profileColumns + ` FROM profiles
	WHERE owner_id = $1 AND variant = $2
	ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, q, ownerID, int16(models.VariantLovedOne))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// OwnedProfile возвращает профиль близкого по (id, owner_id).
// Ошибки: storage.ErrNotFoundProfile, в том числе если профиль принадлежит другому владельцу.
func (s *ProfilesStorage) OwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/OwnedProfile"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND owner_id = $2 AND variant = $3`

	result, err := scanProfile(s.db.QueryRow(ctx, q, id, ownerID, int16(models.VariantLovedOne)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// CreateOwnedProfile вставляет профиль близкого с новым id.
func (s *ProfilesStorage) CreateOwnedProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/postgres/profiles/CreateOwnedProfile"

	f := fields.Normalize()
	r, err := encodeFields(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := `
	INSERT INTO profiles (
		id, owner_id, variant, name, relationship, birthday, location, email, photo_url,
		favorite_food, favorite_artist, splurge_on,
		interests, places, notes, important_dates, sizes, gift_ideas
	)
	VALUES ($1, $2, 2, $3, $4, $5, $6, '', $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING
	` + profileColumns

	result, err := scanProfile(s.db.QueryRow(ctx, q,
		uuid.New(), ownerID,
		f.Name, f.Relationship, r.birthday, f.Location, f.PhotoURL,
		f.FavoriteFood, f.FavoriteArtist, f.SplurgeOn,
		r.interests, r.places, r.notes, r.importantDates, r.sizes, r.giftIdeas,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return result, nil
}

// UpdateOwnedProfile заменяет все поля профиля близкого (полный снимок)
// и сдвигает updated_at = now(). Фильтр по owner_id не даёт изменить чужую запись.
// Ошибки: storage.ErrNotFoundProfile при отсутствии записи.
func (s *ProfilesStorage) UpdateOwnedProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpdateOwnedProfile"

	f := fields.Normalize()
	r, err := encodeFields(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := `
	UPDATE profiles SET
		name = $3, relationship = $4, birthday = $5, location = $6, photo_url = $7,
		favorite_food = $8, favorite_artist = $9, splurge_on = $10,
		interests = $11, places = $12, notes = $13, important_dates = $14, sizes = $15, gift_ideas = $16,
		updated_at = now()
	WHERE id = $1 AND owner_id = $2 AND variant = 2
	RETURNING
	` + profileColumns

	result, err := scanProfile(s.db.QueryRow(ctx, q,
		id, ownerID,
		f.Name, f.Relationship, r.birthday, f.Location, f.PhotoURL,
		f.FavoriteFood, f.FavoriteArtist, f.SplurgeOn,
		r.interests, r.places, r.notes, r.importantDates, r.sizes, r.giftIdeas,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return result, nil
}

// DeleteOwnedProfile удаляет профиль близкого по (id, owner_id).
func (s *ProfilesStorage) DeleteOwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	const op = "storage/postgres/profiles/DeleteOwnedProfile"

	tag, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1 AND owner_id = $2 AND variant = 2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}
