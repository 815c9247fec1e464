// memory — хранилища в памяти процесса для окружения local и тестов.
// Поведение совпадает с постоянными реализациями: скоуп по владельцу,
// полный снимок полей при сохранении, новые профили первыми.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
)

// ProfilesStorage — профили в map под RWMutex. Наружу отдаются только копии.
type ProfilesStorage struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]models.Profile
	self     map[uuid.UUID]uuid.UUID // owner -> id собственного профиля
	now      func() time.Time
}

// NewProfilesStorage создаёт пустое хранилище профилей.
func NewProfilesStorage() *ProfilesStorage {
	return &ProfilesStorage{
		profiles: make(map[uuid.UUID]models.Profile),
		self:     make(map[uuid.UUID]uuid.UUID),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Close — no-op.
func (s *ProfilesStorage) Close() {}

func canonical(v models.Variant, f models.Fields) models.Fields {
	f = f.Clone()

	if v == models.VariantSelf {
		f.Relationship, f.FavoriteFood, f.FavoriteArtist, f.SplurgeOn = "", "", "", ""
	} else {
		f.Email = ""
	}

	return f
}

func out(p models.Profile) *models.Profile {
	c := p.Clone()
	return &c
}

func (s *ProfilesStorage) SelfProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.self[ownerID]
	if !ok {
		return nil, storage.ErrNotFoundProfile
	}

	return out(s.profiles[id]), nil
}

func (s *ProfilesStorage) UpsertSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	fields = canonical(models.VariantSelf, fields)

	if id, ok := s.self[ownerID]; ok {
		p := s.profiles[id]
		p.Fields = fields
		p.UpdatedAt = now
		s.profiles[id] = p

		return out(p), nil
	}

	p := models.Profile{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Variant:   models.VariantSelf,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.profiles[p.ID] = p
	s.self[ownerID] = p.ID

	return out(p), nil
}

func (s *ProfilesStorage) OwnedProfiles(ctx context.Context, ownerID uuid.UUID) ([]*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Profile, 0)
	for _, p := range s.profiles {
		if p.OwnerID == ownerID && p.Variant == models.VariantLovedOne {
			result = append(result, out(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

// owned — профиль близкого с совпадающим владельцем. Вызывать под блокировкой.
func (s *ProfilesStorage) owned(id, ownerID uuid.UUID) (models.Profile, bool) {
	p, ok := s.profiles[id]
	if !ok || p.OwnerID != ownerID || p.Variant != models.VariantLovedOne {
		return models.Profile{}, false
	}

	return p, true
}

func (s *ProfilesStorage) OwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.owned(id, ownerID)
	if !ok {
		return nil, storage.ErrNotFoundProfile
	}

	return out(p), nil
}

func (s *ProfilesStorage) CreateOwnedProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := models.Profile{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Variant:   models.VariantLovedOne,
		Fields:    canonical(models.VariantLovedOne, fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.profiles[p.ID] = p

	return out(p), nil
}

func (s *ProfilesStorage) UpdateOwnedProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.owned(id, ownerID)
	if !ok {
		return nil, storage.ErrNotFoundProfile
	}

	p.Fields = canonical(models.VariantLovedOne, fields)
	p.UpdatedAt = s.now()
	s.profiles[id] = p

	return out(p), nil
}

func (s *ProfilesStorage) DeleteOwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owned(id, ownerID); !ok {
		return false, nil
	}

	delete(s.profiles, id)

	return true, nil
}

var _ storage.ProfilesStorage = (*ProfilesStorage)(nil)
