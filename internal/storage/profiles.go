// storage содержит контракты слоя хранилищ valet-service.
//
// profiles.go - хранилище профилей: собственный профиль (ключ owner_id)
// и профили близких (ключ id в пределах owner_id).
// photos.go - контракт объектного хранилища фотографий (S3/MinIO).
package storage

//go:generate mockgen -destination=../../mocks/storage_mock.go -package=mocks github.com/pribylovaa/valet/internal/storage ProfilesStorage,PhotosStorage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
)

var (
	// ErrNotFoundProfile — профиль не найден (в том числе чужой: владелец не совпал).
	ErrNotFoundProfile = errors.New("not found")
	// ErrCorruptRecord — сохранённая запись не прошла проверку формы при чтении.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Profiles — контракт хранилища профилей. Все операции ограничены владельцем:
// запись с чужим owner_id неотличима от отсутствующей.
//
// Сохранение всегда передаёт полный снимок полей; реализация заменяет их целиком
// и возвращает каноничную строку (с серверными id и timestamps).
type Profiles interface {
	// SelfProfile возвращает собственный профиль владельца.
	SelfProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error)
	// UpsertSelfProfile вставляет или заменяет собственный профиль по ключу ownerID.
	UpsertSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error)
	// OwnedProfiles возвращает профили близких, новые первыми.
	OwnedProfiles(ctx context.Context, ownerID uuid.UUID) ([]*models.Profile, error)
	// OwnedProfile возвращает профиль близкого по id в пределах владельца.
	OwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (*models.Profile, error)
	// CreateOwnedProfile создаёт профиль близкого; id назначает хранилище.
	CreateOwnedProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error)
	// UpdateOwnedProfile заменяет поля профиля близкого. Обновляет updated_at.
	UpdateOwnedProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.Fields) (*models.Profile, error)
	// DeleteOwnedProfile удаляет профиль близкого; false — удалять было нечего.
	DeleteOwnedProfile(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

// ProfilesStorage — верхнеуровневый интерфейс хранилища профилей.
type ProfilesStorage interface {
	Profiles
	Close()
}
