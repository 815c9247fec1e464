package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/pribylovaa/valet/pkg/log"
)

// UploadPhoto загружает фотографию профиля и возвращает её публичный URL.
//
// Валидация:
//   - тело не пустое и не больше photos.max_size_bytes;
//   - тип определяется по содержимому (а не по заявленному клиентом)
//     и должен входить в photos.allowed_content_types.
//
// URL попадает в профиль только следующим сохранением.
func (s *Service) UploadPhoto(ctx context.Context, ownerID uuid.UUID, variant models.Variant, data []byte) (string, error) {
	const op = "service/photos/UploadPhoto"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String(), "variant", variant.String(), "size", len(data))

	if err := checkOwner(lg, op, ownerID); err != nil {
		return "", err
	}

	if !variant.Valid() {
		lg.Warn("invalid argument: variant")

		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if len(data) == 0 || int64(len(data)) > s.cfg.Photos.MaxSizeBytes {
		lg.Warn("invalid argument: photo size", "max", s.cfg.Photos.MaxSizeBytes)

		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	contentType := sniff(data)
	if !slices.Contains(s.cfg.Photos.AllowedContentTypes, contentType) {
		lg.Warn("invalid argument: content type", "content_type", contentType)

		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	url, err := s.photos.UploadPhoto(ctx, storage.PhotoUpload{
		OwnerID:     ownerID,
		Variant:     variant,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return "", storeErr(lg, op, err)
	}

	lg.Info("photo uploaded", "content_type", contentType)

	return url, nil
}

// sniff определяет MIME-тип по сигнатуре, без параметров (charset и т.п.).
func sniff(data []byte) string {
	ct := mimetype.Detect(data).String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}

	return strings.TrimSpace(ct)
}

// DeletePhoto удаляет фотографию владельца по публичному URL или ключу объекта.
// Ключ вне префикса владельца неотличим от отсутствующего.
func (s *Service) DeletePhoto(ctx context.Context, ownerID uuid.UUID, urlOrKey string) error {
	const op = "service/photos/DeletePhoto"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String())

	if err := checkOwner(lg, op, ownerID); err != nil {
		return err
	}

	if strings.TrimSpace(urlOrKey) == "" {
		lg.Warn("invalid argument: empty photo reference")

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	key := s.photos.KeyFromURL(urlOrKey)
	if !storage.OwnsKey(ownerID, key) {
		lg.Warn("photo outside owner prefix", "key", key)

		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := s.photos.DeletePhoto(ctx, ownerID, key); err != nil {
		return storeErr(lg.With("key", key), op, err)
	}

	lg.Info("photo deleted", "key", key)

	return nil
}

// ListPhotos перечисляет фотографии владельца.
func (s *Service) ListPhotos(ctx context.Context, ownerID uuid.UUID) ([]storage.Photo, error) {
	const op = "service/photos/ListPhotos"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String())

	if err := checkOwner(lg, op, ownerID); err != nil {
		return nil, err
	}

	photos, err := s.photos.OwnerPhotos(ctx, ownerID)
	if err != nil {
		return nil, storeErr(lg, op, err)
	}

	return photos, nil
}
