package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/storage"
)

type object struct {
	photo storage.Photo
	data  []byte
}

// PhotosStorage — объектное хранилище фотографий в памяти.
type PhotosStorage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	now     func() time.Time
}

// NewPhotosStorage создаёт хранилище; публичные URL строятся как baseURL + "/" + key.
func NewPhotosStorage(baseURL string) *PhotosStorage {
	if baseURL == "" {
		baseURL = "memory://profiles"
	}

	return &PhotosStorage{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *PhotosStorage) UploadPhoto(ctx context.Context, upload storage.PhotoUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if upload.OwnerID == uuid.Nil || len(upload.Data) == 0 {
		return "", storage.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := storage.PhotoKey(upload.OwnerID, upload.Variant, upload.ContentType, now)
	url := s.baseURL + "/" + key

	s.objects[key] = object{
		photo: storage.Photo{
			Key:          key,
			URL:          url,
			Size:         int64(len(upload.Data)),
			ContentType:  upload.ContentType,
			LastModified: now,
		},
		data: append([]byte(nil), upload.Data...),
	}

	return url, nil
}

func (s *PhotosStorage) DeletePhoto(ctx context.Context, ownerID uuid.UUID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !storage.OwnsKey(ownerID, key) {
		return storage.ErrNotFoundPhoto
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return storage.ErrNotFoundPhoto
	}
	delete(s.objects, key)

	return nil
}

func (s *PhotosStorage) OwnerPhotos(ctx context.Context, ownerID uuid.UUID) ([]storage.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := storage.OwnerPrefix(ownerID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.Photo, 0)
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			result = append(result, obj.photo)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })

	return result, nil
}

func (s *PhotosStorage) KeyFromURL(urlOrKey string) string {
	return storage.KeyFromURL(s.baseURL, "", urlOrKey)
}

var _ storage.PhotosStorage = (*PhotosStorage)(nil)
