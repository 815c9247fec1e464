// minio предоставляет реализацию storage.PhotosStorage на базе MinIO.
// minio.go - конструктор клиента MinIO: нормализует endpoint,
// настраивает Secure/creds и проверяет наличие целевого бакета.
// photos.go - загрузка, удаление и перечисление фотографий профилей.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/valet/internal/config"
	"github.com/pribylovaa/valet/internal/storage"
)

// PhotosStorage — адаптер MinIO для фотографий профилей.
type PhotosStorage struct {
	cfg     *config.Config
	client  *mclient.Client
	baseURL string
}

// New создает и инициализирует клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg *config.Config) (*PhotosStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.S3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: secure,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Photos.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Photos.Bucket)
	}

	// Без PUBLIC_BASE_URL публичный адрес строится как <endpoint>/<bucket>.
	base := strings.TrimRight(cfg.Photos.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Photos.Bucket)
	}

	return &PhotosStorage{cfg: cfg, client: client, baseURL: base}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.PhotosStorage = (*PhotosStorage)(nil)
