package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/valet/internal/config"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — создают бакет для фотографий (публичное чтение);
// — проверяют:
//    New: ошибку при отсутствии бакета;
//    UploadPhoto: ключ, публичный URL, ограничения типа/размера;
//    OwnerPhotos/DeletePhoto: скоуп по владельцу и NotFound.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

const (
	rootUser     = "root"
	rootPassword = "rootpass"
	bucket       = "profiles"
)

func startMinio(t *testing.T, createBucket bool) (*PhotosStorage, error) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")
	hostPort := host + ":" + port.Port()

	if createBucket {
		admin, err := mclient.New(hostPort, &mclient.Options{
			Creds: credentials.NewStaticV4(rootUser, rootPassword, ""),
		})
		require.NoError(t, err)
		require.NoError(t, admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"}))

		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},`+
			`"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
		require.NoError(t, admin.SetBucketPolicy(ctx, bucket, policy))
	}

	cfg := &config.Config{
		Photos: config.PhotosConfig{
			Backend:             config.PhotosMinIO,
			Bucket:              bucket,
			MaxSizeBytes:        1024,
			AllowedContentTypes: []string{"image/jpeg", "image/png"},
		},
		S3: config.S3Config{
			Endpoint:  "http://" + hostPort,
			AccessKey: rootUser,
			SecretKey: rootPassword,
			Region:    "us-east-1",
		},
	}

	return New(ctx, cfg)
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	_, err := startMinio(t, false)
	require.Error(t, err)
}

func TestIntegration_Photos_Lifecycle(t *testing.T) {
	st, err := startMinio(t, true)
	require.NoError(t, err)

	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	body := []byte("\x89PNG\r\n\x1a\nfake")

	url, err := st.UploadPhoto(ctx, storage.PhotoUpload{
		OwnerID: owner, Variant: models.VariantSelf, ContentType: "image/png", Data: body,
	})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(url, ".png"))
	require.Contains(t, url, "/"+bucket+"/"+owner.String()+"/self_"+owner.String()+"_")

	// Объект доступен по публичному URL.
	resp, err := http.Get(url)
	require.NoError(t, err)
	got, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, body, got)

	key := st.KeyFromURL(url)
	require.True(t, strings.HasPrefix(key, owner.String()+"/"))

	photos, err := st.OwnerPhotos(ctx, owner)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, key, photos[0].Key)
	require.Equal(t, int64(len(body)), photos[0].Size)

	require.ErrorIs(t, st.DeletePhoto(ctx, stranger, key), storage.ErrNotFoundPhoto)
	require.NoError(t, st.DeletePhoto(ctx, owner, key))
	require.ErrorIs(t, st.DeletePhoto(ctx, owner, key), storage.ErrNotFoundPhoto)

	photos, err = st.OwnerPhotos(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, photos)
}

func TestIntegration_UploadPhoto_InvalidArgs(t *testing.T) {
	st, err := startMinio(t, true)
	require.NoError(t, err)

	ctx := context.Background()
	owner := uuid.New()

	// Тип вне allow-list.
	_, err = st.UploadPhoto(ctx, storage.PhotoUpload{OwnerID: owner, ContentType: "image/gif", Data: []byte{1}})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	// Превышен размер.
	_, err = st.UploadPhoto(ctx, storage.PhotoUpload{OwnerID: owner, ContentType: "image/png", Data: make([]byte, 2048)})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	// Пустое тело.
	_, err = st.UploadPhoto(ctx, storage.PhotoUpload{OwnerID: owner, ContentType: "image/png"})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}
