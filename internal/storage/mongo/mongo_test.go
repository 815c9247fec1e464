package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/stretchr/testify/require"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет.
// Адрес прокидывается в MONGO_URL, каждый тест получает свою БД (см. newTestStorage).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGO_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func newTestStorage(t *testing.T) *ProfilesStorage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	st, err := New(ctx, os.Getenv("MONGO_URL"), "valet_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func sampleFields(name string) models.Fields {
	bd := time.Date(1990, time.August, 15, 0, 0, 0, 0, time.UTC)

	return models.Fields{
		Name:           name,
		Relationship:   "sister",
		Birthday:       &bd,
		Location:       "Riga",
		FavoriteArtist: "Bjork",
		Interests:      []string{"yoga", "chess"},
		Places:         []models.Place{{Name: "Cafe Luna", Note: "window seat"}},
		ImportantDates: []models.ImportantDate{
			{Label: "Anniversary", Date: time.Date(2015, time.June, 20, 0, 0, 0, 0, time.UTC), RecurringAnnually: true},
		},
		Sizes:     map[models.SizeCategory]string{models.SizeTops: "M"},
		GiftIdeas: []models.GiftIdea{{Title: "Vinyl", Price: "$30"}},
	}.Normalize()
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), "", "db")
	require.Error(t, err)

	_, err = New(context.Background(), "mongodb://localhost:27017", "")
	require.Error(t, err)
}

func TestProfileDoc_ToModel_Corrupt(t *testing.T) {
	good := profileDoc{ID: uuid.NewString(), OwnerID: uuid.NewString(), Variant: variantLovedOne, Name: "Sarah"}

	_, err := good.toModel()
	require.NoError(t, err)

	tests := []struct {
		name string
		mod  func(d *profileDoc)
	}{
		{name: "bad_id", mod: func(d *profileDoc) { d.ID = "nope" }},
		{name: "bad_owner", mod: func(d *profileDoc) { d.OwnerID = "" }},
		{name: "bad_variant", mod: func(d *profileDoc) { d.Variant = 7 }},
		{name: "duplicate_interest", mod: func(d *profileDoc) { d.Interests = []string{"a", "a"} }},
		{name: "unknown_size", mod: func(d *profileDoc) { d.Sizes = map[string]string{"gloves": "M"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := good
			tt.mod(&d)

			_, err := d.toModel()
			require.ErrorIs(t, err, storage.ErrCorruptRecord)
		})
	}
}

func TestIntegration_SelfProfile_UpsertAndLoad(t *testing.T) {
	st := newTestStorage(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	owner := uuid.New()

	_, err := st.SelfProfile(ctx, owner)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)

	f := sampleFields("Me")
	f.Email = "me@example.com"

	saved, err := st.UpsertSelfProfile(ctx, owner, f)
	require.NoError(t, err)
	require.Equal(t, models.VariantSelf, saved.Variant)
	require.Equal(t, "me@example.com", saved.Email)
	require.Empty(t, saved.Relationship)

	loaded, err := st.SelfProfile(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, saved.ID, loaded.ID)
	require.Equal(t, saved.Fields, loaded.Fields)

	again, err := st.UpsertSelfProfile(ctx, owner, models.Fields{Name: "Me Again"})
	require.NoError(t, err)
	require.Equal(t, saved.ID, again.ID)
	require.Equal(t, saved.CreatedAt, again.CreatedAt)
	require.Empty(t, again.Interests)
	require.Nil(t, again.Birthday)
}

func TestIntegration_OwnedProfiles_Lifecycle(t *testing.T) {
	st := newTestStorage(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	owner, stranger := uuid.New(), uuid.New()

	first, err := st.CreateOwnedProfile(ctx, owner, sampleFields("First"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := st.CreateOwnedProfile(ctx, owner, sampleFields("Second"))
	require.NoError(t, err)

	_, err = st.UpsertSelfProfile(ctx, owner, models.Fields{Name: "Me"})
	require.NoError(t, err)

	list, err := st.OwnedProfiles(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
	require.Equal(t, "Bjork", list[0].FavoriteArtist)

	_, err = st.OwnedProfile(ctx, first.ID, stranger)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
	_, err = st.UpdateOwnedProfile(ctx, first.ID, stranger, sampleFields("Hacked"))
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)

	upd := first.Fields.Clone()
	upd.Name = "First Renamed"
	updated, err := st.UpdateOwnedProfile(ctx, first.ID, owner, upd)
	require.NoError(t, err)
	require.Equal(t, "First Renamed", updated.Name)
	require.Equal(t, first.CreatedAt, updated.CreatedAt)

	ok, err := st.DeleteOwnedProfile(ctx, first.ID, stranger)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = st.DeleteOwnedProfile(ctx, first.ID, owner)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = st.OwnedProfile(ctx, first.ID, owner)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
}
