package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Тесты пакета postgres.
//
// Unit (без БД):
//   - scanProfile: строгий разбор jsonb и ErrCorruptRecord на лишних полях/нарушенной форме.
//
// Интеграционные (реальный PostgreSQL через testcontainers-go, миграции goose):
//   - UpsertSelfProfile/SelfProfile: вставка, замена полным снимком, save-then-load;
//   - Create/Owned/Update/Delete: жизненный цикл близкого, скоуп по owner_id;
//   - OwnedProfiles: порядок "новые первыми";
//   - поведение при истёкшем контексте.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// fakeRow — pgx.Row поверх заранее заданных значений колонок.
type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d dest, got %d", len(r.values), len(dest))
	}

	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *int16:
			*p = r.values[i].(int16)
		case *string:
			*p = r.values[i].(string)
		case **time.Time:
			*p = r.values[i].(*time.Time)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *[]byte:
			*p = []byte(r.values[i].(string))
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}

	return nil
}

func rowWith(jsonCols ...string) fakeRow {
	cols := []string{`[]`, `[]`, `[]`, `[]`, `{}`, `[]`}
	copy(cols, jsonCols)

	now := time.Now().UTC()
	vals := []any{
		uuid.New(), uuid.New(), int16(models.VariantLovedOne),
		"Sarah", "sister", (*time.Time)(nil), "", "", "", "", "", "",
	}
	for _, c := range cols {
		vals = append(vals, c)
	}

	return fakeRow{values: append(vals, now, now)}
}

func TestScanProfile_OK(t *testing.T) {
	t.Parallel()

	p, err := scanProfile(rowWith(
		`["yoga","chess"]`,
		`[{"name":"Cafe","note":"window"}]`,
		`[]`,
		`[{"label":"Anniversary","date":"2015-06-20T00:00:00Z","recurringAnnually":true}]`,
		`{"shoes":"38"}`,
		`[{"title":"Scarf","price":"$40"}]`,
	))
	require.NoError(t, err)
	require.Equal(t, models.VariantLovedOne, p.Variant)
	require.Equal(t, []string{"yoga", "chess"}, p.Interests)
	require.Equal(t, []models.Place{{Name: "Cafe", Note: "window"}}, p.Places)
	require.NotNil(t, p.Notes)
	require.True(t, p.ImportantDates[0].RecurringAnnually)
	require.Equal(t, "38", p.Sizes[models.SizeShoes])
	require.Equal(t, "$40", p.GiftIdeas[0].Price)
}

func TestScanProfile_CorruptRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cols []string
	}{
		{name: "unknown_field", cols: []string{`[]`, `[{"name":"Cafe","rating":5}]`}},
		{name: "wrong_type", cols: []string{`{"a":1}`}},
		{name: "duplicate_interest", cols: []string{`["a","a"]`}},
		{name: "blank_place", cols: []string{`[]`, `[{"name":" "}]`}},
		{name: "unknown_size", cols: []string{`[]`, `[]`, `[]`, `[]`, `{"gloves":"M"}`}},
		{name: "invalid_json", cols: []string{`[`}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := scanProfile(rowWith(tt.cols...))
			require.ErrorIs(t, err, storage.ErrCorruptRecord)
		})
	}
}

var (
	pgOnce    sync.Once
	pgStorage *ProfilesStorage
	pgErr     error
)

// startPostgres поднимает PostgreSQL через testcontainers-go и применяет миграции goose.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) *ProfilesStorage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	pgOnce.Do(func() {
		ctx := context.Background()
		req := tc.ContainerRequest{
			Image:        "docker.io/postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "valet"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(90 * time.Second),
		}

		c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
			ProviderType:     tc.ProviderDocker,
		})
		if err != nil {
			pgErr = err
			return
		}

		host, _ := c.Host(ctx)
		port, _ := c.MappedPort(ctx, "5432/tcp")
		dsn := fmt.Sprintf("postgres://user:pass@%s:%s/valet?sslmode=disable", host, port.Port())

		st, err := New(ctx, dsn)
		if err != nil {
			pgErr = err
			return
		}

		if err := st.Migrate(ctx); err != nil {
			pgErr = err
			return
		}

		pgStorage = st
	})

	require.NoError(t, pgErr)

	return pgStorage
}

func sampleFields(name string) models.Fields {
	bd := time.Date(1990, time.August, 15, 0, 0, 0, 0, time.UTC)

	return models.Fields{
		Name:         name,
		Relationship: "sister",
		Birthday:     &bd,
		Location:     "Riga",
		PhotoURL:     "https://cdn.example.com/profiles/x.jpeg",
		FavoriteFood: "sushi",
		Interests:    []string{"yoga"},
		Places:       []models.Place{{Name: "Cafe Luna"}},
		Notes:        []models.Note{{Title: "Allergies", Content: "peanuts"}},
		ImportantDates: []models.ImportantDate{
			{Label: "Anniversary", Date: time.Date(2015, time.June, 20, 0, 0, 0, 0, time.UTC), RecurringAnnually: true},
		},
		Sizes:     map[models.SizeCategory]string{models.SizeShoes: "38"},
		GiftIdeas: []models.GiftIdea{{Title: "Scarf", Price: "$40"}},
	}.Normalize()
}

func TestIntegration_SelfProfile_UpsertAndLoad(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := st.SelfProfile(ctx, owner)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)

	f := sampleFields("Me")
	f.Email = "me@example.com"

	saved, err := st.UpsertSelfProfile(ctx, owner, f)
	require.NoError(t, err)
	require.Equal(t, models.VariantSelf, saved.Variant)
	require.Empty(t, saved.Relationship, "self profile has no relationship")
	require.Empty(t, saved.FavoriteFood)

	loaded, err := st.SelfProfile(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, saved.ID, loaded.ID)
	require.Equal(t, saved.Fields, loaded.Fields)

	// Повторный upsert заменяет все поля, id не меняется.
	f2 := models.Fields{Name: "Me Again"}.Normalize()
	again, err := st.UpsertSelfProfile(ctx, owner, f2)
	require.NoError(t, err)
	require.Equal(t, saved.ID, again.ID)
	require.Equal(t, "Me Again", again.Name)
	require.Empty(t, again.Interests)
	require.Nil(t, again.Birthday)
	require.True(t, again.UpdatedAt.After(saved.UpdatedAt) || again.UpdatedAt.Equal(saved.UpdatedAt))
}

func TestIntegration_OwnedProfiles_Lifecycle(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := st.CreateOwnedProfile(ctx, owner, sampleFields("Sarah"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, models.VariantLovedOne, created.Variant)
	require.Equal(t, "sushi", created.FavoriteFood)
	require.Empty(t, created.Email)

	got, err := st.OwnedProfile(ctx, created.ID, owner)
	require.NoError(t, err)
	require.Equal(t, created.Fields, got.Fields)

	// Чужой владелец не видит, не меняет и не удаляет запись.
	_, err = st.OwnedProfile(ctx, created.ID, stranger)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
	_, err = st.UpdateOwnedProfile(ctx, created.ID, stranger, sampleFields("Hacked"))
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
	ok, err := st.DeleteOwnedProfile(ctx, created.ID, stranger)
	require.NoError(t, err)
	require.False(t, ok)

	upd := created.Fields.Clone()
	upd.Name = "Sarah K."
	upd.Interests = []string{}
	updated, err := st.UpdateOwnedProfile(ctx, created.ID, owner, upd)
	require.NoError(t, err)
	require.Equal(t, "Sarah K.", updated.Name)
	require.Empty(t, updated.Interests)
	require.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC())

	ok, err = st.DeleteOwnedProfile(ctx, created.ID, owner)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = st.OwnedProfile(ctx, created.ID, owner)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
}

func TestIntegration_OwnedProfiles_NewestFirst(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner := uuid.New()

	first, err := st.CreateOwnedProfile(ctx, owner, sampleFields("First"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := st.CreateOwnedProfile(ctx, owner, sampleFields("Second"))
	require.NoError(t, err)

	// Собственный профиль в список близких не попадает.
	_, err = st.UpsertSelfProfile(ctx, owner, models.Fields{Name: "Me"})
	require.NoError(t, err)

	list, err := st.OwnedProfiles(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	empty, err := st.OwnedProfiles(ctx, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestIntegration_ContextDeadline(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.SelfProfile(ctx, uuid.New())
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled), "got %v", err)
}
