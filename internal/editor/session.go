// editor — сессия редактирования одного профиля на стороне клиента сервиса.
//
// Сессия держит черновик, применяет к нему чистые мутаторы models,
// сохраняет полным снимком (не больше одного сохранения одновременно)
// и принимает URL фотографии только после завершения загрузки.
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
)

var (
	// ErrSaveInFlight — предыдущее сохранение ещё не завершилось.
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrLoading — черновик загружается, изменения не принимаются.
	ErrLoading = errors.New("profile is loading")
)

// Store — сохранение и чтение каноничных профилей (реализует *service.Service).
type Store interface {
	Load(ctx context.Context, ownerID uuid.UUID, variant models.Variant, id uuid.UUID) (*models.Profile, error)
	Save(ctx context.Context, p models.Profile) (*models.Profile, error)
}

// PhotoUploader — загрузка фотографии, возвращает публичный URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, ownerID uuid.UUID, variant models.Variant, data []byte) (string, error)
}

// Mutator — чистое преобразование профиля (см. методы models.Profile).
type Mutator func(models.Profile) (models.Profile, error)

// Infallible адаптирует мутатор без ошибки (AddInterest, RemoveInterest и т.п.).
func Infallible(f func(models.Profile) models.Profile) Mutator {
	return func(p models.Profile) (models.Profile, error) { return f(p), nil }
}

// Session — черновик профиля одного владельца.
type Session struct {
	store  Store
	photos PhotoUploader

	mu       sync.Mutex
	draft    models.Profile
	rev      uint64 // растёт при каждом изменении черновика
	savedRev uint64 // ревизия, совпадающая с хранилищем
	loading  bool
	saving   bool
	uploads  int
}

// New создаёт сессию с пустым черновиком: все коллекции пустые, не nil.
func New(store Store, photos PhotoUploader, ownerID uuid.UUID, variant models.Variant) *Session {
	return &Session{
		store:  store,
		photos: photos,
		draft:  models.NewDraft(ownerID, variant),
	}
}

// Load заменяет черновик каноничной записью. Для собственного профиля id игнорируется.
// При ошибке черновик не меняется.
func (s *Session) Load(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if s.loading {
		s.mu.Unlock()
		return ErrLoading
	}
	s.loading = true
	owner, variant := s.draft.OwnerID, s.draft.Variant
	s.mu.Unlock()

	p, err := s.store.Load(ctx, owner, variant, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return err
	}

	s.draft = p.Clone()
	s.rev++
	s.savedRev = s.rev

	return nil
}

// Loading — идёт загрузка черновика.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Draft возвращает копию текущего черновика.
func (s *Session) Draft() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draft.Clone()
}

// Dirty — в черновике есть несохранённые изменения.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rev != s.savedRev
}

// Apply применяет мутатор к черновику. Идентичность профиля (id, владелец, вид)
// мутатор изменить не может. При ошибке черновик не меняется.
func (s *Session) Apply(m Mutator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return ErrLoading
	}

	next, err := m(s.draft.Clone())
	if err != nil {
		return err
	}

	next.ID, next.OwnerID, next.Variant = s.draft.ID, s.draft.OwnerID, s.draft.Variant
	next.CreatedAt, next.UpdatedAt = s.draft.CreatedAt, s.draft.UpdatedAt

	s.draft = next
	s.rev++

	return nil
}

// Save сохраняет полный снимок черновика.
//
//   - невалидный черновик не отправляется (*models.ValidationError);
//   - второе сохранение во время первого -> ErrSaveInFlight;
//   - при ошибке хранилища черновик остаётся несохранённым, повтор за вызывающим;
//   - при успехе черновик заменяется каноничной записью; если во время сохранения
//     черновик менялся, правки сохраняются, а от записи берутся id и timestamps.
func (s *Session) Save(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrLoading
	}
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}

	snapshot := s.draft.Clone()
	if err := models.ValidateForSave(snapshot); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.saving = true
	startRev := s.rev
	s.mu.Unlock()

	saved, err := s.store.Save(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		return nil, err
	}

	if s.rev == startRev {
		s.draft = saved.Clone()
		s.savedRev = s.rev
	} else {
		s.draft.ID = saved.ID
		s.draft.CreatedAt, s.draft.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	}

	return saved, nil
}

// Saving — сохранение в процессе.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saving
}

// UploadPhoto загружает фотографию и только после успеха записывает URL в черновик.
// Сохранение, начатое до завершения загрузки, отправит прежний URL.
func (s *Session) UploadPhoto(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	s.uploads++
	owner, variant := s.draft.OwnerID, s.draft.Variant
	s.mu.Unlock()

	url, err := s.photos.UploadPhoto(ctx, owner, variant, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads--

	if err != nil {
		return "", err
	}

	s.draft = s.draft.WithPhotoURL(url)
	s.rev++

	return url, nil
}

// UploadPending — есть незавершённые загрузки фотографий.
func (s *Session) UploadPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uploads > 0
}
