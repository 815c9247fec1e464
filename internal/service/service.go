// service содержит бизнес-логику valet-сервиса:
// - сохранение профилей полным снимком (upsert собственного, create/update близких);
// - чтение с обогащением (заполненность, дни до дня рождения);
// - фотографии профилей (загрузка, удаление, список);
// - ближайшие дни рождения и идеи подарков в пределах бюджета.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/valet/internal/config"
	"github.com/pribylovaa/valet/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные; при отказе валидации
	// цепочка содержит *models.ValidationError с причиной.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность не найдена (в том числе принадлежит другому владельцу).
	ErrNotFound = errors.New("not found")
	// ErrStoreFailure — сбой хранилища; исходная ошибка остаётся в цепочке.
	// Автоматических повторов нет: повтор решает вызывающий.
	ErrStoreFailure = errors.New("store failure")
)

// Service — описывает бизнес-логику valet-service.
type Service struct {
	cfg      *config.Config
	profiles storage.ProfilesStorage
	photos   storage.PhotosStorage
	loc      *time.Location
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(profiles storage.ProfilesStorage, photos storage.PhotosStorage, cfg *config.Config) *Service {
	loc, err := cfg.Birthdays.Location()
	if err != nil {
		loc = time.UTC
	}

	return &Service{
		cfg:      cfg,
		profiles: profiles,
		photos:   photos,
		loc:      loc,
		now:      time.Now,
	}
}

// today — текущая календарная дата в часовом поясе сервиса.
func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

// storeErr переводит ошибку хранилища в ошибку сервисного слоя и логирует её.
func storeErr(lg *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFoundProfile), errors.Is(err, storage.ErrNotFoundPhoto):
		lg.Warn("not found")

		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("rejected by storage", "err", err)

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	default:
		lg.Error("storage error", "err", err)

		return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
	}
}
