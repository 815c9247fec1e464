package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/completion"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/proximity"
	"github.com/pribylovaa/valet/pkg/log"
	"github.com/pribylovaa/valet/pkg/redact"
)

// ProfileView — профиль с производными полями для клиента.
type ProfileView struct {
	models.Profile
	// Completion — заполненность профиля в процентах [0,100].
	Completion int
	// DaysUntilBirthday — nil, если дата рождения неизвестна.
	DaysUntilBirthday *int
}

func viewOf(p *models.Profile, today time.Time) *ProfileView {
	v := &ProfileView{Profile: *p, Completion: completion.Of(*p)}
	if days, ok := proximity.DaysUntilBirthday(p.Birthday, today); ok {
		v.DaysUntilBirthday = &days
	}

	return v
}

func checkOwner(lg *slog.Logger, op string, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return nil
}

// Save сохраняет профиль полным снимком полей и возвращает каноничную строку хранилища.
//
// Поведение:
//   - валидация выполняется до обращения к хранилищу (*models.ValidationError в цепочке);
//   - собственный профиль: upsert по owner_id;
//   - близкий без id: create, хранилище назначает id;
//   - близкий с id: update в пределах владельца, чужой/отсутствующий -> ErrNotFound.
func (s *Service) Save(ctx context.Context, p models.Profile) (*models.Profile, error) {
	const op = "service/profiles/Save"

	lg := log.From(ctx).With("op", op, "owner_id", p.OwnerID.String(), "variant", p.Variant.String())

	if err := checkOwner(lg, op, p.OwnerID); err != nil {
		return nil, err
	}

	p.Fields = p.Fields.Normalize()

	if err := models.ValidateForSave(p); err != nil {
		lg.Warn("validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	var (
		saved *models.Profile
		err   error
	)

	switch {
	case p.Variant == models.VariantSelf:
		saved, err = s.profiles.UpsertSelfProfile(ctx, p.OwnerID, p.Fields)
	case !p.Saved():
		saved, err = s.profiles.CreateOwnedProfile(ctx, p.OwnerID, p.Fields)
	default:
		lg = lg.With("profile_id", p.ID.String())
		saved, err = s.profiles.UpdateOwnedProfile(ctx, p.ID, p.OwnerID, p.Fields)
	}

	if err != nil {
		return nil, storeErr(lg, op, err)
	}

	if saved.Email != "" {
		lg = lg.With("email", redact.Email(saved.Email))
	}
	lg.Debug("profile saved", "profile_id", saved.ID.String())

	return saved, nil
}

// Load возвращает каноничный профиль: собственный (id игнорируется) или близкого по id.
func (s *Service) Load(ctx context.Context, ownerID uuid.UUID, variant models.Variant, id uuid.UUID) (*models.Profile, error) {
	const op = "service/profiles/Load"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String(), "variant", variant.String())

	if err := checkOwner(lg, op, ownerID); err != nil {
		return nil, err
	}

	var (
		p   *models.Profile
		err error
	)

	switch variant {
	case models.VariantSelf:
		p, err = s.profiles.SelfProfile(ctx, ownerID)
	case models.VariantLovedOne:
		if id == uuid.Nil {
			lg.Warn("invalid argument: empty profile id")

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		p, err = s.profiles.OwnedProfile(ctx, id, ownerID)
	default:
		lg.Warn("invalid argument: variant")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err != nil {
		return nil, storeErr(lg, op, err)
	}

	return p, nil
}

// SelfProfile возвращает собственный профиль владельца.
func (s *Service) SelfProfile(ctx context.Context, ownerID uuid.UUID) (*ProfileView, error) {
	p, err := s.Load(ctx, ownerID, models.VariantSelf, uuid.Nil)
	if err != nil {
		return nil, err
	}

	return viewOf(p, s.today()), nil
}

// SaveSelfProfile сохраняет собственный профиль (upsert по владельцу).
func (s *Service) SaveSelfProfile(ctx context.Context, ownerID uuid.UUID, fields models.Fields) (*ProfileView, error) {
	p, err := s.Save(ctx, models.Profile{OwnerID: ownerID, Variant: models.VariantSelf, Fields: fields})
	if err != nil {
		return nil, err
	}

	return viewOf(p, s.today()), nil
}

// Profile возвращает профиль близкого.
func (s *Service) Profile(ctx context.Context, ownerID, id uuid.UUID) (*ProfileView, error) {
	p, err := s.Load(ctx, ownerID, models.VariantLovedOne, id)
	if err != nil {
		return nil, err
	}

	return viewOf(p, s.today()), nil
}

// SaveProfile создаёт (id == uuid.Nil) или обновляет профиль близкого.
func (s *Service) SaveProfile(ctx context.Context, ownerID, id uuid.UUID, fields models.Fields) (*ProfileView, error) {
	p, err := s.Save(ctx, models.Profile{ID: id, OwnerID: ownerID, Variant: models.VariantLovedOne, Fields: fields})
	if err != nil {
		return nil, err
	}

	return viewOf(p, s.today()), nil
}

// Profiles возвращает профили близких владельца, новые первыми.
func (s *Service) Profiles(ctx context.Context, ownerID uuid.UUID) ([]*ProfileView, error) {
	const op = "service/profiles/Profiles"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String())

	if err := checkOwner(lg, op, ownerID); err != nil {
		return nil, err
	}

	list, err := s.profiles.OwnedProfiles(ctx, ownerID)
	if err != nil {
		return nil, storeErr(lg, op, err)
	}

	today := s.today()
	result := make([]*ProfileView, 0, len(list))
	for _, p := range list {
		result = append(result, viewOf(p, today))
	}

	return result, nil
}

// DeleteProfile удаляет профиль близкого. Нечего удалять -> ErrNotFound.
func (s *Service) DeleteProfile(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "service/profiles/DeleteProfile"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String(), "profile_id", id.String())

	if err := checkOwner(lg, op, ownerID); err != nil {
		return err
	}

	if id == uuid.Nil {
		lg.Warn("invalid argument: empty profile id")

		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ok, err := s.profiles.DeleteOwnedProfile(ctx, id, ownerID)
	if err != nil {
		return storeErr(lg, op, err)
	}

	if !ok {
		lg.Warn("profile not found")

		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Info("profile deleted")

	return nil
}
