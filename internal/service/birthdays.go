package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/proximity"
	"github.com/pribylovaa/valet/pkg/log"
)

// maxWindowDays — дальше года день рождения не бывает.
const maxWindowDays = 366

// UpcomingBirthday — близкий с днём рождения в пределах окна.
type UpcomingBirthday struct {
	Profile   *ProfileView
	DaysUntil int
	// Next — дата ближайшего наступления (полночь UTC).
	Next time.Time
}

// UpcomingBirthdays возвращает близких, чей день рождения наступит не позже
// чем через windowDays дней (0 — значение из конфига). Сортировка: по числу
// дней, затем по имени. Профили без даты рождения пропускаются.
func (s *Service) UpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, windowDays int) ([]UpcomingBirthday, error) {
	const op = "service/birthdays/UpcomingBirthdays"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String(), "window_days", windowDays)

	if err := checkOwner(lg, op, ownerID); err != nil {
		return nil, err
	}

	if windowDays == 0 {
		windowDays = s.cfg.Birthdays.WindowDays
	}

	if windowDays < 0 || windowDays > maxWindowDays {
		lg.Warn("invalid argument: window_days out of range")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	list, err := s.profiles.OwnedProfiles(ctx, ownerID)
	if err != nil {
		return nil, storeErr(lg, op, err)
	}

	today := s.today()
	result := make([]UpcomingBirthday, 0)

	for _, p := range list {
		if p.Birthday == nil {
			continue
		}

		md := proximity.FromDate(*p.Birthday)
		days := proximity.DaysUntil(md, today)
		if days > windowDays {
			continue
		}

		result = append(result, UpcomingBirthday{
			Profile:   viewOf(p, today),
			DaysUntil: days,
			Next:      proximity.NextOccurrence(md, today),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DaysUntil != result[j].DaysUntil {
			return result[i].DaysUntil < result[j].DaysUntil
		}
		return result[i].Profile.Name < result[j].Profile.Name
	})

	return result, nil
}
