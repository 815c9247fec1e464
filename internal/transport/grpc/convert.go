package grpc

import (
	"fmt"
	"time"

	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/service"
	"github.com/pribylovaa/valet/internal/storage"
)

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(profilesv1.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(profilesv1.DateLayout)
}

// toFields переводит снимок из запроса в доменные поля.
// Пустая дата памятного события остаётся нулевой и отклоняется доменной валидацией.
func toFields(in profilesv1.ProfileInput) (models.Fields, error) {
	f := models.Fields{
		Name:           in.Name,
		Relationship:   in.Relationship,
		Location:       in.Location,
		Email:          in.Email,
		PhotoURL:       in.PhotoURL,
		FavoriteFood:   in.FavoriteFood,
		FavoriteArtist: in.FavoriteArtist,
		SplurgeOn:      in.SplurgeOn,
		Interests:      append([]string(nil), in.Interests...),
	}

	if in.Birthday != "" {
		bd, err := parseDate(in.Birthday)
		if err != nil {
			return models.Fields{}, fmt.Errorf("birthday: %w", err)
		}
		f.Birthday = &bd
	}

	for _, p := range in.Places {
		f.Places = append(f.Places, models.Place{Name: p.Name, Note: p.Note})
	}

	for _, n := range in.Notes {
		f.Notes = append(f.Notes, models.Note{Title: n.Title, Content: n.Content})
	}

	for i, d := range in.ImportantDates {
		date, err := parseDate(d.Date)
		if err != nil {
			return models.Fields{}, fmt.Errorf("importantDates[%d]: %w", i, err)
		}
		f.ImportantDates = append(f.ImportantDates, models.ImportantDate{
			Label:             d.Label,
			Date:              date,
			RecurringAnnually: d.RecurringAnnually,
		})
	}

	if len(in.Sizes) > 0 {
		f.Sizes = make(map[models.SizeCategory]string, len(in.Sizes))
		for k, v := range in.Sizes {
			f.Sizes[models.SizeCategory(k)] = v
		}
	}

	for _, g := range in.GiftIdeas {
		f.GiftIdeas = append(f.GiftIdeas, toGiftIdea(g))
	}

	return f.Normalize(), nil
}

func toGiftIdea(g profilesv1.GiftIdea) models.GiftIdea {
	return models.GiftIdea{Title: g.Title, Description: g.Description, Link: g.Link, Price: g.Price}
}

func fromGiftIdea(g models.GiftIdea) profilesv1.GiftIdea {
	return profilesv1.GiftIdea{Title: g.Title, Description: g.Description, Link: g.Link, Price: g.Price}
}

// fromFields — обратное преобразование; коллекции в ответе всегда не nil.
func fromFields(f models.Fields) profilesv1.ProfileInput {
	f = f.Normalize()

	out := profilesv1.ProfileInput{
		Name:           f.Name,
		Relationship:   f.Relationship,
		Location:       f.Location,
		Email:          f.Email,
		PhotoURL:       f.PhotoURL,
		FavoriteFood:   f.FavoriteFood,
		FavoriteArtist: f.FavoriteArtist,
		SplurgeOn:      f.SplurgeOn,
		Interests:      append([]string{}, f.Interests...),
		Places:         make([]profilesv1.Place, 0, len(f.Places)),
		Notes:          make([]profilesv1.Note, 0, len(f.Notes)),
		ImportantDates: make([]profilesv1.ImportantDate, 0, len(f.ImportantDates)),
		Sizes:          make(map[string]string, len(f.Sizes)),
		GiftIdeas:      make([]profilesv1.GiftIdea, 0, len(f.GiftIdeas)),
	}

	if f.Birthday != nil {
		out.Birthday = formatDate(*f.Birthday)
	}

	for _, p := range f.Places {
		out.Places = append(out.Places, profilesv1.Place{Name: p.Name, Note: p.Note})
	}
	for _, n := range f.Notes {
		out.Notes = append(out.Notes, profilesv1.Note{Title: n.Title, Content: n.Content})
	}
	for _, d := range f.ImportantDates {
		out.ImportantDates = append(out.ImportantDates, profilesv1.ImportantDate{
			Label:             d.Label,
			Date:              formatDate(d.Date),
			RecurringAnnually: d.RecurringAnnually,
		})
	}
	for k, v := range f.Sizes {
		out.Sizes[string(k)] = v
	}
	for _, g := range f.GiftIdeas {
		out.GiftIdeas = append(out.GiftIdeas, fromGiftIdea(g))
	}

	return out
}

func toProfile(v *service.ProfileView) *profilesv1.Profile {
	return &profilesv1.Profile{
		ID:                v.ID.String(),
		OwnerID:           v.OwnerID.String(),
		Variant:           v.Variant.String(),
		ProfileInput:      fromFields(v.Fields),
		Completion:        v.Completion,
		DaysUntilBirthday: v.DaysUntilBirthday,
		CreatedAt:         v.CreatedAt.UTC(),
		UpdatedAt:         v.UpdatedAt.UTC(),
	}
}

func toPhoto(p storage.Photo) profilesv1.Photo {
	return profilesv1.Photo{
		Key:          p.Key,
		URL:          p.URL,
		Size:         p.Size,
		ContentType:  p.ContentType,
		LastModified: p.LastModified.UTC(),
	}
}
