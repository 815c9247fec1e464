package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Reason — машинно-читаемая причина отказа валидации.
type Reason string

const (
	ReasonMissingName          Reason = "missing_name"
	ReasonMissingRelationship  Reason = "missing_relationship"
	ReasonInvalidVariant       Reason = "invalid_variant"
	ReasonDuplicateInterest    Reason = "duplicate_interest"
	ReasonBlankEntry           Reason = "blank_entry"
	ReasonUnknownSizeCategory  Reason = "unknown_size_category"
	ReasonInvalidPhotoURL      Reason = "invalid_photo_url"
	ReasonInvalidImportantDate Reason = "invalid_important_date"
	ReasonIndexOutOfRange      Reason = "index_out_of_range"
)

// ValidationError — профиль нельзя сохранить, пока пользователь не исправит поле.
type ValidationError struct {
	Reason Reason
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}

	return fmt.Sprintf("validation failed: %s (%s)", e.Reason, e.Field)
}

func invalid(reason Reason, field string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field}
}

// ValidateForSave проверяет профиль перед любым обращением к хранилищу.
// Возвращает nil или *ValidationError с первой найденной причиной.
func ValidateForSave(p Profile) error {
	if !p.Variant.Valid() {
		return invalid(ReasonInvalidVariant, "variant")
	}

	if strings.TrimSpace(p.Name) == "" {
		return invalid(ReasonMissingName, "name")
	}

	if p.Variant == VariantLovedOne && strings.TrimSpace(p.Relationship) == "" {
		return invalid(ReasonMissingRelationship, "relationship")
	}

	return ValidateShape(p.Fields)
}

// ValidateShape проверяет форму коллекций: обязательные поля элементов,
// уникальность интересов, известные категории размеров, URL фотографии.
// Используется и для данных, прочитанных из хранилища.
func ValidateShape(f Fields) error {
	if f.PhotoURL != "" && !isPublicURL(f.PhotoURL) {
		return invalid(ReasonInvalidPhotoURL, "photoUrl")
	}

	seen := make(map[string]struct{}, len(f.Interests))
	for i, in := range f.Interests {
		if strings.TrimSpace(in) == "" {
			return invalid(ReasonBlankEntry, fmt.Sprintf("interests[%d]", i))
		}
		if _, ok := seen[in]; ok {
			return invalid(ReasonDuplicateInterest, fmt.Sprintf("interests[%d]", i))
		}
		seen[in] = struct{}{}
	}

	for i, pl := range f.Places {
		if strings.TrimSpace(pl.Name) == "" {
			return invalid(ReasonBlankEntry, fmt.Sprintf("places[%d].name", i))
		}
	}

	for i, n := range f.Notes {
		if strings.TrimSpace(n.Title) == "" {
			return invalid(ReasonBlankEntry, fmt.Sprintf("notes[%d].title", i))
		}
	}

	for i, d := range f.ImportantDates {
		if strings.TrimSpace(d.Label) == "" {
			return invalid(ReasonBlankEntry, fmt.Sprintf("importantDates[%d].label", i))
		}
		if d.Date.IsZero() {
			return invalid(ReasonInvalidImportantDate, fmt.Sprintf("importantDates[%d].date", i))
		}
	}

	for c, label := range f.Sizes {
		if !c.Valid() {
			return invalid(ReasonUnknownSizeCategory, "sizes."+string(c))
		}
		if strings.TrimSpace(label) == "" {
			return invalid(ReasonBlankEntry, "sizes."+string(c))
		}
	}

	for i, g := range f.GiftIdeas {
		if strings.TrimSpace(g.Title) == "" {
			return invalid(ReasonBlankEntry, fmt.Sprintf("giftIdeas[%d].title", i))
		}
	}

	return nil
}

// isPublicURL — только абсолютные http(s) URL; локальные пути и file:// отклоняются.
func isPublicURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
