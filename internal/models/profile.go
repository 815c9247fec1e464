// models содержит доменные сущности valet-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Variant — вид профиля: собственный профиль пользователя или близкий человек.
type Variant int8

const (
	VariantUnspecified Variant = iota
	VariantSelf
	VariantLovedOne
)

func (v Variant) String() string {
	switch v {
	case VariantSelf:
		return "self"
	case VariantLovedOne:
		return "loved_one"
	default:
		return "unspecified"
	}
}

// Valid — только self и loved_one.
func (v Variant) Valid() bool {
	return v == VariantSelf || v == VariantLovedOne
}

// ParseVariant разбирает строковое представление ("self", "loved_one").
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "self":
		return VariantSelf, nil
	case "loved_one", "loved-one", "lovedone":
		return VariantLovedOne, nil
	default:
		return VariantUnspecified, fmt.Errorf("unknown profile variant %q", s)
	}
}

// SizeCategory — категория одежды, для которой хранится размер.
type SizeCategory string

const (
	SizeShoes       SizeCategory = "shoes"
	SizeTops        SizeCategory = "tops"
	SizeBottoms     SizeCategory = "bottoms"
	SizeDresses     SizeCategory = "dresses"
	SizeHats        SizeCategory = "hats"
	SizeAccessories SizeCategory = "accessories"
)

// SizeCategories — все категории в порядке отображения.
func SizeCategories() []SizeCategory {
	return []SizeCategory{SizeShoes, SizeTops, SizeBottoms, SizeDresses, SizeHats, SizeAccessories}
}

func (c SizeCategory) Valid() bool {
	switch c {
	case SizeShoes, SizeTops, SizeBottoms, SizeDresses, SizeHats, SizeAccessories:
		return true
	default:
		return false
	}
}

// Place — любимое место.
type Place struct {
	Name string `json:"name" bson:"name"`
	Note string `json:"note,omitempty" bson:"note,omitempty"`
}

// Note — произвольная заметка о человеке.
type Note struct {
	Title   string `json:"title" bson:"title"`
	Content string `json:"content,omitempty" bson:"content,omitempty"`
}

// ImportantDate — памятная дата (годовщина и т.п.).
type ImportantDate struct {
	Label             string    `json:"label" bson:"label"`
	Date              time.Time `json:"date" bson:"date"`
	RecurringAnnually bool      `json:"recurringAnnually" bson:"recurring_annually"`
}

// GiftIdea — идея подарка. Цена хранится строкой в том виде, как её ввёл пользователь.
type GiftIdea struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Link        string `json:"link,omitempty" bson:"link,omitempty"`
	Price       string `json:"price,omitempty" bson:"price,omitempty"`
}

// Fields — сохраняемые атрибуты профиля. Хранилище получает их целиком
// при каждом сохранении (полный снимок, а не разреженный патч).
//
// Relationship и FavoriteFood/FavoriteArtist/SplurgeOn имеют смысл только
// для близких, Email — только для собственного профиля.
type Fields struct {
	Name         string
	Relationship string
	Birthday     *time.Time
	Location     string
	Email        string
	PhotoURL     string

	FavoriteFood   string
	FavoriteArtist string
	SplurgeOn      string

	Interests      []string
	Places         []Place
	Notes          []Note
	ImportantDates []ImportantDate
	Sizes          map[SizeCategory]string
	GiftIdeas      []GiftIdea
}

// Profile — внутренняя доменная модель.
// ID == uuid.Nil означает несохранённый черновик; после первого сохранения ID не меняется.
type Profile struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Variant Variant
	Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDraft возвращает пустой черновик: все коллекции пустые, но не nil.
func NewDraft(ownerID uuid.UUID, variant Variant) Profile {
	p := Profile{OwnerID: ownerID, Variant: variant}
	p.Fields = p.Fields.Normalize()

	return p
}

// Saved — профиль уже сохранён и имеет серверный идентификатор.
func (p Profile) Saved() bool {
	return p.ID != uuid.Nil
}

// Clone возвращает глубокую копию профиля.
func (p Profile) Clone() Profile {
	p.Fields = p.Fields.Clone()
	return p
}

// Clone возвращает глубокую копию полей: срезы и карта не разделяются с оригиналом.
func (f Fields) Clone() Fields {
	if f.Birthday != nil {
		bd := *f.Birthday
		f.Birthday = &bd
	}

	f.Interests = append([]string(nil), f.Interests...)
	f.Places = append([]Place(nil), f.Places...)
	f.Notes = append([]Note(nil), f.Notes...)
	f.ImportantDates = append([]ImportantDate(nil), f.ImportantDates...)
	f.GiftIdeas = append([]GiftIdea(nil), f.GiftIdeas...)

	if f.Sizes != nil {
		sizes := make(map[SizeCategory]string, len(f.Sizes))
		for k, v := range f.Sizes {
			sizes[k] = v
		}
		f.Sizes = sizes
	}

	return f.Normalize()
}

// Normalize приводит поля к каноничному виду: скалярные строки без
// пробелов по краям, дата рождения без времени, коллекции не nil.
// Не копирует содержимое коллекций.
func (f Fields) Normalize() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Relationship = strings.TrimSpace(f.Relationship)
	f.Location = strings.TrimSpace(f.Location)
	f.Email = strings.TrimSpace(f.Email)
	f.PhotoURL = strings.TrimSpace(f.PhotoURL)
	f.FavoriteFood = strings.TrimSpace(f.FavoriteFood)
	f.FavoriteArtist = strings.TrimSpace(f.FavoriteArtist)
	f.SplurgeOn = strings.TrimSpace(f.SplurgeOn)

	if f.Birthday != nil {
		if f.Birthday.IsZero() {
			f.Birthday = nil
		} else {
			y, m, d := f.Birthday.Date()
			bd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			f.Birthday = &bd
		}
	}

	if f.Interests == nil {
		f.Interests = []string{}
	}
	if f.Places == nil {
		f.Places = []Place{}
	}
	if f.Notes == nil {
		f.Notes = []Note{}
	}
	if f.ImportantDates == nil {
		f.ImportantDates = []ImportantDate{}
	}
	if f.Sizes == nil {
		f.Sizes = map[SizeCategory]string{}
	}
	if f.GiftIdeas == nil {
		f.GiftIdeas = []GiftIdea{}
	}

	return f
}
