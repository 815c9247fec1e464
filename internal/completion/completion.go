// completion считает процент заполненности профиля.
// Значение используется только как подсказка в интерфейсе и ни на что не влияет.
package completion

import (
	"math"
	"strings"

	"github.com/pribylovaa/valet/internal/models"
)

// Field — поле профиля, учитываемое при подсчёте.
type Field string

const (
	FieldName           Field = "name"
	FieldRelationship   Field = "relationship"
	FieldBirthday       Field = "birthday"
	FieldLocation       Field = "location"
	FieldPhoto          Field = "photo"
	FieldEmail          Field = "email"
	FieldFavoriteFood   Field = "favoriteFood"
	FieldFavoriteArtist Field = "favoriteArtist"
	FieldSplurgeOn      Field = "splurgeOn"
	FieldInterests      Field = "interests"
	FieldPlaces         Field = "places"
	FieldNotes          Field = "notes"
	FieldImportantDates Field = "importantDates"
	FieldSizes          Field = "sizes"
	FieldGiftIdeas      Field = "giftIdeas"
)

// Weights — таблица учитываемых полей и знаменатель.
// Total задаётся отдельно от len(Fields): таблицы исторически расходились.
type Weights struct {
	Fields []Field
	Total  int
}

// SelfWeights — таблица для собственного профиля.
var SelfWeights = Weights{
	Fields: []Field{
		FieldName, FieldBirthday, FieldLocation, FieldPhoto, FieldEmail,
		FieldInterests, FieldPlaces, FieldNotes, FieldImportantDates, FieldSizes, FieldGiftIdeas,
	},
	Total: 11,
}

// LovedOneWeights — таблица для профиля близкого.
var LovedOneWeights = Weights{
	Fields: []Field{
		FieldName, FieldRelationship, FieldBirthday, FieldLocation, FieldPhoto,
		FieldFavoriteFood, FieldFavoriteArtist, FieldSplurgeOn,
		FieldInterests, FieldPlaces, FieldSizes, FieldGiftIdeas,
	},
	Total: 12,
}

// WeightsFor выбирает таблицу по виду профиля.
func WeightsFor(v models.Variant) Weights {
	if v == models.VariantSelf {
		return SelfWeights
	}

	return LovedOneWeights
}

// Percentage возвращает round(filled/total*100), ограниченное диапазоном [0, 100].
// Повторы полей в таблице учитываются один раз.
func Percentage(p models.Profile, w Weights) int {
	if w.Total <= 0 {
		return 0
	}

	filled := 0
	seen := make(map[Field]struct{}, len(w.Fields))
	for _, f := range w.Fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}

		if Filled(p, f) {
			filled++
		}
	}

	pct := int(math.Round(float64(filled) / float64(w.Total) * 100))

	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// Of — процент заполненности по таблице, соответствующей виду профиля.
func Of(p models.Profile) int {
	return Percentage(p, WeightsFor(p.Variant))
}

// Filled сообщает, заполнено ли поле: строка непустая, дата известна,
// коллекция содержит хотя бы один элемент.
func Filled(p models.Profile, f Field) bool {
	switch f {
	case FieldName:
		return nonBlank(p.Name)
	case FieldRelationship:
		return nonBlank(p.Relationship)
	case FieldBirthday:
		return p.Birthday != nil && !p.Birthday.IsZero()
	case FieldLocation:
		return nonBlank(p.Location)
	case FieldPhoto:
		return nonBlank(p.PhotoURL)
	case FieldEmail:
		return nonBlank(p.Email)
	case FieldFavoriteFood:
		return nonBlank(p.FavoriteFood)
	case FieldFavoriteArtist:
		return nonBlank(p.FavoriteArtist)
	case FieldSplurgeOn:
		return nonBlank(p.SplurgeOn)
	case FieldInterests:
		return len(p.Interests) > 0
	case FieldPlaces:
		return len(p.Places) > 0
	case FieldNotes:
		return len(p.Notes) > 0
	case FieldImportantDates:
		return len(p.ImportantDates) > 0
	case FieldSizes:
		return len(p.Sizes) > 0
	case FieldGiftIdeas:
		return len(p.GiftIdeas) > 0
	default:
		return false
	}
}

func nonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
