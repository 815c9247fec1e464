// profilesv1 описывает контракт valet.profiles.v1.ProfilesService:
// сообщения, дескриптор сервиса и клиент. Сообщения кодируются JSON-кодеком,
// отдельного шага генерации нет.
//
// Теги validate проверяют формат и лимиты; доменные правила (обязательное имя,
// уникальность интересов и т.п.) проверяет сервисный слой.
package profilesv1

import "time"

// Даты передаются в формате YYYY-MM-DD.
const DateLayout = "2006-01-02"

type Place struct {
	Name string `json:"name" validate:"max=200"`
	Note string `json:"note,omitempty" validate:"max=2000"`
}

type Note struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content,omitempty" validate:"max=10000"`
}

type ImportantDate struct {
	Label             string `json:"label" validate:"max=200"`
	Date              string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RecurringAnnually bool   `json:"recurringAnnually"`
}

type GiftIdea struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Link        string `json:"link,omitempty" validate:"max=2048"`
	Price       string `json:"price,omitempty" validate:"max=64"`
}

// ProfileInput — полный снимок редактируемых полей профиля.
type ProfileInput struct {
	Name         string `json:"name" validate:"max=200"`
	Relationship string `json:"relationship,omitempty" validate:"max=100"`
	Birthday     string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Location     string `json:"location,omitempty" validate:"max=200"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	PhotoURL     string `json:"photoUrl,omitempty" validate:"max=2048"`

	FavoriteFood   string `json:"favoriteFood,omitempty" validate:"max=200"`
	FavoriteArtist string `json:"favoriteArtist,omitempty" validate:"max=200"`
	SplurgeOn      string `json:"splurgeOn,omitempty" validate:"max=200"`

	Interests      []string          `json:"interests" validate:"max=200,dive,max=100"`
	Places         []Place           `json:"places" validate:"max=200,dive"`
	Notes          []Note            `json:"notes" validate:"max=500,dive"`
	ImportantDates []ImportantDate   `json:"importantDates" validate:"max=200,dive"`
	Sizes          map[string]string `json:"sizes" validate:"max=20,dive,max=50"`
	GiftIdeas      []GiftIdea        `json:"giftIdeas" validate:"max=500,dive"`
}

// Profile — профиль с производными полями.
type Profile struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Variant string `json:"variant"`
	ProfileInput
	// Completion — заполненность в процентах [0,100].
	Completion int `json:"completion"`
	// DaysUntilBirthday — null, если дата рождения неизвестна.
	DaysUntilBirthday *int      `json:"daysUntilBirthday"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Empty struct{}

type SaveSelfProfileRequest struct {
	Profile ProfileInput `json:"profile"`
}

type ListProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

type GetProfileRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// SaveProfileRequest — пустой ID создаёт нового близкого, иначе обновляет существующего.
type SaveProfileRequest struct {
	ID      string       `json:"id,omitempty" validate:"omitempty,uuid"`
	Profile ProfileInput `json:"profile"`
}

type DeleteProfileRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type UploadPhotoRequest struct {
	Variant string `json:"variant" validate:"required,oneof=self loved_one"`
	// Data — байты изображения (base64 в JSON).
	Data []byte `json:"data" validate:"required"`
}

type UploadPhotoResponse struct {
	URL string `json:"url"`
}

// DeletePhotoRequest — Ref принимает публичный URL или ключ объекта.
type DeletePhotoRequest struct {
	Ref string `json:"ref" validate:"required,max=2048"`
}

type Photo struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

type ListPhotosResponse struct {
	Photos []Photo `json:"photos"`
}

// UpcomingBirthdaysRequest — Days == 0 означает окно из конфигурации сервиса.
type UpcomingBirthdaysRequest struct {
	Days int `json:"days,omitempty" validate:"min=0,max=366"`
}

type UpcomingBirthday struct {
	Profile   *Profile `json:"profile"`
	DaysUntil int      `json:"daysUntil"`
	Date      string   `json:"date"`
}

type UpcomingBirthdaysResponse struct {
	Birthdays []UpcomingBirthday `json:"birthdays"`
}

// GiftIdeasRequest — пустой MaxPrice возвращает все идеи.
type GiftIdeasRequest struct {
	ID       string `json:"id" validate:"required,uuid"`
	MaxPrice string `json:"maxPrice,omitempty" validate:"omitempty,number"`
}

type GiftIdeasResponse struct {
	GiftIdeas []GiftIdea `json:"giftIdeas"`
}
