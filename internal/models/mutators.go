package models

import (
	"fmt"
	"strings"
)

// Мутаторы не меняют получателя: каждый возвращает новую копию профиля,
// поэтому вызывающий код может сравнить старое и новое состояние.

// AddInterest добавляет интерес; пустой или уже существующий игнорируется.
// Сравнение регистрозависимое, по значению без пробелов по краям.
func (p Profile) AddInterest(interest string) Profile {
	out := p.Clone()

	interest = strings.TrimSpace(interest)
	if interest == "" {
		return out
	}

	for _, in := range out.Interests {
		if in == interest {
			return out
		}
	}

	out.Interests = append(out.Interests, interest)

	return out
}

// RemoveInterest удаляет интерес; отсутствующий — no-op.
func (p Profile) RemoveInterest(interest string) Profile {
	out := p.Clone()

	interest = strings.TrimSpace(interest)
	for i, in := range out.Interests {
		if in == interest {
			out.Interests = append(out.Interests[:i], out.Interests[i+1:]...)
			break
		}
	}

	return out
}

// AddPlace добавляет место в конец списка. Пустое имя -> ReasonBlankEntry.
func (p Profile) AddPlace(place Place) (Profile, error) {
	place.Name = strings.TrimSpace(place.Name)
	place.Note = strings.TrimSpace(place.Note)
	if place.Name == "" {
		return p, invalid(ReasonBlankEntry, "places.name")
	}

	out := p.Clone()
	out.Places = append(out.Places, place)

	return out, nil
}

// AddNote добавляет заметку в конец списка. Пустой заголовок -> ReasonBlankEntry.
func (p Profile) AddNote(note Note) (Profile, error) {
	note.Title = strings.TrimSpace(note.Title)
	note.Content = strings.TrimSpace(note.Content)
	if note.Title == "" {
		return p, invalid(ReasonBlankEntry, "notes.title")
	}

	out := p.Clone()
	out.Notes = append(out.Notes, note)

	return out, nil
}

// AddImportantDate добавляет памятную дату. Нужны подпись и сама дата.
func (p Profile) AddImportantDate(date ImportantDate) (Profile, error) {
	date.Label = strings.TrimSpace(date.Label)
	if date.Label == "" {
		return p, invalid(ReasonBlankEntry, "importantDates.label")
	}
	if date.Date.IsZero() {
		return p, invalid(ReasonInvalidImportantDate, "importantDates.date")
	}

	out := p.Clone()
	out.ImportantDates = append(out.ImportantDates, date)

	return out, nil
}

// AddGiftIdea добавляет идею подарка. Пустое название -> ReasonBlankEntry.
func (p Profile) AddGiftIdea(idea GiftIdea) (Profile, error) {
	idea.Title = strings.TrimSpace(idea.Title)
	idea.Description = strings.TrimSpace(idea.Description)
	idea.Link = strings.TrimSpace(idea.Link)
	idea.Price = strings.TrimSpace(idea.Price)
	if idea.Title == "" {
		return p, invalid(ReasonBlankEntry, "giftIdeas.title")
	}

	out := p.Clone()
	out.GiftIdeas = append(out.GiftIdeas, idea)

	return out, nil
}

// SetSize задаёт размер для категории, перезаписывая прежний.
// Пустая метка удаляет размер категории.
func (p Profile) SetSize(category SizeCategory, label string) (Profile, error) {
	if !category.Valid() {
		return p, invalid(ReasonUnknownSizeCategory, "sizes."+string(category))
	}

	out := p.Clone()

	label = strings.TrimSpace(label)
	if label == "" {
		delete(out.Sizes, category)
		return out, nil
	}

	out.Sizes[category] = label

	return out, nil
}

// RemoveGiftIdea удаляет идею подарка по индексу.
func (p Profile) RemoveGiftIdea(index int) (Profile, error) {
	if index < 0 || index >= len(p.GiftIdeas) {
		return p, invalid(ReasonIndexOutOfRange, fmt.Sprintf("giftIdeas[%d]", index))
	}

	out := p.Clone()
	out.GiftIdeas = append(out.GiftIdeas[:index], out.GiftIdeas[index+1:]...)

	return out, nil
}

// RemovePlace удаляет место по индексу.
func (p Profile) RemovePlace(index int) (Profile, error) {
	if index < 0 || index >= len(p.Places) {
		return p, invalid(ReasonIndexOutOfRange, fmt.Sprintf("places[%d]", index))
	}

	out := p.Clone()
	out.Places = append(out.Places[:index], out.Places[index+1:]...)

	return out, nil
}

// RemoveNote удаляет заметку по индексу.
func (p Profile) RemoveNote(index int) (Profile, error) {
	if index < 0 || index >= len(p.Notes) {
		return p, invalid(ReasonIndexOutOfRange, fmt.Sprintf("notes[%d]", index))
	}

	out := p.Clone()
	out.Notes = append(out.Notes[:index], out.Notes[index+1:]...)

	return out, nil
}

// RemoveImportantDate удаляет памятную дату по индексу.
func (p Profile) RemoveImportantDate(index int) (Profile, error) {
	if index < 0 || index >= len(p.ImportantDates) {
		return p, invalid(ReasonIndexOutOfRange, fmt.Sprintf("importantDates[%d]", index))
	}

	out := p.Clone()
	out.ImportantDates = append(out.ImportantDates[:index], out.ImportantDates[index+1:]...)

	return out, nil
}

// WithPhotoURL подставляет публичный URL фотографии.
func (p Profile) WithPhotoURL(url string) Profile {
	out := p.Clone()
	out.PhotoURL = strings.TrimSpace(url)

	return out
}
