// proximity вычисляет близость ежегодных событий (дни рождения, памятные даты).
//
// Все вычисления ведутся в календарных датах: время суток и часовой пояс
// отбрасываются, "сегодня" передаётся вызывающим кодом.
package proximity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonthDay — месяц вне 1..12 или день вне допустимого для месяца диапазона.
var ErrInvalidMonthDay = errors.New("invalid month/day")

// MonthDay — ежегодное событие: месяц и день, год не учитывается.
type MonthDay struct {
	Month time.Month
	Day   int
}

// New проверяет пару месяц/день. 29 февраля допустимо.
func New(month time.Month, day int) (MonthDay, error) {
	const op = "proximity/New"

	md := MonthDay{Month: month, Day: day}
	if !md.Valid() {
		return MonthDay{}, fmt.Errorf("%s: %w: %02d-%02d", op, ErrInvalidMonthDay, int(month), day)
	}

	return md, nil
}

// FromDate извлекает месяц/день из даты (год сохранённой даты игнорируется).
func FromDate(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// Valid сообщает, существует ли такая дата хотя бы в високосном году.
func (md MonthDay) Valid() bool {
	if md.Month < time.January || md.Month > time.December {
		return false
	}

	return md.Day >= 1 && md.Day <= daysIn(md.Month, 2024)
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// In возвращает дату события в году year (полночь UTC).
// 29 февраля в невисокосный год переносится на 28 февраля.
func (md MonthDay) In(year int) time.Time {
	day := md.Day
	if last := daysIn(md.Month, year); day > last {
		day = last
	}

	return time.Date(year, md.Month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf отбрасывает время суток: календарная дата t в её собственной зоне,
// представленная полуночью UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextOccurrence — ближайшее наступление события начиная с today включительно.
func NextOccurrence(md MonthDay, today time.Time) time.Time {
	day := DateOf(today)

	candidate := md.In(day.Year())
	if candidate.Before(day) {
		candidate = md.In(day.Year() + 1)
	}

	return candidate
}

// DaysUntil — число целых дней до ближайшего наступления события.
// 0 означает "сегодня", 1 — "завтра"; результат всегда в [0, 366].
func DaysUntil(md MonthDay, today time.Time) int {
	day := DateOf(today)
	next := NextOccurrence(md, today)

	return int(next.Sub(day) / (24 * time.Hour))
}

// DaysUntilBirthday — удобная обёртка для сохранённой даты рождения.
// ok=false, если дата неизвестна.
func DaysUntilBirthday(birthday *time.Time, today time.Time) (days int, ok bool) {
	if birthday == nil || birthday.IsZero() {
		return 0, false
	}

	return DaysUntil(FromDate(*birthday), today), true
}

func daysIn(m time.Month, year int) int {
	// Нулевой день следующего месяца — последний день текущего.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
