package proximity

// Тесты калькулятора близости ежегодных событий.
//
//  Проверяем:
//  - опорные значения (сегодня/завтра/через год, високосный 2024);
//  - перенос 29 февраля на 28 февраля в невисокосный год;
//  - игнорирование времени суток и зоны;
//  - свойство: результат в [0, 366], а today+result даёт тот же месяц/день.

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntil_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		md    MonthDay
		today time.Time
		want  int
	}{
		{name: "today_is_the_day", md: MonthDay{time.August, 15}, today: date(2024, time.August, 15), want: 0},
		{name: "tomorrow", md: MonthDay{time.August, 15}, today: date(2024, time.August, 14), want: 1},
		{name: "leap_year_from_jan_1", md: MonthDay{time.August, 15}, today: date(2024, time.January, 1), want: 227},
		{name: "passed_rolls_to_next_year", md: MonthDay{time.August, 15}, today: date(2024, time.August, 16), want: 364},
		{name: "passed_in_non_leap_year", md: MonthDay{time.January, 1}, today: date(2023, time.January, 2), want: 364},
		{name: "dec_31_to_jan_1", md: MonthDay{time.January, 1}, today: date(2024, time.December, 31), want: 1},
		{name: "mar_1_passed_in_leap_year", md: MonthDay{time.March, 1}, today: date(2024, time.March, 2), want: 364},
		{name: "feb_29_in_leap_year", md: MonthDay{time.February, 29}, today: date(2024, time.February, 1), want: 28},
		{name: "feb_29_falls_back_to_feb_28", md: MonthDay{time.February, 29}, today: date(2025, time.February, 1), want: 27},
		{name: "feb_29_on_feb_28_non_leap", md: MonthDay{time.February, 29}, today: date(2025, time.February, 28), want: 0},
		{name: "feb_29_after_fallback_rolls_to_leap", md: MonthDay{time.February, 29}, today: date(2027, time.March, 1), want: 365},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, DaysUntil(tt.md, tt.today))
		})
	}
}

// Сценарий экрана: сохранённый год рождения не влияет на результат.
func TestDaysUntilBirthday_StoredYearIgnored(t *testing.T) {
	t.Parallel()

	bd := date(2023, time.August, 15)
	days, ok := DaysUntilBirthday(&bd, date(2024, time.July, 1))
	require.True(t, ok)
	require.Equal(t, 45, days)

	_, ok = DaysUntilBirthday(nil, date(2024, time.July, 1))
	require.False(t, ok)
}

// Время суток и зона не влияют: "позже сегодня" всё ещё 0.
func TestDaysUntil_TimeOfDayIgnored(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2024, time.August, 15, 23, 59, 59, 0, loc)
	require.Equal(t, 0, DaysUntil(MonthDay{time.August, 15}, late))

	early := time.Date(2024, time.August, 14, 0, 0, 1, 0, loc)
	require.Equal(t, 1, DaysUntil(MonthDay{time.August, 15}, early))
}

// Свойство: для всех допустимых пар и всех дней 2023..2025 результат в [0, 366]
// и today+result даёт тот же месяц/день (кроме переноса 29.02 -> 28.02).
func TestDaysUntil_Property(t *testing.T) {
	t.Parallel()

	for m := time.January; m <= time.December; m++ {
		for d := 1; d <= daysIn(m, 2024); d++ {
			md := MonthDay{Month: m, Day: d}
			for today := date(2023, time.January, 1); today.Before(date(2026, time.January, 1)); today = today.AddDate(0, 0, 1) {
				got := DaysUntil(md, today)
				require.GreaterOrEqual(t, got, 0)
				require.LessOrEqual(t, got, 366)

				hit := today.AddDate(0, 0, got)
				if md.Month == time.February && md.Day == 29 && daysIn(time.February, hit.Year()) == 28 {
					require.Equal(t, MonthDay{time.February, 28}, FromDate(hit))
					continue
				}
				require.Equal(t, md, FromDate(hit), "md=%s today=%s", md, today.Format(time.DateOnly))
			}
		}
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(time.February, 29)
	require.NoError(t, err)

	for _, bad := range []MonthDay{{0, 1}, {13, 1}, {time.April, 31}, {time.February, 30}, {time.May, 0}} {
		_, err := New(bad.Month, bad.Day)
		require.ErrorIs(t, err, ErrInvalidMonthDay, bad.String())
	}
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	got := NextOccurrence(MonthDay{time.August, 15}, date(2024, time.August, 16))
	require.Equal(t, date(2025, time.August, 15), got)

	got = NextOccurrence(MonthDay{time.February, 29}, date(2025, time.January, 10))
	require.Equal(t, date(2025, time.February, 28), got)
}
