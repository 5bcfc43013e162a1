package services

import (
	"fmt"
	"time"

	"timetable/internal/models"
)

// Чистая арифметика недель: номер недели и имя дня из даты, окно
// видимой недели по смещению, подпись диапазона.

// WeekOf вычисляет номер недели и имя дня для даты.
// Для понедельника берется ISO-неделя предыдущего воскресенья плюс
// один: так понедельник попадает в ту же неделю, что и остальные дни,
// и нумерация совместима с уже сохраненными записями.
func WeekOf(date time.Time) (int, string) {
	_, week := date.ISOWeek()
	if date.Weekday() == time.Monday {
		_, prev := date.AddDate(0, 0, -1).ISOWeek()
		week = prev + 1
	}
	return week, date.Weekday().String()
}

// WeekWindow вычисляет границы видимой недели: понедельник не позже
// today, сдвинутый на offset недель, и воскресенье через шесть дней.
// Обе границы включительные, время обнулено.
func WeekWindow(today time.Time, offset int) (time.Time, time.Time) {
	day := midnight(today)
	back := (int(day.Weekday()) + 6) % 7 // дней с понедельника
	start := day.AddDate(0, 0, -back+offset*7)
	end := start.AddDate(0, 0, 6)
	return start, end
}

// WeekRangeLabel форматирует подпись диапазона недели,
// например "Mon 02/06 - Sun 08/06"
func WeekRangeLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("Mon 02/01"), end.Format("Mon 02/01"))
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", value, models.ErrInvalidDate)
	}
	return date, nil
}

// ParseClock проверяет время в формате HH:MM и возвращает его в
// нормализованном виде
func ParseClock(value string) (string, error) {
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return "", fmt.Errorf("%q: %w", value, models.ErrInvalidTime)
	}
	return clock.Format("15:04"), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
