package utils

import (
	"time"
)

// Все даты в таблице хранятся строками в формате ДД.ММ.ГГГГ.
const DateLayout = "02.01.2006"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// WeekRange возвращает понедельник и воскресенье недели, содержащей t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	start := t.AddDate(0, 0, -(wd - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 6)
}

// MonthRange возвращает первый и последний день месяца, содержащего t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, -1)
}

// SameDay сравнивает только календарные дни, игнорируя время.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween перечисляет дни от from до to включительно.
func DaysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
