package utils

import (
	"testing"
	"time"
)

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.5", 1234.5, true},
		{"1234,5", 1234.5, true},
		{"1 234,50", 1234.5, true},
		{" 700 ", 700, true},
		{"-15,5", -15.5, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, err := ParseFloat(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseFloat(%q) = %v, %v; ожидалось %v", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseFloat(%q): ожидалась ошибка", c.in)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		700:    "700",
		123.45: "123.45",
		0:      "0",
		1.5:    "1.5",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Errorf("FormatMoney(%v) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// среда 11.06.2025 → пн 09.06 .. вс 15.06
	d := time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)
	start, end := WeekRange(d)
	if FormatDate(start) != "09.06.2025" || FormatDate(end) != "15.06.2025" {
		t.Errorf("WeekRange = %s..%s", FormatDate(start), FormatDate(end))
	}

	// воскресенье остаётся концом своей недели
	sun := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	start, end = WeekRange(sun)
	if FormatDate(start) != "09.06.2025" || FormatDate(end) != "15.06.2025" {
		t.Errorf("WeekRange(вс) = %s..%s", FormatDate(start), FormatDate(end))
	}
}

func TestMonthRange(t *testing.T) {
	d := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	start, end := MonthRange(d)
	if FormatDate(start) != "01.02.2025" || FormatDate(end) != "28.02.2025" {
		t.Errorf("MonthRange = %s..%s", FormatDate(start), FormatDate(end))
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("24.12.2025")
	if err != nil {
		t.Fatal(err)
	}
	if FormatDate(d) != "24.12.2025" {
		t.Errorf("round trip: %s", FormatDate(d))
	}
	if _, err := ParseDate("2025-12-24"); err == nil {
		t.Error("ожидалась ошибка для ISO-даты")
	}
}
