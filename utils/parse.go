package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloat разбирает сумму из ячейки таблицы. Продавцы вводят и "1 234,50",
// и "1234.50", и "1234" — принимаем всё, запятую считаем десятичным разделителем.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("пустое значение")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("не число: %q", s)
	}
	return v, nil
}

// ParseFloatOr возвращает def, если ячейка пуста или не разбирается.
func ParseFloatOr(s string, def float64) float64 {
	v, err := ParseFloat(s)
	if err != nil {
		return def
	}
	return v
}

// FormatMoney печатает сумму без хвостовых нулей: 700 вместо 700.00,
// но 123.45 оставляет как есть.
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// FormatCell печатает сумму для записи в таблицу.
func FormatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
