package sheets

import (
	"fmt"
	"sync"
)

// Memory — хранилище в памяти с той же семантикой индексов, что и таблица.
// Используется в тестах вместо живого Google-документа.
type Memory struct {
	mu   sync.Mutex
	data map[string][][]string
}

func NewMemory(headers map[string][]string) *Memory {
	m := &Memory{data: make(map[string][][]string)}
	for name, header := range headers {
		h := make([]string, len(header))
		copy(h, header)
		m.data[name] = [][]string{h}
	}
	return m
}

func (m *Memory) Rows(sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.data[sheet]
	if !ok {
		return nil, fmt.Errorf("неизвестный лист %q", sheet)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, len(r))
		copy(row, r)
		out[i] = row
	}
	return out, nil
}

func (m *Memory) Append(sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[sheet]; !ok {
		return fmt.Errorf("неизвестный лист %q", sheet)
	}
	r := make([]string, len(row))
	copy(r, row)
	m.data[sheet] = append(m.data[sheet], r)
	return nil
}

func (m *Memory) UpdateCell(sheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.data[sheet]
	if !ok {
		return fmt.Errorf("неизвестный лист %q", sheet)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("нет строки %d в листе %q", row, sheet)
	}
	r := rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	rows[row-1] = r
	return nil
}

func (m *Memory) UpdateRow(sheet string, row int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.data[sheet]
	if !ok {
		return fmt.Errorf("неизвестный лист %q", sheet)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("нет строки %d в листе %q", row, sheet)
	}
	r := make([]string, len(values))
	copy(r, values)
	rows[row-1] = r
	return nil
}

func (m *Memory) DeleteRow(sheet string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.data[sheet]
	if !ok {
		return fmt.Errorf("неизвестный лист %q", sheet)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("нет строки %d в листе %q", row, sheet)
	}
	m.data[sheet] = append(rows[:row-1], rows[row:]...)
	return nil
}
