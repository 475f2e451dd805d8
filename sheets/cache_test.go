package sheets

import (
	"testing"
	"time"
)

// countingStore считает обращения к листам поверх Memory.
type countingStore struct {
	*Memory
	reads map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{
		Memory: NewMemory(map[string][]string{"Сейф": {"Дата", "Тип операции", "Сумма", "Комментарий", "Кто внёс"}}),
		reads:  make(map[string]int),
	}
}

func (c *countingStore) Rows(sheet string) ([][]string, error) {
	c.reads[sheet]++
	return c.Memory.Rows(sheet)
}

func TestCacheServesSnapshotWithinTTL(t *testing.T) {
	st := newCountingStore()
	c := NewCache(st, time.Minute)

	if _, err := c.Get("Сейф", false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("Сейф", false); err != nil {
		t.Fatal(err)
	}
	if st.reads["Сейф"] != 1 {
		t.Errorf("чтений из стора = %d, ожидалось 1", st.reads["Сейф"])
	}
}

func TestCacheForceRefetches(t *testing.T) {
	st := newCountingStore()
	c := NewCache(st, time.Minute)

	c.Get("Сейф", false)
	c.Get("Сейф", true)
	if st.reads["Сейф"] != 2 {
		t.Errorf("чтений из стора = %d, ожидалось 2", st.reads["Сейф"])
	}
}

func TestCacheInvalidate(t *testing.T) {
	st := newCountingStore()
	c := NewCache(st, time.Minute)

	c.Get("Сейф", false)
	st.Append("Сейф", []string{"01.06.2025", "Пополнение", "100", "", "Сергей"})

	rows, _ := c.Get("Сейф", false)
	if len(rows) != 1 {
		t.Fatalf("до инвалидации ожидался старый снимок, строк: %d", len(rows))
	}

	c.Invalidate("Сейф")
	rows, _ = c.Get("Сейф", false)
	if len(rows) != 2 {
		t.Errorf("после инвалидации строк = %d, ожидалось 2", len(rows))
	}
	if st.reads["Сейф"] != 2 {
		t.Errorf("чтений из стора = %d, ожидалось 2", st.reads["Сейф"])
	}
}

func TestCacheExpiresByTTL(t *testing.T) {
	st := newCountingStore()
	c := NewCache(st, time.Nanosecond)

	c.Get("Сейф", false)
	time.Sleep(time.Millisecond)
	c.Get("Сейф", false)
	if st.reads["Сейф"] != 2 {
		t.Errorf("чтений из стора = %d, ожидалось 2 (TTL истёк)", st.reads["Сейф"])
	}
}
