package models

import "testing"

func TestParseInvoice(t *testing.T) {
	row := []string{"10.06.2025", "Алекс", "5000", "200", "4800", "6500", "Долг", "Нет", "4800", "20.06.2025", "коммент", "Сергей", ""}
	inv, err := ParseInvoice(row)
	if err != nil {
		t.Fatal(err)
	}
	if inv.Supplier != "Алекс" || inv.Income != 5000 || inv.WriteOff != 200 || inv.Payable != 4800 {
		t.Errorf("накладная разобрана неверно: %+v", inv)
	}
	if inv.PayType != PayDebt || inv.DueDate != "20.06.2025" {
		t.Errorf("тип оплаты/срок: %+v", inv)
	}
}

func TestParseInvoiceShortRow(t *testing.T) {
	// старые строки без колонки истории
	row := []string{"10.06.2025", "Алекс", "5000", "0", "5000", "6000", "Наличные", "Да"}
	inv, err := ParseInvoice(row)
	if err != nil {
		t.Fatal(err)
	}
	if inv.History != "" || inv.DueDate != "" {
		t.Errorf("короткая строка: %+v", inv)
	}
}

func TestInvoiceRowRoundTrip(t *testing.T) {
	row := []string{"10.06.2025", "Алекс", "5000", "200", "4800", "6500", "Долг", "Нет", "4800", "20.06.2025", "коммент", "Сергей", "10.06: 100"}
	inv, err := ParseInvoice(row)
	if err != nil {
		t.Fatal(err)
	}
	got := inv.Row()
	for i := range row {
		if got[i] != row[i] {
			t.Errorf("колонка %d: %q != %q", i, got[i], row[i])
		}
	}
}

func TestParseDebtDefaultsLeftToAmount(t *testing.T) {
	d, err := ParseDebt([]string{"10.06.2025", "Алекс", "5000", "", "", "20.06.2025", "Нет", "Наличные"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Left != 5000 {
		t.Errorf("остаток = %v, ожидалось 5000", d.Left)
	}
}

func TestParseReportRejectsBadTotal(t *testing.T) {
	_, err := ParseReport([]string{"10.06.2025", "Мария", "1000", "2000", "много", "0", "", "", "", ""})
	if err == nil {
		t.Error("ожидалась ошибка")
	}
}

func TestShiftRow(t *testing.T) {
	sh := ParseShift([]string{"10.06.2025", "Мария", ""})
	if len(sh.Sellers) != 1 || sh.Sellers[0] != "Мария" {
		t.Errorf("смена: %+v", sh)
	}
	sh.Sellers = append(sh.Sellers, "Сергей")
	row := sh.Row()
	if row[1] != "Мария" || row[2] != "Сергей" {
		t.Errorf("строка смены: %v", row)
	}
}
