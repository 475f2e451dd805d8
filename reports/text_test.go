package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/Fantastik19951/financebot/models"
)

func header(sheet string) []string { return models.Headers[sheet] }

func TestBuildPeriodAggregates(t *testing.T) {
	reportRows := [][]string{
		header(models.SheetReports),
		{"10.06.2025", "Мария", "30000", "10000", "40000", "28000", "", "", "", ""},
		{"11.06.2025", "Сергей", "20000", "5000", "25000", "20000", "", "", "", ""},
		{"20.06.2025", "Мария", "1000", "0", "1000", "1000", "", "", "", ""}, // вне периода
		{"мусор", "", "", "", "", "", "", "", "", ""},
	}
	expenseRows := [][]string{
		header(models.SheetExpenses),
		{"10.06.2025", "500", "вода", "Мария"},
		{"10.06.2025", "1500", "пакеты", "Мария"},
	}
	supplierRows := [][]string{
		header(models.SheetSuppliers),
		{"11.06.2025", "Алекс", "5000", "200", "4800", "6000", "Долг", "Нет", "4800", "20.06.2025", "", "", ""},
	}
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	days, skipped := BuildPeriod(reportRows, expenseRows, supplierRows, start, end)
	if skipped != 1 {
		t.Errorf("пропущено = %d", skipped)
	}
	if len(days) != 2 {
		t.Fatalf("дней = %d: %+v", len(days), days)
	}
	if days[0].Total != 40000 || days[0].Expenses != 2000 || days[0].Suppliers != 0 {
		t.Errorf("день 1: %+v", days[0])
	}
	if days[1].Total != 25000 || days[1].Suppliers != 4800 {
		t.Errorf("день 2: %+v", days[1])
	}

	text := PeriodText(days, start, end, skipped)
	for _, want := range []string{"65000", "2000", "4800", "58200", "пропущено: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("в тексте нет %q:\n%s", want, text)
		}
	}
}

func TestDailyTextUnclosedShift(t *testing.T) {
	text := DailyText(
		[][]string{header(models.SheetReports)},
		[][]string{header(models.SheetExpenses)},
		[][]string{header(models.SheetSuppliers)},
		[][]string{header(models.SheetDebts)},
		[][]string{header(models.SheetPlanFact)},
		"10.06.2025",
	)
	if !strings.Contains(text, "Смена ещё не закрыта") {
		t.Errorf("нет пометки о незакрытой смене:\n%s", text)
	}
}

func TestDashboardTextShortfall(t *testing.T) {
	shiftRows := [][]string{header(models.SheetShifts), {"10.06.2025", "Мария", ""}}
	planRows := [][]string{
		header(models.SheetPlanFact),
		{"10.06.2025", "Алекс", "3000", "Наличные", "", "Прибыл"},
		{"10.06.2025", "Фактор", "2000", "Карта", "", "Ожидается"},
	}
	debtRows := [][]string{
		header(models.SheetDebts),
		{"01.06.2025", "Кондитер", "4000", "0", "4000", "10.06.2025", "Нет", "Наличные"},
	}
	reportRows := [][]string{header(models.SheetReports)}

	text := DashboardText(shiftRows, planRows, debtRows, reportRows, "10.06.2025", 5000)
	for _, want := range []string{
		"На смене: Мария",
		"⌛ Смена ещё не закрыта",
		"1 из 2 прибыло",
		"Кондитер — 4000",
		// наличными нужно 4000 долга + 3000 плана наличными = 7000, в сейфе 5000
		"потребуется: <b>7000</b>",
		"не хватает 2000",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("в тексте нет %q:\n%s", want, text)
		}
	}
}
