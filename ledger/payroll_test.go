package ledger

import (
	"testing"
	"time"

	"github.com/Fantastik19951/financebot/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPayrollPeriod(t *testing.T) {
	cases := []struct {
		today      time.Time
		start, end time.Time
	}{
		{date(2025, 6, 10), date(2025, 5, 25), date(2025, 6, 24)},
		{date(2025, 6, 24), date(2025, 5, 25), date(2025, 6, 24)},
		{date(2025, 6, 25), date(2025, 6, 25), date(2025, 7, 24)},
		{date(2025, 1, 5), date(2024, 12, 25), date(2025, 1, 24)},
		{date(2024, 12, 31), date(2024, 12, 25), date(2025, 1, 24)},
	}
	for _, c := range cases {
		start, end := PayrollPeriod(c.today)
		if !start.Equal(c.start) || !end.Equal(c.end) {
			t.Errorf("PayrollPeriod(%s) = %s..%s, ожидалось %s..%s",
				c.today.Format("02.01.2006"), start.Format("02.01.2006"), end.Format("02.01.2006"),
				c.start.Format("02.01.2006"), c.end.Format("02.01.2006"))
		}
	}
}

func reportRow(d, seller, total string) []string {
	return []string{d, seller, "0", "0", total, "0", "", "", "", ""}
}

func TestAccruedBonus(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetReports],
		reportRow("01.06.2025", "Мария", "40000"),  // 2%·40000−700 = 100
		reportRow("02.06.2025", "Мария", "35000"),  // ровно порог — не считается
		reportRow("03.06.2025", "Мария", "36000"),  // 720−700 = 20
		reportRow("04.06.2025", "Людмила", "50000"), // другой продавец
		reportRow("30.04.2025", "Мария", "90000"),  // вне периода
	}
	start, end := date(2025, 5, 25), date(2025, 6, 24)
	total, days, skipped := AccruedBonus("Мария", rows, start, end)
	if total != 120 {
		t.Errorf("начислено = %v, ожидалось 120", total)
	}
	if len(days) != 2 {
		t.Errorf("дней с премией = %d, ожидалось 2", len(days))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d", skipped)
	}
}

func TestAccruedBonusEmptySheet(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetReports],
	}
	total, days, _ := AccruedBonus("Мария", rows, date(2025, 5, 25), date(2025, 6, 24))
	if total != 0 || len(days) != 0 {
		t.Errorf("на пустом листе: %v, %d дней", total, len(days))
	}
}

func TestBonusToPayClampsAtZero(t *testing.T) {
	start, end := date(2025, 5, 25), date(2025, 6, 24)
	label := PeriodLabel(start, end)
	reports := [][]string{
		models.Headers[models.SheetReports],
		reportRow("01.06.2025", "Мария", "40000"), // начислено 100
	}
	salaries := [][]string{
		models.Headers[models.SheetSalaries],
		{"05.06.2025", "Мария", models.SalaryPayout, "150", "Период: " + label},
	}
	toPay, _, _ := BonusToPay("Мария", reports, salaries, start, end)
	if toPay != 0 {
		t.Errorf("к выплате = %v, ожидалось 0 (переплата не уходит в минус)", toPay)
	}
}

func TestPaidBonusMatchesPeriodByComment(t *testing.T) {
	start, end := date(2025, 5, 25), date(2025, 6, 24)
	label := PeriodLabel(start, end)
	salaries := [][]string{
		models.Headers[models.SheetSalaries],
		{"05.06.2025", "Мария", models.SalaryPayout, "50", "Период: " + label},
		{"05.05.2025", "Мария", models.SalaryPayout, "80", "Период: 25.04.2025 - 24.05.2025"},
		{"05.06.2025", "Мария", models.SalaryBase, "700", ""},
	}
	paid, _ := PaidBonus("Мария", salaries, label)
	if paid != 50 {
		t.Errorf("выплачено = %v, ожидалось 50", paid)
	}
}
