package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

// PayrollPeriod — расчётный период, в который попадает today: с 25-го числа по
// 24-е следующего месяца.
func PayrollPeriod(today time.Time) (time.Time, time.Time) {
	var start time.Time
	if today.Day() >= config.PayrollDay {
		start = time.Date(today.Year(), today.Month(), config.PayrollDay, 0, 0, 0, 0, today.Location())
	} else {
		start = time.Date(today.Year(), today.Month(), config.PayrollDay, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	}
	end := start.AddDate(0, 1, -1)
	return start, end
}

// PeriodLabel — строка периода, которая пишется в комментарий выплаты и по
// которой выплаты потом сопоставляются с периодом.
func PeriodLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", utils.FormatDate(start), utils.FormatDate(end))
}

// BonusDay — смена, за которую начислена премия.
type BonusDay struct {
	Date  time.Time
	Sales float64
	Bonus float64
}

// AccruedBonus — начисленная премия продавца за период: по каждой смене с
// выручкой выше порога берётся 2% от выручки минус ставка, отрицательное не
// начисляется.
func AccruedBonus(seller string, reportRows [][]string, start, end time.Time) (float64, []BonusDay, int) {
	total := 0.0
	skipped := 0
	var days []BonusDay
	for _, row := range dataRows(reportRows) {
		r, err := models.ParseReport(row)
		if err != nil {
			skipped++
			continue
		}
		if r.Seller != seller || r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		if r.Total <= config.BonusThreshold {
			continue
		}
		bonus := r.Total*config.BonusPercent - config.DailyRate
		if bonus <= 0 {
			continue
		}
		total += bonus
		days = append(days, BonusDay{Date: r.Date, Sales: r.Total, Bonus: bonus})
	}
	return total, days, skipped
}

// PaidBonus — сумма выплат бонуса продавцу, привязанных к периоду через
// комментарий.
func PaidBonus(seller string, salaryRows [][]string, periodLabel string) (float64, int) {
	paid := 0.0
	skipped := 0
	for _, row := range dataRows(salaryRows) {
		s, err := models.ParseSalaryOp(row)
		if err != nil {
			skipped++
			continue
		}
		if s.Seller != seller || s.Kind != models.SalaryPayout {
			continue
		}
		if !strings.Contains(s.Comment, periodLabel) {
			continue
		}
		paid += s.Amount
	}
	return paid, skipped
}

// BonusToPay — остаток премии к выплате за период, не меньше нуля.
func BonusToPay(seller string, reportRows, salaryRows [][]string, start, end time.Time) (float64, []BonusDay, int) {
	accrued, days, sk1 := AccruedBonus(seller, reportRows, start, end)
	paid, sk2 := PaidBonus(seller, salaryRows, PeriodLabel(start, end))
	toPay := accrued - paid
	if toPay < 0 {
		toPay = 0
	}
	return toPay, days, sk1 + sk2
}
