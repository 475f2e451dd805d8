// Package reports собирает агрегаты по листам таблицы и печатает отчётные
// тексты, графики и выгрузки.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

// DayStat — агрегат одного дня периода.
type DayStat struct {
	Date      time.Time
	Seller    string
	Cash      float64
	Terminal  float64
	Total     float64
	Expenses  float64
	Suppliers float64
}

// BuildPeriod раскладывает строки отчётов, расходов и накладных по дням
// периода. Дни без отчёта, но с движением, тоже попадают в результат.
func BuildPeriod(reportRows, expenseRows, supplierRows [][]string, start, end time.Time) ([]DayStat, int) {
	byDate := make(map[string]*DayStat)
	skipped := 0

	day := func(date time.Time) *DayStat {
		key := utils.FormatDate(date)
		if d, ok := byDate[key]; ok {
			return d
		}
		d := &DayStat{Date: date}
		byDate[key] = d
		return d
	}
	inPeriod := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	for i := 1; i < len(reportRows); i++ {
		r, err := models.ParseReport(reportRows[i])
		if err != nil {
			skipped++
			continue
		}
		if !inPeriod(r.Date) {
			continue
		}
		d := day(r.Date)
		d.Seller = r.Seller
		d.Cash += r.Cash
		d.Terminal += r.Terminal
		d.Total += r.Total
	}
	for i := 1; i < len(expenseRows); i++ {
		row := expenseRows[i]
		if len(row) < 2 {
			skipped++
			continue
		}
		t, err := utils.ParseDate(row[0])
		if err != nil {
			skipped++
			continue
		}
		if !inPeriod(t) {
			continue
		}
		day(t).Expenses += utils.ParseFloatOr(row[1], 0)
	}
	for i := 1; i < len(supplierRows); i++ {
		inv, err := models.ParseInvoice(supplierRows[i])
		if err != nil {
			skipped++
			continue
		}
		if !inPeriod(inv.Date) {
			continue
		}
		day(inv.Date).Suppliers += inv.Payable
	}

	var days []DayStat
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if stat, ok := byDate[utils.FormatDate(d)]; ok {
			days = append(days, *stat)
		}
	}
	return days, skipped
}

// PeriodText — отчёт за период с чистой прибылью.
func PeriodText(days []DayStat, start, end time.Time, skipped int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Отчёт %s — %s\n\n", utils.FormatDate(start), utils.FormatDate(end))

	var total, cash, terminal, expenses, suppliers float64
	if len(days) == 0 {
		sb.WriteString("За период нет данных.\n")
	}
	for _, d := range days {
		fmt.Fprintf(&sb, "📅 %s", utils.FormatDate(d.Date))
		if d.Seller != "" {
			fmt.Fprintf(&sb, " (%s)", d.Seller)
		}
		fmt.Fprintf(&sb, "\n  выручка %s, расходы %s, поставщики %s\n",
			utils.FormatMoney(d.Total), utils.FormatMoney(d.Expenses), utils.FormatMoney(d.Suppliers))
		total += d.Total
		cash += d.Cash
		terminal += d.Terminal
		expenses += d.Expenses
		suppliers += d.Suppliers
	}

	fmt.Fprintf(&sb, "\n💰 Выручка: <b>%s</b>\n", utils.FormatMoney(total))
	fmt.Fprintf(&sb, "💵 Наличные: %s, 💳 терминал: %s\n", utils.FormatMoney(cash), utils.FormatMoney(terminal))
	fmt.Fprintf(&sb, "🧾 Расходы: %s\n", utils.FormatMoney(expenses))
	fmt.Fprintf(&sb, "📦 Поставщики: %s\n", utils.FormatMoney(suppliers))
	fmt.Fprintf(&sb, "📈 Чистыми: <b>%s</b>\n", utils.FormatMoney(total-expenses-suppliers))
	if skipped > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Нечитаемых строк пропущено: %d", skipped)
	}
	return sb.String()
}

// DailyText — подробный отчёт за один день: смена, расходы, накладные,
// прогноз на следующий день.
func DailyText(reportRows, expenseRows, supplierRows, debtRows, planRows [][]string, date string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧾 Отчёт за %s\n\n", date)

	found := false
	for i := 1; i < len(reportRows); i++ {
		r, err := models.ParseReport(reportRows[i])
		if err != nil || utils.FormatDate(r.Date) != date {
			continue
		}
		found = true
		fmt.Fprintf(&sb, "👤 Продавец: %s\n", r.Seller)
		fmt.Fprintf(&sb, "💰 Выручка: <b>%s</b> (нал %s / терминал %s)\n",
			utils.FormatMoney(r.Total), utils.FormatMoney(r.Cash), utils.FormatMoney(r.Terminal))
		if r.Comment != "" {
			fmt.Fprintf(&sb, "💬 %s\n", r.Comment)
		}
		if r.SafeBalance != "" {
			fmt.Fprintf(&sb, "🏦 В сейфе на конец дня: %s\n", r.SafeBalance)
		}
	}
	if !found {
		sb.WriteString("Смена ещё не закрыта.\n")
	}

	expTotal := 0.0
	var expLines []string
	for i := 1; i < len(expenseRows); i++ {
		row := expenseRows[i]
		if len(row) < 2 || row[0] != date {
			continue
		}
		amount := utils.ParseFloatOr(row[1], 0)
		expTotal += amount
		comment := ""
		if len(row) > 2 {
			comment = row[2]
		}
		expLines = append(expLines, fmt.Sprintf("• %s — %s", utils.FormatMoney(amount), comment))
	}
	if len(expLines) > 0 {
		fmt.Fprintf(&sb, "\n🧾 Расходы (%s):\n%s\n", utils.FormatMoney(expTotal), strings.Join(expLines, "\n"))
	}

	supTotal := 0.0
	var supLines []string
	for i := 1; i < len(supplierRows); i++ {
		inv, err := models.ParseInvoice(supplierRows[i])
		if err != nil || utils.FormatDate(inv.Date) != date {
			continue
		}
		supTotal += inv.Payable
		supLines = append(supLines, fmt.Sprintf("• %s — %s (%s)", inv.Supplier, utils.FormatMoney(inv.Payable), inv.PayType))
	}
	if len(supLines) > 0 {
		fmt.Fprintf(&sb, "\n📦 Накладные (%s):\n%s\n", utils.FormatMoney(supTotal), strings.Join(supLines, "\n"))
	}

	if d, err := utils.ParseDate(date); err == nil {
		next := utils.FormatDate(d.AddDate(0, 0, 1))
		debts, _, _ := ledger.DebtsForDate(debtRows, next)
		_, _, _, plan, _ := ledger.PlanForDate(planRows, next)
		if debts > 0 || plan > 0 {
			fmt.Fprintf(&sb, "\n📅 На %s: долги %s, план поставок %s\n",
				next, utils.FormatMoney(debts), utils.FormatMoney(plan))
		}
	}
	return sb.String()
}

// DashboardText — оперативная сводка на сегодня.
func DashboardText(shiftRows, planRows, debtRows, reportRows [][]string, date string, safeBalance float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 Сводка на %s\n\n", date)

	onShift := "не назначены"
	for i := 1; i < len(shiftRows); i++ {
		sh := models.ParseShift(shiftRows[i])
		if sh.Date == date && len(sh.Sellers) > 0 {
			onShift = strings.Join(sh.Sellers, ", ")
			break
		}
	}
	fmt.Fprintf(&sb, "👤 На смене: %s\n", onShift)

	closed := false
	for i := 1; i < len(reportRows); i++ {
		r, err := models.ParseReport(reportRows[i])
		if err == nil && utils.FormatDate(r.Date) == date {
			closed = true
			fmt.Fprintf(&sb, "✅ Смена закрыта: %s\n", utils.FormatMoney(r.Total))
			break
		}
	}
	if !closed {
		sb.WriteString("⌛ Смена ещё не закрыта\n")
	}

	entries, cash, _, planTotal, _ := ledger.PlanForDate(planRows, date)
	arrived := 0
	for _, p := range entries {
		if p.Status == models.PlanArrived {
			arrived++
		}
	}
	fmt.Fprintf(&sb, "\n🚚 Поставки: %d из %d прибыло, план %s\n",
		arrived, len(entries), utils.FormatMoney(planTotal))

	debts, due, _ := ledger.DebtsForDate(debtRows, date)
	if len(due) > 0 {
		fmt.Fprintf(&sb, "💰 Долги к оплате сегодня: %s\n", utils.FormatMoney(debts))
		for _, d := range due {
			fmt.Fprintf(&sb, "  • %s — %s\n", d.Supplier, utils.FormatMoney(d.Left))
		}
	} else {
		sb.WriteString("💰 Долгов на сегодня нет\n")
	}

	need := debts + cash
	fmt.Fprintf(&sb, "\n💵 Наличных потребуется: <b>%s</b>\n", utils.FormatMoney(need))
	fmt.Fprintf(&sb, "🏦 В сейфе: %s", utils.FormatMoney(safeBalance))
	if need > safeBalance {
		fmt.Fprintf(&sb, " — ⚠️ не хватает %s", utils.FormatMoney(need-safeBalance))
	}
	return sb.String()
}
