// Package ledger считает производные величины (баланс сейфа, остаток магазина,
// долги, премии) проигрыванием строк соответствующего листа. Строки берутся в
// порядке листа — записи добавляются только в конец, поэтому порядок файла и есть
// порядок операций; нечитаемые строки пропускаются и подсчитываются.
package ledger

import (
	"strings"

	"github.com/Fantastik19951/financebot/models"
)

// SafeBalance — баланс сейфа: Пополнение прибавляет, остальное вычитает.
func SafeBalance(rows [][]string) (float64, int) {
	balance := 0.0
	skipped := 0
	for _, row := range dataRows(rows) {
		op, err := models.ParseOp(row)
		if err != nil {
			skipped++
			continue
		}
		switch op.Kind {
		case models.SafeDeposit:
			balance += op.Amount
		case models.SafeWithdraw, models.SafeSalary, models.SafeExpense:
			balance -= op.Amount
		default:
			skipped++
		}
	}
	return balance, skipped
}

// StockBalance — остаток магазина. Старт и Переучет выставляют текущее значение
// (контрольная точка), Приход и Корректировка прибавляют, Продажа и Списание
// вычитают.
func StockBalance(rows [][]string) (float64, int) {
	balance := 0.0
	skipped := 0
	for _, row := range dataRows(rows) {
		op, err := models.ParseOp(row)
		if err != nil {
			skipped++
			continue
		}
		switch op.Kind {
		case models.StockStart, models.StockRecount:
			balance = op.Amount
		case models.StockIncoming, models.StockAdjustment:
			balance += op.Amount
		case models.StockSale, models.StockWriteOff:
			balance -= op.Amount
		default:
			skipped++
		}
	}
	return balance, skipped
}

// DebtsForDate — непогашенные долги со сроком погашения в указанную дату.
func DebtsForDate(rows [][]string, date string) (float64, []models.Debt, int) {
	total := 0.0
	skipped := 0
	var due []models.Debt
	for _, row := range dataRows(rows) {
		d, err := models.ParseDebt(row)
		if err != nil {
			skipped++
			continue
		}
		if d.DueDate != date || strings.EqualFold(d.Closed, "Да") {
			continue
		}
		total += d.Left
		due = append(due, d)
	}
	return total, due, skipped
}

// OpenDebts — все непогашенные долги вместе с номерами их строк.
func OpenDebts(rows [][]string) ([]models.Debt, []int, int) {
	var debts []models.Debt
	var rowNums []int
	skipped := 0
	for i, row := range dataRows(rows) {
		d, err := models.ParseDebt(row)
		if err != nil {
			skipped++
			continue
		}
		if strings.EqualFold(d.Closed, "Да") {
			continue
		}
		debts = append(debts, d)
		rowNums = append(rowNums, i+2)
	}
	return debts, rowNums, skipped
}

// PlanForDate — запланированные поставки на дату и суммы по типам оплаты.
func PlanForDate(rows [][]string, date string) (entries []models.PlanEntry, cash, card, total float64, skipped int) {
	for _, row := range dataRows(rows) {
		p, err := models.ParsePlanEntry(row)
		if err != nil {
			skipped++
			continue
		}
		if p.Date != date {
			continue
		}
		entries = append(entries, p)
		total += p.Amount
		switch p.PayType {
		case models.PayCash:
			cash += p.Amount
		case models.PayCard:
			card += p.Amount
		}
	}
	return entries, cash, card, total, skipped
}

func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
