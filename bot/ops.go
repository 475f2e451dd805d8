package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/sheets"
	"github.com/Fantastik19951/financebot/utils"
)

// Ops — операции записи в таблицу. Многолистовые операции выполняются как
// последовательность записей без транзакции: при падении посередине листы
// расходятся, это осознанный компромисс работы поверх Google Sheets.
type Ops struct {
	Store sheets.Store
	Cache *sheets.Cache
}

// Expense — расход, введённый при закрытии смены.
type Expense struct {
	Amount  float64
	Comment string
}

// ShiftReport — данные закрытия смены.
type ShiftReport struct {
	Date     time.Time
	Seller   string
	Cash     float64
	Terminal float64
	Expenses []Expense
	Comment  string
}

// ShiftSummary — итоги закрытия для ответа продавцу.
type ShiftSummary struct {
	Total         float64
	ExpensesTotal float64
	CashLeft      float64
	BaseAccrued   bool
	Bonus         float64
	SafeBalance   float64
	TomorrowDebts float64
	TomorrowPlan  float64
	PlansCleared  int
}

// SaveShiftReport закрывает смену: чистит план на сегодня, пишет расходы,
// пополняет сейф выручкой за вычетом расходов, списывает продажу с остатка,
// начисляет ставку и премию и добавляет строку дневного отчёта.
func (o *Ops) SaveShiftReport(rep ShiftReport) (ShiftSummary, error) {
	var sum ShiftSummary
	date := utils.FormatDate(rep.Date)

	cleared, err := o.ClearPlansFor(date)
	if err != nil {
		return sum, err
	}
	sum.PlansCleared = cleared

	for _, e := range rep.Expenses {
		row := []string{date, utils.FormatCell(e.Amount), e.Comment, rep.Seller}
		if err := o.Store.Append(models.SheetExpenses, row); err != nil {
			return sum, err
		}
		sum.ExpensesTotal += e.Amount
	}

	sum.Total = rep.Cash + rep.Terminal
	sum.CashLeft = rep.Cash - sum.ExpensesTotal

	if sum.CashLeft > 0 {
		op := models.Op{Date: date, Kind: models.SafeDeposit, Amount: sum.CashLeft,
			Comment: "Выручка за " + date, Author: rep.Seller}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return sum, err
		}
	}

	if sum.Total > 0 {
		op := models.Op{Date: date, Kind: models.StockSale, Amount: sum.Total,
			Comment: "Продажа за день", Author: rep.Seller}
		if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
			return sum, err
		}
	}

	if config.SalariedSellers[rep.Seller] {
		sum.BaseAccrued = true
		op := models.Op{Date: date, Kind: models.SafeSalary, Amount: config.DailyRate,
			Comment: "Ставка " + rep.Seller, Author: rep.Seller}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return sum, err
		}
		base := []string{date, rep.Seller, models.SalaryBase, utils.FormatCell(config.DailyRate), ""}
		if err := o.Store.Append(models.SheetSalaries, base); err != nil {
			return sum, err
		}
		if sum.Total > config.BonusThreshold {
			bonus := sum.Total*config.BonusPercent - config.DailyRate
			if bonus > 0 {
				sum.Bonus = bonus
				row := []string{date, rep.Seller, models.SalaryBonus, utils.FormatCell(bonus),
					fmt.Sprintf("Выручка %s", utils.FormatMoney(sum.Total))}
				if err := o.Store.Append(models.SheetSalaries, row); err != nil {
					return sum, err
				}
			}
		}
	}

	o.Cache.Invalidate(models.SheetSafe, models.SheetStock, models.SheetSalaries,
		models.SheetExpenses, models.SheetPlanFact)

	safeRows, err := o.Cache.Get(models.SheetSafe, true)
	if err != nil {
		return sum, err
	}
	sum.SafeBalance, _ = ledger.SafeBalance(safeRows)

	tomorrow := utils.FormatDate(rep.Date.AddDate(0, 0, 1))
	if debtRows, err := o.Cache.Get(models.SheetDebts, false); err == nil {
		sum.TomorrowDebts, _, _ = ledger.DebtsForDate(debtRows, tomorrow)
	}
	if planRows, err := o.Cache.Get(models.SheetPlanFact, false); err == nil {
		_, _, _, sum.TomorrowPlan, _ = ledger.PlanForDate(planRows, tomorrow)
	}

	row := []string{
		date, rep.Seller,
		utils.FormatCell(rep.Cash), utils.FormatCell(rep.Terminal),
		utils.FormatCell(sum.Total), utils.FormatCell(sum.CashLeft),
		utils.FormatCell(sum.TomorrowDebts), utils.FormatCell(sum.TomorrowPlan),
		rep.Comment, utils.FormatCell(sum.SafeBalance),
	}
	if err := o.Store.Append(models.SheetReports, row); err != nil {
		return sum, err
	}
	o.Cache.Invalidate(models.SheetReports)
	return sum, nil
}

// SaveInvoice добавляет накладную и её побочные записи: зеркальный долг либо
// расход из сейфа, приход на остаток магазина, отметку «Прибыл» в плане.
func (o *Ops) SaveInvoice(inv models.Invoice) error {
	inv.Payable = inv.Income - inv.WriteOff
	switch inv.PayType {
	case models.PayDebt:
		inv.Paid = "Нет"
		inv.Debt = inv.Payable
	default:
		inv.Paid = "Да"
		inv.Debt = 0
		inv.DueDate = ""
	}

	if err := o.Store.Append(models.SheetSuppliers, inv.Row()); err != nil {
		return err
	}

	date := utils.FormatDate(inv.Date)
	switch inv.PayType {
	case models.PayDebt:
		d := models.Debt{
			Date: date, Supplier: inv.Supplier, Amount: inv.Payable,
			Paid: 0, Left: inv.Payable, DueDate: inv.DueDate,
			Closed: "Нет", PayType: models.PayCash,
		}
		if err := o.Store.Append(models.SheetDebts, d.Row()); err != nil {
			return err
		}
	case models.PayCash:
		if inv.Payable > 0 {
			op := models.Op{Date: date, Kind: models.SafeExpense, Amount: inv.Payable,
				Comment: "Оплата поставщику " + inv.Supplier, Author: inv.Author}
			if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
				return err
			}
		}
	}

	if inv.Marked > 0 {
		op := models.Op{Date: date, Kind: models.StockIncoming, Amount: inv.Marked,
			Comment: "Приход от " + inv.Supplier, Author: inv.Author}
		if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
			return err
		}
	}

	if err := o.MarkPlanArrived(date, inv.Supplier); err != nil {
		log.Printf("Не удалось отметить план прибывшим (%s, %s): %v", date, inv.Supplier, err)
	}

	o.Cache.Invalidate(models.SheetSuppliers, models.SheetDebts, models.SheetSafe,
		models.SheetStock, models.SheetPlanFact)
	return nil
}

// EditInvoice переписывает накладную и доводит связанные листы до нового
// состояния: корректировка остатка на дельту наценки, движение по сейфу на
// дельту оплаченного наличными, зеркальный долг создаётся/обновляется/удаляется
// по новому типу оплаты.
func (o *Ops) EditInvoice(rowNum int, old, updated models.Invoice) error {
	updated.Payable = updated.Income - updated.WriteOff
	switch updated.PayType {
	case models.PayDebt:
		updated.Paid = "Нет"
		updated.Debt = updated.Payable
	default:
		updated.Paid = "Да"
		updated.Debt = 0
		updated.DueDate = ""
	}

	date := utils.FormatDate(old.Date)

	if delta := updated.Marked - old.Marked; delta != 0 {
		op := models.Op{Date: date, Kind: models.StockAdjustment, Amount: delta,
			Comment: "Правка накладной " + old.Supplier, Author: updated.Author}
		if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
			return err
		}
	}

	oldCash := 0.0
	if old.PayType == models.PayCash {
		oldCash = old.Payable
	}
	newCash := 0.0
	if updated.PayType == models.PayCash {
		newCash = updated.Payable
	}
	switch delta := newCash - oldCash; {
	case delta > 0:
		op := models.Op{Date: date, Kind: models.SafeExpense, Amount: delta,
			Comment: "Правка накладной " + old.Supplier, Author: updated.Author}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return err
		}
	case delta < 0:
		op := models.Op{Date: date, Kind: models.SafeDeposit, Amount: -delta,
			Comment: "Правка накладной " + old.Supplier, Author: updated.Author}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return err
		}
	}

	debtRow, debt, err := o.findDebt(date, old.Supplier)
	if err != nil {
		return err
	}
	switch {
	case updated.PayType == models.PayDebt && debtRow > 0:
		debt.Amount = updated.Payable
		debt.Left = updated.Payable - debt.Paid
		debt.DueDate = updated.DueDate
		if err := o.Store.UpdateRow(models.SheetDebts, debtRow, debt.Row()); err != nil {
			return err
		}
	case updated.PayType == models.PayDebt:
		d := models.Debt{
			Date: date, Supplier: updated.Supplier, Amount: updated.Payable,
			Paid: 0, Left: updated.Payable, DueDate: updated.DueDate,
			Closed: "Нет", PayType: models.PayCash,
		}
		if err := o.Store.Append(models.SheetDebts, d.Row()); err != nil {
			return err
		}
	case old.PayType == models.PayDebt && debtRow > 0:
		if err := o.Store.DeleteRow(models.SheetDebts, debtRow); err != nil {
			return err
		}
	}

	if err := o.Store.UpdateRow(models.SheetSuppliers, rowNum, updated.Row()); err != nil {
		return err
	}

	o.Cache.Invalidate(models.SheetSuppliers, models.SheetDebts, models.SheetSafe, models.SheetStock)
	return nil
}

// DeleteInvoice удаляет накладную и откатывает её побочные записи.
func (o *Ops) DeleteInvoice(rowNum int, inv models.Invoice) error {
	date := utils.FormatDate(inv.Date)

	if inv.Marked != 0 {
		op := models.Op{Date: date, Kind: models.StockAdjustment, Amount: -inv.Marked,
			Comment: "Удаление накладной " + inv.Supplier, Author: inv.Author}
		if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
			return err
		}
	}

	if inv.PayType == models.PayCash && inv.Payable > 0 {
		op := models.Op{Date: date, Kind: models.SafeDeposit, Amount: inv.Payable,
			Comment: "Возврат: удаление накладной " + inv.Supplier, Author: inv.Author}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return err
		}
	}

	if inv.PayType == models.PayDebt {
		debtRow, _, err := o.findDebt(date, inv.Supplier)
		if err != nil {
			return err
		}
		if debtRow > 0 {
			if err := o.Store.DeleteRow(models.SheetDebts, debtRow); err != nil {
				return err
			}
		}
	}

	if err := o.Store.DeleteRow(models.SheetSuppliers, rowNum); err != nil {
		return err
	}

	o.Cache.Invalidate(models.SheetSuppliers, models.SheetDebts, models.SheetSafe, models.SheetStock)
	return nil
}

// RepayFull гасит долг целиком: строка долга закрывается, из сейфа уходит
// остаток, исходная накладная помечается оплаченной с записью в историю.
func (o *Ops) RepayFull(debtRowNum int, author string) (float64, error) {
	rows, err := o.Store.Rows(models.SheetDebts)
	if err != nil {
		return 0, err
	}
	if debtRowNum < 2 || debtRowNum > len(rows) {
		return 0, fmt.Errorf("нет строки долга %d", debtRowNum)
	}
	debt, err := models.ParseDebt(rows[debtRowNum-1])
	if err != nil {
		return 0, err
	}
	amount := debt.Left

	debt.Paid = debt.Amount
	debt.Left = 0
	debt.Closed = "Да"
	if err := o.Store.UpdateRow(models.SheetDebts, debtRowNum, debt.Row()); err != nil {
		return 0, err
	}

	if amount > 0 {
		op := models.Op{Date: utils.FormatDate(time.Now()), Kind: models.SafeExpense,
			Amount: amount, Comment: "Погашение долга " + debt.Supplier, Author: author}
		if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
			return 0, err
		}
	}

	if err := o.markInvoiceRepaid(debt.Date, debt.Supplier, amount, true); err != nil {
		return 0, err
	}

	o.Cache.Invalidate(models.SheetDebts, models.SheetSafe, models.SheetSuppliers)
	return amount, nil
}

// RepayPartial гасит долг частично; при остатке меньше копейки долг закрывается.
func (o *Ops) RepayPartial(debtRowNum int, amount float64, author string) (closed bool, left float64, err error) {
	rows, err := o.Store.Rows(models.SheetDebts)
	if err != nil {
		return false, 0, err
	}
	if debtRowNum < 2 || debtRowNum > len(rows) {
		return false, 0, fmt.Errorf("нет строки долга %d", debtRowNum)
	}
	debt, err := models.ParseDebt(rows[debtRowNum-1])
	if err != nil {
		return false, 0, err
	}
	if amount <= 0 || amount > debt.Left+0.01 {
		return false, debt.Left, fmt.Errorf("сумма %s вне остатка %s",
			utils.FormatMoney(amount), utils.FormatMoney(debt.Left))
	}

	debt.Paid += amount
	debt.Left -= amount
	closed = debt.Left <= 0.01
	if closed {
		debt.Left = 0
		debt.Closed = "Да"
	}
	if err := o.Store.UpdateRow(models.SheetDebts, debtRowNum, debt.Row()); err != nil {
		return false, 0, err
	}

	op := models.Op{Date: utils.FormatDate(time.Now()), Kind: models.SafeExpense,
		Amount: amount, Comment: "Погашение долга " + debt.Supplier, Author: author}
	if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
		return false, 0, err
	}

	if err := o.markInvoiceRepaid(debt.Date, debt.Supplier, amount, closed); err != nil {
		return false, 0, err
	}

	o.Cache.Invalidate(models.SheetDebts, models.SheetSafe, models.SheetSuppliers)
	return closed, debt.Left, nil
}

// markInvoiceRepaid дописывает погашение в исходную накладную.
func (o *Ops) markInvoiceRepaid(date, supplier string, amount float64, closed bool) error {
	rows, err := o.Store.Rows(models.SheetSuppliers)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		inv, err := models.ParseInvoice(rows[i])
		if err != nil {
			continue
		}
		if utils.FormatDate(inv.Date) != date || inv.Supplier != supplier || inv.PayType != models.PayDebt {
			continue
		}
		rowNum := i + 1
		entry := fmt.Sprintf("%s: %s", utils.FormatDate(time.Now()), utils.FormatMoney(amount))
		if inv.History != "" {
			inv.History += "; " + entry
		} else {
			inv.History = entry
		}
		if closed {
			inv.Paid = "Да"
			inv.Debt = 0
			inv.DueDate = ""
		} else {
			inv.Debt -= amount
		}
		return o.Store.UpdateRow(models.SheetSuppliers, rowNum, inv.Row())
	}
	log.Printf("Накладная для долга не найдена: %s / %s", date, supplier)
	return nil
}

// findDebt ищет незакрытый долг по дате и поставщику. 0 — не найден.
func (o *Ops) findDebt(date, supplier string) (int, models.Debt, error) {
	rows, err := o.Store.Rows(models.SheetDebts)
	if err != nil {
		return 0, models.Debt{}, err
	}
	for i := 1; i < len(rows); i++ {
		d, err := models.ParseDebt(rows[i])
		if err != nil {
			continue
		}
		if d.Date == date && d.Supplier == supplier && !strings.EqualFold(d.Closed, "Да") {
			return i + 1, d, nil
		}
	}
	return 0, models.Debt{}, nil
}

// ClearPlansFor удаляет все плановые строки на дату (вызывается при закрытии
// смены этой даты). Удаление идёт снизу вверх, чтобы номера строк не съезжали.
func (o *Ops) ClearPlansFor(date string) (int, error) {
	rows, err := o.Store.Rows(models.SheetPlanFact)
	if err != nil {
		return 0, err
	}
	cleared := 0
	for i := len(rows) - 1; i >= 1; i-- {
		if len(rows[i]) > 0 && rows[i][0] == date {
			if err := o.Store.DeleteRow(models.SheetPlanFact, i+1); err != nil {
				return cleared, err
			}
			cleared++
		}
	}
	if cleared > 0 {
		o.Cache.Invalidate(models.SheetPlanFact)
	}
	return cleared, nil
}

// MarkPlanArrived отмечает план по поставщику на дату статусом «Прибыл».
func (o *Ops) MarkPlanArrived(date, supplier string) error {
	rows, err := o.Store.Rows(models.SheetPlanFact)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		p, err := models.ParsePlanEntry(rows[i])
		if err != nil {
			continue
		}
		if p.Date == date && p.Supplier == supplier && p.Status != models.PlanArrived {
			return o.Store.UpdateCell(models.SheetPlanFact, i+1, 6, models.PlanArrived)
		}
	}
	return nil
}

// AddSafeOp добавляет операцию по сейфу и возвращает новый баланс.
func (o *Ops) AddSafeOp(kind string, amount float64, comment, author string) (float64, error) {
	op := models.Op{Date: utils.FormatDate(time.Now()), Kind: kind, Amount: amount,
		Comment: comment, Author: author}
	if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
		return 0, err
	}
	o.Cache.Invalidate(models.SheetSafe)
	rows, err := o.Cache.Get(models.SheetSafe, true)
	if err != nil {
		return 0, err
	}
	balance, _ := ledger.SafeBalance(rows)
	return balance, nil
}

// AddStockOp добавляет операцию по остатку магазина и возвращает новый остаток.
func (o *Ops) AddStockOp(kind string, amount float64, comment, author string) (float64, error) {
	op := models.Op{Date: utils.FormatDate(time.Now()), Kind: kind, Amount: amount,
		Comment: comment, Author: author}
	if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
		return 0, err
	}
	o.Cache.Invalidate(models.SheetStock)
	rows, err := o.Cache.Get(models.SheetStock, true)
	if err != nil {
		return 0, err
	}
	balance, _ := ledger.StockBalance(rows)
	return balance, nil
}

// SaveRevision фиксирует переучёт: строка аудита плюс контрольная точка
// остатка.
func (o *Ops) SaveRevision(calculated, actual float64, comment, author string) error {
	date := utils.FormatDate(time.Now())
	row := []string{
		date, utils.FormatCell(calculated), utils.FormatCell(actual),
		utils.FormatCell(actual - calculated), comment, author,
	}
	if err := o.Store.Append(models.SheetRevisions, row); err != nil {
		return err
	}
	op := models.Op{Date: date, Kind: models.StockRecount, Amount: actual,
		Comment: "Переучёт", Author: author}
	if err := o.Store.Append(models.SheetStock, op.Row()); err != nil {
		return err
	}
	o.Cache.Invalidate(models.SheetStock, models.SheetRevisions)
	return nil
}

// UpsertShift записывает продавцов на дату, создавая или перезаписывая строку.
func (o *Ops) UpsertShift(date string, sellers []string) error {
	rows, err := o.Store.Rows(models.SheetShifts)
	if err != nil {
		return err
	}
	sh := models.Shift{Date: date, Sellers: sellers}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == date {
			if err := o.Store.UpdateRow(models.SheetShifts, i+1, sh.Row()); err != nil {
				return err
			}
			o.Cache.Invalidate(models.SheetShifts)
			return nil
		}
	}
	if err := o.Store.Append(models.SheetShifts, sh.Row()); err != nil {
		return err
	}
	o.Cache.Invalidate(models.SheetShifts)
	return nil
}

// PayBonus фиксирует выплату бонуса с привязкой к периоду через комментарий.
func (o *Ops) PayBonus(seller string, amount float64, periodLabel, author string) error {
	row := []string{
		utils.FormatDate(time.Now()), seller, models.SalaryPayout,
		utils.FormatCell(amount), "Период: " + periodLabel,
	}
	if err := o.Store.Append(models.SheetSalaries, row); err != nil {
		return err
	}
	op := models.Op{Date: utils.FormatDate(time.Now()), Kind: models.SafeSalary,
		Amount: amount, Comment: "Бонус " + seller, Author: author}
	if err := o.Store.Append(models.SheetSafe, op.Row()); err != nil {
		return err
	}
	o.Cache.Invalidate(models.SheetSalaries, models.SheetSafe)
	return nil
}

// AppendPlan добавляет запись плана поставок.
func (o *Ops) AppendPlan(p models.PlanEntry) error {
	if p.Status == "" {
		p.Status = models.PlanExpected
	}
	if err := o.Store.Append(models.SheetPlanFact, p.Row()); err != nil {
		return err
	}
	o.Cache.Invalidate(models.SheetPlanFact)
	return nil
}

// RenameSupplier переименовывает поставщика во всех листах, где он упоминается.
// Возвращает число заменённых ячеек.
func (o *Ops) RenameSupplier(oldName, newName string) (int, error) {
	targets := []struct {
		sheet string
		col   int
	}{
		{models.SheetSuppliers, 2},
		{models.SheetDebts, 2},
		{models.SheetPlanFact, 2},
		{models.SheetSchedule, 2},
		{models.SheetDirectory, 1},
	}
	replaced := 0
	for _, t := range targets {
		rows, err := o.Store.Rows(t.sheet)
		if err != nil {
			return replaced, err
		}
		for i := 1; i < len(rows); i++ {
			if len(rows[i]) >= t.col && rows[i][t.col-1] == oldName {
				if err := o.Store.UpdateCell(t.sheet, i+1, t.col, newName); err != nil {
					return replaced, err
				}
				replaced++
			}
		}
		o.Cache.Invalidate(t.sheet)
	}
	return replaced, nil
}

// LogAction пишет строку в лист аудита. Ошибка не прерывает основную операцию.
func (o *Ops) LogAction(tgID int64, name, action, comment string) {
	row := []string{
		time.Now().Format("02.01.2006 15:04:05"),
		fmt.Sprint(tgID), name, action, comment,
	}
	if err := o.Store.Append(models.SheetLogs, row); err != nil {
		log.Printf("Не удалось записать лог действия: %v", err)
	}
}
