package bot

import (
	"testing"
	"time"

	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/sheets"
	"github.com/Fantastik19951/financebot/utils"
)

func newTestOps() *Ops {
	mem := sheets.NewMemory(models.Headers)
	return &Ops{Store: mem, Cache: sheets.NewCache(mem, time.Minute)}
}

func mustRows(t *testing.T, o *Ops, sheet string) [][]string {
	t.Helper()
	rows, err := o.Store.Rows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func safeBalance(t *testing.T, o *Ops) float64 {
	t.Helper()
	b, _ := ledger.SafeBalance(mustRows(t, o, models.SheetSafe))
	return b
}

func TestSaveShiftReportSideEffects(t *testing.T) {
	o := newTestOps()
	date := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)

	// план на закрываемый день должен очиститься
	o.Store.Append(models.SheetPlanFact, []string{"10.06.2025", "Алекс", "2000", "Наличные", "Мария", "Ожидается"})
	o.Store.Append(models.SheetPlanFact, []string{"11.06.2025", "Фактор", "900", "Карта", "Мария", "Ожидается"})

	sum, err := o.SaveShiftReport(ShiftReport{
		Date:     date,
		Seller:   "Мария",
		Cash:     30000,
		Terminal: 10000,
		Expenses: []Expense{{Amount: 500, Comment: "вода"}, {Amount: 1500, Comment: "пакеты"}},
		Comment:  "всё ок",
	})
	if err != nil {
		t.Fatal(err)
	}

	if sum.Total != 40000 {
		t.Errorf("выручка = %v", sum.Total)
	}
	if sum.ExpensesTotal != 2000 || sum.CashLeft != 28000 {
		t.Errorf("расходы = %v, остаток налички = %v", sum.ExpensesTotal, sum.CashLeft)
	}
	if sum.PlansCleared != 1 {
		t.Errorf("очищено планов = %d, ожидалось 1", sum.PlansCleared)
	}

	// сейф: +28000 выручки, −700 ставка
	if got := safeBalance(t, o); got != 27300 {
		t.Errorf("сейф = %v, ожидалось 27300", got)
	}
	if sum.SafeBalance != 27300 {
		t.Errorf("баланс в сводке = %v", sum.SafeBalance)
	}

	// остаток магазина: продажа на всю выручку
	stock, _ := ledger.StockBalance(mustRows(t, o, models.SheetStock))
	if stock != -40000 {
		t.Errorf("остаток = %v, ожидалось -40000", stock)
	}

	// премия: 2%·40000 − 700 = 100
	if sum.Bonus != 100 {
		t.Errorf("премия = %v, ожидалось 100", sum.Bonus)
	}
	salaries := mustRows(t, o, models.SheetSalaries)
	if len(salaries) != 3 {
		t.Fatalf("строк зарплат = %d, ожидалось 3 (заголовок, ставка, премия)", len(salaries))
	}
	if salaries[1][2] != models.SalaryBase || salaries[2][2] != models.SalaryBonus {
		t.Errorf("типы начислений: %v / %v", salaries[1][2], salaries[2][2])
	}

	// строка дневного отчёта
	reps := mustRows(t, o, models.SheetReports)
	if len(reps) != 2 {
		t.Fatalf("строк отчётов = %d", len(reps))
	}
	r, err := models.ParseReport(reps[1])
	if err != nil {
		t.Fatal(err)
	}
	if r.Total != 40000 || r.Seller != "Мария" || r.CashLeft != 28000 {
		t.Errorf("строка отчёта: %+v", r)
	}

	// план на другой день не тронут
	plans := mustRows(t, o, models.SheetPlanFact)
	if len(plans) != 2 || plans[1][0] != "11.06.2025" {
		t.Errorf("план: %v", plans)
	}
}

func TestSaveShiftReportNoBonusBelowThreshold(t *testing.T) {
	o := newTestOps()
	sum, err := o.SaveShiftReport(ShiftReport{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Seller: "Людмила",
		Cash: 20000, Terminal: 10000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Bonus != 0 {
		t.Errorf("премия = %v при выручке 30000", sum.Bonus)
	}
	salaries := mustRows(t, o, models.SheetSalaries)
	if len(salaries) != 2 {
		t.Errorf("строк зарплат = %d, ожидалась только ставка", len(salaries))
	}
}

func TestSaveShiftReportUnsalariedSeller(t *testing.T) {
	o := newTestOps()
	sum, err := o.SaveShiftReport(ShiftReport{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Seller: "Сергей",
		Cash: 50000, Terminal: 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.BaseAccrued || sum.Bonus != 0 {
		t.Errorf("Сергею не начисляется ставка: %+v", sum)
	}
	if got := safeBalance(t, o); got != 50000 {
		t.Errorf("сейф = %v", got)
	}
}

func TestSaveInvoiceDebtDoesNotTouchSafe(t *testing.T) {
	o := newTestOps()
	inv := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Алекс",
		Income: 5000, WriteOff: 200, Marked: 6500,
		PayType: models.PayDebt, DueDate: "20.06.2025", Author: "Сергей",
	}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}

	if got := safeBalance(t, o); got != 0 {
		t.Errorf("сейф = %v, долг не должен трогать сейф", got)
	}
	debts := mustRows(t, o, models.SheetDebts)
	if len(debts) != 2 {
		t.Fatalf("строк долгов = %d", len(debts))
	}
	d, err := models.ParseDebt(debts[1])
	if err != nil {
		t.Fatal(err)
	}
	if d.Amount != 4800 || d.Left != 4800 || d.Paid != 0 || d.Closed != "Нет" || d.DueDate != "20.06.2025" {
		t.Errorf("зеркальный долг: %+v", d)
	}
	stock, _ := ledger.StockBalance(mustRows(t, o, models.SheetStock))
	if stock != 6500 {
		t.Errorf("остаток = %v, ожидался приход наценки", stock)
	}
}

func TestSaveInvoiceCashDrawsFromSafe(t *testing.T) {
	o := newTestOps()
	o.Store.Append(models.SheetSafe, []string{"09.06.2025", models.SafeDeposit, "10000", "", ""})

	inv := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Фактор",
		Income: 3000, WriteOff: 0, Marked: 4000, PayType: models.PayCash, Author: "Мария",
	}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}
	if got := safeBalance(t, o); got != 7000 {
		t.Errorf("сейф = %v, ожидалось 7000", got)
	}
	if rows := mustRows(t, o, models.SheetDebts); len(rows) != 1 {
		t.Errorf("долгов не должно быть, строк: %d", len(rows))
	}
	sup := mustRows(t, o, models.SheetSuppliers)
	parsed, _ := models.ParseInvoice(sup[1])
	if parsed.Paid != "Да" || parsed.Debt != 0 {
		t.Errorf("накладная: %+v", parsed)
	}
}

func TestSaveInvoiceMarksPlanArrived(t *testing.T) {
	o := newTestOps()
	today := utils.FormatDate(time.Now())
	o.Store.Append(models.SheetPlanFact, []string{today, "Алекс", "2000", "Наличные", "Мария", "Ожидается"})

	inv := models.Invoice{Date: time.Now(), Supplier: "Алекс", Income: 2000, Marked: 2600, PayType: models.PayCard}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}
	plans := mustRows(t, o, models.SheetPlanFact)
	if plans[1][5] != models.PlanArrived {
		t.Errorf("статус плана = %q", plans[1][5])
	}
}

func TestEditInvoiceDebtToCash(t *testing.T) {
	o := newTestOps()
	old := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Алекс",
		Income: 5000, WriteOff: 0, Marked: 6500,
		PayType: models.PayDebt, DueDate: "20.06.2025", Author: "Сергей",
	}
	if err := o.SaveInvoice(old); err != nil {
		t.Fatal(err)
	}
	saved, _ := models.ParseInvoice(mustRows(t, o, models.SheetSuppliers)[1])

	updated := saved
	updated.PayType = models.PayCash
	updated.Marked = 7000
	if err := o.EditInvoice(2, saved, updated); err != nil {
		t.Fatal(err)
	}

	// зеркальный долг удалён
	if rows := mustRows(t, o, models.SheetDebts); len(rows) != 1 {
		t.Errorf("долг не удалён, строк: %d", len(rows))
	}
	// из сейфа ушла оплата наличными
	if got := safeBalance(t, o); got != -5000 {
		t.Errorf("сейф = %v, ожидалось -5000", got)
	}
	// остаток получил корректировку дельты наценки
	stock, _ := ledger.StockBalance(mustRows(t, o, models.SheetStock))
	if stock != 7000 {
		t.Errorf("остаток = %v, ожидалось 7000", stock)
	}
	got, _ := models.ParseInvoice(mustRows(t, o, models.SheetSuppliers)[1])
	if got.Paid != "Да" || got.Debt != 0 || got.DueDate != "" || got.Marked != 7000 {
		t.Errorf("накладная после правки: %+v", got)
	}
}

func TestEditInvoiceCashToDebtRefundsSafe(t *testing.T) {
	o := newTestOps()
	old := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Фактор",
		Income: 3000, Marked: 4000, PayType: models.PayCash,
	}
	if err := o.SaveInvoice(old); err != nil {
		t.Fatal(err)
	}
	saved, _ := models.ParseInvoice(mustRows(t, o, models.SheetSuppliers)[1])

	updated := saved
	updated.PayType = models.PayDebt
	updated.DueDate = "25.06.2025"
	if err := o.EditInvoice(2, saved, updated); err != nil {
		t.Fatal(err)
	}

	// расход наличных компенсирован пополнением
	if got := safeBalance(t, o); got != 0 {
		t.Errorf("сейф = %v, ожидалось 0", got)
	}
	debts := mustRows(t, o, models.SheetDebts)
	if len(debts) != 2 {
		t.Fatalf("долг не создан")
	}
	d, _ := models.ParseDebt(debts[1])
	if d.Left != 3000 || d.DueDate != "25.06.2025" {
		t.Errorf("долг: %+v", d)
	}
}

func TestDeleteInvoiceReversesSideEffects(t *testing.T) {
	o := newTestOps()
	inv := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Алекс",
		Income: 5000, Marked: 6500, PayType: models.PayCash,
	}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}
	saved, _ := models.ParseInvoice(mustRows(t, o, models.SheetSuppliers)[1])
	if err := o.DeleteInvoice(2, saved); err != nil {
		t.Fatal(err)
	}

	if rows := mustRows(t, o, models.SheetSuppliers); len(rows) != 1 {
		t.Errorf("накладная не удалена")
	}
	if got := safeBalance(t, o); got != 0 {
		t.Errorf("сейф = %v, расход должен быть возвращён", got)
	}
	stock, _ := ledger.StockBalance(mustRows(t, o, models.SheetStock))
	if stock != 0 {
		t.Errorf("остаток = %v, наценка должна быть откачена", stock)
	}
}

func TestRepayFullClosesDebtAndInvoice(t *testing.T) {
	o := newTestOps()
	inv := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Алекс",
		Income: 5000, Marked: 6000, PayType: models.PayDebt, DueDate: "20.06.2025",
	}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}

	amount, err := o.RepayFull(2, "Сергей")
	if err != nil {
		t.Fatal(err)
	}
	if amount != 5000 {
		t.Errorf("списано = %v", amount)
	}
	d, _ := models.ParseDebt(mustRows(t, o, models.SheetDebts)[1])
	if d.Closed != "Да" || d.Left != 0 || d.Paid != 5000 {
		t.Errorf("долг: %+v", d)
	}
	if got := safeBalance(t, o); got != -5000 {
		t.Errorf("сейф = %v", got)
	}
	got, _ := models.ParseInvoice(mustRows(t, o, models.SheetSuppliers)[1])
	if got.Paid != "Да" || got.Debt != 0 || got.History == "" {
		t.Errorf("накладная: %+v", got)
	}
}

func TestRepayPartialArithmetic(t *testing.T) {
	o := newTestOps()
	inv := models.Invoice{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Supplier: "Алекс",
		Income: 5000, Marked: 6000, PayType: models.PayDebt, DueDate: "20.06.2025",
	}
	if err := o.SaveInvoice(inv); err != nil {
		t.Fatal(err)
	}

	closed, left, err := o.RepayPartial(2, 2000, "Сергей")
	if err != nil {
		t.Fatal(err)
	}
	if closed || left != 3000 {
		t.Errorf("closed=%v left=%v", closed, left)
	}
	d, _ := models.ParseDebt(mustRows(t, o, models.SheetDebts)[1])
	if d.Paid != 2000 || d.Left != 3000 || d.Closed != "Нет" {
		t.Errorf("долг: %+v", d)
	}

	// переплата сверх остатка отклоняется
	if _, _, err := o.RepayPartial(2, 9000, "Сергей"); err == nil {
		t.Error("ожидалась ошибка переплаты")
	}

	closed, left, err = o.RepayPartial(2, 3000, "Сергей")
	if err != nil {
		t.Fatal(err)
	}
	if !closed || left != 0 {
		t.Errorf("closed=%v left=%v", closed, left)
	}
	if got := safeBalance(t, o); got != -5000 {
		t.Errorf("сейф = %v", got)
	}
}

func TestRenameSupplierPropagates(t *testing.T) {
	o := newTestOps()
	o.Store.Append(models.SheetDirectory, []string{"Алекс", models.SupplierActive})
	o.Store.Append(models.SheetSuppliers, []string{"10.06.2025", "Алекс", "5000", "0", "5000", "6000", "Долг", "Нет", "5000", "20.06.2025", "", "", ""})
	o.Store.Append(models.SheetDebts, []string{"10.06.2025", "Алекс", "5000", "0", "5000", "20.06.2025", "Нет", "Наличные"})
	o.Store.Append(models.SheetPlanFact, []string{"11.06.2025", "Алекс", "2000", "Наличные", "", "Ожидается"})
	o.Store.Append(models.SheetSchedule, []string{"Вторник", "Алекс"})
	o.Store.Append(models.SheetSchedule, []string{"Пятница", "Фактор"})

	replaced, err := o.RenameSupplier("Алекс", "Алекс-Трейд")
	if err != nil {
		t.Fatal(err)
	}
	if replaced != 5 {
		t.Errorf("заменено = %d, ожидалось 5", replaced)
	}
	for _, check := range []struct {
		sheet string
		row   int
		col   int
	}{
		{models.SheetDirectory, 2, 1},
		{models.SheetSuppliers, 2, 2},
		{models.SheetDebts, 2, 2},
		{models.SheetPlanFact, 2, 2},
		{models.SheetSchedule, 2, 2},
	} {
		rows := mustRows(t, o, check.sheet)
		if rows[check.row-1][check.col-1] != "Алекс-Трейд" {
			t.Errorf("%s: ячейка не переименована: %v", check.sheet, rows[check.row-1])
		}
	}
	// чужие записи не задеты
	sched := mustRows(t, o, models.SheetSchedule)
	if sched[2][1] != "Фактор" {
		t.Errorf("задет чужой поставщик: %v", sched[2])
	}
}

func TestUpsertShift(t *testing.T) {
	o := newTestOps()
	if err := o.UpsertShift("10.06.2025", []string{"Мария"}); err != nil {
		t.Fatal(err)
	}
	if err := o.UpsertShift("10.06.2025", []string{"Мария", "Сергей"}); err != nil {
		t.Fatal(err)
	}
	rows := mustRows(t, o, models.SheetShifts)
	if len(rows) != 2 {
		t.Fatalf("строк смен = %d, ожидался upsert", len(rows))
	}
	if rows[1][1] != "Мария" || rows[1][2] != "Сергей" {
		t.Errorf("смена: %v", rows[1])
	}
}

func TestSaveRevisionWritesCheckpoint(t *testing.T) {
	o := newTestOps()
	o.Store.Append(models.SheetStock, []string{"01.06.2025", models.StockStart, "10000", "", ""})
	o.Store.Append(models.SheetStock, []string{"02.06.2025", models.StockSale, "3000", "", ""})

	if err := o.SaveRevision(7000, 6500, "усушка", "Сергей"); err != nil {
		t.Fatal(err)
	}
	stock, _ := ledger.StockBalance(mustRows(t, o, models.SheetStock))
	if stock != 6500 {
		t.Errorf("остаток после переучёта = %v, ожидалось 6500", stock)
	}
	revs := mustRows(t, o, models.SheetRevisions)
	if len(revs) != 2 {
		t.Fatalf("строк переучётов = %d", len(revs))
	}
	if revs[1][3] != "-500" {
		t.Errorf("разница = %q, ожидалось -500", revs[1][3])
	}
}

func TestPayBonusWritesPeriodComment(t *testing.T) {
	o := newTestOps()
	if err := o.PayBonus("Мария", 150, "25.05.2025 - 24.06.2025", "Админ"); err != nil {
		t.Fatal(err)
	}
	rows := mustRows(t, o, models.SheetSalaries)
	s, err := models.ParseSalaryOp(rows[1])
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != models.SalaryPayout || s.Amount != 150 {
		t.Errorf("выплата: %+v", s)
	}
	paid, _ := ledger.PaidBonus("Мария", rows, "25.05.2025 - 24.06.2025")
	if paid != 150 {
		t.Errorf("выплата не сопоставилась с периодом: %v", paid)
	}
	if got := safeBalance(t, o); got != -150 {
		t.Errorf("сейф = %v, бонус платится из сейфа", got)
	}
}
