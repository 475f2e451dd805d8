package models

import (
	"fmt"
	"time"

	"github.com/Fantastik19951/financebot/utils"
)

// Имена листов таблицы.
const (
	SheetReports   = "Дневные отчёты"
	SheetSuppliers = "Поставщики"
	SheetExpenses  = "Расходы"
	SheetLogs      = "Логи"
	SheetShifts    = "Смены"
	SheetDebts     = "Долги"
	SheetSalaries  = "Зарплаты"
	SheetPlanFact  = "ПланФактНаЗавтра"
	SheetSchedule  = "ПланированиеПоставщиков"
	SheetStock     = "Остаток магазина"
	SheetSafe      = "Сейф"
	SheetRevisions = "Переучеты"
	SheetDirectory = "СправочникПоставщиков"
)

// Headers — заголовки, с которыми создаются отсутствующие листы.
var Headers = map[string][]string{
	SheetReports:   {"Дата", "Продавец", "Наличные", "Терминал", "Общая сумма", "Остаток наличных", "На завтра (долги)", "На завтра (план)", "Комментарий", "Остаток в сейфе"},
	SheetSuppliers: {"Дата", "Поставщик", "Сумма прихода", "Возврат/списание", "К оплате", "Сумма после наценки", "Тип оплаты", "Оплачено", "Долг", "Срок долга", "Комментарий", "Кто внёс", "История погашений"},
	SheetExpenses:  {"Дата", "Сумма", "Категория/Комментарий", "Продавец"},
	SheetLogs:      {"Время", "Telegram", "Имя", "Действие", "Комментарий"},
	SheetShifts:    {"Дата", "Продавец 1", "Продавец 2"},
	SheetDebts:     {"Дата", "Поставщик", "Сумма", "Оплачено", "Остаток", "Срок погашения", "Погашено", "Тип оплаты"},
	SheetSalaries:  {"Дата", "Продавец", "Тип", "Сумма", "Комментарий"},
	SheetPlanFact:  {"Дата", "Поставщик", "Сумма", "Тип оплаты", "Кто заполнил", "Статус"},
	SheetSchedule:  {"День недели", "Поставщик"},
	SheetStock:     {"Дата", "Тип операции", "Сумма", "Комментарий", "Кто внёс"},
	SheetSafe:      {"Дата", "Тип операции", "Сумма", "Комментарий", "Кто внёс"},
	SheetRevisions: {"Дата", "Расчетная сумма", "Фактическая сумма", "Разница", "Комментарий", "Кто внёс"},
	SheetDirectory: {"Поставщик", "Статус"},
}

// Типы операций и статусов. Значения совпадают со строками в таблице, менять нельзя.
const (
	SafeDeposit  = "Пополнение"
	SafeWithdraw = "Снятие"
	SafeSalary   = "Зарплата"
	SafeExpense  = "Расход"

	StockStart      = "Старт"
	StockIncoming   = "Приход"
	StockSale       = "Продажа"
	StockWriteOff   = "Списание"
	StockAdjustment = "Корректировка"
	StockRecount    = "Переучет"

	PayCash = "Наличные"
	PayCard = "Карта"
	PayDebt = "Долг"

	SalaryBase   = "Ставка"
	SalaryBonus  = "Премия 2%"
	SalaryPayout = "Выплата бонуса"

	PlanExpected = "Ожидается"
	PlanArrived  = "Прибыл"

	SupplierActive   = "Активен"
	SupplierArchived = "Архив"
)

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Report — строка листа «Дневные отчёты».
type Report struct {
	Date        time.Time
	Seller      string
	Cash        float64
	Terminal    float64
	Total       float64
	CashLeft    float64
	Comment     string
	SafeBalance string
}

func ParseReport(row []string) (Report, error) {
	var r Report
	d, err := utils.ParseDate(cell(row, 0))
	if err != nil {
		return r, fmt.Errorf("дата: %w", err)
	}
	total, err := utils.ParseFloat(cell(row, 4))
	if err != nil {
		return r, fmt.Errorf("общая сумма: %w", err)
	}
	r.Date = d
	r.Seller = cell(row, 1)
	r.Cash = utils.ParseFloatOr(cell(row, 2), 0)
	r.Terminal = utils.ParseFloatOr(cell(row, 3), 0)
	r.Total = total
	r.CashLeft = utils.ParseFloatOr(cell(row, 5), 0)
	r.Comment = cell(row, 8)
	r.SafeBalance = cell(row, 9)
	return r, nil
}

// Invoice — строка листа «Поставщики».
type Invoice struct {
	Date     time.Time
	Supplier string
	Income   float64 // сумма прихода
	WriteOff float64 // возврат/списание
	Payable  float64 // к оплате
	Marked   float64 // сумма после наценки
	PayType  string
	Paid     string
	Debt     float64
	DueDate  string
	Comment  string
	Author   string
	History  string
}

func ParseInvoice(row []string) (Invoice, error) {
	var inv Invoice
	d, err := utils.ParseDate(cell(row, 0))
	if err != nil {
		return inv, fmt.Errorf("дата: %w", err)
	}
	inv.Date = d
	inv.Supplier = cell(row, 1)
	inv.Income = utils.ParseFloatOr(cell(row, 2), 0)
	inv.WriteOff = utils.ParseFloatOr(cell(row, 3), 0)
	inv.Payable = utils.ParseFloatOr(cell(row, 4), 0)
	inv.Marked = utils.ParseFloatOr(cell(row, 5), 0)
	inv.PayType = cell(row, 6)
	inv.Paid = cell(row, 7)
	inv.Debt = utils.ParseFloatOr(cell(row, 8), 0)
	inv.DueDate = cell(row, 9)
	inv.Comment = cell(row, 10)
	inv.Author = cell(row, 11)
	inv.History = cell(row, 12)
	return inv, nil
}

func (inv Invoice) Row() []string {
	return []string{
		utils.FormatDate(inv.Date), inv.Supplier,
		utils.FormatCell(inv.Income), utils.FormatCell(inv.WriteOff),
		utils.FormatCell(inv.Payable), utils.FormatCell(inv.Marked),
		inv.PayType, inv.Paid, utils.FormatCell(inv.Debt),
		inv.DueDate, inv.Comment, inv.Author, inv.History,
	}
}

// Debt — строка листа «Долги», зеркало накладной с типом оплаты «Долг».
type Debt struct {
	Date     string
	Supplier string
	Amount   float64
	Paid     float64
	Left     float64
	DueDate  string
	Closed   string // Да | Нет
	PayType  string
}

func ParseDebt(row []string) (Debt, error) {
	var d Debt
	amount, err := utils.ParseFloat(cell(row, 2))
	if err != nil {
		return d, fmt.Errorf("сумма: %w", err)
	}
	d.Date = cell(row, 0)
	d.Supplier = cell(row, 1)
	d.Amount = amount
	d.Paid = utils.ParseFloatOr(cell(row, 3), 0)
	d.Left = utils.ParseFloatOr(cell(row, 4), amount)
	d.DueDate = cell(row, 5)
	d.Closed = cell(row, 6)
	d.PayType = cell(row, 7)
	return d, nil
}

func (d Debt) Row() []string {
	return []string{
		d.Date, d.Supplier, utils.FormatCell(d.Amount), utils.FormatCell(d.Paid),
		utils.FormatCell(d.Left), d.DueDate, d.Closed, d.PayType,
	}
}

// Op — строка листов «Сейф» и «Остаток магазина» (схема у них одинаковая).
type Op struct {
	Date    string
	Kind    string
	Amount  float64
	Comment string
	Author  string
}

func ParseOp(row []string) (Op, error) {
	var op Op
	amount, err := utils.ParseFloat(cell(row, 2))
	if err != nil {
		return op, fmt.Errorf("сумма: %w", err)
	}
	op.Date = cell(row, 0)
	op.Kind = cell(row, 1)
	op.Amount = amount
	op.Comment = cell(row, 3)
	op.Author = cell(row, 4)
	return op, nil
}

func (op Op) Row() []string {
	return []string{op.Date, op.Kind, utils.FormatCell(op.Amount), op.Comment, op.Author}
}

// PlanEntry — строка листа «ПланФактНаЗавтра».
type PlanEntry struct {
	Date     string
	Supplier string
	Amount   float64
	PayType  string
	Author   string
	Status   string
}

func ParsePlanEntry(row []string) (PlanEntry, error) {
	var p PlanEntry
	amount, err := utils.ParseFloat(cell(row, 2))
	if err != nil {
		return p, fmt.Errorf("сумма: %w", err)
	}
	p.Date = cell(row, 0)
	p.Supplier = cell(row, 1)
	p.Amount = amount
	p.PayType = cell(row, 3)
	p.Author = cell(row, 4)
	p.Status = cell(row, 5)
	return p, nil
}

func (p PlanEntry) Row() []string {
	return []string{p.Date, p.Supplier, utils.FormatCell(p.Amount), p.PayType, p.Author, p.Status}
}

// SalaryOp — строка листа «Зарплаты».
type SalaryOp struct {
	Date    time.Time
	Seller  string
	Kind    string
	Amount  float64
	Comment string
}

func ParseSalaryOp(row []string) (SalaryOp, error) {
	var s SalaryOp
	d, err := utils.ParseDate(cell(row, 0))
	if err != nil {
		return s, fmt.Errorf("дата: %w", err)
	}
	amount, err := utils.ParseFloat(cell(row, 3))
	if err != nil {
		return s, fmt.Errorf("сумма: %w", err)
	}
	s.Date = d
	s.Seller = cell(row, 1)
	s.Kind = cell(row, 2)
	s.Amount = amount
	s.Comment = cell(row, 4)
	return s, nil
}

// Shift — строка листа «Смены», до двух продавцов на дату.
type Shift struct {
	Date    string
	Sellers []string
}

func ParseShift(row []string) Shift {
	sh := Shift{Date: cell(row, 0)}
	for _, c := range []string{cell(row, 1), cell(row, 2)} {
		if c != "" {
			sh.Sellers = append(sh.Sellers, c)
		}
	}
	return sh
}

func (sh Shift) Row() []string {
	row := []string{sh.Date, "", ""}
	for i, s := range sh.Sellers {
		if i > 1 {
			break
		}
		row[i+1] = s
	}
	return row
}
