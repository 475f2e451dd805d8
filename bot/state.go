package bot

import (
	"sync"

	"github.com/Fantastik19951/financebot/models"
)

// Flow — активный диалог пользователя. В каждый момент у пользователя не больше
// одного диалога; /cancel и возврат в меню его сбрасывают. Состояние живёт
// только в памяти процесса.
type Flow interface{ flowName() string }

// UserState — состояние одного пользователя.
type UserState struct {
	Flow Flow
	Busy bool // защита от повторного нажатия кнопки сохранения
}

type states struct {
	mu sync.Mutex
	m  map[int64]*UserState
}

func newStates() *states {
	return &states{m: make(map[int64]*UserState)}
}

func (s *states) get(userID int64) *UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	if !ok {
		st = &UserState{}
		s.m[userID] = st
	}
	return st
}

func (s *states) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// --- Закрытие смены ---

type reportStep int

const (
	reportStepCash reportStep = iota
	reportStepTerminal
	reportStepExpenseAmount
	reportStepExpenseComment
	reportStepComment
	reportStepConfirm
)

type ReportFlow struct {
	Step       reportStep
	Seller     string
	Cash       float64
	Terminal   float64
	Expenses   []Expense
	PendingExp float64
	Comment    string
}

func (*ReportFlow) flowName() string { return "report" }

// --- Накладная поставщика ---

type supplierStep int

const (
	supplierStepName supplierStep = iota
	supplierStepIncome
	supplierStepWriteOff
	supplierStepMarked
	supplierStepPayType
	supplierStepDueDate
	supplierStepComment
	supplierStepConfirm
)

type SupplierFlow struct {
	Step    supplierStep
	Invoice models.Invoice
}

func (*SupplierFlow) flowName() string { return "supplier" }

// --- Правка накладной ---

type invoiceEditStep int

const (
	invoiceEditStepFields invoiceEditStep = iota
	invoiceEditStepValue
	invoiceEditStepConfirm
)

// Поля накладной, доступные для правки.
const (
	FieldIncome   = "income"
	FieldWriteOff = "writeoff"
	FieldMarked   = "marked"
	FieldPayType  = "paytype"
	FieldDueDate  = "due"
	FieldComment  = "comment"
)

type InvoiceEditFlow struct {
	Step     invoiceEditStep
	RowNum   int
	Old      models.Invoice
	Updated  models.Invoice
	Selected map[string]bool
	Queue    []string // очередь выбранных полей на ввод
}

func (*InvoiceEditFlow) flowName() string { return "invoice_edit" }

// --- Переучёт ---

type revisionStep int

const (
	revisionStepActual revisionStep = iota
	revisionStepComment
)

type RevisionFlow struct {
	Step       revisionStep
	Calculated float64
	Actual     float64
}

func (*RevisionFlow) flowName() string { return "revision" }

// --- Операция по сейфу ---

type SafeOpFlow struct {
	Kind string // Пополнение | Снятие
}

func (*SafeOpFlow) flowName() string { return "safe_op" }

// --- Списание с остатка магазина ---

type stockExpenseStep int

const (
	stockExpenseStepAmount stockExpenseStep = iota
	stockExpenseStepComment
)

type StockExpenseFlow struct {
	Step   stockExpenseStep
	Amount float64
}

func (*StockExpenseFlow) flowName() string { return "stock_expense" }

// --- Частичное погашение долга ---

type RepayFlow struct {
	RowNum int
	Left   float64
}

func (*RepayFlow) flowName() string { return "repay" }

// --- Поиск по долгам ---

type SearchDebtFlow struct{}

func (*SearchDebtFlow) flowName() string { return "search_debt" }

// --- Планирование поставки ---

type planningStep int

const (
	planningStepSupplier planningStep = iota
	planningStepAmount
	planningStepPayType
)

type PlanningFlow struct {
	Step     planningStep
	Date     string
	Supplier string
	Amount   float64
}

func (*PlanningFlow) flowName() string { return "planning" }

// --- Правка плановой записи ---

type PlanEditFlow struct {
	RowNum int
	Date   string
	Field  string // amount | paytype
}

func (*PlanEditFlow) flowName() string { return "plan_edit" }

// --- Произвольный период отчёта ---

type ReportPeriodFlow struct{}

func (*ReportPeriodFlow) flowName() string { return "report_period" }

// --- Справочник поставщиков ---

type DirectoryAddFlow struct{}

func (*DirectoryAddFlow) flowName() string { return "dir_add" }

type DirectoryRenameFlow struct {
	RowNum  int
	OldName string
}

func (*DirectoryRenameFlow) flowName() string { return "dir_rename" }
