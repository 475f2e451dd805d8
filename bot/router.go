package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ctx — всё, что нужно обработчику: чат, пользователь, состояние диалога и,
// для кнопок, исходный callback.
type ctx struct {
	q     *tgbotapi.CallbackQuery
	chat  int64
	msgID int
	user  *tgbotapi.User
	st    *UserState
}

func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	cb := ParseCallback(q.Data)
	c := &ctx{
		q:     q,
		chat:  q.Message.Chat.ID,
		msgID: q.Message.MessageID,
		user:  q.From,
		st:    b.states.get(q.From.ID),
	}

	handlers := map[string]func(*ctx, Callback){
		acMenu:   b.cbMenu,
		acCancel: b.cbCancel,
		acNoop:   func(*ctx, Callback) {},
		acReport: b.cbReport,
		acSup:    b.cbSupplier,
		acInv:    b.cbInvoice,
		acDebt:   b.cbDebt,
		acPlan:   b.cbPlan,
		acSafe:   b.cbSafe,
		acStock:  b.cbStock,
		acRev:    b.cbRevision,
		acShift:  b.cbShift,
		acSalary: b.cbSalary,
		acStats:  b.cbStats,
		acDir:    b.cbDirectory,
		acRep:    b.cbReports,
	}

	h, ok := handlers[cb.Action]
	if !ok {
		b.alert(q, "Команда не реализована")
		return
	}
	b.answer(q)
	h(c, cb)
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	c := &ctx{
		chat: m.Chat.ID,
		user: m.From,
		st:   b.states.get(m.From.ID),
	}
	text := strings.TrimSpace(m.Text)

	switch m.Command() {
	case "start":
		b.states.reset(m.From.ID)
		b.showMainMenu(c, "Привет, "+displayName(m.From)+"! Что делаем?")
		return
	case "cancel":
		b.states.reset(m.From.ID)
		b.showMainMenu(c, "Отменено. Что дальше?")
		return
	}

	// Быстрый доступ: админ пишет «сейф» и получает баланс.
	if strings.EqualFold(text, "сейф") && b.isAdmin(m.From.ID) {
		b.showSafeMenu(c)
		return
	}

	// Свободный текст маршрутизируется активным диалогом.
	switch flow := c.st.Flow.(type) {
	case *ReportFlow:
		b.textReport(c, flow, text)
	case *SupplierFlow:
		b.textSupplier(c, flow, text)
	case *InvoiceEditFlow:
		b.textInvoiceEdit(c, flow, text)
	case *RevisionFlow:
		b.textRevision(c, flow, text)
	case *SafeOpFlow:
		b.textSafeOp(c, flow, text)
	case *StockExpenseFlow:
		b.textStockExpense(c, flow, text)
	case *RepayFlow:
		b.textRepay(c, flow, text)
	case *SearchDebtFlow:
		b.textSearchDebt(c, flow, text)
	case *PlanningFlow:
		b.textPlanning(c, flow, text)
	case *PlanEditFlow:
		b.textPlanEdit(c, flow, text)
	case *ReportPeriodFlow:
		b.textReportPeriod(c, flow, text)
	case *DirectoryAddFlow:
		b.textDirectoryAdd(c, flow, text)
	case *DirectoryRenameFlow:
		b.textDirectoryRename(c, flow, text)
	default:
		b.showMainMenu(c, "Не понимаю. Выберите действие:")
	}
}

func (b *Bot) cbMenu(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "admin":
		if !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Только для админов")
			return
		}
		b.editKB(c.chat, c.msgID, "⚙️ Управление", adminMenuKB())
	default:
		b.states.reset(c.user.ID)
		b.editKB(c.chat, c.msgID, "Главное меню", mainMenuKB(b.isAdmin(c.user.ID)))
	}
}

func (b *Bot) cbCancel(c *ctx, cb Callback) {
	b.states.reset(c.user.ID)
	b.editKB(c.chat, c.msgID, "Отменено. Что дальше?", mainMenuKB(b.isAdmin(c.user.ID)))
}

func (b *Bot) showMainMenu(c *ctx, text string) {
	b.sendKB(c.chat, text, mainMenuKB(b.isAdmin(c.user.ID)))
}

// lostSession — диалог потерялся (рестарт процесса между шагами).
func (b *Bot) lostSession(c *ctx) {
	b.states.reset(c.user.ID)
	b.showMainMenu(c, "Сессия потеряна, начните заново.")
}
