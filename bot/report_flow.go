package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/utils"
)

func (b *Bot) cbReport(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "start":
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(config.Sellers)+1)
		for _, s := range config.Sellers {
			rows = append(rows, row(btn(s, CB(acReport, "seller", s))))
		}
		rows = append(rows, row(btn("❌ Отмена", CB(acCancel))))
		b.editKB(c.chat, c.msgID, "📝 Закрытие смены. Кто работал?", keyboard(rows...))

	case "seller":
		seller := cb.Rest(1)
		if seller == "" {
			b.lostSession(c)
			return
		}
		c.st.Flow = &ReportFlow{Step: reportStepCash, Seller: seller}
		b.sendKB(c.chat, "💵 Наличные за день:", cancelKB())

	case "exp":
		flow, ok := c.st.Flow.(*ReportFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		switch cb.Arg(1) {
		case "add":
			flow.Step = reportStepExpenseAmount
			b.sendKB(c.chat, "Сумма расхода:", cancelKB())
		case "done":
			flow.Step = reportStepComment
			b.sendKB(c.chat, "Комментарий к смене:", skipCancelKB(CB(acReport, "skipcomment")))
		}

	case "skipcomment":
		flow, ok := c.st.Flow.(*ReportFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Comment = ""
		b.showReportConfirm(c, flow)

	case "save":
		flow, ok := c.st.Flow.(*ReportFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		if c.st.Busy {
			b.send(c.chat, "⏳ Уже сохраняю, секунду")
			return
		}
		c.st.Busy = true
		defer func() { c.st.Busy = false }()
		b.saveShiftReport(c, flow)
	}
}

func (b *Bot) textReport(c *ctx, flow *ReportFlow, text string) {
	switch flow.Step {
	case reportStepCash:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом, например 12500 или 12500,50")
			return
		}
		flow.Cash = v
		flow.Step = reportStepTerminal
		b.sendKB(c.chat, "💳 Терминал за день:", cancelKB())

	case reportStepTerminal:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом, попробуйте ещё раз")
			return
		}
		flow.Terminal = v
		b.askExpenses(c, flow)

	case reportStepExpenseAmount:
		v, err := utils.ParseFloat(text)
		if err != nil || v <= 0 {
			b.send(c.chat, "Сумма расхода должна быть положительным числом")
			return
		}
		flow.PendingExp = v
		flow.Step = reportStepExpenseComment
		b.sendKB(c.chat, "На что потратили?", cancelKB())

	case reportStepExpenseComment:
		flow.Expenses = append(flow.Expenses, Expense{Amount: flow.PendingExp, Comment: text})
		flow.PendingExp = 0
		b.askExpenses(c, flow)

	case reportStepComment:
		flow.Comment = text
		b.showReportConfirm(c, flow)

	default:
		b.send(c.chat, "Сейчас жду нажатия кнопки")
	}
}

func (b *Bot) askExpenses(c *ctx, flow *ReportFlow) {
	flow.Step = reportStepConfirm
	var sb strings.Builder
	sb.WriteString("🧾 Расходы за смену:\n")
	if len(flow.Expenses) == 0 {
		sb.WriteString("— пока нет\n")
	}
	total := 0.0
	for _, e := range flow.Expenses {
		fmt.Fprintf(&sb, "• %s — %s\n", utils.FormatMoney(e.Amount), e.Comment)
		total += e.Amount
	}
	if total > 0 {
		fmt.Fprintf(&sb, "Итого: %s\n", utils.FormatMoney(total))
	}
	kb := keyboard(
		row(btn("➕ Добавить расход", CB(acReport, "exp", "add"))),
		row(btn("✅ Дальше", CB(acReport, "exp", "done"))),
		row(btn("❌ Отмена", CB(acCancel))),
	)
	b.sendKB(c.chat, sb.String(), kb)
}

func (b *Bot) showReportConfirm(c *ctx, flow *ReportFlow) {
	flow.Step = reportStepConfirm
	expTotal := 0.0
	for _, e := range flow.Expenses {
		expTotal += e.Amount
	}
	text := fmt.Sprintf(
		"Проверьте отчёт за %s:\n\n"+
			"👤 Продавец: %s\n"+
			"💵 Наличные: %s\n"+
			"💳 Терминал: %s\n"+
			"🧾 Расходы: %s\n"+
			"💬 Комментарий: %s",
		utils.FormatDate(b.now()), flow.Seller,
		utils.FormatMoney(flow.Cash), utils.FormatMoney(flow.Terminal),
		utils.FormatMoney(expTotal), orDash(flow.Comment))
	b.sendKB(c.chat, text, confirmKB(CB(acReport, "save")))
}

func (b *Bot) saveShiftReport(c *ctx, flow *ReportFlow) {
	rep := ShiftReport{
		Date:     b.now(),
		Seller:   flow.Seller,
		Cash:     flow.Cash,
		Terminal: flow.Terminal,
		Expenses: flow.Expenses,
		Comment:  flow.Comment,
	}
	sum, err := b.ops.SaveShiftReport(rep)
	if err != nil {
		b.fail(c.chat, "Закрытие смены", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Закрытие смены",
		fmt.Sprintf("%s, всего %s", flow.Seller, utils.FormatMoney(sum.Total)))
	b.states.reset(c.user.ID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Смена закрыта!\n\n")
	fmt.Fprintf(&sb, "💰 Всего за день: <b>%s</b>\n", utils.FormatMoney(sum.Total))
	fmt.Fprintf(&sb, "💵 Наличные: %s, 💳 терминал: %s\n", utils.FormatMoney(flow.Cash), utils.FormatMoney(flow.Terminal))
	fmt.Fprintf(&sb, "🧾 Расходы: %s\n", utils.FormatMoney(sum.ExpensesTotal))
	fmt.Fprintf(&sb, "💵 Осталось наличных: %s\n", utils.FormatMoney(sum.CashLeft))
	if sum.BaseAccrued {
		fmt.Fprintf(&sb, "👛 Начислена ставка %s", utils.FormatMoney(config.DailyRate))
		if sum.Bonus > 0 {
			fmt.Fprintf(&sb, " и премия %s", utils.FormatMoney(sum.Bonus))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "🏦 В сейфе: %s\n", utils.FormatMoney(sum.SafeBalance))
	fmt.Fprintf(&sb, "\n📅 На завтра:\n• долги: %s\n• план поставок: %s\n",
		utils.FormatMoney(sum.TomorrowDebts), utils.FormatMoney(sum.TomorrowPlan))
	if sum.PlansCleared > 0 {
		fmt.Fprintf(&sb, "\n🧹 Очищено планов на сегодня: %d", sum.PlansCleared)
	}
	b.sendKB(c.chat, sb.String(), backToMainKB())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
