package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

const debtsPerPage = 8

func (b *Bot) cbDebt(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		b.showDebtsMenu(c)
	case "list":
		b.showDebtsList(c, cb.Int(1))
	case "show":
		b.showSingleDebt(c, cb.Int(1))
	case "full":
		rn := cb.Arg(1)
		b.sendKB(c.chat, "Погасить долг полностью? Сумма уйдёт из сейфа.",
			confirmKB(CB(acDebt, "fullok", rn)))
	case "fullok":
		if c.st.Busy {
			b.send(c.chat, "⏳ Уже сохраняю, секунду")
			return
		}
		c.st.Busy = true
		defer func() { c.st.Busy = false }()
		b.repayFull(c, cb.Int(1))
	case "part":
		b.startPartialRepay(c, cb.Int(1))
	case "search":
		c.st.Flow = &SearchDebtFlow{}
		b.sendKB(c.chat, "🔍 Название поставщика (можно часть):", cancelKB())
	case "upcoming":
		b.showUpcomingDebts(c)
	case "hist":
		b.showDebtsHistory(c, cb.Int(1))
	}
}

func (b *Bot) showDebtsMenu(c *ctx) {
	rows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Долги", err)
		return
	}
	debts, _, skipped := ledger.OpenDebts(rows)
	total := 0.0
	for _, d := range debts {
		total += d.Left
	}
	text := fmt.Sprintf("💰 Долги\n\nОткрытых: %d\nОбщий остаток: <b>%s</b>",
		len(debts), utils.FormatMoney(total))
	text += b.skippedFooter(c, skipped)
	b.editKB(c.chat, c.msgID, text, debtsMenuKB())
}

func (b *Bot) showDebtsList(c *ctx, page int) {
	rows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Долги", err)
		return
	}
	debts, rowNums, _ := ledger.OpenDebts(rows)
	if len(debts) == 0 {
		b.editKB(c.chat, c.msgID, "🎉 Открытых долгов нет!", keyboard(backRow(CB(acDebt, "menu"))))
		return
	}

	start := page * debtsPerPage
	if start >= len(debts) {
		start = 0
		page = 0
	}
	end := start + debtsPerPage
	if end > len(debts) {
		end = len(debts)
	}

	var kbRows [][]tgbotapi.InlineKeyboardButton
	for i := start; i < end; i++ {
		d := debts[i]
		label := fmt.Sprintf("%s — %s (до %s)", d.Supplier, utils.FormatMoney(d.Left), d.DueDate)
		kbRows = append(kbRows, row(btn(label, CB(acDebt, "show", strconv.Itoa(rowNums[i])))))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, btn("◀️", CB(acDebt, "list", strconv.Itoa(page-1))))
	}
	if end < len(debts) {
		nav = append(nav, btn("▶️", CB(acDebt, "list", strconv.Itoa(page+1))))
	}
	if len(nav) > 0 {
		kbRows = append(kbRows, nav)
	}
	kbRows = append(kbRows, backRow(CB(acDebt, "menu")))
	text := fmt.Sprintf("📜 Открытые долги (%d–%d из %d):", start+1, end, len(debts))
	b.editKB(c.chat, c.msgID, text, keyboard(kbRows...))
}

func (b *Bot) debtAt(rowNum int) (models.Debt, error) {
	rows, err := b.ops.Store.Rows(models.SheetDebts)
	if err != nil {
		return models.Debt{}, err
	}
	if rowNum < 2 || rowNum > len(rows) {
		return models.Debt{}, fmt.Errorf("нет строки %d", rowNum)
	}
	return models.ParseDebt(rows[rowNum-1])
}

func (b *Bot) showSingleDebt(c *ctx, rowNum int) {
	d, err := b.debtAt(rowNum)
	if err != nil {
		b.fail(c.chat, "Долг", err)
		return
	}
	text := fmt.Sprintf(
		"📝 Долг перед <b>%s</b>\n\n"+
			"📅 Накладная от: %s\n"+
			"💸 Сумма: %s\n"+
			"✅ Оплачено: %s\n"+
			"⏳ Остаток: <b>%s</b>\n"+
			"📆 Срок: %s",
		d.Supplier, d.Date, utils.FormatMoney(d.Amount),
		utils.FormatMoney(d.Paid), utils.FormatMoney(d.Left), d.DueDate)
	rn := strconv.Itoa(rowNum)
	kb := keyboard(
		row(btn("✅ Погасить полностью", CB(acDebt, "full", rn))),
		row(btn("➗ Погасить частично", CB(acDebt, "part", rn))),
		backRow(CB(acDebt, "list", "0")),
	)
	b.editKB(c.chat, c.msgID, text, kb)
}

func (b *Bot) repayFull(c *ctx, rowNum int) {
	amount, err := b.ops.RepayFull(rowNum, displayName(c.user))
	if err != nil {
		b.fail(c.chat, "Погашение долга", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Погашение долга",
		"полностью, "+utils.FormatMoney(amount))
	b.sendKB(c.chat, fmt.Sprintf("✅ Долг погашен, из сейфа списано %s.", utils.FormatMoney(amount)),
		backToMainKB())
}

func (b *Bot) startPartialRepay(c *ctx, rowNum int) {
	d, err := b.debtAt(rowNum)
	if err != nil {
		b.fail(c.chat, "Погашение долга", err)
		return
	}
	c.st.Flow = &RepayFlow{RowNum: rowNum, Left: d.Left}
	b.sendKB(c.chat, fmt.Sprintf("Остаток долга %s. Сколько гасим?", utils.FormatMoney(d.Left)), cancelKB())
}

func (b *Bot) textRepay(c *ctx, flow *RepayFlow, text string) {
	v, err := utils.ParseFloat(text)
	if err != nil || v <= 0 {
		b.send(c.chat, "Нужна сумма числом, не больше остатка")
		return
	}
	closed, left, err := b.ops.RepayPartial(flow.RowNum, v, displayName(c.user))
	if err != nil {
		b.send(c.chat, fmt.Sprintf("❌ %v", err))
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Погашение долга",
		"частично, "+utils.FormatMoney(v))
	b.states.reset(c.user.ID)
	if closed {
		b.sendKB(c.chat, "✅ Долг закрыт полностью!", backToMainKB())
		return
	}
	b.sendKB(c.chat, fmt.Sprintf("✅ Принято %s, остаток долга %s.",
		utils.FormatMoney(v), utils.FormatMoney(left)), backToMainKB())
}

func (b *Bot) textSearchDebt(c *ctx, _ *SearchDebtFlow, text string) {
	rows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Поиск долгов", err)
		return
	}
	b.states.reset(c.user.ID)
	debts, rowNums, _ := ledger.OpenDebts(rows)
	needle := strings.ToLower(strings.TrimSpace(text))

	var kbRows [][]tgbotapi.InlineKeyboardButton
	for i, d := range debts {
		if !strings.Contains(strings.ToLower(d.Supplier), needle) {
			continue
		}
		label := fmt.Sprintf("%s — %s (до %s)", d.Supplier, utils.FormatMoney(d.Left), d.DueDate)
		kbRows = append(kbRows, row(btn(label, CB(acDebt, "show", strconv.Itoa(rowNums[i])))))
	}
	if len(kbRows) == 0 {
		b.sendKB(c.chat, "По запросу «"+text+"» открытых долгов нет.", keyboard(backRow(CB(acDebt, "menu"))))
		return
	}
	kbRows = append(kbRows, backRow(CB(acDebt, "menu")))
	b.sendKB(c.chat, "🔍 Найдено:", keyboard(kbRows...))
}

func (b *Bot) showUpcomingDebts(c *ctx) {
	rows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Долги", err)
		return
	}
	var sb strings.Builder
	sb.WriteString("🔜 Долги на ближайшую неделю:\n")
	total := 0.0
	for _, day := range utils.DaysBetween(b.now(), b.now().AddDate(0, 0, 7)) {
		date := utils.FormatDate(day)
		sum, due, _ := ledger.DebtsForDate(rows, date)
		if len(due) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n📆 %s — %s:\n", date, utils.FormatMoney(sum))
		for _, d := range due {
			fmt.Fprintf(&sb, "• %s — %s\n", d.Supplier, utils.FormatMoney(d.Left))
		}
		total += sum
	}
	if total == 0 {
		sb.WriteString("— ничего не горит 👌\n")
	} else {
		fmt.Fprintf(&sb, "\nВсего к оплате: <b>%s</b>", utils.FormatMoney(total))
	}
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(backRow(CB(acDebt, "menu"))))
}

func (b *Bot) showDebtsHistory(c *ctx, page int) {
	rows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "История долгов", err)
		return
	}
	var closed []models.Debt
	for i := len(rows) - 1; i >= 1; i-- {
		d, err := models.ParseDebt(rows[i])
		if err != nil || !strings.EqualFold(d.Closed, "Да") {
			continue
		}
		closed = append(closed, d)
	}
	if len(closed) == 0 {
		b.editKB(c.chat, c.msgID, "История погашений пуста.", keyboard(backRow(CB(acDebt, "menu"))))
		return
	}

	start := page * debtsPerPage
	if start >= len(closed) {
		start = 0
		page = 0
	}
	end := start + debtsPerPage
	if end > len(closed) {
		end = len(closed)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Погашенные долги (%d–%d из %d):\n\n", start+1, end, len(closed))
	for _, d := range closed[start:end] {
		fmt.Fprintf(&sb, "• %s — %s (накладная от %s)\n", d.Supplier, utils.FormatMoney(d.Amount), d.Date)
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, btn("◀️", CB(acDebt, "hist", strconv.Itoa(page-1))))
	}
	if end < len(closed) {
		nav = append(nav, btn("▶️", CB(acDebt, "hist", strconv.Itoa(page+1))))
	}
	kbRows := [][]tgbotapi.InlineKeyboardButton{}
	if len(nav) > 0 {
		kbRows = append(kbRows, nav)
	}
	kbRows = append(kbRows, backRow(CB(acDebt, "menu")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

// skippedFooter — приписка для админов про нечитаемые строки листа.
func (b *Bot) skippedFooter(c *ctx, skipped int) string {
	if skipped == 0 || !b.isAdmin(c.user.ID) {
		return ""
	}
	return fmt.Sprintf("\n\n⚠️ Нечитаемых строк пропущено: %d", skipped)
}
