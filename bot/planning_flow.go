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

var weekdayNames = map[string]string{
	"Monday":    "Понедельник",
	"Tuesday":   "Вторник",
	"Wednesday": "Среда",
	"Thursday":  "Четверг",
	"Friday":    "Пятница",
	"Saturday":  "Суббота",
	"Sunday":    "Воскресенье",
}

func (b *Bot) cbPlan(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		date := cb.Arg(1)
		if date == "" {
			date = utils.FormatDate(b.now().AddDate(0, 0, 1))
		}
		b.showPlanMenu(c, date)

	case "sup":
		date := cb.Arg(1)
		supplier := cb.Rest(2)
		if date == "" || supplier == "" {
			b.lostSession(c)
			return
		}
		c.st.Flow = &PlanningFlow{Step: planningStepAmount, Date: date, Supplier: supplier}
		b.sendKB(c.chat, fmt.Sprintf("🚚 %s на %s. Ожидаемая сумма:", supplier, date), cancelKB())

	case "other":
		date := cb.Arg(1)
		if date == "" {
			b.lostSession(c)
			return
		}
		c.st.Flow = &PlanningFlow{Step: planningStepSupplier, Date: date}
		b.sendKB(c.chat, "Название поставщика:", cancelKB())

	case "pay":
		flow, ok := c.st.Flow.(*PlanningFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Step = planningStepPayType
		b.savePlan(c, flow, cb.Rest(1))

	case "journal":
		date := cb.Arg(1)
		if date == "" {
			date = utils.FormatDate(b.now())
		}
		b.showArrivalsJournal(c, date)

	case "toggle":
		b.togglePlanStatus(c, cb.Int(1), cb.Arg(2))

	case "edit":
		rn, date := cb.Arg(1), cb.Arg(2)
		kb := keyboard(
			row(btn("💰 Сумма", CB(acPlan, "editf", rn, "amount", date))),
			row(btn("💳 Тип оплаты", CB(acPlan, "editf", rn, "pay", date))),
			backRow(CB(acPlan, "menu", date)),
		)
		b.editKB(c.chat, c.msgID, "Что меняем в плане?", kb)

	case "editf":
		rn, field, date := cb.Int(1), cb.Arg(2), cb.Arg(3)
		if field == "amount" {
			c.st.Flow = &PlanEditFlow{RowNum: rn, Date: date, Field: "amount"}
			b.sendKB(c.chat, "Новая сумма:", cancelKB())
			return
		}
		kb := keyboard(
			row(btn("💵 Наличные", CB(acPlan, "setpay", cb.Arg(1), date, models.PayCash)),
				btn("💳 Карта", CB(acPlan, "setpay", cb.Arg(1), date, models.PayCard))),
			row(btn("📝 Долг", CB(acPlan, "setpay", cb.Arg(1), date, models.PayDebt))),
			backRow(CB(acPlan, "menu", date)),
		)
		b.editKB(c.chat, c.msgID, "Новый тип оплаты:", kb)

	case "setpay":
		rn, date, pt := cb.Int(1), cb.Arg(2), cb.Arg(3)
		if err := b.ops.Store.UpdateCell(models.SheetPlanFact, rn, 4, pt); err != nil {
			b.fail(c.chat, "Правка плана", err)
			return
		}
		b.ops.Cache.Invalidate(models.SheetPlanFact)
		b.showPlanMenu(c, date)

	case "del":
		rn, date := cb.Int(1), cb.Arg(2)
		if err := b.ops.Store.DeleteRow(models.SheetPlanFact, rn); err != nil {
			b.fail(c.chat, "Удаление плана", err)
			return
		}
		b.ops.Cache.Invalidate(models.SheetPlanFact)
		b.showPlanMenu(c, date)
	}
}

func (b *Bot) showPlanMenu(c *ctx, date string) {
	planRows, err := b.ops.Cache.Get(models.SheetPlanFact, false)
	if err != nil {
		b.fail(c.chat, "Планирование", err)
		return
	}
	entries, cash, card, total, skipped := ledger.PlanForDate(planRows, date)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚚 План поставок на %s:\n\n", date)
	var kbRows [][]tgbotapi.InlineKeyboardButton

	planned := make(map[string]bool)
	if len(entries) == 0 {
		sb.WriteString("— пока пусто\n")
	}
	rowIdx := planRowNumbers(planRows, date)
	for i, p := range entries {
		planned[p.Supplier] = true
		icon := "⌛"
		if p.Status == models.PlanArrived {
			icon = "✅"
		}
		fmt.Fprintf(&sb, "%s %s — %s (%s)\n", icon, p.Supplier, utils.FormatMoney(p.Amount), p.PayType)
		rn := strconv.Itoa(rowIdx[i])
		kbRows = append(kbRows, row(
			btn("✏️ "+p.Supplier, CB(acPlan, "edit", rn, date)),
			btn("🗑", CB(acPlan, "del", rn, date))))
	}
	if total > 0 {
		fmt.Fprintf(&sb, "\n💵 Наличными: %s, 💳 картой: %s, всего: <b>%s</b>\n",
			utils.FormatMoney(cash), utils.FormatMoney(card), utils.FormatMoney(total))
	}
	sb.WriteString(b.skippedFooter(c, skipped))

	// Поставщики по графику этого дня недели, которых ещё нет в плане.
	for _, s := range b.scheduledSuppliers(date) {
		if !planned[s] {
			kbRows = append(kbRows, row(btn("➕ "+s, CB(acPlan, "sup", date, s))))
		}
	}
	kbRows = append(kbRows, row(btn("✍️ Внеплановый", CB(acPlan, "other", date))))

	d, err := utils.ParseDate(date)
	if err != nil {
		d = b.now().AddDate(0, 0, 1)
	}
	tomorrow := b.now().AddDate(0, 0, 1)
	_, sunday := utils.WeekRange(b.now().AddDate(0, 0, 7))
	var nav []tgbotapi.InlineKeyboardButton
	if d.After(tomorrow) {
		prev := utils.FormatDate(d.AddDate(0, 0, -1))
		nav = append(nav, btn("◀️ "+prev, CB(acPlan, "menu", prev)))
	}
	if d.Before(sunday) {
		next := utils.FormatDate(d.AddDate(0, 0, 1))
		nav = append(nav, btn(next+" ▶️", CB(acPlan, "menu", next)))
	}
	if len(nav) > 0 {
		kbRows = append(kbRows, nav)
	}
	kbRows = append(kbRows, backRow(CB(acMenu, "main")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

// planRowNumbers — номера строк листа плана для записей указанной даты, в том
// порядке, в котором их возвращает ledger.PlanForDate.
func planRowNumbers(rows [][]string, date string) []int {
	var nums []int
	for i := 1; i < len(rows); i++ {
		if _, err := models.ParsePlanEntry(rows[i]); err != nil {
			continue
		}
		if rows[i][0] == date {
			nums = append(nums, i+1)
		}
	}
	return nums
}

// scheduledSuppliers — поставщики из недельного графика для дня недели даты.
func (b *Bot) scheduledSuppliers(date string) []string {
	d, err := utils.ParseDate(date)
	if err != nil {
		return nil
	}
	rows, err := b.ops.Cache.Get(models.SheetSchedule, false)
	if err != nil {
		return nil
	}
	weekday := weekdayNames[d.Weekday().String()]
	var out []string
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) >= 2 && strings.EqualFold(rows[i][0], weekday) && rows[i][1] != "" {
			out = append(out, rows[i][1])
		}
	}
	return out
}

func (b *Bot) textPlanning(c *ctx, flow *PlanningFlow, text string) {
	switch flow.Step {
	case planningStepSupplier:
		flow.Supplier = text
		flow.Step = planningStepAmount
		b.sendKB(c.chat, "Ожидаемая сумма:", cancelKB())
	case planningStepAmount:
		v, err := utils.ParseFloat(text)
		if err != nil || v <= 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Amount = v
		flow.Step = planningStepPayType
		b.sendKB(c.chat, "Тип оплаты:", payTypeKB(acPlan, "pay"))
	default:
		b.send(c.chat, "Сейчас жду нажатия кнопки")
	}
}

func (b *Bot) savePlan(c *ctx, flow *PlanningFlow, payType string) {
	entry := models.PlanEntry{
		Date:     flow.Date,
		Supplier: flow.Supplier,
		Amount:   flow.Amount,
		PayType:  payType,
		Author:   displayName(c.user),
		Status:   models.PlanExpected,
	}
	if err := b.ops.AppendPlan(entry); err != nil {
		b.fail(c.chat, "Планирование", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "План поставки",
		fmt.Sprintf("%s на %s, %s", flow.Supplier, flow.Date, utils.FormatMoney(flow.Amount)))
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, fmt.Sprintf("✅ %s запланирован на %s.", flow.Supplier, flow.Date),
		keyboard(row(btn("К плану", CB(acPlan, "menu", flow.Date))), backRow(CB(acMenu, "main"))))
}

func (b *Bot) textPlanEdit(c *ctx, flow *PlanEditFlow, text string) {
	v, err := utils.ParseFloat(text)
	if err != nil || v <= 0 {
		b.send(c.chat, "Нужна сумма числом")
		return
	}
	if err := b.ops.Store.UpdateCell(models.SheetPlanFact, flow.RowNum, 3, utils.FormatCell(v)); err != nil {
		b.fail(c.chat, "Правка плана", err)
		return
	}
	b.ops.Cache.Invalidate(models.SheetPlanFact)
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, "✅ Сумма обновлена.",
		keyboard(row(btn("К плану", CB(acPlan, "menu", flow.Date))), backRow(CB(acMenu, "main"))))
}

func (b *Bot) showArrivalsJournal(c *ctx, date string) {
	rows, err := b.ops.Cache.Get(models.SheetPlanFact, false)
	if err != nil {
		b.fail(c.chat, "Журнал прибытий", err)
		return
	}
	entries, _, _, _, _ := ledger.PlanForDate(rows, date)
	rowIdx := planRowNumbers(rows, date)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🧾 Журнал прибытий за %s:\n\n", date)
	var kbRows [][]tgbotapi.InlineKeyboardButton
	if len(entries) == 0 {
		sb.WriteString("— записей нет\n")
	}
	for i, p := range entries {
		icon := "⌛"
		if p.Status == models.PlanArrived {
			icon = "✅"
		}
		fmt.Fprintf(&sb, "%s %s — %s (%s)\n", icon, p.Supplier, utils.FormatMoney(p.Amount), p.PayType)
		kbRows = append(kbRows, row(btn(
			icon+" "+p.Supplier,
			CB(acPlan, "toggle", strconv.Itoa(rowIdx[i]), date))))
	}

	d, err := utils.ParseDate(date)
	if err != nil {
		d = b.now()
	}
	prev := utils.FormatDate(d.AddDate(0, 0, -1))
	next := utils.FormatDate(d.AddDate(0, 0, 1))
	kbRows = append(kbRows,
		row(btn("◀️ "+prev, CB(acPlan, "journal", prev)), btn(next+" ▶️", CB(acPlan, "journal", next))),
		backRow(CB(acMenu, "admin")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) togglePlanStatus(c *ctx, rowNum int, date string) {
	rows, err := b.ops.Store.Rows(models.SheetPlanFact)
	if err != nil {
		b.fail(c.chat, "Журнал прибытий", err)
		return
	}
	if rowNum < 2 || rowNum > len(rows) {
		b.send(c.chat, "Запись не найдена, обновите журнал")
		return
	}
	p, err := models.ParsePlanEntry(rows[rowNum-1])
	if err != nil {
		b.send(c.chat, "Запись не читается")
		return
	}
	status := models.PlanArrived
	if p.Status == models.PlanArrived {
		status = models.PlanExpected
	}
	if err := b.ops.Store.UpdateCell(models.SheetPlanFact, rowNum, 6, status); err != nil {
		b.fail(c.chat, "Журнал прибытий", err)
		return
	}
	b.ops.Cache.Invalidate(models.SheetPlanFact)
	b.showArrivalsJournal(c, date)
}
