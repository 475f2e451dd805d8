package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

func (b *Bot) cbSupplier(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "start":
		suppliers, err := b.activeSuppliers()
		if err != nil {
			b.fail(c.chat, "Накладная", err)
			return
		}
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suppliers)+2)
		for _, s := range suppliers {
			rows = append(rows, row(btn(s, CB(acSup, "pick", s))))
		}
		rows = append(rows,
			row(btn("✍️ Другой поставщик", CB(acSup, "other"))),
			row(btn("❌ Отмена", CB(acCancel))))
		c.st.Flow = &SupplierFlow{Step: supplierStepName}
		b.editKB(c.chat, c.msgID, "📦 Накладная. От кого приход?", keyboard(rows...))

	case "pick":
		flow, ok := c.st.Flow.(*SupplierFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Invoice.Supplier = cb.Rest(1)
		flow.Step = supplierStepIncome
		b.sendKB(c.chat, "Сумма прихода:", cancelKB())

	case "other":
		flow, ok := c.st.Flow.(*SupplierFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Step = supplierStepName
		b.sendKB(c.chat, "Название поставщика:", cancelKB())

	case "pay":
		flow, ok := c.st.Flow.(*SupplierFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Invoice.PayType = cb.Rest(1)
		if flow.Invoice.PayType == models.PayDebt {
			flow.Step = supplierStepDueDate
			b.sendKB(c.chat, "Срок погашения:", dueDateKB(b.now()))
			return
		}
		flow.Step = supplierStepComment
		b.sendKB(c.chat, "Комментарий:", skipCancelKB(CB(acSup, "skipcomment")))

	case "due":
		flow, ok := c.st.Flow.(*SupplierFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Invoice.DueDate = cb.Arg(1)
		flow.Step = supplierStepComment
		b.sendKB(c.chat, "Комментарий:", skipCancelKB(CB(acSup, "skipcomment")))

	case "skipcomment":
		flow, ok := c.st.Flow.(*SupplierFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Invoice.Comment = ""
		b.showInvoiceConfirm(c, flow)

	case "save":
		flow, ok := c.st.Flow.(*SupplierFlow)
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
		b.saveInvoice(c, flow)
	}
}

func (b *Bot) textSupplier(c *ctx, flow *SupplierFlow, text string) {
	switch flow.Step {
	case supplierStepName:
		flow.Invoice.Supplier = text
		flow.Step = supplierStepIncome
		b.sendKB(c.chat, "Сумма прихода:", cancelKB())

	case supplierStepIncome:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Invoice.Income = v
		flow.Step = supplierStepWriteOff
		b.sendKB(c.chat, "Возврат/списание (0, если нет):", cancelKB())

	case supplierStepWriteOff:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Invoice.WriteOff = v
		flow.Step = supplierStepMarked
		b.sendKB(c.chat, "Сумма после наценки:", cancelKB())

	case supplierStepMarked:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Invoice.Marked = v
		flow.Step = supplierStepPayType
		b.sendKB(c.chat, "Тип оплаты:", payTypeKB(acSup, "pay"))

	case supplierStepDueDate:
		d, err := utils.ParseDate(text)
		if err != nil {
			b.send(c.chat, "Дата в формате ДД.ММ.ГГГГ, например 20.06.2025")
			return
		}
		flow.Invoice.DueDate = utils.FormatDate(d)
		flow.Step = supplierStepComment
		b.sendKB(c.chat, "Комментарий:", skipCancelKB(CB(acSup, "skipcomment")))

	case supplierStepComment:
		flow.Invoice.Comment = text
		b.showInvoiceConfirm(c, flow)

	default:
		b.send(c.chat, "Сейчас жду нажатия кнопки")
	}
}

func (b *Bot) showInvoiceConfirm(c *ctx, flow *SupplierFlow) {
	flow.Step = supplierStepConfirm
	inv := flow.Invoice
	payable := inv.Income - inv.WriteOff
	text := fmt.Sprintf(
		"Проверьте накладную:\n\n"+
			"🏷 Поставщик: %s\n"+
			"📥 Приход: %s\n"+
			"↩️ Возврат/списание: %s\n"+
			"💸 К оплате: %s\n"+
			"🏪 После наценки: %s\n"+
			"💳 Оплата: %s\n",
		inv.Supplier, utils.FormatMoney(inv.Income), utils.FormatMoney(inv.WriteOff),
		utils.FormatMoney(payable), utils.FormatMoney(inv.Marked), inv.PayType)
	if inv.PayType == models.PayDebt {
		text += fmt.Sprintf("📅 Срок: %s\n", inv.DueDate)
	}
	text += fmt.Sprintf("💬 Комментарий: %s", orDash(inv.Comment))
	b.sendKB(c.chat, text, confirmKB(CB(acSup, "save")))
}

func (b *Bot) saveInvoice(c *ctx, flow *SupplierFlow) {
	inv := flow.Invoice
	inv.Date = b.now()
	inv.Author = displayName(c.user)
	if err := b.ops.SaveInvoice(inv); err != nil {
		b.fail(c.chat, "Сохранение накладной", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Накладная",
		fmt.Sprintf("%s, %s, %s", inv.Supplier, utils.FormatMoney(inv.Income-inv.WriteOff), inv.PayType))
	b.states.reset(c.user.ID)

	text := fmt.Sprintf("✅ Накладная от <b>%s</b> сохранена.", inv.Supplier)
	switch inv.PayType {
	case models.PayDebt:
		text += fmt.Sprintf("\n📝 Долг %s до %s записан.",
			utils.FormatMoney(inv.Income-inv.WriteOff), inv.DueDate)
	case models.PayCash:
		text += "\n🏦 Оплата списана из сейфа."
	}
	b.sendKB(c.chat, text, backToMainKB())
}

// dueDateKB — быстрый выбор срока погашения на неделю вперёд.
func dueDateKB(now time.Time) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 5)
	for i := 1; i <= 7; i += 2 {
		d1 := utils.FormatDate(now.AddDate(0, 0, i))
		r := []tgbotapi.InlineKeyboardButton{btn(d1, CB(acSup, "due", d1))}
		if i+1 <= 7 {
			d2 := utils.FormatDate(now.AddDate(0, 0, i+1))
			r = append(r, btn(d2, CB(acSup, "due", d2)))
		}
		rows = append(rows, r)
	}
	rows = append(rows, row(btn("❌ Отмена", CB(acCancel))))
	return keyboard(rows...)
}
