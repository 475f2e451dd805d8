package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

var editFieldLabels = map[string]string{
	FieldIncome:   "Сумма прихода",
	FieldWriteOff: "Возврат/списание",
	FieldMarked:   "Сумма после наценки",
	FieldPayType:  "Тип оплаты",
	FieldDueDate:  "Срок долга",
	FieldComment:  "Комментарий",
}

var editFieldOrder = []string{FieldIncome, FieldWriteOff, FieldMarked, FieldPayType, FieldDueDate, FieldComment}

func (b *Bot) cbInvoice(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "day":
		date := cb.Arg(1)
		if date == "" {
			date = utils.FormatDate(b.now())
		}
		b.showInvoicesDay(c, date)

	case "show":
		b.showSingleInvoice(c, cb.Int(1))

	case "edit":
		if !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Править накладные могут только админы")
			return
		}
		b.startInvoiceEdit(c, cb.Int(1))

	case "editf":
		flow, ok := c.st.Flow.(*InvoiceEditFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		field := cb.Arg(1)
		flow.Selected[field] = !flow.Selected[field]
		b.renderEditFields(c, flow, true)

	case "editgo":
		flow, ok := c.st.Flow.(*InvoiceEditFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Queue = flow.Queue[:0]
		for _, f := range editFieldOrder {
			if flow.Selected[f] {
				flow.Queue = append(flow.Queue, f)
			}
		}
		if len(flow.Queue) == 0 {
			b.send(c.chat, "Отметьте хотя бы одно поле")
			return
		}
		flow.Step = invoiceEditStepValue
		b.promptNextEditField(c, flow)

	case "pay":
		flow, ok := c.st.Flow.(*InvoiceEditFlow)
		if !ok {
			b.lostSession(c)
			return
		}
		flow.Updated.PayType = cb.Rest(1)
		if flow.Updated.PayType == models.PayDebt && flow.Updated.DueDate == "" && !flow.Selected[FieldDueDate] {
			// долг без срока не бывает, дозапрашиваем
			flow.Queue = append([]string{FieldDueDate}, flow.Queue[1:]...)
			b.promptNextEditField(c, flow)
			return
		}
		flow.Queue = flow.Queue[1:]
		b.promptNextEditField(c, flow)

	case "confirm":
		flow, ok := c.st.Flow.(*InvoiceEditFlow)
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
		b.executeInvoiceEdit(c, flow)

	case "del":
		if !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Удалять накладные могут только админы")
			return
		}
		rowNum := cb.Arg(1)
		b.sendKB(c.chat, "Удалить накладную вместе с её записями в сейфе, долгах и остатке?",
			confirmKB(CB(acInv, "delok", rowNum)))

	case "delok":
		if !b.isAdmin(c.user.ID) {
			return
		}
		b.deleteInvoice(c, cb.Int(1))
	}
}

func (b *Bot) showInvoicesDay(c *ctx, date string) {
	rows, err := b.ops.Cache.Get(models.SheetSuppliers, false)
	if err != nil {
		b.fail(c.chat, "Накладные", err)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Накладные за %s:\n\n", date)
	var kbRows [][]tgbotapi.InlineKeyboardButton
	total := 0.0
	found := 0
	for i := 1; i < len(rows); i++ {
		inv, err := models.ParseInvoice(rows[i])
		if err != nil || utils.FormatDate(inv.Date) != date {
			continue
		}
		found++
		total += inv.Payable
		fmt.Fprintf(&sb, "• %s — %s (%s)\n", inv.Supplier, utils.FormatMoney(inv.Payable), inv.PayType)
		kbRows = append(kbRows, row(btn(
			fmt.Sprintf("%s — %s", inv.Supplier, utils.FormatMoney(inv.Payable)),
			CB(acInv, "show", strconv.Itoa(i+1)))))
	}
	if found == 0 {
		sb.WriteString("— пусто\n")
	} else {
		fmt.Fprintf(&sb, "\nИтого к оплате: <b>%s</b>", utils.FormatMoney(total))
	}

	d, err := utils.ParseDate(date)
	if err != nil {
		d = b.now()
	}
	prev := utils.FormatDate(d.AddDate(0, 0, -1))
	next := utils.FormatDate(d.AddDate(0, 0, 1))
	kbRows = append(kbRows,
		row(btn("◀️ "+prev, CB(acInv, "day", prev)), btn(next+" ▶️", CB(acInv, "day", next))),
		backRow(CB(acMenu, "main")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) invoiceAt(rowNum int) (models.Invoice, error) {
	rows, err := b.ops.Store.Rows(models.SheetSuppliers)
	if err != nil {
		return models.Invoice{}, err
	}
	if rowNum < 2 || rowNum > len(rows) {
		return models.Invoice{}, fmt.Errorf("нет строки %d", rowNum)
	}
	return models.ParseInvoice(rows[rowNum-1])
}

func (b *Bot) showSingleInvoice(c *ctx, rowNum int) {
	inv, err := b.invoiceAt(rowNum)
	if err != nil {
		b.fail(c.chat, "Накладная", err)
		return
	}
	date := utils.FormatDate(inv.Date)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 <b>%s</b> от %s\n\n", inv.Supplier, date)
	fmt.Fprintf(&sb, "📥 Приход: %s\n", utils.FormatMoney(inv.Income))
	fmt.Fprintf(&sb, "↩️ Возврат/списание: %s\n", utils.FormatMoney(inv.WriteOff))
	fmt.Fprintf(&sb, "💸 К оплате: %s\n", utils.FormatMoney(inv.Payable))
	fmt.Fprintf(&sb, "🏪 После наценки: %s\n", utils.FormatMoney(inv.Marked))
	fmt.Fprintf(&sb, "💳 Оплата: %s (оплачено: %s)\n", inv.PayType, inv.Paid)
	if inv.PayType == models.PayDebt {
		fmt.Fprintf(&sb, "📅 Долг: %s до %s\n", utils.FormatMoney(inv.Debt), inv.DueDate)
	}
	if inv.History != "" {
		fmt.Fprintf(&sb, "🗂 Погашения: %s\n", inv.History)
	}
	fmt.Fprintf(&sb, "💬 %s\n👤 %s", orDash(inv.Comment), inv.Author)

	rn := strconv.Itoa(rowNum)
	kbRows := [][]tgbotapi.InlineKeyboardButton{}
	if b.isAdmin(c.user.ID) {
		kbRows = append(kbRows, row(
			btn("✏️ Править", CB(acInv, "edit", rn)),
			btn("🗑 Удалить", CB(acInv, "del", rn))))
	}
	kbRows = append(kbRows, backRow(CB(acInv, "day", date)))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) startInvoiceEdit(c *ctx, rowNum int) {
	inv, err := b.invoiceAt(rowNum)
	if err != nil {
		b.fail(c.chat, "Правка накладной", err)
		return
	}
	c.st.Flow = &InvoiceEditFlow{
		Step:     invoiceEditStepFields,
		RowNum:   rowNum,
		Old:      inv,
		Updated:  inv,
		Selected: make(map[string]bool),
	}
	b.renderEditFields(c, c.st.Flow.(*InvoiceEditFlow), false)
}

func (b *Bot) renderEditFields(c *ctx, flow *InvoiceEditFlow, edit bool) {
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, f := range editFieldOrder {
		mark := "☐"
		if flow.Selected[f] {
			mark = "☑"
		}
		kbRows = append(kbRows, row(btn(mark+" "+editFieldLabels[f], CB(acInv, "editf", f))))
	}
	kbRows = append(kbRows,
		row(btn("▶️ Дальше", CB(acInv, "editgo"))),
		row(btn("❌ Отмена", CB(acCancel))))
	text := fmt.Sprintf("✏️ Правка накладной <b>%s</b> от %s.\nЧто меняем?",
		flow.Old.Supplier, utils.FormatDate(flow.Old.Date))
	if edit {
		b.editKB(c.chat, c.msgID, text, keyboard(kbRows...))
	} else {
		b.sendKB(c.chat, text, keyboard(kbRows...))
	}
}

func (b *Bot) promptNextEditField(c *ctx, flow *InvoiceEditFlow) {
	if len(flow.Queue) == 0 {
		b.showEditConfirm(c, flow)
		return
	}
	field := flow.Queue[0]
	switch field {
	case FieldPayType:
		b.sendKB(c.chat, "Новый тип оплаты:", payTypeKB(acInv, "pay"))
	case FieldDueDate:
		b.sendKB(c.chat, "Новый срок долга (ДД.ММ.ГГГГ):", cancelKB())
	case FieldComment:
		b.sendKB(c.chat, "Новый комментарий:", cancelKB())
	default:
		b.sendKB(c.chat, editFieldLabels[field]+" — новое значение:", cancelKB())
	}
}

func (b *Bot) textInvoiceEdit(c *ctx, flow *InvoiceEditFlow, text string) {
	if flow.Step != invoiceEditStepValue || len(flow.Queue) == 0 {
		b.send(c.chat, "Сейчас жду нажатия кнопки")
		return
	}
	field := flow.Queue[0]
	switch field {
	case FieldIncome, FieldWriteOff, FieldMarked:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		switch field {
		case FieldIncome:
			flow.Updated.Income = v
		case FieldWriteOff:
			flow.Updated.WriteOff = v
		case FieldMarked:
			flow.Updated.Marked = v
		}
	case FieldDueDate:
		d, err := utils.ParseDate(text)
		if err != nil {
			b.send(c.chat, "Дата в формате ДД.ММ.ГГГГ")
			return
		}
		flow.Updated.DueDate = utils.FormatDate(d)
	case FieldComment:
		flow.Updated.Comment = text
	}
	flow.Queue = flow.Queue[1:]
	b.promptNextEditField(c, flow)
}

func (b *Bot) showEditConfirm(c *ctx, flow *InvoiceEditFlow) {
	flow.Step = invoiceEditStepConfirm
	old, upd := flow.Old, flow.Updated
	newPayable := upd.Income - upd.WriteOff

	var sb strings.Builder
	sb.WriteString("Проверьте изменения:\n\n")
	line := func(label, was, will string) {
		if was != will {
			fmt.Fprintf(&sb, "%s: %s → <b>%s</b>\n", label, was, will)
		}
	}
	line("📥 Приход", utils.FormatMoney(old.Income), utils.FormatMoney(upd.Income))
	line("↩️ Списание", utils.FormatMoney(old.WriteOff), utils.FormatMoney(upd.WriteOff))
	line("💸 К оплате", utils.FormatMoney(old.Payable), utils.FormatMoney(newPayable))
	line("🏪 После наценки", utils.FormatMoney(old.Marked), utils.FormatMoney(upd.Marked))
	line("💳 Оплата", old.PayType, upd.PayType)
	line("📅 Срок", orDash(old.DueDate), orDash(upd.DueDate))
	line("💬 Комментарий", orDash(old.Comment), orDash(upd.Comment))
	sb.WriteString("\nСейф, долги и остаток будут скорректированы автоматически.")
	b.sendKB(c.chat, sb.String(), confirmKB(CB(acInv, "confirm")))
}

func (b *Bot) executeInvoiceEdit(c *ctx, flow *InvoiceEditFlow) {
	if err := b.ops.EditInvoice(flow.RowNum, flow.Old, flow.Updated); err != nil {
		b.fail(c.chat, "Правка накладной", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Правка накладной",
		fmt.Sprintf("%s от %s", flow.Old.Supplier, utils.FormatDate(flow.Old.Date)))
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, "✅ Накладная обновлена, связанные листы скорректированы.", backToMainKB())
}

func (b *Bot) deleteInvoice(c *ctx, rowNum int) {
	inv, err := b.invoiceAt(rowNum)
	if err != nil {
		b.fail(c.chat, "Удаление накладной", err)
		return
	}
	if err := b.ops.DeleteInvoice(rowNum, inv); err != nil {
		b.fail(c.chat, "Удаление накладной", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Удаление накладной",
		fmt.Sprintf("%s от %s, %s", inv.Supplier, utils.FormatDate(inv.Date), utils.FormatMoney(inv.Payable)))
	b.sendKB(c.chat, "🗑 Накладная удалена, побочные записи откачены.", backToMainKB())
}
