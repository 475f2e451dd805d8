package bot

import (
	"fmt"
	"strings"

	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

const historyLimit = 15

func (b *Bot) cbSafe(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		b.showSafeMenu(c)
	case "dep", "wd":
		if !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Операции с сейфом доступны только админам")
			return
		}
		kind := models.SafeDeposit
		prompt := "➕ Сумма пополнения:"
		if cb.Arg(0) == "wd" {
			kind = models.SafeWithdraw
			prompt = "➖ Сумма снятия:"
		}
		c.st.Flow = &SafeOpFlow{Kind: kind}
		b.sendKB(c.chat, prompt, cancelKB())
	case "hist":
		b.showOpsHistory(c, models.SheetSafe, "🏦 Последние операции по сейфу:", CB(acSafe, "menu"))
	}
}

func (b *Bot) showSafeMenu(c *ctx) {
	rows, err := b.ops.Cache.Get(models.SheetSafe, false)
	if err != nil {
		b.fail(c.chat, "Сейф", err)
		return
	}
	balance, skipped := ledger.SafeBalance(rows)
	text := fmt.Sprintf("🏦 Сейф\n\nТекущий баланс: <b>%s</b>", utils.FormatMoney(balance))
	text += b.skippedFooter(c, skipped)
	kb := safeMenuKB(b.isAdmin(c.user.ID))
	if c.q != nil {
		b.editKB(c.chat, c.msgID, text, kb)
	} else {
		b.sendKB(c.chat, text, kb)
	}
}

func (b *Bot) textSafeOp(c *ctx, flow *SafeOpFlow, text string) {
	v, err := utils.ParseFloat(text)
	if err != nil || v <= 0 {
		b.send(c.chat, "Нужна сумма числом")
		return
	}
	comment := "Пополнение вручную"
	if flow.Kind == models.SafeWithdraw {
		comment = "Снятие вручную"
	}
	balance, err := b.ops.AddSafeOp(flow.Kind, v, comment, displayName(c.user))
	if err != nil {
		b.fail(c.chat, "Сейф", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Сейф: "+flow.Kind, utils.FormatMoney(v))
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, fmt.Sprintf("✅ %s на %s.\n🏦 Новый баланс: <b>%s</b>",
		flow.Kind, utils.FormatMoney(v), utils.FormatMoney(balance)), backToMainKB())
}

func (b *Bot) cbStock(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		rows, err := b.ops.Cache.Get(models.SheetStock, false)
		if err != nil {
			b.fail(c.chat, "Остаток магазина", err)
			return
		}
		balance, skipped := ledger.StockBalance(rows)
		text := fmt.Sprintf("🏪 Остаток магазина\n\nРасчётный остаток: <b>%s</b>", utils.FormatMoney(balance))
		text += b.skippedFooter(c, skipped)
		b.editKB(c.chat, c.msgID, text, stockMenuKB(b.isAdmin(c.user.ID)))
	case "exp":
		c.st.Flow = &StockExpenseFlow{Step: stockExpenseStepAmount}
		b.sendKB(c.chat, "➖ Сумма списания:", cancelKB())
	case "hist":
		b.showOpsHistory(c, models.SheetStock, "🏪 Последние операции по остатку:", CB(acStock, "menu"))
	}
}

func (b *Bot) textStockExpense(c *ctx, flow *StockExpenseFlow, text string) {
	switch flow.Step {
	case stockExpenseStepAmount:
		v, err := utils.ParseFloat(text)
		if err != nil || v <= 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Amount = v
		flow.Step = stockExpenseStepComment
		b.sendKB(c.chat, "Что списываем?", cancelKB())
	case stockExpenseStepComment:
		balance, err := b.ops.AddStockOp(models.StockWriteOff, flow.Amount, text, displayName(c.user))
		if err != nil {
			b.fail(c.chat, "Списание", err)
			return
		}
		b.ops.LogAction(c.user.ID, displayName(c.user), "Списание с остатка",
			fmt.Sprintf("%s — %s", utils.FormatMoney(flow.Amount), text))
		b.states.reset(c.user.ID)
		b.sendKB(c.chat, fmt.Sprintf("✅ Списано %s.\n🏪 Остаток: <b>%s</b>",
			utils.FormatMoney(flow.Amount), utils.FormatMoney(balance)), backToMainKB())
	}
}

func (b *Bot) showOpsHistory(c *ctx, sheet, title, backData string) {
	rows, err := b.ops.Cache.Get(sheet, false)
	if err != nil {
		b.fail(c.chat, "История", err)
		return
	}
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	shown := 0
	for i := len(rows) - 1; i >= 1 && shown < historyLimit; i-- {
		op, err := models.ParseOp(rows[i])
		if err != nil {
			continue
		}
		sign := "+"
		switch op.Kind {
		case models.SafeWithdraw, models.SafeSalary, models.SafeExpense,
			models.StockSale, models.StockWriteOff:
			sign = "−"
		case models.StockStart, models.StockRecount:
			sign = "="
		}
		fmt.Fprintf(&sb, "%s %s%s — %s", op.Date, sign, utils.FormatMoney(op.Amount), op.Kind)
		if op.Comment != "" {
			fmt.Fprintf(&sb, " (%s)", op.Comment)
		}
		sb.WriteString("\n")
		shown++
	}
	if shown == 0 {
		sb.WriteString("— операций пока нет\n")
	}
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(backRow(backData)))
}

func (b *Bot) cbRevision(c *ctx, cb Callback) {
	if cb.Arg(0) != "start" {
		return
	}
	if !b.isAdmin(c.user.ID) {
		b.send(c.chat, "🚫 Переучёт доступен только админам")
		return
	}
	rows, err := b.ops.Cache.Get(models.SheetStock, true)
	if err != nil {
		b.fail(c.chat, "Переучёт", err)
		return
	}
	balance, _ := ledger.StockBalance(rows)
	c.st.Flow = &RevisionFlow{Step: revisionStepActual, Calculated: balance}
	b.sendKB(c.chat, fmt.Sprintf(
		"🧮 Переучёт.\nРасчётный остаток: <b>%s</b>\n\nВведите фактическую сумму:",
		utils.FormatMoney(balance)), cancelKB())
}

func (b *Bot) textRevision(c *ctx, flow *RevisionFlow, text string) {
	switch flow.Step {
	case revisionStepActual:
		v, err := utils.ParseFloat(text)
		if err != nil || v < 0 {
			b.send(c.chat, "Нужна сумма числом")
			return
		}
		flow.Actual = v
		flow.Step = revisionStepComment
		b.sendKB(c.chat, "Комментарий к переучёту:", cancelKB())
	case revisionStepComment:
		if err := b.ops.SaveRevision(flow.Calculated, flow.Actual, text, displayName(c.user)); err != nil {
			b.fail(c.chat, "Переучёт", err)
			return
		}
		diff := flow.Actual - flow.Calculated
		b.ops.LogAction(c.user.ID, displayName(c.user), "Переучёт",
			fmt.Sprintf("расчёт %s, факт %s", utils.FormatMoney(flow.Calculated), utils.FormatMoney(flow.Actual)))
		b.states.reset(c.user.ID)
		icon := "✅"
		if diff < 0 {
			icon = "⚠️"
		}
		b.sendKB(c.chat, fmt.Sprintf(
			"%s Переучёт записан.\nРасчёт: %s\nФакт: %s\nРазница: <b>%s</b>",
			icon, utils.FormatMoney(flow.Calculated), utils.FormatMoney(flow.Actual),
			utils.FormatMoney(diff)), backToMainKB())
	}
}
