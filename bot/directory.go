package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/models"
)

// activeSuppliers — активные поставщики из справочника для списков выбора.
func (b *Bot) activeSuppliers() ([]string, error) {
	rows, err := b.ops.Cache.Get(models.SheetDirectory, false)
	if err != nil {
		return nil, err
	}
	var out []string
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) >= 1 && rows[i][0] != "" {
			if len(rows[i]) < 2 || !strings.EqualFold(rows[i][1], models.SupplierArchived) {
				out = append(out, rows[i][0])
			}
		}
	}
	return out, nil
}

func (b *Bot) cbDirectory(c *ctx, cb Callback) {
	if !b.isAdmin(c.user.ID) {
		b.send(c.chat, "🚫 Справочник доступен только админам")
		return
	}
	switch cb.Arg(0) {
	case "list":
		b.showDirectory(c)
	case "add":
		c.st.Flow = &DirectoryAddFlow{}
		b.sendKB(c.chat, "Название нового поставщика:", cancelKB())
	case "arc":
		b.setSupplierStatus(c, cb.Int(1), models.SupplierArchived)
	case "act":
		b.setSupplierStatus(c, cb.Int(1), models.SupplierActive)
	case "ren":
		b.startRename(c, cb.Int(1))
	}
}

func (b *Bot) showDirectory(c *ctx) {
	rows, err := b.ops.Cache.Get(models.SheetDirectory, false)
	if err != nil {
		b.fail(c.chat, "Справочник", err)
		return
	}
	var sb strings.Builder
	sb.WriteString("📒 Справочник поставщиков\n\n")
	var kbRows [][]tgbotapi.InlineKeyboardButton
	count := 0
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < 1 || rows[i][0] == "" {
			continue
		}
		count++
		name := rows[i][0]
		archived := len(rows[i]) >= 2 && strings.EqualFold(rows[i][1], models.SupplierArchived)
		rn := strconv.Itoa(i + 1)
		if archived {
			fmt.Fprintf(&sb, "🗄 %s (архив)\n", name)
			kbRows = append(kbRows, row(
				btn("↩️ "+name, CB(acDir, "act", rn)),
				btn("✏️", CB(acDir, "ren", rn))))
		} else {
			fmt.Fprintf(&sb, "• %s\n", name)
			kbRows = append(kbRows, row(
				btn("🗄 "+name, CB(acDir, "arc", rn)),
				btn("✏️", CB(acDir, "ren", rn))))
		}
	}
	if count == 0 {
		sb.WriteString("— справочник пуст\n")
	}
	sb.WriteString("\n🗄 — в архив, ↩️ — вернуть, ✏️ — переименовать")
	kbRows = append(kbRows,
		row(btn("➕ Добавить", CB(acDir, "add"))),
		backRow(CB(acMenu, "admin")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) setSupplierStatus(c *ctx, rowNum int, status string) {
	if err := b.ops.Store.UpdateCell(models.SheetDirectory, rowNum, 2, status); err != nil {
		b.fail(c.chat, "Справочник", err)
		return
	}
	b.ops.Cache.Invalidate(models.SheetDirectory)
	b.showDirectory(c)
}

func (b *Bot) startRename(c *ctx, rowNum int) {
	rows, err := b.ops.Store.Rows(models.SheetDirectory)
	if err != nil || rowNum < 2 || rowNum > len(rows) || len(rows[rowNum-1]) < 1 {
		b.send(c.chat, "Поставщик не найден, обновите справочник")
		return
	}
	oldName := rows[rowNum-1][0]
	c.st.Flow = &DirectoryRenameFlow{RowNum: rowNum, OldName: oldName}
	b.sendKB(c.chat, fmt.Sprintf(
		"Новое имя для «%s».\nЗаменится во всех листах: накладные, долги, план, график.", oldName),
		cancelKB())
}

func (b *Bot) textDirectoryAdd(c *ctx, _ *DirectoryAddFlow, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(c.chat, "Название не может быть пустым")
		return
	}
	existing, err := b.activeSuppliers()
	if err == nil {
		for _, s := range existing {
			if strings.EqualFold(s, name) {
				b.send(c.chat, "Такой поставщик уже есть")
				return
			}
		}
	}
	if err := b.ops.Store.Append(models.SheetDirectory, []string{name, models.SupplierActive}); err != nil {
		b.fail(c.chat, "Справочник", err)
		return
	}
	b.ops.Cache.Invalidate(models.SheetDirectory)
	b.ops.LogAction(c.user.ID, displayName(c.user), "Справочник", "добавлен "+name)
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, fmt.Sprintf("✅ Поставщик «%s» добавлен.", name), backToMainKB())
}

func (b *Bot) textDirectoryRename(c *ctx, flow *DirectoryRenameFlow, text string) {
	newName := strings.TrimSpace(text)
	if newName == "" || newName == flow.OldName {
		b.send(c.chat, "Введите новое имя, отличное от старого")
		return
	}
	replaced, err := b.ops.RenameSupplier(flow.OldName, newName)
	if err != nil {
		b.fail(c.chat, "Переименование", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Справочник",
		fmt.Sprintf("переименован %s → %s (%d ячеек)", flow.OldName, newName, replaced))
	b.states.reset(c.user.ID)
	b.sendKB(c.chat, fmt.Sprintf("✅ «%s» → «%s», заменено ячеек: %d.",
		flow.OldName, newName, replaced), backToMainKB())
}
