package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/models"
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func keyboard(rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backRow(data string) []tgbotapi.InlineKeyboardButton {
	return row(btn("⬅️ Назад", data))
}

func mainMenuKB(admin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("📝 Закрыть смену", CB(acReport, "start")), btn("📦 Накладная", CB(acSup, "start"))),
		row(btn("📋 Накладные за день", CB(acInv, "day")), btn("🚚 Планирование", CB(acPlan, "menu"))),
		row(btn("💰 Долги", CB(acDebt, "menu")), btn("🏦 Сейф", CB(acSafe, "menu"))),
		row(btn("🏪 Остаток магазина", CB(acStock, "menu")), btn("📊 Отчёты", CB(acRep, "menu"))),
		row(btn("👥 Персонал", CB(acShift, "menu"))),
	}
	if admin {
		rows = append(rows, row(btn("⚙️ Управление", CB(acMenu, "admin"))))
	}
	return keyboard(rows...)
}

func adminMenuKB() tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(btn("📒 Справочник поставщиков", CB(acDir, "list"))),
		row(btn("🧾 Журнал прибытий", CB(acPlan, "journal"))),
		row(btn("🧮 Переучёт", CB(acRev, "start"))),
		backRow(CB(acMenu, "main")),
	)
}

func debtsMenuKB() tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(btn("📜 Все долги", CB(acDebt, "list", "0"))),
		row(btn("🔍 Поиск", CB(acDebt, "search")), btn("🔜 Предстоящие", CB(acDebt, "upcoming"))),
		row(btn("🗂 История погашений", CB(acDebt, "hist", "0"))),
		backRow(CB(acMenu, "main")),
	)
}

func safeMenuKB(admin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("📜 История", CB(acSafe, "hist"))),
	}
	if admin {
		rows = append([][]tgbotapi.InlineKeyboardButton{
			row(btn("➕ Пополнить", CB(acSafe, "dep")), btn("➖ Снять", CB(acSafe, "wd"))),
		}, rows...)
	}
	rows = append(rows, backRow(CB(acMenu, "main")))
	return keyboard(rows...)
}

func stockMenuKB(admin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("➖ Списание", CB(acStock, "exp")), btn("📜 История", CB(acStock, "hist"))),
	}
	if admin {
		rows = append(rows, row(btn("🧮 Переучёт", CB(acRev, "start"))))
	}
	rows = append(rows, backRow(CB(acMenu, "main")))
	return keyboard(rows...)
}

func reportsMenuKB() tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(btn("📅 Неделя", CB(acRep, "period", "week")), btn("🗓 Месяц", CB(acRep, "period", "month"))),
		row(btn("📆 Год", CB(acRep, "period", "year")), btn("✏️ Свой период", CB(acRep, "custom"))),
		row(btn("📈 Дашборд за сегодня", CB(acRep, "dash"))),
		row(btn("🧾 Отчёт за день", CB(acRep, "daily"))),
		row(btn("📉 График продаж", CB(acRep, "chart")), btn("📤 Excel", CB(acRep, "excel"))),
		backRow(CB(acMenu, "main")),
	)
}

func staffMenuKB(admin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("📅 Календарь смен", CB(acShift, "cal", "", "view"))),
		row(btn("💵 Зарплаты", CB(acSalary, "menu"))),
		row(btn("📈 Статистика продавцов", CB(acStats, "menu"))),
	}
	if admin {
		rows = append(rows, row(btn("✏️ Редактировать смены", CB(acShift, "cal", "", "edit"))))
	}
	rows = append(rows, backRow(CB(acMenu, "main")))
	return keyboard(rows...)
}

func payTypeKB(action string, args ...string) tgbotapi.InlineKeyboardMarkup {
	mk := func(pt string) string {
		a := append(append([]string{}, args...), pt)
		return CB(action, a...)
	}
	return keyboard(
		row(btn("💵 Наличные", mk(models.PayCash)), btn("💳 Карта", mk(models.PayCard))),
		row(btn("📝 Долг", mk(models.PayDebt))),
		row(btn("❌ Отмена", CB(acCancel))),
	)
}

func cancelKB() tgbotapi.InlineKeyboardMarkup {
	return keyboard(row(btn("❌ Отмена", CB(acCancel))))
}

func skipCancelKB(skipData string) tgbotapi.InlineKeyboardMarkup {
	return keyboard(row(btn("⏭ Пропустить", skipData), btn("❌ Отмена", CB(acCancel))))
}

func confirmKB(okData string) tgbotapi.InlineKeyboardMarkup {
	return keyboard(row(btn("✅ Подтвердить", okData), btn("❌ Отмена", CB(acCancel))))
}

func backToMainKB() tgbotapi.InlineKeyboardMarkup {
	return keyboard(backRow(CB(acMenu, "main")))
}
