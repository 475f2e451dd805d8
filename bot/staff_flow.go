package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/reports"
	"github.com/Fantastik19951/financebot/utils"
)

func (b *Bot) cbShift(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		b.editKB(c.chat, c.msgID, "👥 Персонал", staffMenuKB(b.isAdmin(c.user.ID)))
	case "cal":
		ym := cb.Arg(1)
		mode := cb.Arg(2)
		if mode == "edit" && !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Менять смены могут только админы")
			return
		}
		b.showShiftCalendar(c, ym, mode)
	case "day":
		if !b.isAdmin(c.user.ID) {
			return
		}
		b.showShiftDay(c, cb.Arg(1))
	case "set":
		if !b.isAdmin(c.user.ID) {
			return
		}
		b.toggleShiftSeller(c, cb.Arg(1), cb.Rest(2))
	}
}

func (b *Bot) showShiftCalendar(c *ctx, ym, mode string) {
	month := b.now()
	if ym != "" {
		if t, err := time.ParseInLocation("2006-01", ym, b.loc); err == nil {
			month = t
		}
	}
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, b.loc)

	shiftRows, err := b.ops.Cache.Get(models.SheetShifts, false)
	if err != nil {
		b.fail(c.chat, "Календарь смен", err)
		return
	}
	byDate := make(map[string][]string)
	for i := 1; i < len(shiftRows); i++ {
		sh := models.ParseShift(shiftRows[i])
		byDate[sh.Date] = sh.Sellers
	}

	monthNames := []string{"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Смены: %s %d\n", monthNames[int(first.Month())], first.Year())
	if mode == "edit" {
		sb.WriteString("Нажмите на день, чтобы изменить состав.\n")
	}
	sb.WriteString("\n")
	for _, day := range utils.DaysBetween(first, first.AddDate(0, 1, -1)) {
		if sellers := byDate[utils.FormatDate(day)]; len(sellers) > 0 {
			fmt.Fprintf(&sb, "%02d — %s\n", day.Day(), strings.Join(sellers, ", "))
		}
	}

	var kbRows [][]tgbotapi.InlineKeyboardButton
	kbRows = append(kbRows, row(
		btn("Пн", CB(acNoop)), btn("Вт", CB(acNoop)), btn("Ср", CB(acNoop)),
		btn("Чт", CB(acNoop)), btn("Пт", CB(acNoop)), btn("Сб", CB(acNoop)), btn("Вс", CB(acNoop))))

	week := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	offset := int(first.Weekday())
	if offset == 0 {
		offset = 7
	}
	for i := 1; i < offset; i++ {
		week = append(week, btn(" ", CB(acNoop)))
	}
	last := first.AddDate(0, 1, -1)
	for _, day := range utils.DaysBetween(first, last) {
		date := utils.FormatDate(day)
		label := strconv.Itoa(day.Day())
		if len(byDate[date]) > 0 {
			label += "•"
		}
		data := CB(acNoop)
		if mode == "edit" {
			data = CB(acShift, "day", date)
		}
		week = append(week, btn(label, data))
		if len(week) == 7 {
			kbRows = append(kbRows, week)
			week = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, btn(" ", CB(acNoop)))
		}
		kbRows = append(kbRows, week)
	}

	prev := first.AddDate(0, -1, 0).Format("2006-01")
	next := first.AddDate(0, 1, 0).Format("2006-01")
	kbRows = append(kbRows, row(
		btn("◀️", CB(acShift, "cal", prev, mode)),
		btn("▶️", CB(acShift, "cal", next, mode))))
	kbRows = append(kbRows, backRow(CB(acShift, "menu")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) showShiftDay(c *ctx, date string) {
	shiftRows, err := b.ops.Cache.Get(models.SheetShifts, false)
	if err != nil {
		b.fail(c.chat, "Календарь смен", err)
		return
	}
	var assigned []string
	for i := 1; i < len(shiftRows); i++ {
		sh := models.ParseShift(shiftRows[i])
		if sh.Date == date {
			assigned = sh.Sellers
			break
		}
	}
	onShift := make(map[string]bool)
	for _, s := range assigned {
		onShift[s] = true
	}

	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, s := range config.Sellers {
		mark := "☐"
		if onShift[s] {
			mark = "✅"
		}
		kbRows = append(kbRows, row(btn(mark+" "+s, CB(acShift, "set", date, s))))
	}
	ym := ""
	if d, err := utils.ParseDate(date); err == nil {
		ym = d.Format("2006-01")
	}
	kbRows = append(kbRows, backRow(CB(acShift, "cal", ym, "edit")))
	text := fmt.Sprintf("📅 %s\nНа смене: %s\nДо двух продавцов на день.",
		date, orDash(strings.Join(assigned, ", ")))
	b.editKB(c.chat, c.msgID, text, keyboard(kbRows...))
}

func (b *Bot) toggleShiftSeller(c *ctx, date, seller string) {
	shiftRows, err := b.ops.Store.Rows(models.SheetShifts)
	if err != nil {
		b.fail(c.chat, "Календарь смен", err)
		return
	}
	var assigned []string
	for i := 1; i < len(shiftRows); i++ {
		sh := models.ParseShift(shiftRows[i])
		if sh.Date == date {
			assigned = sh.Sellers
			break
		}
	}

	found := false
	next := make([]string, 0, 2)
	for _, s := range assigned {
		if s == seller {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		if len(assigned) >= 2 {
			b.send(c.chat, "На дату уже назначены два продавца")
			return
		}
		next = append(next, seller)
	}

	if err := b.ops.UpsertShift(date, next); err != nil {
		b.fail(c.chat, "Календарь смен", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Смены",
		fmt.Sprintf("%s: %s", date, orDash(strings.Join(next, ", "))))
	b.showShiftDay(c, date)
}

// --- Зарплаты ---

func (b *Bot) cbSalary(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		var kbRows [][]tgbotapi.InlineKeyboardButton
		for _, s := range config.Sellers {
			if config.SalariedSellers[s] {
				kbRows = append(kbRows, row(btn(s, CB(acSalary, "sel", s))))
			}
		}
		kbRows = append(kbRows, backRow(CB(acShift, "menu")))
		b.editKB(c.chat, c.msgID, "💵 Зарплаты. Кого смотрим?", keyboard(kbRows...))
	case "sel":
		b.showSalaryDetails(c, cb.Rest(1))
	case "pay":
		if !b.isAdmin(c.user.ID) {
			b.send(c.chat, "🚫 Выплачивать бонус могут только админы")
			return
		}
		seller := cb.Rest(1)
		b.sendKB(c.chat, fmt.Sprintf("Выплатить бонус продавцу %s за текущий период?", seller),
			confirmKB(CB(acSalary, "payok", seller)))
	case "payok":
		if !b.isAdmin(c.user.ID) {
			return
		}
		if c.st.Busy {
			b.send(c.chat, "⏳ Уже сохраняю, секунду")
			return
		}
		c.st.Busy = true
		defer func() { c.st.Busy = false }()
		b.payBonus(c, cb.Rest(1))
	case "hist":
		b.showPayoutHistory(c, cb.Rest(2), cb.Int(1))
	}
}

func (b *Bot) showSalaryDetails(c *ctx, seller string) {
	reportRows, err := b.ops.Cache.Get(models.SheetReports, false)
	if err != nil {
		b.fail(c.chat, "Зарплаты", err)
		return
	}
	salaryRows, err := b.ops.Cache.Get(models.SheetSalaries, false)
	if err != nil {
		b.fail(c.chat, "Зарплаты", err)
		return
	}
	start, end := ledger.PayrollPeriod(b.now())
	label := ledger.PeriodLabel(start, end)
	toPay, days, skipped := ledger.BonusToPay(seller, reportRows, salaryRows, start, end)
	accrued, _, _ := ledger.AccruedBonus(seller, reportRows, start, end)
	paid, _ := ledger.PaidBonus(seller, salaryRows, label)

	var sb strings.Builder
	fmt.Fprintf(&sb, "💵 <b>%s</b>\nПериод: %s\n\n", seller, label)
	if len(days) == 0 {
		sb.WriteString("Премиальных дней пока нет.\n")
	}
	for _, d := range days {
		fmt.Fprintf(&sb, "• %s — выручка %s, премия %s\n",
			utils.FormatDate(d.Date), utils.FormatMoney(d.Sales), utils.FormatMoney(d.Bonus))
	}
	fmt.Fprintf(&sb, "\nНачислено: %s\nВыплачено: %s\nК выплате: <b>%s</b>",
		utils.FormatMoney(accrued), utils.FormatMoney(paid), utils.FormatMoney(toPay))
	sb.WriteString(b.skippedFooter(c, skipped))

	var kbRows [][]tgbotapi.InlineKeyboardButton
	if toPay > 0 && b.isAdmin(c.user.ID) {
		kbRows = append(kbRows, row(btn("💸 Выплатить "+utils.FormatMoney(toPay), CB(acSalary, "pay", seller))))
	}
	kbRows = append(kbRows,
		row(btn("🗂 История выплат", CB(acSalary, "hist", "0", seller))),
		backRow(CB(acSalary, "menu")))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

func (b *Bot) payBonus(c *ctx, seller string) {
	reportRows, err := b.ops.Cache.Get(models.SheetReports, true)
	if err != nil {
		b.fail(c.chat, "Выплата бонуса", err)
		return
	}
	salaryRows, err := b.ops.Cache.Get(models.SheetSalaries, true)
	if err != nil {
		b.fail(c.chat, "Выплата бонуса", err)
		return
	}
	start, end := ledger.PayrollPeriod(b.now())
	label := ledger.PeriodLabel(start, end)
	toPay, _, _ := ledger.BonusToPay(seller, reportRows, salaryRows, start, end)
	if toPay <= 0 {
		b.sendKB(c.chat, "Выплачивать нечего: бонус за период уже закрыт.", backToMainKB())
		return
	}
	if err := b.ops.PayBonus(seller, toPay, label, displayName(c.user)); err != nil {
		b.fail(c.chat, "Выплата бонуса", err)
		return
	}
	b.ops.LogAction(c.user.ID, displayName(c.user), "Выплата бонуса",
		fmt.Sprintf("%s, %s", seller, utils.FormatMoney(toPay)))
	b.sendKB(c.chat, fmt.Sprintf("✅ Выплачено %s продавцу %s, сумма списана из сейфа.",
		utils.FormatMoney(toPay), seller), backToMainKB())
}

func (b *Bot) showPayoutHistory(c *ctx, seller string, page int) {
	salaryRows, err := b.ops.Cache.Get(models.SheetSalaries, false)
	if err != nil {
		b.fail(c.chat, "История выплат", err)
		return
	}
	var payouts []models.SalaryOp
	for i := len(salaryRows) - 1; i >= 1; i-- {
		s, err := models.ParseSalaryOp(salaryRows[i])
		if err != nil || s.Seller != seller || s.Kind != models.SalaryPayout {
			continue
		}
		payouts = append(payouts, s)
	}

	const perPage = 8
	start := page * perPage
	if start >= len(payouts) {
		start = 0
		page = 0
	}
	end := start + perPage
	if end > len(payouts) {
		end = len(payouts)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Выплаты бонуса: %s\n\n", seller)
	if len(payouts) == 0 {
		sb.WriteString("— выплат пока не было\n")
	}
	for _, p := range payouts[start:end] {
		fmt.Fprintf(&sb, "• %s — %s (%s)\n", utils.FormatDate(p.Date), utils.FormatMoney(p.Amount), p.Comment)
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, btn("◀️", CB(acSalary, "hist", strconv.Itoa(page-1), seller)))
	}
	if end < len(payouts) {
		nav = append(nav, btn("▶️", CB(acSalary, "hist", strconv.Itoa(page+1), seller)))
	}
	kbRows := [][]tgbotapi.InlineKeyboardButton{}
	if len(nav) > 0 {
		kbRows = append(kbRows, nav)
	}
	kbRows = append(kbRows, backRow(CB(acSalary, "sel", seller)))
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(kbRows...))
}

// --- Статистика продавцов ---

func (b *Bot) cbStats(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		var kbRows [][]tgbotapi.InlineKeyboardButton
		for _, s := range config.Sellers {
			kbRows = append(kbRows, row(btn(s, CB(acStats, "sel", s))))
		}
		kbRows = append(kbRows,
			row(btn("⚖️ Сравнение (график)", CB(acStats, "cmp"))),
			backRow(CB(acShift, "menu")))
		b.editKB(c.chat, c.msgID, "📈 Статистика за последние 30 дней:", keyboard(kbRows...))
	case "sel":
		b.showSellerStats(c, cb.Rest(1))
	case "cmp":
		b.showSellersComparison(c)
	}
}

func (b *Bot) sellerReports(seller string, since time.Time) ([]models.Report, error) {
	rows, err := b.ops.Cache.Get(models.SheetReports, false)
	if err != nil {
		return nil, err
	}
	var out []models.Report
	for i := 1; i < len(rows); i++ {
		r, err := models.ParseReport(rows[i])
		if err != nil || r.Date.Before(since) {
			continue
		}
		if seller == "" || r.Seller == seller {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *Bot) showSellerStats(c *ctx, seller string) {
	reps, err := b.sellerReports(seller, b.now().AddDate(0, 0, -30))
	if err != nil {
		b.fail(c.chat, "Статистика", err)
		return
	}
	if len(reps) == 0 {
		b.editKB(c.chat, c.msgID, fmt.Sprintf("У %s нет смен за последние 30 дней.", seller),
			keyboard(backRow(CB(acStats, "menu"))))
		return
	}

	total := 0.0
	best := reps[0]
	byWeekday := map[time.Weekday][]float64{}
	for _, r := range reps {
		total += r.Total
		if r.Total > best.Total {
			best = r
		}
		wd := r.Date.Weekday()
		byWeekday[wd] = append(byWeekday[wd], r.Total)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 <b>%s</b> за 30 дней\n\n", seller)
	fmt.Fprintf(&sb, "Смен: %d\n", len(reps))
	fmt.Fprintf(&sb, "Выручка: %s\n", utils.FormatMoney(total))
	fmt.Fprintf(&sb, "Средняя за смену: %s\n", utils.FormatMoney(total/float64(len(reps))))
	fmt.Fprintf(&sb, "Лучший день: %s — %s\n\n", utils.FormatDate(best.Date), utils.FormatMoney(best.Total))
	sb.WriteString("По дням недели:\n")
	for wd := time.Monday; ; wd = (wd + 1) % 7 {
		if vals := byWeekday[wd]; len(vals) > 0 {
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			fmt.Fprintf(&sb, "• %s — в среднем %s\n", weekdayNames[wd.String()], utils.FormatMoney(sum/float64(len(vals))))
		}
		if wd == time.Sunday {
			break
		}
	}
	b.editKB(c.chat, c.msgID, sb.String(), keyboard(backRow(CB(acStats, "menu"))))
}

func (b *Bot) showSellersComparison(c *ctx) {
	names := make([]string, 0, len(config.Sellers))
	totals := make([]float64, 0, len(config.Sellers))
	since := b.now().AddDate(0, 0, -30)
	for _, s := range config.Sellers {
		reps, err := b.sellerReports(s, since)
		if err != nil {
			b.fail(c.chat, "Сравнение", err)
			return
		}
		total := 0.0
		for _, r := range reps {
			total += r.Total
		}
		names = append(names, s)
		totals = append(totals, total)
	}
	png, err := reports.ComparisonChart("Выручка за 30 дней", names, totals)
	if err != nil {
		b.fail(c.chat, "Сравнение", err)
		return
	}
	b.sendPhoto(c.chat, "comparison.png", png, "⚖️ Сравнение продавцов за 30 дней")
}
