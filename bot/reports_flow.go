package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/reports"
	"github.com/Fantastik19951/financebot/utils"
)

func (b *Bot) cbReports(c *ctx, cb Callback) {
	switch cb.Arg(0) {
	case "menu":
		b.editKB(c.chat, c.msgID, "📊 Отчёты", reportsMenuKB())

	case "period":
		now := b.now()
		var start, end time.Time
		switch cb.Arg(1) {
		case "week":
			start, end = utils.WeekRange(now)
		case "year":
			start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, b.loc)
			end = time.Date(now.Year(), 12, 31, 0, 0, 0, 0, b.loc)
		default:
			start, end = utils.MonthRange(now)
		}
		b.renderPeriod(c, start, end)

	case "nav":
		start, err1 := utils.ParseDate(cb.Arg(1))
		end, err2 := utils.ParseDate(cb.Arg(2))
		if err1 != nil || err2 != nil {
			b.lostSession(c)
			return
		}
		b.renderPeriod(c, start, end)

	case "custom":
		c.st.Flow = &ReportPeriodFlow{}
		b.sendKB(c.chat, "Период в формате ДД.ММ.ГГГГ-ДД.ММ.ГГГГ:", cancelKB())

	case "dash":
		b.showDashboard(c)

	case "daily":
		date := cb.Arg(1)
		if date == "" {
			date = utils.FormatDate(b.now())
		}
		b.showDailyReport(c, date)

	case "chart":
		start, end := utils.MonthRange(b.now())
		b.sendSalesChart(c, start, end)

	case "excel":
		start, end := utils.MonthRange(b.now())
		b.sendPeriodExcel(c, start, end)
	}
}

func (b *Bot) periodSheets() (reportRows, expenseRows, supplierRows [][]string, err error) {
	if reportRows, err = b.ops.Cache.Get(models.SheetReports, false); err != nil {
		return
	}
	if expenseRows, err = b.ops.Cache.Get(models.SheetExpenses, false); err != nil {
		return
	}
	supplierRows, err = b.ops.Cache.Get(models.SheetSuppliers, false)
	return
}

func (b *Bot) renderPeriod(c *ctx, start, end time.Time) {
	reportRows, expenseRows, supplierRows, err := b.periodSheets()
	if err != nil {
		b.fail(c.chat, "Отчёт", err)
		return
	}
	days, skipped := reports.BuildPeriod(reportRows, expenseRows, supplierRows, start, end)
	if !b.isAdmin(c.user.ID) {
		skipped = 0
	}
	text := reports.PeriodText(days, start, end, skipped)

	span := int(end.Sub(start).Hours()/24) + 1
	prevStart, prevEnd := start.AddDate(0, 0, -span), start.AddDate(0, 0, -1)
	nextStart, nextEnd := end.AddDate(0, 0, 1), end.AddDate(0, 0, span)
	kb := keyboard(
		row(
			btn("◀️", CB(acRep, "nav", utils.FormatDate(prevStart), utils.FormatDate(prevEnd))),
			btn("▶️", CB(acRep, "nav", utils.FormatDate(nextStart), utils.FormatDate(nextEnd)))),
		backRow(CB(acRep, "menu")),
	)
	b.editKB(c.chat, c.msgID, text, kb)
}

func (b *Bot) textReportPeriod(c *ctx, _ *ReportPeriodFlow, text string) {
	parts := strings.Split(strings.ReplaceAll(text, " ", ""), "-")
	if len(parts) != 2 {
		b.send(c.chat, "Формат: 01.06.2025-15.06.2025")
		return
	}
	start, err1 := utils.ParseDate(parts[0])
	end, err2 := utils.ParseDate(parts[1])
	if err1 != nil || err2 != nil || end.Before(start) {
		b.send(c.chat, "Формат: 01.06.2025-15.06.2025, конец не раньше начала")
		return
	}
	b.states.reset(c.user.ID)

	reportRows, expenseRows, supplierRows, err := b.periodSheets()
	if err != nil {
		b.fail(c.chat, "Отчёт", err)
		return
	}
	days, skipped := reports.BuildPeriod(reportRows, expenseRows, supplierRows, start, end)
	if !b.isAdmin(c.user.ID) {
		skipped = 0
	}
	b.sendKB(c.chat, reports.PeriodText(days, start, end, skipped), keyboard(backRow(CB(acRep, "menu"))))
}

func (b *Bot) showDashboard(c *ctx) {
	date := utils.FormatDate(b.now())
	shiftRows, err := b.ops.Cache.Get(models.SheetShifts, false)
	if err != nil {
		b.fail(c.chat, "Сводка", err)
		return
	}
	planRows, err := b.ops.Cache.Get(models.SheetPlanFact, false)
	if err != nil {
		b.fail(c.chat, "Сводка", err)
		return
	}
	debtRows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Сводка", err)
		return
	}
	reportRows, err := b.ops.Cache.Get(models.SheetReports, false)
	if err != nil {
		b.fail(c.chat, "Сводка", err)
		return
	}
	safeRows, err := b.ops.Cache.Get(models.SheetSafe, false)
	if err != nil {
		b.fail(c.chat, "Сводка", err)
		return
	}
	balance, _ := ledger.SafeBalance(safeRows)
	text := reports.DashboardText(shiftRows, planRows, debtRows, reportRows, date, balance)
	b.editKB(c.chat, c.msgID, text, keyboard(backRow(CB(acRep, "menu"))))
}

func (b *Bot) showDailyReport(c *ctx, date string) {
	reportRows, expenseRows, supplierRows, err := b.periodSheets()
	if err != nil {
		b.fail(c.chat, "Отчёт за день", err)
		return
	}
	debtRows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		b.fail(c.chat, "Отчёт за день", err)
		return
	}
	planRows, err := b.ops.Cache.Get(models.SheetPlanFact, false)
	if err != nil {
		b.fail(c.chat, "Отчёт за день", err)
		return
	}
	text := reports.DailyText(reportRows, expenseRows, supplierRows, debtRows, planRows, date)

	d, err := utils.ParseDate(date)
	if err != nil {
		d = b.now()
	}
	prev := utils.FormatDate(d.AddDate(0, 0, -1))
	next := utils.FormatDate(d.AddDate(0, 0, 1))
	kb := keyboard(
		row(btn("◀️ "+prev, CB(acRep, "daily", prev)), btn(next+" ▶️", CB(acRep, "daily", next))),
		backRow(CB(acRep, "menu")),
	)
	b.editKB(c.chat, c.msgID, text, kb)
}

func (b *Bot) sendSalesChart(c *ctx, start, end time.Time) {
	reportRows, expenseRows, supplierRows, err := b.periodSheets()
	if err != nil {
		b.fail(c.chat, "График", err)
		return
	}
	days, _ := reports.BuildPeriod(reportRows, expenseRows, supplierRows, start, end)
	title := fmt.Sprintf("Продажи %s — %s", utils.FormatDate(start), utils.FormatDate(end))
	png, err := reports.SalesChart(title, days)
	if err != nil {
		b.send(c.chat, "❌ График не построить: "+err.Error())
		return
	}
	b.sendPhoto(c.chat, "sales.png", png, "📉 "+title)
}

func (b *Bot) sendPeriodExcel(c *ctx, start, end time.Time) {
	reportRows, expenseRows, supplierRows, err := b.periodSheets()
	if err != nil {
		b.fail(c.chat, "Выгрузка", err)
		return
	}
	days, _ := reports.BuildPeriod(reportRows, expenseRows, supplierRows, start, end)
	data, err := reports.PeriodExcel(days, expenseRows, supplierRows, start, end)
	if err != nil {
		b.fail(c.chat, "Выгрузка", err)
		return
	}
	name := fmt.Sprintf("report_%s_%s.xlsx", start.Format("02.01.2006"), end.Format("02.01.2006"))
	b.sendDocument(c.chat, name, data,
		fmt.Sprintf("📤 Выгрузка %s — %s", utils.FormatDate(start), utils.FormatDate(end)))
}
