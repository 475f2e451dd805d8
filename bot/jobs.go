package bot

import (
	"fmt"
	"log"
	"strings"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/ledger"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/reports"
	"github.com/Fantastik19951/financebot/utils"
)

// EveningReportReminder — вечерняя проверка: если смена за сегодня не закрыта,
// напоминаем админам. Запускается планировщиком.
func (b *Bot) EveningReportReminder() {
	log.Println("Запуск вечерней проверки отчёта")
	date := utils.FormatDate(b.now())
	rows, err := b.ops.Cache.Get(models.SheetReports, true)
	if err != nil {
		log.Printf("Проверка отчёта: %v", err)
		return
	}
	for i := 1; i < len(rows); i++ {
		r, err := models.ParseReport(rows[i])
		if err == nil && utils.FormatDate(r.Date) == date {
			log.Println("Отчёт за сегодня уже есть, напоминание не нужно")
			return
		}
	}
	for adminID := range config.Admins {
		b.send(adminID, "⏰ Смена за "+date+" ещё не закрыта!")
	}
}

// MorningPlanSummary — утренняя сводка по плану поставок и долгам на сегодня.
func (b *Bot) MorningPlanSummary() {
	log.Println("Запуск утренней сводки")
	date := utils.FormatDate(b.now())
	planRows, err := b.ops.Cache.Get(models.SheetPlanFact, true)
	if err != nil {
		log.Printf("Утренняя сводка: %v", err)
		return
	}
	debtRows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		log.Printf("Утренняя сводка: %v", err)
		return
	}

	entries, cash, _, total, _ := ledger.PlanForDate(planRows, date)
	debts, due, _ := ledger.DebtsForDate(debtRows, date)
	if len(entries) == 0 && len(due) == 0 {
		log.Println("На сегодня ни плана, ни долгов, сводка не нужна")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "☀️ Доброе утро! План на %s:\n\n", date)
	for _, p := range entries {
		fmt.Fprintf(&sb, "🚚 %s — %s (%s)\n", p.Supplier, utils.FormatMoney(p.Amount), p.PayType)
	}
	if total > 0 {
		fmt.Fprintf(&sb, "Итого поставок: %s, из них наличными %s\n",
			utils.FormatMoney(total), utils.FormatMoney(cash))
	}
	if len(due) > 0 {
		fmt.Fprintf(&sb, "\n💰 Долги к оплате: %s\n", utils.FormatMoney(debts))
		for _, d := range due {
			fmt.Fprintf(&sb, "• %s — %s\n", d.Supplier, utils.FormatMoney(d.Left))
		}
	}
	for adminID := range config.Admins {
		b.send(adminID, sb.String())
	}
}

// DailyReportMail — письмо с отчётом за вчера, если настроен SMTP.
func (b *Bot) DailyReportMail() {
	if !b.cfg.MailEnabled() {
		return
	}
	log.Println("Отправка дневного отчёта на почту")
	date := utils.FormatDate(b.now().AddDate(0, 0, -1))

	reportRows, err := b.ops.Cache.Get(models.SheetReports, true)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}
	expenseRows, err := b.ops.Cache.Get(models.SheetExpenses, false)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}
	supplierRows, err := b.ops.Cache.Get(models.SheetSuppliers, false)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}
	debtRows, err := b.ops.Cache.Get(models.SheetDebts, false)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}
	planRows, err := b.ops.Cache.Get(models.SheetPlanFact, false)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}

	text := reports.DailyText(reportRows, expenseRows, supplierRows, debtRows, planRows, date)
	text = strings.NewReplacer("<b>", "", "</b>", "").Replace(text)
	err = utils.SendEmail(b.cfg.SMTPHost, b.cfg.SMTPPort, b.cfg.SMTPUser, b.cfg.SMTPPassword,
		b.cfg.ReportEmail, "Отчёт магазина за "+date, text)
	if err != nil {
		log.Printf("Отчёт на почту: %v", err)
		return
	}
	log.Println("Отчёт за " + date + " отправлен на почту")
}
