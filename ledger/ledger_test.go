package ledger

import (
	"testing"

	"github.com/Fantastik19951/financebot/models"
)

func safeRow(kind, amount string) []string {
	return []string{"01.06.2025", kind, amount, "", "Сергей"}
}

func TestSafeBalance(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetSafe],
		safeRow(models.SafeDeposit, "1000"),
		safeRow(models.SafeDeposit, "250,50"),
		safeRow(models.SafeWithdraw, "300"),
		safeRow(models.SafeSalary, "700"),
		safeRow(models.SafeExpense, "100"),
	}
	balance, skipped := SafeBalance(rows)
	if balance != 150.5 {
		t.Errorf("баланс = %v, ожидалось 150.5", balance)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, ожидалось 0", skipped)
	}
}

func TestSafeBalanceSkipsBadRows(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetSafe],
		safeRow(models.SafeDeposit, "1000"),
		safeRow(models.SafeDeposit, "не число"),
		safeRow("Неизвестно", "50"),
		{"01.06.2025"},
	}
	balance, skipped := SafeBalance(rows)
	if balance != 1000 {
		t.Errorf("баланс = %v, ожидалось 1000", balance)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, ожидалось 3", skipped)
	}
}

func stockRow(kind, amount string) []string {
	return []string{"01.06.2025", kind, amount, "", "Сергей"}
}

func TestStockBalanceCheckpoint(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetStock],
		stockRow(models.StockStart, "10000"),
		stockRow(models.StockIncoming, "2000"),
		stockRow(models.StockSale, "3000"),
		stockRow(models.StockWriteOff, "500"),
		stockRow(models.StockAdjustment, "100"),
		// переучёт сбрасывает накопленное значение
		stockRow(models.StockRecount, "9000"),
		stockRow(models.StockSale, "1000"),
	}
	balance, skipped := StockBalance(rows)
	if balance != 8000 {
		t.Errorf("остаток = %v, ожидалось 8000", balance)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d", skipped)
	}
}

func TestDebtsForDate(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetDebts],
		{"01.06.2025", "Алекс", "5000", "0", "5000", "10.06.2025", "Нет", "Наличные"},
		{"02.06.2025", "Фактор", "3000", "1000", "2000", "10.06.2025", "Нет", "Наличные"},
		{"03.06.2025", "Сандра", "1000", "1000", "0", "10.06.2025", "Да", "Наличные"},
		{"04.06.2025", "Алекс", "700", "0", "700", "11.06.2025", "Нет", "Наличные"},
	}
	total, due, skipped := DebtsForDate(rows, "10.06.2025")
	if total != 7000 {
		t.Errorf("сумма = %v, ожидалось 7000", total)
	}
	if len(due) != 2 {
		t.Errorf("долгов = %d, ожидалось 2", len(due))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d", skipped)
	}
}

func TestOpenDebtsRowNumbers(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetDebts],
		{"01.06.2025", "Алекс", "5000", "0", "5000", "10.06.2025", "Нет", "Наличные"},
		{"02.06.2025", "Сандра", "1000", "1000", "0", "10.06.2025", "Да", "Наличные"},
		{"03.06.2025", "Фактор", "2000", "0", "2000", "12.06.2025", "Нет", "Карта"},
	}
	debts, rowNums, _ := OpenDebts(rows)
	if len(debts) != 2 {
		t.Fatalf("долгов = %d, ожидалось 2", len(debts))
	}
	if rowNums[0] != 2 || rowNums[1] != 4 {
		t.Errorf("номера строк = %v, ожидалось [2 4]", rowNums)
	}
}

func TestPlanForDate(t *testing.T) {
	rows := [][]string{
		models.Headers[models.SheetPlanFact],
		{"10.06.2025", "Алекс", "2000", "Наличные", "Сергей", "Ожидается"},
		{"10.06.2025", "Фактор", "1500", "Карта", "Сергей", "Ожидается"},
		{"10.06.2025", "Сандра", "500", "Долг", "Мария", "Прибыл"},
		{"11.06.2025", "Алекс", "900", "Наличные", "Мария", "Ожидается"},
	}
	entries, cash, card, total, skipped := PlanForDate(rows, "10.06.2025")
	if len(entries) != 3 {
		t.Fatalf("записей = %d, ожидалось 3", len(entries))
	}
	if cash != 2000 || card != 1500 || total != 4000 {
		t.Errorf("нал=%v карта=%v всего=%v", cash, card, total)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d", skipped)
	}
}

func TestEmptySheets(t *testing.T) {
	if b, _ := SafeBalance(nil); b != 0 {
		t.Errorf("пустой сейф: %v", b)
	}
	if b, _ := StockBalance([][]string{models.Headers[models.SheetStock]}); b != 0 {
		t.Errorf("пустой остаток: %v", b)
	}
}
