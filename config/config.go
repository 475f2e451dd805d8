package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Конфигурация бота. Все значения читаются из окружения один раз на старте,
// .env подхватывается в main через godotenv.
type Config struct {
	TelegramToken   string
	SpreadsheetID   string
	CredentialsJSON []byte
	Port            string
	Timezone        string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ReportEmail  string
}

// Админы и продавцы захардкожены, как и в проде: состав меняется раз в год,
// а опечатка в переменной окружения ломает доступ в кассу.
var (
	Admins = map[int64]bool{
		5144039813: true,
		476179186:  true,
	}

	Sellers = []string{"Сергей", "Наталия", "Людмила", "Мария"}

	// Продавцы на ставке: им при закрытии смены начисляется ставка и премия.
	SalariedSellers = map[string]bool{
		"Мария":   true,
		"Людмила": true,
	}
)

// Параметры зарплаты и кеша.
const (
	DailyRate      = 700.0   // ставка за смену
	BonusPercent   = 0.02    // премия: 2% от выручки
	BonusThreshold = 35000.0 // премия начисляется при выручке выше порога
	CacheTTLSec    = 60
	PayrollDay     = 25 // расчётный период: с 25-го по 24-е
)

func Load() *Config {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		Port:          os.Getenv("PORT"),
		Timezone:      os.Getenv("TZ"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		ReportEmail:   os.Getenv("REPORT_EMAIL"),
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN не задан")
	}
	if cfg.SpreadsheetID == "" {
		log.Fatal("SPREADSHEET_ID не задан")
	}

	if raw := os.Getenv("GOOGLE_CREDENTIALS_JSON"); raw != "" {
		cfg.CredentialsJSON = []byte(raw)
	} else {
		data, err := os.ReadFile("credentials.json")
		if err != nil {
			log.Fatalf("Не найдены учётные данные Google: %v", err)
		}
		cfg.CredentialsJSON = data
	}

	if cfg.Port == "" {
		cfg.Port = "1414"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Kyiv"
	}
	if p := os.Getenv("SMTP_PORT"); p != "" {
		port, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Fatalf("Некорректный SMTP_PORT: %v", err)
		}
		cfg.SMTPPort = port
	} else {
		cfg.SMTPPort = 465
	}

	return cfg
}

// MailEnabled сообщает, настроена ли отправка отчётов на почту.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.ReportEmail != ""
}
