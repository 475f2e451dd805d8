package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fantastik19951/financebot/bot"
	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/middleware"
	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/sheets"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, читаем переменные окружения")
	}
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	middleware.InitMetrics()
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})
	r.GET("/metrics", func(c *gin.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	// Настройка временной зоны
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Ошибка загрузки временной зоны: %v", err)
	}

	// Подключение к таблице
	store, err := sheets.Connect(context.Background(), cfg.CredentialsJSON, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Ошибка подключения к таблице: %v", err)
	}
	if err := store.EnsureSheets(models.Headers); err != nil {
		log.Fatalf("Ошибка создания листов: %v", err)
	}
	cache := sheets.NewCache(store, config.CacheTTLSec*time.Second)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Ошибка подключения к Telegram: %v", err)
	}
	b := bot.New(api, store, cache, cfg, location)

	// Планировщик задач
	s := gocron.NewScheduler(location)
	s.Every(1).Day().At("08:30").Do(b.MorningPlanSummary)
	s.Every(1).Day().At("21:30").Do(b.EveningReportReminder)
	s.Every(1).Day().At("07:00").Do(b.DailyReportMail)
	s.StartAsync() // Запуск планировщика в фоновом режиме

	// Метрики в фоне, бот в основной горутине
	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Printf("HTTP-сервер остановлен: %v", err)
		}
	}()

	b.Start()
}
