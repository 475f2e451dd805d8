package bot

import (
	"log"
	"runtime/debug"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fantastik19951/financebot/config"
	"github.com/Fantastik19951/financebot/middleware"
	"github.com/Fantastik19951/financebot/sheets"
)

// Bot — телеграм-бот магазина. Все данные живут в таблице, в процессе только
// состояния диалогов и кеш снимков листов.
type Bot struct {
	api    *tgbotapi.BotAPI
	ops    *Ops
	cfg    *config.Config
	loc    *time.Location
	states *states
}

func New(api *tgbotapi.BotAPI, store sheets.Store, cache *sheets.Cache, cfg *config.Config, loc *time.Location) *Bot {
	return &Bot{
		api:    api,
		ops:    &Ops{Store: store, Cache: cache},
		cfg:    cfg,
		loc:    loc,
		states: newStates(),
	}
}

// Start крутит цикл получения апдейтов. Блокирует до закрытия канала.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	log.Printf("Бот запущен: @%s", b.api.Self.UserName)
	for update := range b.api.GetUpdatesChan(u) {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(upd tgbotapi.Update) {
	start := time.Now()
	updType := "other"
	var chatID int64

	switch {
	case upd.CallbackQuery != nil:
		updType = "callback"
		chatID = upd.CallbackQuery.Message.Chat.ID
	case upd.Message != nil:
		updType = "message"
		chatID = upd.Message.Chat.ID
	}

	defer func() {
		if r := recover(); r != nil {
			middleware.HandlerErrors.Inc()
			log.Printf("Паника в обработчике: %v\n%s", r, debug.Stack())
			if chatID != 0 {
				b.send(chatID, "🚨 Критическая ошибка, попробуйте ещё раз или начните с /start")
			}
		}
		middleware.ObserveUpdate(updType, start)
	}()

	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(upd.Message)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return config.Admins[userID]
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

// --- Отправка ---

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения: %v", err)
	}
}

func (b *Bot) sendKB(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения: %v", err)
	}
}

// editKB правит текст и клавиатуру сообщения с кнопками. Ошибку
// "message is not modified" телеграм кидает при повторном нажатии, её глушим.
func (b *Bot) editKB(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		log.Printf("Ошибка правки сообщения: %v", err)
	}
}

func (b *Bot) answer(q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("Ошибка ответа на callback: %v", err)
	}
}

func (b *Bot) alert(q *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(q.ID, text)); err != nil {
		log.Printf("Ошибка ответа на callback: %v", err)
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Ошибка отправки документа: %v", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, name string, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Ошибка отправки фото: %v", err)
	}
}

// fail логирует ошибку и показывает её пользователю.
func (b *Bot) fail(chatID int64, action string, err error) {
	middleware.HandlerErrors.Inc()
	log.Printf("Ошибка (%s): %v", action, err)
	b.send(chatID, "❌ "+action+": ошибка доступа к таблице, попробуйте позже")
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}
