// Package bot is the Telegram host of the tracker: a personal companion
// bot guiding the daily check-in and rendering the savings dashboard.
// One deployment serves one user; all state lives in the store.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grasfrei/internal/coach"
	"grasfrei/internal/format"
	"grasfrei/internal/models"
	"grasfrei/internal/savings"
	"grasfrei/internal/store"
	"grasfrei/pkg/logger"
)

type TelegramBot struct {
	bot        *tgbotapi.BotAPI
	store      store.Store
	coach      *coach.Client // nil when no API key is configured
	logger     *logger.Logger
	locale     string
	userStates map[int64]*wizardState
	stateMutex sync.RWMutex
}

func NewTelegramBot(token string, st store.Store, coachClient *coach.Client, locale string, l *logger.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	l.Info("Authorized on Telegram", "username", api.Self.UserName)

	return &TelegramBot{
		bot:        api,
		store:      st,
		coach:      coachClient,
		logger:     l,
		locale:     locale,
		userStates: make(map[int64]*wizardState),
	}, nil
}

// Start begins receiving updates from Telegram via polling
func (t *TelegramBot) Start(ctx context.Context) error {
	t.logger.Info("Removing any existing webhook")
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := t.bot.GetUpdatesChan(updateConfig)
	t.logger.Info("Started receiving Telegram updates")

	go t.handleUpdates(ctx, updates)
	return nil
}

// Stop halts update polling.
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.bot.StopReceivingUpdates()
	return nil
}

func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("Recovered from panic while processing update", "error", r)
				}
			}()

			if update.Message == nil {
				return
			}
			if update.Message.IsCommand() {
				t.handleCommand(ctx, update.Message)
			} else {
				t.handleMessage(ctx, update.Message)
			}
		}(update)
	}
}

func (t *TelegramBot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID
	userID := message.From.ID

	t.logger.Info("Handling command", "command", command, "user_id", userID)

	switch command {
	case "start":
		t.clearState(userID)
		profile, err := t.store.LoadProfile(ctx)
		if err != nil {
			t.logger.Error("Failed to load profile", "error", err)
			t.send(chatID, "Da ist etwas schiefgegangen. Versuch es bitte noch einmal.")
			return
		}
		if profile != nil {
			t.send(chatID, "Willkommen zurück! /checkin für den täglichen Check-in, /stats für deine Bilanz.")
			return
		}
		t.setState(userID, &wizardState{step: stepProfileGrams, profile: models.Profile{}})
		t.send(chatID, "Hallo! Ich begleite dich beim Reduzieren.\nWie viel Gramm hast du bisher etwa pro Tag konsumiert? (z.B. 1.5)")

	case "checkin":
		t.setState(userID, &wizardState{
			step: stepCheckinUsed,
			data: models.DailyCheckinData{DateISO: time.Now().Format("2006-01-02")},
		})
		msg := tgbotapi.NewMessage(chatID, "Tages-Check-in: Hast du heute konsumiert?")
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("Ja"),
				tgbotapi.NewKeyboardButton("Nein"),
			),
		)
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Error("Failed to send checkin prompt", "error", err)
		}

	case "log":
		t.handleQuickLog(ctx, chatID, message.CommandArguments())

	case "stats":
		t.sendStats(ctx, chatID)

	case "coach":
		t.sendCoachMessage(ctx, chatID)

	case "help":
		t.send(chatID,
			"/checkin – täglicher Check-in\n"+
				"/log <gramm> – Konsum schnell eintragen\n"+
				"/stats – deine Bilanz\n"+
				"/coach – eine kleine Ermutigung\n"+
				"/start – Profil einrichten")

	default:
		t.send(chatID, "Unbekannter Befehl. /help zeigt, was ich kann.")
	}
}

// handleQuickLog records a consumption right away, outside the check-in.
func (t *TelegramBot) handleQuickLog(ctx context.Context, chatID int64, args string) {
	grams, err := parseNumber(args)
	if err != nil || grams <= 0 {
		t.send(chatID, "Bitte so: /log 0.5")
		return
	}

	now := time.Now()
	dateKey := now.Format("2006-01-02")
	delta := models.DayLog{
		ConsumedGrams:     models.Float64(grams),
		LastConsumptionAt: &now,
		ConsumptionEntries: []models.ConsumptionEntry{
			newEntry(now, grams),
		},
	}
	if err := t.store.AddDayLog(ctx, dateKey, delta); err != nil {
		t.logger.Error("Failed to add day log", "error", err)
		t.send(chatID, "Konnte den Eintrag nicht speichern.")
		return
	}
	t.send(chatID, fmt.Sprintf("Eingetragen: %s g für heute.", format.Grams(grams, t.locale)))
}

func (t *TelegramBot) sendStats(ctx context.Context, chatID int64) {
	profile, err := t.store.LoadProfile(ctx)
	if err != nil || profile == nil {
		t.send(chatID, "Noch kein Profil. Starte mit /start.")
		return
	}
	logs, err := t.store.LoadDayLogs(ctx)
	if err != nil {
		t.logger.Error("Failed to load day logs", "error", err)
		t.send(chatID, "Konnte die Bilanz nicht berechnen.")
		return
	}
	stats, err := t.store.LoadDashboard(ctx)
	if err != nil {
		t.logger.Error("Failed to load dashboard", "error", err)
		t.send(chatID, "Konnte die Bilanz nicht berechnen.")
		return
	}

	sum := savings.Snapshot(*profile, logs, time.Now(), time.Local)
	t.send(chatID, renderDashboard(sum, stats, t.locale))
}

func (t *TelegramBot) sendCoachMessage(ctx context.Context, chatID int64) {
	if t.coach == nil {
		t.send(chatID, "Der Coach ist hier nicht eingerichtet.")
		return
	}
	profile, err := t.store.LoadProfile(ctx)
	if err != nil || profile == nil {
		t.send(chatID, "Noch kein Profil. Starte mit /start.")
		return
	}
	logs, err := t.store.LoadDayLogs(ctx)
	if err != nil {
		t.logger.Error("Failed to load day logs", "error", err)
		return
	}
	sum := savings.Snapshot(*profile, logs, time.Now(), time.Local)

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	text, err := t.coach.Encourage(reqCtx, sum, t.locale)
	if err != nil {
		t.logger.Error("Coach request failed", "error", err)
		t.send(chatID, "Der Coach meldet sich gerade nicht. Versuch es später noch einmal.")
		return
	}
	t.send(chatID, text)
}

func (t *TelegramBot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send message", "error", err)
	}
}

func newEntry(at time.Time, grams float64) models.ConsumptionEntry {
	return models.ConsumptionEntry{
		ID:         newEntryID(),
		CreatedAt:  at,
		Grams:      models.Float64(grams),
		Method:     models.MethodJoint,
		PaidByUser: models.PaidUnknown,
	}
}
