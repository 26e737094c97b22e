package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"grasfrei/internal/baseline"
	"grasfrei/internal/checkin"
	"grasfrei/internal/format"
	"grasfrei/internal/models"
	"grasfrei/internal/savings"
)

// Wizard steps. The profile wizard runs once after /start, the check-in
// wizard on every /checkin.
const (
	stepProfileGrams   = "profile_grams"
	stepProfilePrice   = "profile_price"
	stepProfileSession = "profile_session"

	stepCheckinUsed     = "checkin_used"
	stepCheckinAmount   = "checkin_amount"
	stepCheckinTime     = "checkin_time"
	stepCheckinCraving  = "checkin_craving"
	stepCheckinSleep    = "checkin_sleep"
	stepCheckinRestless = "checkin_restless"
)

type wizardState struct {
	step    string
	profile models.Profile
	data    models.DailyCheckinData
	entry   models.CheckinEntry
}

func (t *TelegramBot) setState(userID int64, s *wizardState) {
	t.stateMutex.Lock()
	t.userStates[userID] = s
	t.stateMutex.Unlock()
}

func (t *TelegramBot) getState(userID int64) (*wizardState, bool) {
	t.stateMutex.RLock()
	s, ok := t.userStates[userID]
	t.stateMutex.RUnlock()
	return s, ok
}

func (t *TelegramBot) clearState(userID int64) {
	t.stateMutex.Lock()
	delete(t.userStates, userID)
	t.stateMutex.Unlock()
}

// handleMessage advances the active wizard, if any.
func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	state, ok := t.getState(userID)
	if !ok {
		t.send(chatID, "Nutze /checkin für den Check-in oder /help für alle Befehle.")
		return
	}

	switch state.step {
	case stepProfileGrams:
		v, err := parseNumber(text)
		if err != nil || v <= 0 {
			t.send(chatID, "Bitte eine Zahl wie 1.5 eingeben.")
			return
		}
		state.profile.GramsPerDayBaseline = models.Float64(v)
		state.step = stepProfilePrice
		t.setState(userID, state)
		t.send(chatID, "Was kostet dich ein Gramm ungefähr (EUR)?")

	case stepProfilePrice:
		v, err := parseNumber(text)
		if err != nil || v < 0 {
			t.send(chatID, "Bitte eine Zahl wie 8.50 eingeben.")
			return
		}
		state.profile.PricePerGram = models.Float64(v)
		state.step = stepProfileSession
		t.setState(userID, state)
		t.send(chatID, "Wie lange dauert eine Session im Schnitt (Minuten)?")

	case stepProfileSession:
		v, err := parseNumber(text)
		if err != nil || v < 0 {
			t.send(chatID, "Bitte eine Zahl wie 15 eingeben.")
			return
		}
		state.profile.AvgSessionMinutes = models.Float64(v)
		state.profile.StartAt = time.Now()
		state.profile.Locale = t.locale
		if err := t.store.SaveProfile(ctx, state.profile); err != nil {
			t.logger.Error("Failed to save profile", "error", err)
			t.send(chatID, "Konnte das Profil nicht speichern.")
			return
		}
		t.clearState(userID)
		t.send(chatID, "Profil gespeichert! Ab jetzt zählt jede Stunde. /checkin für den täglichen Check-in.")

	case stepCheckinUsed:
		switch strings.ToLower(text) {
		case "ja", "yes":
			state.data.UsedToday = true
			state.step = stepCheckinAmount
			t.setState(userID, state)
			t.send(chatID, "Okay, ehrlich währt am längsten. Wie viel Gramm waren es heute?")
		case "nein", "no":
			state.data.UsedToday = false
			state.step = stepCheckinCraving
			t.setState(userID, state)
			t.send(chatID, "Stark! Wie stark war dein Verlangen heute (0–10)?")
		default:
			t.send(chatID, "Bitte mit Ja oder Nein antworten.")
		}

	case stepCheckinAmount:
		v, err := parseNumber(text)
		if err != nil || v < 0 {
			t.send(chatID, "Bitte eine Zahl wie 0.5 eingeben.")
			return
		}
		state.data.AmountGrams = models.Float64(v)
		state.step = stepCheckinTime
		t.setState(userID, state)
		t.send(chatID, "Wann zuletzt? (HH:MM, oder - für jetzt)")

	case stepCheckinTime:
		if text != "-" {
			state.data.Time = text // malformed values fall back to now
		}
		state.step = stepCheckinCraving
		t.setState(userID, state)
		t.send(chatID, "Wie stark war dein Verlangen heute (0–10)?")

	case stepCheckinCraving:
		v, err := parseNumber(text)
		if err != nil {
			t.send(chatID, "Bitte eine Zahl von 0 bis 10 eingeben.")
			return
		}
		state.data.Cravings0to10 = models.Float64(v)
		if state.data.UsedToday {
			t.finishCheckin(ctx, userID, chatID, state)
			return
		}
		state.step = stepCheckinSleep
		t.setState(userID, state)
		t.send(chatID, "Wie stark waren deine Schlafprobleme (0–10)?")

	case stepCheckinSleep:
		v, err := parseNumber(text)
		if err != nil {
			t.send(chatID, "Bitte eine Zahl von 0 bis 10 eingeben.")
			return
		}
		state.entry.Schlafstoerung = models.Float64(v)
		state.step = stepCheckinRestless
		t.setState(userID, state)
		t.send(chatID, "Und wie unruhig warst du (0–10)?")

	case stepCheckinRestless:
		v, err := parseNumber(text)
		if err != nil {
			t.send(chatID, "Bitte eine Zahl von 0 bis 10 eingeben.")
			return
		}
		state.entry.Unruhe = models.Float64(v)
		state.data.Pauses = []models.CheckinEntry{state.entry}
		t.finishCheckin(ctx, userID, chatID, state)

	default:
		t.clearState(userID)
		t.send(chatID, "Da ist etwas durcheinandergeraten. Starte neu mit /checkin.")
	}
}

// finishCheckin normalizes the collected submission and persists both of
// its effects: the day-log patch and the dashboard patch.
func (t *TelegramBot) finishCheckin(ctx context.Context, userID, chatID int64, state *wizardState) {
	t.clearState(userID)

	profile, err := t.store.LoadProfile(ctx)
	if err != nil {
		t.logger.Error("Failed to load profile", "error", err)
		t.send(chatID, "Konnte den Check-in nicht speichern.")
		return
	}
	var rates baseline.Rates
	if profile != nil {
		rates = baseline.Resolve(*profile)
	}
	prior, err := t.store.LoadDashboard(ctx)
	if err != nil {
		t.logger.Error("Failed to load dashboard", "error", err)
		t.send(chatID, "Konnte den Check-in nicht speichern.")
		return
	}

	opts := checkin.Options{
		PricePerGramEUR:       rates.PricePerGram,
		BaselineDailyUseGrams: rates.GramsPerDay,
		Now:                   time.Now(),
	}
	patch := checkin.Normalize(state.data, prior, opts)

	if logPatch, ok := checkin.BuildDayLogPatch(state.data, opts); ok {
		if err := t.store.UpsertDayLog(ctx, state.data.DateISO, logPatch); err != nil {
			t.logger.Error("Failed to upsert day log", "error", err)
			t.send(chatID, "Konnte den Check-in nicht speichern.")
			return
		}
	}
	if err := t.store.SaveDashboard(ctx, patch.Apply()); err != nil {
		t.logger.Error("Failed to save dashboard", "error", err)
		t.send(chatID, "Konnte den Check-in nicht speichern.")
		return
	}

	t.logger.Info("Check-in recorded", "date", state.data.DateISO, "used", state.data.UsedToday)

	if state.data.UsedToday {
		t.send(chatID, "Eingetragen. Morgen ist ein neuer Tag – du schaffst das! /stats zeigt deine Bilanz.")
		return
	}
	t.send(chatID, fmt.Sprintf(
		"Check-in gespeichert! Rauchfrei seit %s. Bisher gespart: %s.",
		format.Minutes(float64(patch.SmokeFreeSeconds)/60),
		format.Currency(patch.MoneySavedEUR, t.locale),
	))
}

func renderDashboard(sum savings.Summary, stats models.DashboardStats, locale string) string {
	var b strings.Builder
	b.WriteString("Deine Bilanz\n")
	b.WriteString(fmt.Sprintf("Vermieden: %s g / %s Joints\n",
		format.Grams(sum.Saved.Grams, locale),
		format.Joints(sum.Saved.Joints, locale)))
	b.WriteString(fmt.Sprintf("Gespart: %s\n", format.Currency(sum.Saved.Money, locale)))
	b.WriteString(fmt.Sprintf("Zeit zurückgewonnen: %s\n", format.Minutes(sum.Saved.Minutes)))
	b.WriteString(fmt.Sprintf("Rauchfrei: %s\n", format.Minutes(float64(stats.SmokeFreeSeconds)/60)))
	b.WriteString(fmt.Sprintf("Verlangen im Griff: %.0f%%", stats.CravingPct))
	return b.String()
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

func newEntryID() string {
	return uuid.NewString()
}
