package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"grasfrei/internal/baseline"
	"grasfrei/internal/checkin"
	"grasfrei/internal/format"
	"grasfrei/internal/models"
	"grasfrei/internal/store"
)

var (
	checkinUsed    bool
	checkinGrams   float64
	checkinTime    string
	checkinCraving float64
	checkinSleep   float64
	checkinUnrest  float64
	checkinDate    string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Submit the daily check-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateISO := time.Now().Format("2006-01-02")
		if checkinDate != "" {
			if _, err := time.ParseInLocation("2006-01-02", checkinDate, time.Local); err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", checkinDate)
			}
			dateISO = checkinDate
		}

		data := models.DailyCheckinData{
			DateISO:   dateISO,
			UsedToday: checkinUsed,
			Time:      checkinTime,
		}
		if cmd.Flags().Changed("grams") {
			data.AmountGrams = models.Float64(checkinGrams)
		}
		if cmd.Flags().Changed("craving") {
			data.Cravings0to10 = models.Float64(checkinCraving)
		}
		entry := models.CheckinEntry{}
		hasSymptoms := false
		if cmd.Flags().Changed("sleep-trouble") {
			entry.Schlafstoerung = models.Float64(checkinSleep)
			hasSymptoms = true
		}
		if cmd.Flags().Changed("restlessness") {
			entry.Unruhe = models.Float64(checkinUnrest)
			hasSymptoms = true
		}
		if hasSymptoms && !checkinUsed {
			data.Pauses = []models.CheckinEntry{entry}
		}

		return withStore(func(st *store.SQLite) error {
			ctx := cmd.Context()
			profile, err := st.LoadProfile(ctx)
			if err != nil {
				return err
			}
			var rates baseline.Rates
			if profile != nil {
				rates = baseline.Resolve(*profile)
			}
			prior, err := st.LoadDashboard(ctx)
			if err != nil {
				return err
			}

			opts := checkin.Options{
				PricePerGramEUR:       rates.PricePerGram,
				BaselineDailyUseGrams: rates.GramsPerDay,
				Now:                   time.Now(),
			}
			patch := checkin.Normalize(data, prior, opts)

			if logPatch, ok := checkin.BuildDayLogPatch(data, opts); ok {
				if err := st.UpsertDayLog(ctx, dateISO, logPatch); err != nil {
					return err
				}
			}
			if err := st.SaveDashboard(ctx, patch.Apply()); err != nil {
				return err
			}

			locale := format.DefaultLocale
			if profile != nil && profile.Locale != "" {
				locale = profile.Locale
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Check-in saved for %s.\n", dateISO)
			fmt.Fprintf(out, "Smoke-free: %s\n", format.Minutes(float64(patch.SmokeFreeSeconds)/60))
			fmt.Fprintf(out, "Money saved: %s\n", format.Currency(patch.MoneySavedEUR, locale))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(checkinCmd)
	checkinCmd.Flags().BoolVar(&checkinUsed, "used", false, "Whether you consumed today")
	checkinCmd.Flags().Float64Var(&checkinGrams, "grams", 0, "Amount consumed today in grams")
	checkinCmd.Flags().StringVar(&checkinTime, "time", "", "Time of last use HH:MM")
	checkinCmd.Flags().Float64Var(&checkinCraving, "craving", 0, "Craving 0-10")
	checkinCmd.Flags().Float64Var(&checkinSleep, "sleep-trouble", 0, "Sleep trouble 0-10")
	checkinCmd.Flags().Float64Var(&checkinUnrest, "restlessness", 0, "Restlessness 0-10")
	checkinCmd.Flags().StringVar(&checkinDate, "date", "", "Date YYYY-MM-DD (default today)")
}
