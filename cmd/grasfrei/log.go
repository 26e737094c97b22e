package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"grasfrei/internal/models"
	"grasfrei/internal/store"
)

var (
	logGrams   float64
	logJoints  float64
	logMinutes float64
	logSpent   float64
	logDate    string
	logMethod  string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a consumption event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logGrams <= 0 && logJoints <= 0 {
			return fmt.Errorf("pass --grams or --joints")
		}
		target := time.Now()
		if logDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", logDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", logDate)
			}
			target = parsed
		}
		dateKey := target.Format("2006-01-02")

		return withStore(func(st *store.SQLite) error {
			entry := models.ConsumptionEntry{
				ID:         uuid.NewString(),
				CreatedAt:  time.Now(),
				Method:     models.ConsumptionMethod(logMethod),
				PaidByUser: models.PaidUnknown,
			}
			delta := models.DayLog{LastConsumptionAt: &entry.CreatedAt}
			if logGrams > 0 {
				entry.Grams = models.Float64(logGrams)
				delta.ConsumedGrams = models.Float64(logGrams)
			}
			if logJoints > 0 {
				entry.Joints = models.Float64(logJoints)
				delta.ConsumedJoints = models.Float64(logJoints)
			}
			if logMinutes > 0 {
				entry.SessionMinutes = models.Float64(logMinutes)
				delta.SessionMinutes = models.Float64(logMinutes)
			}
			if logSpent > 0 {
				entry.AmountSpent = models.Float64(logSpent)
				entry.PaidByUser = models.PaidYes
				delta.MoneySpentEUR = models.Float64(logSpent)
			}
			delta.ConsumptionEntries = []models.ConsumptionEntry{entry}

			if err := st.AddDayLog(cmd.Context(), dateKey, delta); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged for %s.\n", dateKey)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().Float64Var(&logGrams, "grams", 0, "Consumed grams")
	logCmd.Flags().Float64Var(&logJoints, "joints", 0, "Consumed joints")
	logCmd.Flags().Float64Var(&logMinutes, "minutes", 0, "Session minutes")
	logCmd.Flags().Float64Var(&logSpent, "spent", 0, "Money spent in EUR")
	logCmd.Flags().StringVar(&logDate, "date", "", "Date YYYY-MM-DD (default today)")
	logCmd.Flags().StringVar(&logMethod, "method", string(models.MethodJoint), "joint|vape|bong|edible|other")
}
