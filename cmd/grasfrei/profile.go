package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"grasfrei/internal/format"
	"grasfrei/internal/models"
	"grasfrei/internal/store"
)

var (
	profileGramsPerDay  float64
	profileJointsPerDay float64
	profilePricePerGram float64
	profileCostPerJoint float64
	profileSessionMins  float64
	profileLocale       string
	profileResetMoney   bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.SQLite) error {
			p, err := st.LoadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile yet. Run: grasfrei profile set --grams-per-day 1.5 --price-per-gram 8")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Start: %s\n", p.StartAt.Format("2006-01-02 15:04"))
			if p.MoneyStartAt != nil {
				fmt.Fprintf(out, "Money tracking since: %s\n", p.MoneyStartAt.Format("2006-01-02 15:04"))
			}
			if p.GramsPerDayBaseline != nil {
				fmt.Fprintf(out, "Baseline: %s g/day\n", format.Grams(*p.GramsPerDayBaseline, p.Locale))
			}
			if p.JointsPerDayBaseline != nil {
				fmt.Fprintf(out, "Baseline: %s joints/day\n", format.Joints(*p.JointsPerDayBaseline, p.Locale))
			}
			if p.PricePerGram != nil {
				fmt.Fprintf(out, "Price: %s per gram\n", format.Currency(*p.PricePerGram, p.Locale))
			}
			if p.AvgSessionMinutes != nil {
				fmt.Fprintf(out, "Session: %.0f minutes\n", *p.AvgSessionMinutes)
			}
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.SQLite) error {
			ctx := cmd.Context()
			p, err := st.LoadProfile(ctx)
			if err != nil {
				return err
			}
			now := time.Now()
			if p == nil {
				p = &models.Profile{StartAt: now, Locale: format.DefaultLocale}
			}
			if cmd.Flags().Changed("grams-per-day") {
				p.GramsPerDayBaseline = models.Float64(profileGramsPerDay)
			}
			if cmd.Flags().Changed("joints-per-day") {
				p.JointsPerDayBaseline = models.Float64(profileJointsPerDay)
			}
			if cmd.Flags().Changed("price-per-gram") {
				p.PricePerGram = models.Float64(profilePricePerGram)
			}
			if cmd.Flags().Changed("cost-per-joint") {
				p.CostPerJoint = models.Float64(profileCostPerJoint)
			}
			if cmd.Flags().Changed("session-minutes") {
				p.AvgSessionMinutes = models.Float64(profileSessionMins)
			}
			if cmd.Flags().Changed("locale") {
				p.Locale = profileLocale
			}
			// Resetting the money window leaves the quit date untouched,
			// e.g. after declaring a purchase.
			if profileResetMoney {
				p.MoneyStartAt = &now
			}
			if err := st.SaveProfile(ctx, *p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileSetCmd.Flags().Float64Var(&profileGramsPerDay, "grams-per-day", 0, "Baseline grams per day")
	profileSetCmd.Flags().Float64Var(&profileJointsPerDay, "joints-per-day", 0, "Baseline joints per day")
	profileSetCmd.Flags().Float64Var(&profilePricePerGram, "price-per-gram", 0, "Price per gram in EUR")
	profileSetCmd.Flags().Float64Var(&profileCostPerJoint, "cost-per-joint", 0, "Cost per joint in EUR")
	profileSetCmd.Flags().Float64Var(&profileSessionMins, "session-minutes", 0, "Average session length in minutes")
	profileSetCmd.Flags().StringVar(&profileLocale, "locale", "", "Display locale (default de-DE)")
	profileSetCmd.Flags().BoolVar(&profileResetMoney, "reset-money", false, "Restart the money-saved window at now")
}
