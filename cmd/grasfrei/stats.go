package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"grasfrei/internal/format"
	"grasfrei/internal/savings"
	"grasfrei/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the savings dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.SQLite) error {
			ctx := cmd.Context()
			profile, err := st.LoadProfile(ctx)
			if err != nil {
				return err
			}
			if profile == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile yet. Run: grasfrei profile set")
				return nil
			}
			logs, err := st.LoadDayLogs(ctx)
			if err != nil {
				return err
			}
			stats, err := st.LoadDashboard(ctx)
			if err != nil {
				return err
			}

			locale := profile.Locale
			if locale == "" {
				locale = format.DefaultLocale
			}
			sum := savings.Snapshot(*profile, logs, time.Now(), time.Local)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Avoided: %s g / %s joints\n",
				format.Grams(sum.Saved.Grams, locale),
				format.Joints(sum.Saved.Joints, locale))
			fmt.Fprintf(out, "Saved: %s\n", format.Currency(sum.Saved.Money, locale))
			fmt.Fprintf(out, "Time reclaimed: %s\n", format.Minutes(sum.Saved.Minutes))
			fmt.Fprintf(out, "Smoke-free: %s\n", format.Minutes(float64(stats.SmokeFreeSeconds)/60))
			fmt.Fprintf(out, "Craving under control: %.0f%%\n", stats.CravingPct)
			fmt.Fprintf(out, "Withdrawal: %.0f%%  Sleep: %.0f%%\n", stats.WithdrawalPct, stats.SleepPct)
			// Progress toward the next whole avoided joint.
			fmt.Fprintf(out, "Next joint avoided: %.0f%%\n", 100*format.ProgressModulo(sum.Saved.Joints, 1))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
