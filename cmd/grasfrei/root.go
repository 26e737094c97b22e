package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grasfrei/internal/config"
	"grasfrei/internal/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "grasfrei",
	Short: "grasfrei tracks your cannabis reduction from the terminal",
	Long:  "grasfrei is a local-first habit-reduction tracker: log consumption, do your daily check-in, and watch the avoided grams, joints, money, and time add up.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}

// withStore opens the local store for one command invocation.
func withStore(fn func(st *store.SQLite) error) error {
	path := dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.Store.SQLitePath
	}
	st, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
