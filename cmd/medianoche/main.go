package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// Missing .env is fine: flags and ambient env still apply.
	_ = godotenv.Load()
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
}

var rootCmd = &cobra.Command{
	Use:  "medianoche",
	Long: `El Circo de la Medianoche: interroga a la troupe y descubre quién mató a Ñopin Desfijo.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
