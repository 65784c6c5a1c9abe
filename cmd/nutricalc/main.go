// nutricalc runs the nutrition calculators offline, without the API or a
// database. Handy for checking a goal or a day's totals by hand.
// Usage: go run ./cmd/nutricalc goal --weight 90 --height 1.8 ...
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var todayFlag string

var rootCmd = &cobra.Command{
	Use:           "nutricalc",
	Short:         "nutricalc computes goals, diagnoses and meal totals",
	Long:          "nutricalc runs the mumuca-diet nutrition calculators from the terminal: daily goals, BMI diagnosis, meal slot calories and nutrition totals.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "Reference date YYYY-MM-DD (default today)")
}

// today resolves --today, defaulting to the current UTC date.
func today() (time.Time, error) {
	if todayFlag == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", todayFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q, expected YYYY-MM-DD", todayFlag)
	}
	return t, nil
}
