package main

import (
	"fmt"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/spf13/cobra"
)

var (
	diagWeight float64
	diagHeight float64
)

var diagnosisCmd = &cobra.Command{
	Use:   "diagnosis",
	Short: "Compute BMI, its classification and the ideal weight range",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := nutrition.Diagnose(nutrition.BodyMetric{WeightKG: diagWeight, HeightM: diagHeight}, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "BMI: %.2f (%s)\nIdeal weight: %.1f - %.1f kg\n",
			d.BMI.Value, d.BMI.Label, d.IdealMinimumWeight, d.IdealMaximumWeight)
		return nil
	},
}

var slotsCalories int

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Split a daily calorie goal across meal types",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := nutrition.AllocateDay(slotsCalories)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "TYPE\tKCAL")
		for _, m := range nutrition.AllMealTypes {
			fmt.Fprintf(out, "%s\t%d\n", m, day[m])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnosisCmd, slotsCmd)

	diagnosisCmd.Flags().Float64Var(&diagWeight, "weight", 0, "Weight in kg")
	diagnosisCmd.Flags().Float64Var(&diagHeight, "height", 0, "Height in meters")
	_ = diagnosisCmd.MarkFlagRequired("weight")
	_ = diagnosisCmd.MarkFlagRequired("height")

	slotsCmd.Flags().IntVar(&slotsCalories, "calories", 0, "Daily calorie goal")
	_ = slotsCmd.MarkFlagRequired("calories")
}
