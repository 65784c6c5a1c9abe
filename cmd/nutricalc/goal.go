package main

import (
	"fmt"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/spf13/cobra"
)

var (
	goalWeight       float64
	goalHeight       float64
	goalTargetWeight float64
	goalBirthDate    string
	goalGender       string
	goalActivity     string
	goalType         string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Compute daily calorie, macro and water targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := today()
		if err != nil {
			return err
		}
		birth, err := time.Parse("2006-01-02", goalBirthDate)
		if err != nil {
			return fmt.Errorf("invalid --birth-date %q, expected YYYY-MM-DD", goalBirthDate)
		}
		gender, err := nutrition.ParseGender(goalGender)
		if err != nil {
			return err
		}
		level, err := nutrition.ParseActivityLevel(goalActivity)
		if err != nil {
			return err
		}
		gt, err := nutrition.ParseGoalType(goalType)
		if err != nil {
			return err
		}

		t, err := nutrition.CalculateGoal(nutrition.GoalInput{
			WeightKG:       goalWeight,
			HeightM:        goalHeight,
			BirthDate:      birth,
			Today:          now,
			Gender:         gender,
			ActivityLevel:  level,
			GoalType:       gt,
			TargetWeightKG: goalTargetWeight,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Age: %d\nBMR: %d kcal\nTDEE: %d kcal\n", t.Age, t.BMR, t.TDEE)
		fmt.Fprintf(out, "Target: %d kcal\n", t.TargetCalories)
		fmt.Fprintf(out, "Protein: %.0fg\nCarbs: %.0fg\nFat: %.0fg\n",
			t.Macronutrients.ProteinG, t.Macronutrients.CarbsG, t.Macronutrients.FatG)
		fmt.Fprintf(out, "Water: %.2f l\n", t.WaterIntakeTarget)
		if t.Deadline != nil {
			fmt.Fprintf(out, "Deadline: %s\n", t.Deadline.Format("2006-01-02"))
		} else {
			fmt.Fprintln(out, "Deadline: none")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)

	goalCmd.Flags().Float64Var(&goalWeight, "weight", 0, "Current weight in kg")
	goalCmd.Flags().Float64Var(&goalHeight, "height", 0, "Height in meters")
	goalCmd.Flags().Float64Var(&goalTargetWeight, "target-weight", 0, "Target weight in kg")
	goalCmd.Flags().StringVar(&goalBirthDate, "birth-date", "", "Birth date YYYY-MM-DD")
	goalCmd.Flags().StringVar(&goalGender, "gender", "", "MALE or FEMALE")
	goalCmd.Flags().StringVar(&goalActivity, "activity", string(nutrition.Sedentary), "Activity level, e.g. MODERATELY_ACTIVE")
	goalCmd.Flags().StringVar(&goalType, "goal", string(nutrition.MaintainWeight), "LOSE_WEIGHT, MAINTAIN_WEIGHT or GAIN_WEIGHT")
	_ = goalCmd.MarkFlagRequired("weight")
	_ = goalCmd.MarkFlagRequired("height")
	_ = goalCmd.MarkFlagRequired("target-weight")
	_ = goalCmd.MarkFlagRequired("birth-date")
	_ = goalCmd.MarkFlagRequired("gender")
}
