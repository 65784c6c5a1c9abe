package main

import (
	"fmt"
	"os"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dayFile is the YAML input of the aggregate command: the meals and the loose
// foods of one meal log (or a whole day).
//
//	meals:
//	  - title: Almoço
//	    foods:
//	      - {calories: 130, protein: 2.7, carbohydrates: 28}
//	foods:
//	  - {calories: 89, protein: 1.1}
type dayFile struct {
	Meals []struct {
		Title string                         `yaml:"title"`
		Foods []nutrition.NutritionalProfile `yaml:"foods"`
	} `yaml:"meals"`
	Foods []nutrition.NutritionalProfile `yaml:"foods"`
}

func loadDayFile(path string) (dayFile, error) {
	var day dayFile
	data, err := os.ReadFile(path)
	if err != nil {
		return day, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &day); err != nil {
		return day, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, m := range day.Meals {
		for _, f := range m.Foods {
			if err := f.Validate(); err != nil {
				return day, fmt.Errorf("meal %q: %w", m.Title, err)
			}
		}
	}
	for _, f := range day.Foods {
		if err := f.Validate(); err != nil {
			return day, err
		}
	}
	return day, nil
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate FILE",
	Short: "Sum the nutrition of the meals and foods in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := loadDayFile(args[0])
		if err != nil {
			return err
		}
		meals := make([][]nutrition.NutritionalProfile, len(day.Meals))
		for i, m := range day.Meals {
			meals[i] = m.Foods
		}
		total := nutrition.MealLogNutrition(meals, day.Foods)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(total); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}
