package nutrition

import (
	"errors"
	"math"
	"testing"
)

func TestDiagnose_KnownValues(t *testing.T) {
	cases := []struct {
		weight float64
		bmi    float64
		class  BMIClassification
	}{
		{70, 22.86, Normal},
		{50, 16.33, Underweight},
		{100, 32.65, ObesityI},
	}
	for _, tc := range cases {
		d, err := Diagnose(BodyMetric{WeightKG: tc.weight, HeightM: 1.75}, "")
		if err != nil {
			t.Fatalf("Diagnose(%.0f kg) error: %v", tc.weight, err)
		}
		if math.Abs(d.BMI.Value-tc.bmi) > 0.005 {
			t.Errorf("BMI(%.0f kg, 1.75 m) = %.2f, want %.2f", tc.weight, d.BMI.Value, tc.bmi)
		}
		if d.BMI.Classification != tc.class {
			t.Errorf("BMI %.2f classified %s, want %s", d.BMI.Value, d.BMI.Classification, tc.class)
		}
	}
}

func TestDiagnose_IdealRangeAndFatRate(t *testing.T) {
	d, err := Diagnose(BodyMetric{WeightKG: 70, HeightM: 1.75}, "18.2%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 18.5 * 1.75² = 56.66, 24.9 * 1.75² = 76.26
	if math.Abs(d.IdealMinimumWeight-56.66) > 0.01 {
		t.Errorf("IdealMinimumWeight = %.2f, want 56.66", d.IdealMinimumWeight)
	}
	if math.Abs(d.IdealMaximumWeight-76.26) > 0.01 {
		t.Errorf("IdealMaximumWeight = %.2f, want 76.26", d.IdealMaximumWeight)
	}
	if d.FatRate != "18.2%" {
		t.Errorf("FatRate = %q, want pass-through %q", d.FatRate, "18.2%")
	}
	if d.BMI.Label != "Peso normal" {
		t.Errorf("Label = %q, want %q", d.BMI.Label, "Peso normal")
	}
}

// TestClassify_Boundaries pins the canonical half-open bands.
func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		bmi  float64
		want BMIClassification
	}{
		{18.49, Underweight},
		{18.5, Normal},
		{24.9, Normal},
		{24.99, Normal},
		{25, Overweight},
		{29.99, Overweight},
		{30, ObesityI},
		{34.99, ObesityI},
		{35, ObesityII},
		{39.99, ObesityII},
		{40, ObesityIII},
		{55, ObesityIII},
	}
	for _, tc := range cases {
		if got := Classify(tc.bmi); got != tc.want {
			t.Errorf("Classify(%.2f) = %s, want %s", tc.bmi, got, tc.want)
		}
		if Classify(tc.bmi).Label() == "" {
			t.Errorf("Classify(%.2f) has no label", tc.bmi)
		}
	}
}

func TestDiagnose_InvalidInput(t *testing.T) {
	for _, m := range []BodyMetric{
		{WeightKG: 0, HeightM: 1.75},
		{WeightKG: 70, HeightM: 0},
		{WeightKG: -70, HeightM: 1.75},
		{WeightKG: 70, HeightM: 0.1},
		{WeightKG: 70, HeightM: 0.49},
		{WeightKG: 70, HeightM: 3.01},
		{WeightKG: 70, HeightM: 175},
	} {
		if _, err := Diagnose(m, ""); !errors.Is(err, ErrInvalidMeasurement) {
			t.Errorf("Diagnose(%+v) = %v, want ErrInvalidMeasurement", m, err)
		}
	}
}

func TestBMI_HeightBounds(t *testing.T) {
	for _, h := range []float64{MinHeightM, MaxHeightM} {
		if _, err := BMI(70, h); err != nil {
			t.Errorf("BMI(70, %v) = %v, want no error at the bound", h, err)
		}
	}
	if _, err := BMI(70, 0.1); !errors.Is(err, ErrInvalidMeasurement) {
		t.Errorf("BMI(70, 0.1) error = %v, want ErrInvalidMeasurement", err)
	}
}
