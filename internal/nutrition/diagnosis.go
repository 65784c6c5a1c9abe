package nutrition

import (
	"math"
	"time"
)

// BodyMetric is one weight/height registry entry.
type BodyMetric struct {
	WeightKG float64
	HeightM  float64
	Date     time.Time
}

// BMIClassification is a band of the BMI scale.
type BMIClassification string

const (
	Underweight BMIClassification = "UNDERWEIGHT"
	Normal      BMIClassification = "NORMAL"
	Overweight  BMIClassification = "OVERWEIGHT"
	ObesityI    BMIClassification = "OBESITY_I"
	ObesityII   BMIClassification = "OBESITY_II"
	ObesityIII  BMIClassification = "OBESITY_III"
)

const (
	healthyBMIMin = 18.5
	healthyBMIMax = 24.9
)

// Classify maps a BMI to its band. Bands are half-open: [18.5, 25) is normal,
// [25, 30) overweight and so on.
func Classify(bmi float64) BMIClassification {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	case bmi < 35:
		return ObesityI
	case bmi < 40:
		return ObesityII
	default:
		return ObesityIII
	}
}

func (c BMIClassification) Label() string {
	switch c {
	case Underweight:
		return "Abaixo do peso"
	case Normal:
		return "Peso normal"
	case Overweight:
		return "Sobrepeso"
	case ObesityI:
		return "Obesidade I"
	case ObesityII:
		return "Obesidade II"
	case ObesityIII:
		return "Obesidade III"
	}
	return ""
}

// BMI returns weight / height². Height must be within [MinHeightM, MaxHeightM].
func BMI(weightKG, heightM float64) (float64, error) {
	if err := ValidateBody(weightKG, heightM); err != nil {
		return 0, err
	}
	return weightKG / (heightM * heightM), nil
}

type BMIResult struct {
	Value          float64           `json:"value"`
	Classification BMIClassification `json:"classification"`
	Label          string            `json:"label"`
}

// Diagnosis is the body diagnosis shown next to the latest registry.
type Diagnosis struct {
	BMI                BMIResult `json:"bmi"`
	IdealMinimumWeight float64   `json:"idealMinimumWeight"`
	IdealMaximumWeight float64   `json:"idealMaximumWeight"`
	FatRate            string    `json:"fatRate"`
}

// Diagnose computes BMI, its classification and the ideal weight range for
// the metric's height. The BMI is rounded to two decimals before classifying
// so the shown value and band always agree. fatRate is carried through
// unchanged.
func Diagnose(m BodyMetric, fatRate string) (Diagnosis, error) {
	bmi, err := BMI(m.WeightKG, m.HeightM)
	if err != nil {
		return Diagnosis{}, err
	}
	bmi = round2(bmi)
	class := Classify(bmi)
	h2 := m.HeightM * m.HeightM
	return Diagnosis{
		BMI:                BMIResult{Value: bmi, Classification: class, Label: class.Label()},
		IdealMinimumWeight: round2(healthyBMIMin * h2),
		IdealMaximumWeight: round2(healthyBMIMax * h2),
		FatRate:            fatRate,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
