package recommend

import (
	"math"
	"sort"
)

// TopN bounds the number of entries returned from a scoring pass.
const TopN = 6

// Priority buckets a confidence score for display.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Source identifies which scoring path produced a result. Callers use it to
// label degraded output as estimated rather than model-derived.
type Source string

const (
	SourceModel    Source = "model"
	SourceRules    Source = "rules"
	SourceFallback Source = "fallback"
)

// Recommendation is one ranked candidate. The fertilizer engine fills the
// dosage/usage/note guidance fields; the crop engine leaves them empty.
type Recommendation struct {
	Name                 string   `json:"name"`
	Probability          float64  `json:"probability"`
	ConfidencePercentage float64  `json:"confidence_percentage"`
	Priority             Priority `json:"priority"`
	Dosage               string   `json:"dosage,omitempty"`
	Usage                string   `json:"usage,omitempty"`
	Note                 string   `json:"note,omitempty"`
}

// CropInput holds the 7 soil and climate measurements for crop scoring.
// Nutrients are mg/kg, temperature °C, humidity %, rainfall mm.
type CropInput struct {
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// features returns the measurements in trained-model column order.
func (in CropInput) features() []float64 {
	return []float64{
		in.Nitrogen, in.Phosphorus, in.Potassium,
		in.Temperature, in.Humidity, in.PH, in.Rainfall,
	}
}

// FertilizerInput holds the measurements and categorical context for
// fertilizer scoring.
type FertilizerInput struct {
	Temperature float64 `json:"temperature"`
	Moisture    float64 `json:"moisture"`
	Rainfall    float64 `json:"rainfall"`
	PH          float64 `json:"ph"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Carbon      float64 `json:"carbon"`
	Soil        string  `json:"soil"`
	Crop        string  `json:"crop"`
}

// NormalizedMoisture returns soil moisture as a fraction in [0,1]. Callers
// supply either a fraction or a percentage; values above 1 are treated as
// percentages.
func (in FertilizerInput) NormalizedMoisture() float64 {
	if in.Moisture > 1 {
		return in.Moisture / 100
	}
	return in.Moisture
}

// numericFeatures returns the measurements in trained-model column order.
func (in FertilizerInput) numericFeatures() []float64 {
	return []float64{
		in.Temperature, in.NormalizedMoisture(), in.Rainfall, in.PH,
		in.Nitrogen, in.Phosphorus, in.Potassium, in.Carbon,
	}
}

// CropResult is the outcome of one crop scoring pass.
type CropResult struct {
	RecommendedCrop    string           `json:"recommended_crop"`
	TopRecommendations []Recommendation `json:"top_recommendations"`
	InputParameters    CropInput        `json:"input_parameters"`
	Source             Source           `json:"source"`
}

// FertilizerResult is the outcome of one fertilizer scoring pass. Success is
// false only when every scoring path failed; Error then carries the cause.
type FertilizerResult struct {
	Success               bool             `json:"success"`
	RecommendedFertilizer string           `json:"recommended_fertilizer,omitempty"`
	Confidence            float64          `json:"confidence,omitempty"`
	Dosage                string           `json:"dosage,omitempty"`
	Notes                 string           `json:"notes,omitempty"`
	TopRecommendations    []Recommendation `json:"top_recommendations,omitempty"`
	Source                Source           `json:"source"`
	Error                 string           `json:"error,omitempty"`
}

// sortByConfidence orders recommendations by confidence descending. The sort
// is stable so equal scores keep their catalog order.
func sortByConfidence(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ConfidencePercentage > recs[j].ConfidencePercentage
	})
}

// Priority thresholds differ between strategies on purpose: each scorer is
// calibrated independently and the published buckets follow its own scale.

func modelCropPriority(probability float64) Priority {
	switch {
	case probability > 0.7:
		return PriorityHigh
	case probability > 0.4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func ruleCropPriority(confidence float64) Priority {
	switch {
	case confidence >= 70:
		return PriorityHigh
	case confidence >= 50:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func modelFertilizerPriority(confidence float64) Priority {
	switch {
	case confidence >= 60:
		return PriorityHigh
	case confidence >= 30:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func ruleFertilizerPriority(confidence float64) Priority {
	switch {
	case confidence >= 70:
		return PriorityHigh
	case confidence >= 45:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
