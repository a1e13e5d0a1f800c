package recommend

// Rule-based crop scoring. Each crop carries the agronomic range it grows
// best in for every measurement; the score is the weighted share of
// measurements that land inside their range.

type valueRange struct {
	lo, hi float64
}

func (r valueRange) contains(v float64) bool {
	return v >= r.lo && v <= r.hi
}

type cropProfile struct {
	name        string
	nitrogen    valueRange
	phosphorus  valueRange
	potassium   valueRange
	temperature valueRange
	humidity    valueRange
	ph          valueRange
	rainfall    valueRange
}

// Measurement weights. Nutrients and temperature dominate; rainfall matters
// least because irrigation can compensate.
const (
	weightNitrogen    = 0.20
	weightPhosphorus  = 0.15
	weightPotassium   = 0.15
	weightTemperature = 0.20
	weightHumidity    = 0.15
	weightPH          = 0.10
	weightRainfall    = 0.05
)

var cropCatalog = []cropProfile{
	{
		name:        "Rice",
		nitrogen:    valueRange{80, 120},
		phosphorus:  valueRange{35, 60},
		potassium:   valueRange{35, 45},
		temperature: valueRange{20, 30},
		humidity:    valueRange{80, 95},
		ph:          valueRange{5.5, 7.0},
		rainfall:    valueRange{150, 300},
	},
	{
		name:        "Wheat",
		nitrogen:    valueRange{70, 100},
		phosphorus:  valueRange{40, 60},
		potassium:   valueRange{35, 50},
		temperature: valueRange{15, 25},
		humidity:    valueRange{55, 75},
		ph:          valueRange{6.0, 7.5},
		rainfall:    valueRange{75, 180},
	},
	{
		name:        "Maize",
		nitrogen:    valueRange{70, 100},
		phosphorus:  valueRange{40, 60},
		potassium:   valueRange{15, 25},
		temperature: valueRange{18, 27},
		humidity:    valueRange{55, 75},
		ph:          valueRange{5.5, 7.0},
		rainfall:    valueRange{60, 110},
	},
	{
		name:        "Cotton",
		nitrogen:    valueRange{100, 150},
		phosphorus:  valueRange{35, 60},
		potassium:   valueRange{15, 30},
		temperature: valueRange{21, 30},
		humidity:    valueRange{70, 85},
		ph:          valueRange{5.8, 8.0},
		rainfall:    valueRange{50, 100},
	},
	{
		name:        "Jute",
		nitrogen:    valueRange{60, 100},
		phosphorus:  valueRange{35, 60},
		potassium:   valueRange{35, 50},
		temperature: valueRange{24, 37},
		humidity:    valueRange{80, 95},
		ph:          valueRange{6.0, 7.5},
		rainfall:    valueRange{120, 200},
	},
	{
		name:        "Banana",
		nitrogen:    valueRange{80, 120},
		phosphorus:  valueRange{70, 100},
		potassium:   valueRange{45, 60},
		temperature: valueRange{26, 32},
		humidity:    valueRange{75, 90},
		ph:          valueRange{6.5, 7.5},
		rainfall:    valueRange{75, 150},
	},
}

// match returns the weighted suitability of the input for this crop in [0,1].
func (c cropProfile) match(in CropInput) float64 {
	var score float64
	if c.nitrogen.contains(in.Nitrogen) {
		score += weightNitrogen
	}
	if c.phosphorus.contains(in.Phosphorus) {
		score += weightPhosphorus
	}
	if c.potassium.contains(in.Potassium) {
		score += weightPotassium
	}
	if c.temperature.contains(in.Temperature) {
		score += weightTemperature
	}
	if c.humidity.contains(in.Humidity) {
		score += weightHumidity
	}
	if c.ph.contains(in.PH) {
		score += weightPH
	}
	if c.rainfall.contains(in.Rainfall) {
		score += weightRainfall
	}
	return score
}

// RuleBasedCropScorer ranks the crop catalog by range suitability. It is the
// fallback strategy when no trained model artifact is available.
type RuleBasedCropScorer struct{}

func NewRuleBasedCropScorer() *RuleBasedCropScorer {
	return &RuleBasedCropScorer{}
}

func (s *RuleBasedCropScorer) Name() string { return string(SourceRules) }

func (s *RuleBasedCropScorer) Score(in CropInput) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, len(cropCatalog))
	for _, c := range cropCatalog {
		// Clamp into [30,95] so rule output never reads as certainty
		// or as a flat zero.
		confidence := clamp(c.match(in)*100, 30, 95)
		recs = append(recs, Recommendation{
			Name:                 c.name,
			Probability:          confidence / 100,
			ConfidencePercentage: confidence,
			Priority:             ruleCropPriority(confidence),
		})
	}
	sortByConfidence(recs)
	return recs, nil
}
