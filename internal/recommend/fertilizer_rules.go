package recommend

import (
	"math"
	"strings"
)

// Rule-based fertilizer scoring. Candidates are scored on how well their
// nutrient content covers the measured deficits, with bonuses for soil
// conditions and crop affinity.

type fertilizerProfile struct {
	name   string
	dosage string
	usage  string
	note   string
	n      float64
	p      float64
	k      float64
}

var fertilizerCatalog = []fertilizerProfile{
	{
		name:   "Urea (46-0-0)",
		dosage: "50-100 kg/acre",
		usage:  "Apply in split doses: 50% at sowing, 25% at tillering, 25% at flowering",
		note:   "Best nitrogen source for rapid vegetative growth",
		n:      46,
	},
	{
		name:   "DAP (18-46-0)",
		dosage: "75-125 kg/acre",
		usage:  "Apply at time of sowing or transplanting for root development",
		note:   "Excellent phosphorus source, also provides nitrogen",
		n:      18, p: 46,
	},
	{
		name:   "MOP (0-0-60)",
		dosage: "50-75 kg/acre",
		usage:  "Apply during flowering and fruit formation stage",
		note:   "High potassium for fruit quality and disease resistance",
		k:      60,
	},
	{
		name:   "NPK 19-19-19",
		dosage: "100-150 kg/acre",
		usage:  "Apply as basal dose or during active growth phase",
		note:   "Balanced fertilizer for overall plant nutrition",
		n:      19, p: 19, k: 19,
	},
	{
		name:   "NPK 20-20-0-13",
		dosage: "125-175 kg/acre",
		usage:  "Apply when both N and P are needed with sulfur benefit",
		note:   "Contains sulfur (13%) for protein synthesis",
		n:      20, p: 20,
	},
	{
		name:   "Single Super Phosphate",
		dosage: "100-200 kg/acre",
		usage:  "Mix with soil before planting for root development",
		note:   "Provides phosphorus and sulfur for early growth",
		p:      16,
	},
	{
		name:   "Organic Compost",
		dosage: "2-5 tons/acre",
		usage:  "Apply 2-3 weeks before sowing and mix well with soil",
		note:   "Improves soil structure, water retention, and microbial activity",
		n:      2, p: 1, k: 1,
	},
}

// Nutrient targets the deficits are measured against, and the cap each
// nutrient can contribute to a score.
const (
	targetNitrogen   = 100.0
	targetPhosphorus = 60.0
	targetPotassium  = 50.0

	capNitrogen   = 30.0
	capPhosphorus = 25.0
	capPotassium  = 15.0
)

// Soil condition thresholds. Moisture is in percent here.
const (
	drySoilBelow = 40.0
	wetSoilAbove = 70.0
	hotAbove     = 30.0
	coldBelow    = 15.0
)

// RuleBasedFertilizerScorer ranks the fertilizer catalog by deficit coverage
// and condition bonuses. It backs the engine when no model artifact is
// available and when the model rejects a request.
type RuleBasedFertilizerScorer struct{}

func NewRuleBasedFertilizerScorer() *RuleBasedFertilizerScorer {
	return &RuleBasedFertilizerScorer{}
}

func (s *RuleBasedFertilizerScorer) Name() string { return string(SourceRules) }

func (s *RuleBasedFertilizerScorer) Score(in FertilizerInput) ([]Recommendation, error) {
	moisture := in.NormalizedMoisture() * 100

	nDeficit := math.Max(0, targetNitrogen-in.Nitrogen)
	pDeficit := math.Max(0, targetPhosphorus-in.Phosphorus)
	kDeficit := math.Max(0, targetPotassium-in.Potassium)

	drySoil := moisture < drySoilBelow
	wetSoil := moisture > wetSoilAbove
	hot := in.Temperature > hotAbove
	cold := in.Temperature < coldBelow

	deficits := 0
	if nDeficit > 20 {
		deficits++
	}
	if pDeficit > 15 {
		deficits++
	}
	if kDeficit > 15 {
		deficits++
	}

	crop := strings.ToLower(in.Crop)

	recs := make([]Recommendation, 0, len(fertilizerCatalog))
	for _, f := range fertilizerCatalog {
		var score float64

		// Nutrient coverage, capped so a single nutrient cannot
		// dominate the ranking.
		if nDeficit > 0 && f.n > 0 {
			score += math.Min(capNitrogen, nDeficit/targetNitrogen*f.n)
		}
		if pDeficit > 0 && f.p > 0 {
			score += math.Min(capPhosphorus, pDeficit/targetPhosphorus*f.p)
		}
		if kDeficit > 0 && f.k > 0 {
			score += math.Min(capPotassium, kDeficit/targetPotassium*f.k)
		}

		if deficits >= 2 && strings.Contains(f.name, "NPK") {
			score += 15
		}

		// Condition bonuses.
		if drySoil && strings.Contains(f.name, "Organic") {
			score += 10
		}
		if wetSoil && !strings.Contains(f.name, "Urea") {
			score += 5
		}
		if hot && f.k > 0 {
			score += 5
		}
		if cold && strings.Contains(f.name, "DAP") {
			score += 5
		}

		// Crop affinity.
		if strings.Contains(crop, "rice") || strings.Contains(crop, "wheat") {
			if strings.Contains(f.name, "Urea") {
				score += 8
			}
		}
		if strings.Contains(crop, "potato") || strings.Contains(crop, "tomato") {
			if f.k > 0 {
				score += 8
			}
		}
		if strings.Contains(crop, "legume") || strings.Contains(crop, "pulse") {
			if f.p > 0 {
				score += 8
			}
		}

		confidence := roundPercent(clamp(score, 0, 100))
		recs = append(recs, Recommendation{
			Name:                 f.name,
			Probability:          confidence / 100,
			ConfidencePercentage: confidence,
			Priority:             ruleFertilizerPriority(confidence),
			Dosage:               f.dosage,
			Usage:                f.usage,
			Note:                 f.note,
		})
	}

	sortByConfidence(recs)
	return recs, nil
}
