package recommend

import "strings"

// FertilizerDetails is the guidance attached to a model-predicted class.
// Rule-based candidates carry their own guidance inline.
type FertilizerDetails struct {
	Dosage        string
	Usage         string
	Note          string
	Effectiveness string
}

var genericFertilizerDetails = FertilizerDetails{
	Dosage:        "20-40 kg/acre",
	Usage:         "General use",
	Note:          "General purpose fertilizer",
	Effectiveness: "Medium",
}

// knowledgeBase covers every class label the trained fertilizer model can
// emit, keyed by lowercase name.
var knowledgeBase = map[string]FertilizerDetails{
	"urea": {
		Dosage:        "20-30 kg/acre",
		Usage:         "Apply in split doses during vegetative growth",
		Note:          "Best nitrogen source for rapid vegetative growth",
		Effectiveness: "High",
	},
	"dap": {
		Dosage:        "15-25 kg/acre",
		Usage:         "Apply at sowing or transplanting for root development",
		Note:          "Excellent phosphorus source, also provides nitrogen",
		Effectiveness: "High",
	},
	"mop": {
		Dosage:        "15-30 kg/acre",
		Usage:         "Apply during flowering and fruit formation stage",
		Note:          "High potassium for fruit quality and disease resistance",
		Effectiveness: "Medium",
	},
	"muriate of potash": {
		Dosage:        "15-30 kg/acre",
		Usage:         "Apply during flowering and fruit formation stage",
		Note:          "High potassium for fruit quality and disease resistance",
		Effectiveness: "Medium",
	},
	"npk": {
		Dosage:        "40-60 kg/acre",
		Usage:         "Apply as basal dose or during active growth phase",
		Note:          "Balanced fertilizer for overall plant nutrition",
		Effectiveness: "High",
	},
	"balanced npk fertilizer": {
		Dosage:        "40-60 kg/acre",
		Usage:         "Apply as basal dose or during active growth phase",
		Note:          "Balanced fertilizer for overall plant nutrition",
		Effectiveness: "High",
	},
	"compost": {
		Dosage:        "2-3 ton/acre",
		Usage:         "Apply 2-3 weeks before sowing and mix well with soil",
		Note:          "Improves soil structure, water retention, and microbial activity",
		Effectiveness: "Medium",
	},
	"organic fertilizer": {
		Dosage:        "1-2 ton/acre",
		Usage:         "Apply 2-3 weeks before sowing and mix well with soil",
		Note:          "Improves soil structure and long-term fertility",
		Effectiveness: "Medium",
	},
	"lime": {
		Dosage:        "0.5-1 ton/acre",
		Usage:         "Best for acidic soils",
		Note:          "Raises soil pH and supplies calcium",
		Effectiveness: "Medium",
	},
	"gypsum": {
		Dosage:        "0.3-0.5 ton/acre",
		Usage:         "Best for alkaline soils",
		Note:          "Improves soil structure and supplies calcium and sulfur",
		Effectiveness: "Medium",
	},
	"water retaining fertilizer": {
		Dosage:        "10-20 kg/acre",
		Usage:         "Suitable for warm climate",
		Note:          "Helps soil hold moisture in dry conditions",
		Effectiveness: "Low",
	},
}

// knowledgeLookupOrder fixes the substring scan order: longer, more specific
// keys first so "balanced npk fertilizer" wins over "npk".
var knowledgeLookupOrder = []string{
	"balanced npk fertilizer",
	"water retaining fertilizer",
	"organic fertilizer",
	"muriate of potash",
	"compost",
	"gypsum",
	"lime",
	"urea",
	"dap",
	"mop",
	"npk",
}

// Details returns guidance for a fertilizer name. Lookup is exact on the
// lowercase name first, then by substring so variants like "NPK 19-19-19"
// still resolve.
func Details(name string) FertilizerDetails {
	key := strings.ToLower(strings.TrimSpace(name))
	if d, ok := knowledgeBase[key]; ok {
		return d
	}
	for _, k := range knowledgeLookupOrder {
		if strings.Contains(key, k) {
			return knowledgeBase[k]
		}
	}
	return genericFertilizerDetails
}

// Default form options when no trained artifact supplies vocabularies.
var (
	DefaultSoils = []string{"Loamy Soil", "Clayey Soil", "Sandy Soil", "Black Soil", "Red Soil"}
	DefaultCrops = []string{"rice", "wheat", "maize", "cotton", "sugarcane", "potato", "tomato", "pulses"}
)
