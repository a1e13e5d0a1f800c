package recommend

import "strings"

// Grouping of ranked recommendations into display categories. Grouping is
// stable: within a category, entries keep their ranked order. Categories the
// preferred order does not mention are appended in first-seen order.

// Category is one display group of recommendations.
type Category struct {
	Name  string           `json:"name"`
	Items []Recommendation `json:"items"`
}

type categoryDef struct {
	name    string
	members []string
}

var cropCategories = []categoryDef{
	{"Fruits", []string{"apple", "banana", "grapes", "mango", "muskmelon", "orange", "papaya", "pomegranate", "watermelon", "coconut"}},
	{"Pulses & Vegetables", []string{"pigeonpeas", "kidneybeans", "mothbeans", "mungbean", "blackgram", "lentil", "chickpea"}},
	{"Grains & Cereals", []string{"rice", "wheat", "maize"}},
	{"Commercial Crops", []string{"cotton", "jute", "coffee", "tea"}},
}

var cropCategoryOrder = []string{
	"Grains & Cereals", "Pulses & Vegetables", "Fruits", "Commercial Crops", "Other Crops",
}

var fertilizerCategories = []categoryDef{
	{"Nitrogenous", []string{"urea", "ammonium sulfate", "calcium ammonium nitrate"}},
	{"Phosphatic", []string{"dap", "single super phosphate", "triple super phosphate"}},
	{"Potassic", []string{"mop", "muriate of potash", "sulfate of potash"}},
	{"Complex (NPK)", []string{"npk", "balanced npk fertilizer", "19-19-19", "20-20-0-13", "10-26-26"}},
	{"Organic & Soil Amendments", []string{"compost", "organic fertilizer", "lime", "gypsum", "water retaining fertilizer"}},
}

var fertilizerCategoryOrder = []string{
	"Organic & Soil Amendments", "Complex (NPK)", "Nitrogenous", "Phosphatic", "Potassic", "Other Fertilizers",
}

// CropCategory returns the display category for a crop name. Matching is
// exact on the lowercase trimmed name.
func CropCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, def := range cropCategories {
		for _, m := range def.members {
			if name == m {
				return def.name
			}
		}
	}
	return "Other Crops"
}

// FertilizerCategory returns the display category for a fertilizer name.
// Matching is by substring so product variants still resolve.
func FertilizerCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, def := range fertilizerCategories {
		for _, m := range def.members {
			if strings.Contains(name, m) {
				return def.name
			}
		}
	}
	return "Other Fertilizers"
}

// CategorizeCrops groups ranked crop recommendations for display.
func CategorizeCrops(recs []Recommendation) []Category {
	return groupRecommendations(recs, CropCategory, cropCategoryOrder)
}

// CategorizeFertilizers groups ranked fertilizer recommendations for display.
func CategorizeFertilizers(recs []Recommendation) []Category {
	return groupRecommendations(recs, FertilizerCategory, fertilizerCategoryOrder)
}

func groupRecommendations(recs []Recommendation, classify func(string) string, preferred []string) []Category {
	grouped := make(map[string][]Recommendation)
	var seen []string
	for _, rec := range recs {
		cat := classify(rec.Name)
		if _, ok := grouped[cat]; !ok {
			seen = append(seen, cat)
		}
		grouped[cat] = append(grouped[cat], rec)
	}

	out := make([]Category, 0, len(grouped))
	emitted := make(map[string]bool)
	for _, name := range preferred {
		if items, ok := grouped[name]; ok {
			out = append(out, Category{Name: name, Items: items})
			emitted[name] = true
		}
	}
	for _, name := range seen {
		if !emitted[name] {
			out = append(out, Category{Name: name, Items: grouped[name]})
		}
	}
	return out
}
