package services

import "strings"

// CropGuide is a cultivation manual for one crop: growth stages, the weekly
// task schedule an activity is seeded with, and agronomic requirements.
type CropGuide struct {
	Name         string            `json:"name"`
	DurationDays int               `json:"duration_days"`
	Stages       []GuideStage      `json:"stages"`
	Tasks        []GuideTask       `json:"tasks"`
	Requirements map[string]string `json:"requirements"`
}

// GuideStage is one growth phase within a cultivation manual
type GuideStage struct {
	Name        string `json:"name"`
	Days        int    `json:"days"`
	Description string `json:"description"`
}

// GuideTask is one scheduled cultivation task, due at the start of its week
type GuideTask struct {
	Week        int    `json:"week"`
	Description string `json:"description"`
}

var cropGuides = map[string]CropGuide{
	"rice": {
		Name:         "Rice",
		DurationDays: 120,
		Stages: []GuideStage{
			{"Land Preparation", 7, "Plow and level the field, prepare for flooding"},
			{"Seed Sowing", 1, "Sow pre-germinated seeds in nursery"},
			{"Transplanting", 25, "Transplant 25-day old seedlings to main field"},
			{"Vegetative Growth", 40, "Maintain water level, apply fertilizers"},
			{"Flowering", 30, "Monitor for pests, ensure adequate water"},
			{"Grain Filling", 30, "Reduce water, monitor maturity"},
			{"Harvesting", 7, "Harvest when 80-85% grains are golden yellow"},
		},
		Tasks: []GuideTask{
			{1, "Land preparation and plowing"},
			{2, "Nursery preparation and seed sowing"},
			{4, "Transplanting seedlings"},
			{6, "First fertilizer application (Nitrogen)"},
			{8, "Weed control and pest monitoring"},
			{10, "Second fertilizer application"},
			{12, "Monitor water levels"},
			{14, "Check for diseases"},
			{16, "Reduce water for grain hardening"},
			{17, "Harvest preparation"},
		},
		Requirements: map[string]string{
			"water":       "Keep field flooded 5-10 cm throughout vegetative stage",
			"fertilizer":  "NPK 120:60:60 kg/ha in 2-3 splits",
			"temperature": "20-35°C optimal",
			"soil":        "Clayey loam with good water retention",
		},
	},
	"wheat": {
		Name:         "Wheat",
		DurationDays: 130,
		Stages: []GuideStage{
			{"Land Preparation", 7, "Deep plowing and leveling"},
			{"Seed Sowing", 3, "Direct sowing with seed drill"},
			{"Germination", 10, "First irrigation after 21 days"},
			{"Tillering", 30, "Apply nitrogen fertilizer"},
			{"Stem Elongation", 30, "Second fertilizer dose"},
			{"Heading & Flowering", 25, "Critical irrigation period"},
			{"Grain Filling", 20, "Monitor for diseases"},
			{"Maturity & Harvest", 5, "Harvest at 80-85% maturity"},
		},
		Tasks: []GuideTask{
			{1, "Prepare seedbed and sow seeds"},
			{3, "First irrigation (Crown Root Initiation)"},
			{5, "Apply first nitrogen dose"},
			{7, "Second irrigation (Tillering)"},
			{9, "Weed control"},
			{11, "Third irrigation (Jointing)"},
			{13, "Apply second nitrogen dose"},
			{15, "Fourth irrigation (Flowering)"},
			{17, "Fifth irrigation (Milk stage)"},
			{18, "Harvest when grain moisture is 20-25%"},
		},
		Requirements: map[string]string{
			"water":       "5-6 irrigations, especially at critical stages",
			"fertilizer":  "NPK 120:60:40 kg/ha",
			"temperature": "15-25°C optimal",
			"soil":        "Well-drained loamy soil",
		},
	},
	"maize": {
		Name:         "Maize",
		DurationDays: 100,
		Stages: []GuideStage{
			{"Land Preparation", 5, "Prepare fine seedbed"},
			{"Sowing", 2, "Direct sowing with proper spacing"},
			{"Germination", 7, "Ensure adequate moisture"},
			{"Vegetative Growth", 35, "Weed control and fertilization"},
			{"Flowering", 25, "Critical water requirement"},
			{"Grain Filling", 20, "Monitor for pests"},
			{"Maturity & Harvest", 6, "Harvest when moisture is 20-25%"},
		},
		Tasks: []GuideTask{
			{1, "Land preparation and sowing"},
			{2, "First irrigation if needed"},
			{3, "Thinning and gap filling"},
			{4, "Apply nitrogen fertilizer"},
			{6, "Weed control"},
			{8, "Second nitrogen application"},
			{10, "Monitor for pests (stem borer)"},
			{12, "Ensure irrigation during flowering"},
			{14, "Check for cob maturity"},
			{15, "Harvest and drying"},
		},
		Requirements: map[string]string{
			"water":       "4-5 irrigations, critical at flowering",
			"fertilizer":  "NPK 120:60:60 kg/ha",
			"temperature": "20-30°C optimal",
			"soil":        "Well-drained loamy soil, rich in organic matter",
		},
	},
	"cotton": {
		Name:         "Cotton",
		DurationDays: 180,
		Stages: []GuideStage{
			{"Land Preparation", 10, "Deep plowing and ridges"},
			{"Sowing", 3, "Sow treated seeds"},
			{"Germination", 10, "Light irrigation"},
			{"Vegetative Growth", 60, "Square formation"},
			{"Flowering", 45, "Boll formation period"},
			{"Boll Development", 45, "Monitor for pests"},
			{"Harvesting", 7, "Multiple pickings"},
		},
		Tasks: []GuideTask{
			{1, "Prepare ridges and sow seeds"},
			{3, "Thinning to maintain plant population"},
			{5, "First irrigation and weeding"},
			{8, "Apply nitrogen fertilizer"},
			{10, "Monitor for whitefly and aphids"},
			{14, "Apply plant growth regulators"},
			{18, "Monitor for bollworm"},
			{22, "Prepare for first picking"},
			{24, "Continue multiple pickings"},
			{26, "Final harvest"},
		},
		Requirements: map[string]string{
			"water":       "6-8 irrigations depending on rainfall",
			"fertilizer":  "NPK 120:60:60 kg/ha",
			"temperature": "21-27°C optimal",
			"soil":        "Deep, well-drained black cotton soil",
		},
	},
	"jute": {
		Name:         "Jute",
		DurationDays: 120,
		Stages: []GuideStage{
			{"Land Preparation", 7, "Plowing and leveling the field"},
			{"Seed Sowing", 2, "Broadcasting or line sowing"},
			{"Germination", 8, "Seeds germinate in 4-8 days"},
			{"Vegetative Growth", 60, "Rapid stem growth period"},
			{"Flowering", 25, "Yellow flowers appear"},
			{"Fiber Development", 15, "Maximum fiber content"},
			{"Harvesting", 3, "Cut at base when flowering"},
		},
		Tasks: []GuideTask{
			{1, "Land preparation and seed treatment"},
			{2, "Broadcasting seeds uniformly"},
			{3, "Thinning to maintain spacing"},
			{4, "First weeding operation"},
			{6, "Apply nitrogen fertilizer"},
			{8, "Second weeding and earthing up"},
			{10, "Monitor for stem rot disease"},
			{12, "Watch for insect pests"},
			{15, "Check fiber maturity"},
			{17, "Harvest when flowers appear"},
		},
		Requirements: map[string]string{
			"water":       "High rainfall needed (1200-1500mm), supplementary irrigation",
			"fertilizer":  "NPK 60:30:30 kg/ha",
			"temperature": "24-37°C optimal, hot and humid climate",
			"soil":        "Deep loamy to clay loam, good water holding capacity",
		},
	},
	"banana": {
		Name:         "Banana",
		DurationDays: 300,
		Stages: []GuideStage{
			{"Land Preparation", 15, "Deep plowing and pit preparation"},
			{"Planting", 5, "Plant suckers in prepared pits"},
			{"Establishment", 60, "Root development and early growth"},
			{"Vegetative Growth", 120, "Leaf production and pseudostem formation"},
			{"Flowering", 30, "Inflorescence emergence"},
			{"Fruit Development", 60, "Bunch development and filling"},
			{"Harvesting", 10, "Harvest at 75% maturity"},
		},
		Tasks: []GuideTask{
			{1, "Prepare pits and apply organic manure"},
			{2, "Plant healthy suckers"},
			{4, "First irrigation and mulching"},
			{8, "Apply first dose of fertilizer"},
			{12, "Desuckering - remove extra suckers"},
			{16, "Apply second fertilizer dose"},
			{20, "Monitor for Panama disease"},
			{24, "Third fertilizer application"},
			{28, "Watch for bunch emergence"},
			{32, "Support the pseudostem if needed"},
			{36, "Cover bunch with protective bag"},
			{40, "Monitor fruit maturity"},
			{42, "Harvest when fingers are plump"},
		},
		Requirements: map[string]string{
			"water":       "Regular irrigation, 50-75mm per week, high water requirement",
			"fertilizer":  "NPK 200:60:200 kg/ha in 6-8 splits",
			"temperature": "26-30°C optimal, tropical climate",
			"soil":        "Deep, rich loam with good drainage, pH 6.5-7.5",
		},
	},
}

// GuideFor returns the cultivation manual for a crop, if one exists
func GuideFor(cropName string) (CropGuide, bool) {
	guide, ok := cropGuides[strings.ToLower(strings.TrimSpace(cropName))]
	return guide, ok
}

// AvailableGuides lists the crops that have cultivation manuals
func AvailableGuides() []string {
	names := make([]string, 0, len(cropGuides))
	for _, key := range []string{"rice", "wheat", "maize", "cotton", "jute", "banana"} {
		if _, ok := cropGuides[key]; ok {
			names = append(names, key)
		}
	}
	return names
}

// StageAt returns the stage the crop should be in after the given number of
// days since sowing
func (g CropGuide) StageAt(daysSinceSowing int) string {
	if len(g.Stages) == 0 {
		return ""
	}
	elapsed := 0
	for _, stage := range g.Stages {
		elapsed += stage.Days
		if daysSinceSowing < elapsed {
			return stage.Name
		}
	}
	return g.Stages[len(g.Stages)-1].Name
}
