package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"rice", "Grains & Cereals"},
		{"Rice", "Grains & Cereals"},
		{" banana ", "Fruits"},
		{"chickpea", "Pulses & Vegetables"},
		{"cotton", "Commercial Crops"},
		{"dragonfruit", "Other Crops"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CropCategory(tt.name), tt.name)
	}
}

func TestFertilizerCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Urea (46-0-0)", "Nitrogenous"},
		{"DAP (18-46-0)", "Phosphatic"},
		{"MOP (0-0-60)", "Potassic"},
		{"NPK 19-19-19", "Complex (NPK)"},
		{"Organic Compost", "Organic & Soil Amendments"},
		{"Zinc Sulphate", "Other Fertilizers"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FertilizerCategory(tt.name), tt.name)
	}
}

func TestCategorizeCrops_PreferredOrderAndCoverage(t *testing.T) {
	recs := []Recommendation{
		{Name: "Banana", ConfidencePercentage: 90},
		{Name: "Rice", ConfidencePercentage: 85},
		{Name: "Cotton", ConfidencePercentage: 70},
		{Name: "Wheat", ConfidencePercentage: 65},
		{Name: "Dragonfruit", ConfidencePercentage: 40},
	}

	categories := CategorizeCrops(recs)

	var names []string
	total := 0
	for _, c := range categories {
		names = append(names, c.Name)
		total += len(c.Items)
	}
	assert.Equal(t, []string{"Grains & Cereals", "Fruits", "Commercial Crops", "Other Crops"}, names)
	assert.Equal(t, len(recs), total)

	// Ranked order survives within a category.
	require.Len(t, categories[0].Items, 2)
	assert.Equal(t, "Rice", categories[0].Items[0].Name)
	assert.Equal(t, "Wheat", categories[0].Items[1].Name)
}

func TestCategorizeFertilizers_PreferredOrder(t *testing.T) {
	recs := []Recommendation{
		{Name: "Urea (46-0-0)", ConfidencePercentage: 80},
		{Name: "NPK 19-19-19", ConfidencePercentage: 75},
		{Name: "Organic Compost", ConfidencePercentage: 60},
	}

	categories := CategorizeFertilizers(recs)

	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Organic & Soil Amendments", "Complex (NPK)", "Nitrogenous"}, names)
}

func TestGroupRecommendations_UnlistedCategoriesAppendFirstSeen(t *testing.T) {
	recs := []Recommendation{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}
	classify := func(name string) string {
		switch name {
		case "a":
			return "Gamma"
		case "b":
			return "Alpha"
		default:
			return "Known"
		}
	}

	categories := groupRecommendations(recs, classify, []string{"Known"})

	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Known", "Gamma", "Alpha"}, names)
}
