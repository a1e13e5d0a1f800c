package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCropInput(t *testing.T) {
	valid := riceFriendlyInput()

	tests := []struct {
		name   string
		mutate func(*CropInput)
		ok     bool
	}{
		{"valid", func(*CropInput) {}, true},
		{"nitrogen at lower bound", func(in *CropInput) { in.Nitrogen = 0 }, true},
		{"nitrogen at upper bound", func(in *CropInput) { in.Nitrogen = 200 }, true},
		{"nitrogen too high", func(in *CropInput) { in.Nitrogen = 201 }, false},
		{"nitrogen negative", func(in *CropInput) { in.Nitrogen = -1 }, false},
		{"humidity over 100", func(in *CropInput) { in.Humidity = 101 }, false},
		{"ph below 3", func(in *CropInput) { in.PH = 2.9 }, false},
		{"ph above 10", func(in *CropInput) { in.PH = 10.1 }, false},
		{"rainfall NaN", func(in *CropInput) { in.Rainfall = math.NaN() }, false},
		{"temperature infinite", func(in *CropInput) { in.Temperature = math.Inf(1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateCropInput(in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateCropInput_RangeErrorDetails(t *testing.T) {
	in := riceFriendlyInput()
	in.Humidity = 150

	err := ValidateCropInput(in)
	require.Error(t, err)

	var rangeErr *OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "humidity", rangeErr.Field)
	assert.Equal(t, 150.0, rangeErr.Value)
}

func TestValidateFertilizerInput(t *testing.T) {
	valid := FertilizerInput{
		Temperature: 26,
		Moisture:    0.5,
		Rainfall:    150,
		PH:          6.5,
		Nitrogen:    60,
		Phosphorus:  40,
		Potassium:   30,
		Carbon:      1.5,
		Soil:        "Loamy Soil",
		Crop:        "rice",
	}

	tests := []struct {
		name   string
		mutate func(*FertilizerInput)
		ok     bool
	}{
		{"valid", func(*FertilizerInput) {}, true},
		{"missing soil", func(in *FertilizerInput) { in.Soil = "" }, false},
		{"missing crop", func(in *FertilizerInput) { in.Crop = "" }, false},
		{"moisture NaN", func(in *FertilizerInput) { in.Moisture = math.NaN() }, false},
		{"ph out of range", func(in *FertilizerInput) { in.PH = 12 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateFertilizerInput(in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
