package recommend

import (
	"fmt"
	"math"
)

// Accepted measurement ranges. Values outside these are almost always unit
// mistakes on the form, not unusual soil.
const (
	minNitrogen = 0
	maxNitrogen = 200
	minHumidity = 0
	maxHumidity = 100
	minPH       = 3
	maxPH       = 10
)

// ValidateCropInput rejects non-finite measurements and values outside the
// accepted agronomic ranges. Engines assume validated input; the caller is
// responsible for running this before scoring.
func ValidateCropInput(in CropInput) error {
	fields := map[string]float64{
		"nitrogen":    in.Nitrogen,
		"phosphorus":  in.Phosphorus,
		"potassium":   in.Potassium,
		"temperature": in.Temperature,
		"humidity":    in.Humidity,
		"ph":          in.PH,
		"rainfall":    in.Rainfall,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if in.Nitrogen < minNitrogen || in.Nitrogen > maxNitrogen {
		return &OutOfRangeError{Field: "nitrogen", Value: in.Nitrogen, Min: minNitrogen, Max: maxNitrogen}
	}
	if in.Humidity < minHumidity || in.Humidity > maxHumidity {
		return &OutOfRangeError{Field: "humidity", Value: in.Humidity, Min: minHumidity, Max: maxHumidity}
	}
	if in.PH < minPH || in.PH > maxPH {
		return &OutOfRangeError{Field: "ph", Value: in.PH, Min: minPH, Max: maxPH}
	}
	return nil
}

// ValidateFertilizerInput rejects non-finite measurements and missing
// categorical context.
func ValidateFertilizerInput(in FertilizerInput) error {
	fields := map[string]float64{
		"temperature": in.Temperature,
		"moisture":    in.Moisture,
		"rainfall":    in.Rainfall,
		"ph":          in.PH,
		"nitrogen":    in.Nitrogen,
		"phosphorus":  in.Phosphorus,
		"potassium":   in.Potassium,
		"carbon":      in.Carbon,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if in.Soil == "" {
		return fmt.Errorf("soil type is required")
	}
	if in.Crop == "" {
		return fmt.Errorf("crop type is required")
	}
	if in.PH < minPH || in.PH > maxPH {
		return &OutOfRangeError{Field: "ph", Value: in.PH, Min: minPH, Max: maxPH}
	}
	return nil
}
