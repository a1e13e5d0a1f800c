package recommend

import "fmt"

// ArtifactError reports a model artifact that could not be loaded or failed
// shape validation. Engines treat it as "model unavailable" and run on rules.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// UnseenCategoryError reports a categorical value the trained model has no
// encoding for. The fertilizer engine falls back to rules for that request.
type UnseenCategoryError struct {
	Feature string
	Value   string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("unseen %s category %q", e.Feature, e.Value)
}

// OutOfRangeError reports an input measurement outside its accepted range.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %.2f outside accepted range [%.1f, %.1f]", e.Field, e.Value, e.Min, e.Max)
}
