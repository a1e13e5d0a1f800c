package recommend

import (
	"context"
	"time"

	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// CropEngine produces ranked crop recommendations. The scoring strategy is
// chosen once at construction: the trained model when its artifact loads,
// the rule-based scorer otherwise. Recommend never returns an error; when
// scoring itself fails the engine serves a generic estimate marked with
// SourceFallback.
type CropEngine struct {
	strategy CropStrategy
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

func NewCropEngine(artifactPath string, logger *logging.StructuredLogger, collector *metrics.Collector) *CropEngine {
	engine := &CropEngine{logger: logger, metrics: collector}

	artifact, err := LoadCropArtifact(artifactPath)
	if err != nil {
		logger.Warn(context.Background(), "[CROP_MODEL_UNAVAILABLE] Using rule-based crop scoring", logging.Fields{
			"artifact_path": artifactPath,
			"reason":        err.Error(),
		})
		collector.RecordFallback("crop", "artifact_unavailable")
		engine.strategy = NewRuleBasedCropScorer()
		return engine
	}

	logger.Info(context.Background(), "[CROP_MODEL_LOADED] Crop model artifact loaded", logging.Fields{
		"artifact_path": artifactPath,
		"classes":       len(artifact.Classes),
	})
	engine.strategy = NewModelCropScorer(artifact)
	return engine
}

// Strategy reports which scoring path this engine was built with.
func (e *CropEngine) Strategy() string {
	return e.strategy.Name()
}

// Recommend scores the input and returns the ranked top candidates. Input is
// assumed validated by the caller.
func (e *CropEngine) Recommend(ctx context.Context, in CropInput) CropResult {
	start := time.Now()
	defer func() {
		e.metrics.PredictionDuration.WithLabelValues("crop").Observe(time.Since(start).Seconds())
	}()

	recs, err := e.strategy.Score(in)
	if err != nil || len(recs) == 0 {
		e.logger.Error(ctx, "[CROP_SCORING_FAILED] Serving generic crop estimate", logging.Fields{
			"strategy": e.strategy.Name(),
		}, err)
		e.metrics.RecordPrediction("crop", e.strategy.Name(), "error")
		e.metrics.RecordFallback("crop", "scoring_error")
		return genericCropResult(in)
	}

	if len(recs) > TopN {
		recs = recs[:TopN]
	}
	e.metrics.RecordPrediction("crop", e.strategy.Name(), "ok")

	return CropResult{
		RecommendedCrop:    recs[0].Name,
		TopRecommendations: recs,
		InputParameters:    in,
		Source:             Source(e.strategy.Name()),
	}
}

// genericCropResult is the last-resort answer when no scorer could run. The
// entries are the three most widely grown crops with conservative scores.
func genericCropResult(in CropInput) CropResult {
	recs := []Recommendation{
		{Name: "Rice", Probability: 0.85, ConfidencePercentage: 85, Priority: PriorityHigh},
		{Name: "Wheat", Probability: 0.70, ConfidencePercentage: 70, Priority: PriorityMedium},
		{Name: "Maize", Probability: 0.60, ConfidencePercentage: 60, Priority: PriorityMedium},
	}
	return CropResult{
		RecommendedCrop:    recs[0].Name,
		TopRecommendations: recs,
		InputParameters:    in,
		Source:             SourceFallback,
	}
}
