package recommend

import (
	"context"
	"errors"
	"time"

	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// FertilizerEngine produces ranked fertilizer recommendations. The primary
// strategy is chosen once at construction (model when the artifact loads,
// rules otherwise), but unlike the crop engine the model can reject
// individual requests, so a per-request fall-through to rules remains.
type FertilizerEngine struct {
	primary FertilizerStrategy
	rules   *RuleBasedFertilizerScorer
	model   *ModelFertilizerScorer // nil when running rules-only
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

func NewFertilizerEngine(artifactPath string, logger *logging.StructuredLogger, collector *metrics.Collector) *FertilizerEngine {
	engine := &FertilizerEngine{
		rules:   NewRuleBasedFertilizerScorer(),
		logger:  logger,
		metrics: collector,
	}

	artifact, err := LoadFertilizerArtifact(artifactPath)
	if err != nil {
		logger.Warn(context.Background(), "[FERTILIZER_MODEL_UNAVAILABLE] Using rule-based fertilizer scoring", logging.Fields{
			"artifact_path": artifactPath,
			"reason":        err.Error(),
		})
		collector.RecordFallback("fertilizer", "artifact_unavailable")
		engine.primary = engine.rules
		return engine
	}

	logger.Info(context.Background(), "[FERTILIZER_MODEL_LOADED] Fertilizer model artifact loaded", logging.Fields{
		"artifact_path": artifactPath,
		"classes":       len(artifact.Classes),
		"soil_types":    len(artifact.Categories["soil"]),
		"crop_types":    len(artifact.Categories["crop"]),
	})
	engine.model = NewModelFertilizerScorer(artifact)
	engine.primary = engine.model
	return engine
}

// Strategy reports which primary scoring path this engine was built with.
func (e *FertilizerEngine) Strategy() string {
	return e.primary.Name()
}

// AvailableSoils lists the soil options to offer on the request form.
func (e *FertilizerEngine) AvailableSoils() []string {
	if e.model != nil {
		return e.model.AvailableSoils()
	}
	return append([]string(nil), DefaultSoils...)
}

// AvailableCrops lists the crop options to offer on the request form.
func (e *FertilizerEngine) AvailableCrops() []string {
	if e.model != nil {
		return e.model.AvailableCrops()
	}
	return append([]string(nil), DefaultCrops...)
}

// Recommend scores the request. A model rejection (for example an unseen
// soil type) degrades that single request to rule-based scoring; Success is
// false only when every path failed.
func (e *FertilizerEngine) Recommend(ctx context.Context, in FertilizerInput) FertilizerResult {
	start := time.Now()
	defer func() {
		e.metrics.PredictionDuration.WithLabelValues("fertilizer").Observe(time.Since(start).Seconds())
	}()

	source := Source(e.primary.Name())
	recs, err := e.primary.Score(in)

	if err != nil && e.primary.Name() != e.rules.Name() {
		e.logger.Warn(ctx, "[FERTILIZER_MODEL_REJECTED] Falling back to rule-based scoring", logging.Fields{
			"soil":   in.Soil,
			"crop":   in.Crop,
			"reason": err.Error(),
		})
		e.metrics.RecordPrediction("fertilizer", string(source), "error")
		e.metrics.RecordFallback("fertilizer", fallbackReason(err))
		source = SourceRules
		recs, err = e.rules.Score(in)
	}

	if err != nil || len(recs) == 0 {
		e.logger.Error(ctx, "[FERTILIZER_SCORING_FAILED] No scoring path produced a ranking", logging.Fields{
			"soil": in.Soil,
			"crop": in.Crop,
		}, err)
		e.metrics.RecordPrediction("fertilizer", string(source), "error")
		msg := "no fertilizer recommendation available"
		if err != nil {
			msg = err.Error()
		}
		return FertilizerResult{Success: false, Source: source, Error: msg}
	}

	if len(recs) > TopN {
		recs = recs[:TopN]
	}
	e.metrics.RecordPrediction("fertilizer", string(source), "ok")

	top := recs[0]
	return FertilizerResult{
		Success:               true,
		RecommendedFertilizer: top.Name,
		Confidence:            top.ConfidencePercentage,
		Dosage:                top.Dosage,
		Notes:                 top.Note,
		TopRecommendations:    recs,
		Source:                source,
	}
}

func fallbackReason(err error) string {
	var unseen *UnseenCategoryError
	if errors.As(err, &unseen) {
		return "unseen_category"
	}
	return "scoring_error"
}
