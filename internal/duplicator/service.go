package duplicator

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	apperrors "survey-duplicator/internal/common/errors"
	"survey-duplicator/internal/common/logger"
	"survey-duplicator/internal/common/metrics"
	"survey-duplicator/internal/common/observability"
)

type Service struct {
	config *Config
	client SurveyDuplicator
	logger logger.Logger
	obs    *observability.Observability
	tracer trace.Tracer
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid duplicator configuration: %w", err)
	}
	if deps.Client == nil {
		return nil, fmt.Errorf("survey client is required")
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Service{
		config: config,
		client: deps.Client,
		logger: log,
		obs:    deps.Observability,
		tracer: noop.NewTracerProvider().Tracer(""),
	}, nil
}

// Execute copies the template once per course, all requests in flight together
// (bounded by MaxConcurrency when set). The first failure cancels the batch and
// no pairs are returned.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	runID := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{
		"runId":            runID,
		"templateSurveyId": input.TemplateSurveyID,
	})
	start := time.Now()

	log.Info("Starting survey duplication batch", map[string]interface{}{
		"courses":        len(input.Courses),
		"maxConcurrency": s.config.MaxConcurrency,
	})

	ctx, span := s.startSpan(ctx, "duplicate-batch",
		attribute.String("run.id", runID),
		attribute.String("survey.template_id", input.TemplateSurveyID),
		attribute.Int("courses", len(input.Courses)),
	)
	defer span.End()

	surveyIDs, err := s.duplicateAll(ctx, log, input)

	status := "succeeded"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.obs != nil {
		s.obs.RecordBatch(ctx, status, len(input.Courses), time.Since(start))
	}

	if err != nil {
		log.Error("Survey duplication batch failed", map[string]interface{}{
			"code":       string(apperrors.CodeOf(err)),
			"error":      err.Error(),
			"durationMs": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	pairs := make([]CoursePair, len(input.Courses))
	for i, course := range input.Courses {
		pairs[i] = CoursePair{Course: course, SurveyID: surveyIDs[i]}
	}

	log.Info("Survey duplication batch completed", map[string]interface{}{
		"surveys":    len(pairs),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Output{RunID: runID, Pairs: pairs}, nil
}

func (s *Service) duplicateAll(ctx context.Context, log logger.Logger, input *Input) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	if s.config.MaxConcurrency > 0 {
		g.SetLimit(s.config.MaxConcurrency)
	}

	// Each goroutine writes only its own index.
	surveyIDs := make([]string, len(input.Courses))
	for i, course := range input.Courses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := s.duplicateOne(gctx, log, input.TemplateSurveyID, course)
			if err != nil {
				return err
			}
			surveyIDs[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return surveyIDs, nil
}

func (s *Service) duplicateOne(ctx context.Context, log logger.Logger, templateID, course string) (string, error) {
	metrics.SurveyCopiesActive.WithLabelValues(templateID).Inc()
	defer metrics.SurveyCopiesActive.WithLabelValues(templateID).Dec()

	ctx, span := s.startSpan(ctx, "duplicate-survey", attribute.String("course", course))
	defer span.End()

	start := time.Now()
	// The new survey is named after the course.
	surveyName := course

	resp, err := s.client.Duplicate(ctx, templateID, surveyName)
	if err != nil {
		code := apperrors.CodeOf(err)
		if code == "" {
			code = "UNKNOWN_ERROR"
		}
		metrics.SurveyCopiesFailed.WithLabelValues(templateID, string(code)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var stdErr *apperrors.StandardError
		if stderrors.As(err, &stdErr) {
			stdErr.WithMetadata("course", course)
		}

		if ctx.Err() != nil && stderrors.Is(err, context.Canceled) {
			log.Debug("Survey copy cancelled", map[string]interface{}{"course": course})
		} else {
			log.WithError(err).Warn("Survey copy failed", map[string]interface{}{
				"course": course,
				"code":   string(code),
			})
		}
		return "", fmt.Errorf("duplicate survey for course %q: %w", course, err)
	}

	metrics.SurveyCopiesCompleted.WithLabelValues(templateID).Inc()
	metrics.SurveyCopyDuration.WithLabelValues(templateID).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("survey.id", resp.SurveyID()))

	log.Debug("Survey duplicated", map[string]interface{}{
		"course":   course,
		"surveyId": resp.SurveyID(),
	})

	return resp.SurveyID(), nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.obs != nil {
		return s.obs.StartSpan(ctx, name, attrs...)
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
