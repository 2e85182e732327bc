package duplicator

import (
	"context"

	"survey-duplicator/internal/common/logger"
	"survey-duplicator/internal/common/observability"
	"survey-duplicator/internal/common/qualtrics"
)

// Input is one batch: a template and the courses to copy it for, in output order.
type Input struct {
	TemplateSurveyID string
	Courses          []string
}

// CoursePair maps a course to the survey created for it.
type CoursePair struct {
	Course   string `json:"course"`
	SurveyID string `json:"surveyId"`
}

// Output holds one pair per input course, in input order.
type Output struct {
	RunID string       `json:"runId"`
	Pairs []CoursePair `json:"pairs"`
}

// SurveyDuplicator is the part of the platform client the batch needs.
type SurveyDuplicator interface {
	Duplicate(ctx context.Context, surveyID, copyName string) (*qualtrics.CopyResponse, error)
}

type ServiceDependencies struct {
	Client        SurveyDuplicator
	Logger        logger.Logger
	Observability *observability.Observability
}
