package qualtrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"survey-duplicator/internal/common/config"
	apperrors "survey-duplicator/internal/common/errors"
	commonhttp "survey-duplicator/internal/common/http"
	"survey-duplicator/internal/common/validation"
)

const (
	HeaderAPIToken      = "X-API-TOKEN"
	HeaderCopySource    = "X-COPY-SOURCE"
	HeaderCopyDestOwner = "X-COPY-DESTINATION-OWNER"
)

const (
	OperationCopy   = "copy"
	OperationUpdate = "update"
)

const (
	maxErrorBodyInDetails = 512
	maxResponseBodyLength = 8 << 20
)

// Client performs authenticated calls against the survey-copy endpoint.
// It holds no state between calls and is safe for concurrent use.
type Client struct {
	endpoint   string
	token      string
	userID     string
	httpClient commonhttp.Doer
	copySchema *validation.Schema
}

// NewClient builds a client from cfg. When doer is nil a client with cfg's
// request timeout is used.
func NewClient(cfg config.QualtricsConfig, doer commonhttp.Doer) *Client {
	if doer == nil {
		doer = commonhttp.NewClient(cfg.RequestTimeout())
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		userID:     cfg.UserID,
		httpClient: doer,
		copySchema: validation.MustSchema("qualtrics.copy-response", copyResponseSchema),
	}
}

// Copy creates a copy of surveyID owned by destOwnerID and named projectName.
func (c *Client) Copy(ctx context.Context, surveyID, destOwnerID, projectName string) (*CopyResponse, error) {
	payload, err := json.Marshal(CopyRequest{ProjectName: projectName})
	if err != nil {
		return nil, apperrors.NewRequestError(OperationCopy, fmt.Errorf("failed to marshal copy request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewRequestError(OperationCopy, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set(HeaderAPIToken, c.token)
	req.Header.Set(HeaderCopySource, surveyID)
	req.Header.Set(HeaderCopyDestOwner, destOwnerID)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req, OperationCopy)
	if err != nil {
		return nil, err
	}

	return c.decodeCopy(status, body)
}

// decodeCopy accepts any body shaped like {"result":{"id":<string>}}, whatever
// the status code. Other bodies are Decode errors carrying the status.
func (c *Client) decodeCopy(status int, body []byte) (*CopyResponse, error) {
	result, err := c.copySchema.ValidateJSON(body)
	if err == nil {
		err = result.Err()
	}
	if err != nil {
		if !isSuccess(status) {
			err = fmt.Errorf("unexpected status %d: %s: %w", status, truncate(body, maxErrorBodyInDetails), err)
		}
		return nil, apperrors.NewDecodeError(OperationCopy, err).
			WithMetadata("status", status).
			WithMetadata("schema", c.copySchema.Name())
	}

	var copyResp CopyResponse
	if err := json.Unmarshal(body, &copyResp); err != nil {
		return nil, apperrors.NewDecodeError(OperationCopy, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	return &copyResp, nil
}

// Duplicate copies surveyID into the configured operator's account.
func (c *Client) Duplicate(ctx context.Context, surveyID, copyName string) (*CopyResponse, error) {
	return c.Copy(ctx, surveyID, c.userID, copyName)
}

// Update applies update to surveyID and returns the raw response body.
func (c *Client) Update(ctx context.Context, surveyID string, update *SurveyUpdate) (string, error) {
	if update == nil {
		update = &SurveyUpdate{}
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return "", apperrors.NewRequestError(OperationUpdate, fmt.Errorf("failed to marshal update: %w", err))
	}

	target := strings.TrimSuffix(c.endpoint, "/") + "/" + url.PathEscape(surveyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewRequestError(OperationUpdate, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set(HeaderAPIToken, c.token)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req, OperationUpdate)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", apperrors.NewRequestError(OperationUpdate,
			fmt.Errorf("unexpected status %d: %s", status, truncate(body, maxErrorBodyInDetails))).
			WithMetadata("status", status)
	}
	return string(body), nil
}

// do executes req and returns the status code and the full body.
func (c *Client) do(req *http.Request, operation string) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.NewRequestError(operation, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLength+1))
	if err != nil {
		return 0, nil, apperrors.NewRequestError(operation, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(body) > maxResponseBodyLength {
		return 0, nil, apperrors.NewRequestError(operation,
			fmt.Errorf("response body exceeds %d bytes", maxResponseBodyLength)).
			WithMetadata("status", resp.StatusCode)
	}

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
