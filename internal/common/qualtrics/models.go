package qualtrics

import "time"

// CopyRequest is the body of a copy-survey call.
type CopyRequest struct {
	ProjectName string `json:"projectName"`
}

// CopyResponse is the subset of the copy-survey response the duplicator consumes.
type CopyResponse struct {
	Result struct {
		ID string `json:"id"`
	} `json:"result"`
}

// SurveyID returns the id of the newly created survey.
func (r *CopyResponse) SurveyID() string {
	return r.Result.ID
}

// SurveyUpdate is the body of an update-survey call. Unset fields are omitted.
type SurveyUpdate struct {
	Name       string      `json:"name,omitempty"`
	IsActive   *bool       `json:"isActive,omitempty"`
	Expiration *Expiration `json:"expiration,omitempty"`
}

type Expiration struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// copyResponseSchema is the shape a successful copy response must have. An
// empty id is still a string and is accepted.
var copyResponseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"result"},
	"properties": map[string]interface{}{
		"result": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"id"},
			"properties": map[string]interface{}{
				"id": map[string]interface{}{"type": "string"},
			},
		},
	},
}
