package api

import (
	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/service"
)

// SubmitAnswerRequest is the body of POST /tasks/{id}. Answer is a pointer so
// that a missing field and an empty string can be told apart.
type SubmitAnswerRequest struct {
	Answer *string `json:"answer" validate:"required"`
}

// TaskResponse is the body of GET /tasks/{id}.
type TaskResponse struct {
	Description string            `json:"description"`
	Parameters  domain.Parameters `json:"parameters"`
	SelfLink    string            `json:"selfLink"`
	// TTL is the remaining lifetime in seconds
	TTL int64 `json:"ttl"`
}

// CheckResultResponse is the body of POST /tasks/{id}.
type CheckResultResponse struct {
	CheckResult  bool   `json:"checkResult"`
	NextTaskLink string `json:"nextTaskLink,omitempty"`
}

func taskToResponse(view *service.TaskView, selfLink string) TaskResponse {
	return TaskResponse{
		Description: view.Description,
		Parameters:  view.Parameters,
		SelfLink:    selfLink,
		TTL:         int64(view.TTL.Seconds()),
	}
}
