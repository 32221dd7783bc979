package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest         = "bad_request"
	CodeNotFound           = "not_found"
	CodeInvalidConfig      = "invalid_config"
	CodeInvalidItem        = "invalid_item"
	CodeDanglingDependency = "dangling_dependency"
	CodeCycleDetected      = "cycle_detected"
	CodeInternal           = "internal"
)

var (
	errBadRequest = errors.New("bad request")
	errNoRoute    = errors.New("no such route")
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []string            `json:"details,omitempty"`
	Fields  []design.FieldError `json:"fields,omitempty"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// toErrorResponse maps domain errors onto a status and body.
func toErrorResponse(err error) (int, ErrorResponse) {
	var cve *design.ConfigValidationError
	var sve *registry.SchemaValidationError

	switch {
	case errors.As(err, &cve):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeInvalidConfig, Fields: cve.Fields}
	case errors.As(err, &sve):
		details := make([]string, 0, len(sve.Issues))
		for _, is := range sve.Issues {
			details = append(details, fmt.Sprintf("%s at %s: %s", is.Code, is.Path, is.Message))
		}
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeInvalidItem, Details: details}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeBadRequest}
	case errors.Is(err, errNoRoute),
		errors.Is(err, registry.ErrUnknownStyle),
		errors.Is(err, registry.ErrItemNotFound),
		errors.Is(err, design.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound}
	case errors.Is(err, registry.ErrDanglingDependency):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeDanglingDependency}
	case errors.Is(err, registry.ErrCycleDetected):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeCycleDetected}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError), Code: CodeInternal}
	}
}
