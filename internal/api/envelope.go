package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared envelope.
// Error bodies become {"v":1,"success":false,"error":{...}}.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case *huma.ErrorModel:
		return response.Fail(statusToCode(body.Status), body.Detail, nil), nil
	default:
		return response.OK(v), nil
	}
}

// MessageResponse is the body of operations with nothing else to return.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps MessageResponse for huma.
type MessageOutput struct {
	Body MessageResponse
}
