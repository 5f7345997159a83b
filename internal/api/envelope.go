package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookrec/internal/http/response"
)

// EnvelopeVersion is the response envelope format version.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and simple errors.
type APIEnvelope = response.Envelope //nolint:revive // matches APIError

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope = response.ErrorEnvelope //nolint:revive // matches APIError

// EnvelopeTransformer is a huma transformer that wraps every response body
// in the versioned envelope. Coded errors keep their code and details;
// other errors collapse to a message string.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code < 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	switch e := v.(type) {
	case *APIError:
		if e.Code == "" {
			return APIEnvelope{Version: EnvelopeVersion, Error: e.Message}, nil
		}
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		}, nil
	case error:
		return APIEnvelope{Version: EnvelopeVersion, Error: e.Error()}, nil
	default:
		return APIEnvelope{Version: EnvelopeVersion, Data: v}, nil
	}
}
