package scenario

import "errors"

// ErrUnknownType is returned for an unsupported scenario type.
var ErrUnknownType = errors.New("scenario: unknown scenario type")

// ErrEmptyResponse is returned when the model returns an empty or
// whitespace-only response. Anything non-empty passes through unchanged.
var ErrEmptyResponse = errors.New("scenario: model returned an empty response")
