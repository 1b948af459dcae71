package wallet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("all fields required")

// ValidationError reports missing submission input. No request was sent.
type ValidationError struct {
	// Fields maps the offending form field to a readable reason.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	reasons := make([]string, 0, len(e.Fields))
	for _, r := range e.Fields {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return strings.Join(reasons, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// HTTPError is a completed exchange whose status was not 200.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("node returned status %d", e.Code)
	}
	return fmt.Sprintf("node returned status %d: %s", e.Code, e.Body)
}

// DataFormatError is a 200 response whose body does not have the expected shape.
type DataFormatError struct {
	Payload string
	Err     error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Payload, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// Outcome is the terminal state of a single operation.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeValidationError
	OutcomeTransportFailure
	OutcomeHTTPError
	OutcomeDataFormatError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeDataFormatError:
		return "data_format_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Classify maps an operation error onto its Outcome. Anything that is not a
// validation, status or payload error means no usable response was obtained and
// counts as a transport failure (this includes *httpclient.TransportError).
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrValidation) {
		return OutcomeValidationError
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return OutcomeHTTPError
	}
	var formatErr *DataFormatError
	if errors.As(err, &formatErr) {
		return OutcomeDataFormatError
	}
	return OutcomeTransportFailure
}
