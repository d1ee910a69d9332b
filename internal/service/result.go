package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status classifies the outcome of a service operation. It maps 1:1 to
// HTTP-style semantics but is a domain-level value, independent of transport.
type Status int

const (
	StatusSuccess         Status = 200
	StatusError           Status = 400
	StatusNotFound        Status = 404
	StatusUnexpectedError Status = 500
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusError:
		return "Error"
	case StatusNotFound:
		return "NotFound"
	case StatusUnexpectedError:
		return "UnexpectedError"
	default:
		return "UnexpectedError"
	}
}

// HTTPStatus is the status code the transport boundary should emit.
func (s Status) HTTPStatus() int { return int(s) }

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "Success":
		*s = StatusSuccess
	case "Error":
		*s = StatusError
	case "NotFound":
		*s = StatusNotFound
	case "UnexpectedError":
		*s = StatusUnexpectedError
	default:
		return fmt.Errorf("service: unknown status %q", name)
	}
	return nil
}

// Result is the uniform envelope every service operation returns. Message is
// only populated on failure, so it is omitted from successful payloads.
type Result struct {
	Message    string `json:"message,omitempty"`
	Success    bool   `json:"success"`
	StatusCode Status `json:"statusCode"`
}

// HTTPStatus is the status code the transport boundary should emit for this
// envelope.
func (r Result) HTTPStatus() int { return r.StatusCode.HTTPStatus() }

// OKResult builds a plain success envelope with no payload.
func OKResult() Result {
	return Result{Success: true, StatusCode: StatusSuccess}
}

// FailResult builds a plain failure envelope.
func FailResult(message string, status Status) Result {
	return Result{Message: message, Success: false, StatusCode: status}
}

// TypedResult carries a payload alongside the envelope. Data is set only by
// the OK factory, which makes "success without data" unrepresentable.
type TypedResult[T any] struct {
	Result
	Data *T `json:"data,omitempty"`
}

// OK builds a success envelope wrapping data.
func OK[T any](data T) TypedResult[T] {
	return TypedResult[T]{Result: OKResult(), Data: &data}
}

// Fail builds a failure envelope with no payload.
func Fail[T any](message string, status Status) TypedResult[T] {
	return TypedResult[T]{Result: FailResult(message, status)}
}

// PagedResult wraps a page of items together with the pagination echo and the
// unpaged total.
type PagedResult[T any] struct {
	Result
	Data       *[]T `json:"data,omitempty"`
	TotalCount *int `json:"totalCount,omitempty"`
	Page       *int `json:"page,omitempty"`
	PageSize   *int `json:"pageSize,omitempty"`
}

// OKPage builds a success envelope for one page of items.
func OKPage[T any](data []T, totalCount, page, pageSize int) PagedResult[T] {
	return PagedResult[T]{
		Result:     OKResult(),
		Data:       &data,
		TotalCount: &totalCount,
		Page:       &page,
		PageSize:   &pageSize,
	}
}

// FailPage builds a failure envelope for a paged operation.
func FailPage[T any](message string, status Status) PagedResult[T] {
	return PagedResult[T]{Result: FailResult(message, status)}
}

// FieldError is a single validation finding reported by the Validator
// collaborator.
type FieldError struct {
	Field   string
	Message string
}

// ValidationFailure folds validator findings into one Error envelope, joining
// the individual messages with ", ".
func ValidationFailure[T any](errs []FieldError) TypedResult[T] {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fe.Message)
	}
	return Fail[T](strings.Join(messages, ", "), StatusError)
}
