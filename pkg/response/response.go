package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST ErrCode = "REQUEST_FAILED"
	BAD_REQUEST    ErrCode = "FAILED_TO_DECODE"
	VALIDATION     ErrCode = "VALIDATION_FAILED"
	NOT_FOUND      ErrCode = "NOT_FOUND"
	CONFLICT       ErrCode = "CONFLICT"
	RATE_LIMITED   ErrCode = "RATE_LIMITED"
	MAINTENANCE    ErrCode = "MAINTENANCE"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
