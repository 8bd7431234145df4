package response

import (
	"errors"
	"github.com/go-playground/validator/v10"
)

// Response mirrors the envelope used by the remote school API, so the front
// end unwraps our answers the same way.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func OkMessage(data interface{}, message string) Response {
	return Response{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func Error(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// ValidationError lists the failed rule per field.
func ValidationError(err error) Response {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Error(err.Error())
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fe.Tag()
	}
	return Response{
		Success: false,
		Data:    fields,
		Message: "Validation failed",
	}
}
