package serverutils

import "github.com/gofiber/fiber/v2"

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Message: message,
		Data:    data,
	}
}

// HttpError carries a status code so the error middleware can map it.
type HttpError struct {
	Code    int
	Message string
}

func (e *HttpError) Error() string {
	return e.Message
}

func NewHttpError(code int, message string) *HttpError {
	return &HttpError{Code: code, Message: message}
}

var (
	ErrBadRequest = func(msg string) *HttpError { return NewHttpError(fiber.StatusBadRequest, msg) }
	ErrNotFound   = func(msg string) *HttpError { return NewHttpError(fiber.StatusNotFound, msg) }
)
