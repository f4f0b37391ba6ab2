package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const internalErrorMessage = "An unexpected server error occurred"

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorHandler converts any error returned by a handler into a JSON body
// with a status derived from the error category. Internal details are
// logged, never sent.
func ErrorHandler(logger enrollment.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = nopLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, internalErrorMessage).
				WithCode(http.StatusInternalServerError)
		}

		status := StatusCode(richErr)
		resp := ErrorResponse{Error: richErr.Message}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.OriginalURL(),
				"error", err,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
			resp.Error = internalErrorMessage
		} else {
			logger.Debug("request rejected",
				"method", c.Method(),
				"path", c.OriginalURL(),
				"status", status,
				"text_code", richErr.TextCode,
			)
		}

		if richErr.Category == goerrors.CategoryValidation {
			if fields := richErr.ValidationMap(); len(fields) > 0 {
				resp.Fields = fields
			}
		}

		return c.Status(status).JSON(resp)
	}
}

// StatusCode returns the HTTP status for err, preferring an explicit code
// over the category default
func StatusCode(err *goerrors.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	if err.Code >= 400 && err.Code < 600 {
		return err.Code
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errStudentsOnly rejects non student callers of student self service routes
var errStudentsOnly = goerrors.New("Students only", goerrors.CategoryAuthz).
	WithCode(http.StatusForbidden).
	WithTextCode(enrollment.TextCodeForbidden)

func badRequest(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(goerrors.HTTPStatusToTextCode(http.StatusBadRequest))
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
