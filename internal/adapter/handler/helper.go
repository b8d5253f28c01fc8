package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/errors"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessStatus is HandleSuccess with an explicit HTTP status
func HandleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(toAppError(err), &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// toAppError translates use-case sentinels into their HTTP representation
func toAppError(err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrPermissionDenied("you can only change your own profile")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidCredentials):
		return errors.ErrInvalidCredentials()
	case stdErrors.Is(err, usecaseErrors.ErrTokenExpired):
		return errors.ErrTokenExpired()
	case stdErrors.Is(err, usecaseErrors.ErrTokenInvalid):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, usecaseErrors.ErrEmailAlreadyUsed):
		return errors.ErrEmailTaken()
	case stdErrors.Is(err, usecaseErrors.ErrUsernameTaken):
		return errors.ErrUsernameTaken()
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.ErrAlreadyExists("user")
	case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
		return errors.ErrUserNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrConversationNotFound):
		return errors.ErrConversationNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrConversationEnded):
		return errors.ErrConversationEnded()
	case stdErrors.Is(err, usecaseErrors.ErrConversationAccess):
		return errors.ErrConversationAccessDenied()
	case stdErrors.Is(err, usecaseErrors.ErrNotEnoughMessages):
		return errors.ErrNotEnoughMessages()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidScenario):
		return errors.ErrInvalidScenario()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidDifficulty):
		return errors.ErrInvalidDifficulty()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidScore):
		return errors.ErrInvalidScore()
	case stdErrors.Is(err, usecaseErrors.ErrStreakBusy):
		return errors.ErrStreakBusy()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidEmail),
		stdErrors.Is(err, usecaseErrors.ErrWeakPassword),
		stdErrors.Is(err, usecaseErrors.ErrMissingFields),
		stdErrors.Is(err, usecaseErrors.ErrInvalidLevel),
		stdErrors.Is(err, usecaseErrors.ErrEmptyMessage):
		return errors.ErrInvalidArgument(err.Error())
	}
	return errors.ErrInternal(err)
}

// bindAndValidate decodes the body into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrValidation(err)
	}
	return nil
}

// uuidParam parses a path parameter as a UUID
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name).WithDetail(name, c.Param(name))
	}
	return id, nil
}

// intQuery reads a positive integer query parameter, falling back to def
func intQuery(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// currentUser returns the authenticated user set by the auth middleware
func currentUser(c echo.Context) (*entities.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, errors.ErrUnauthenticated()
	}
	return user, nil
}
