package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/errors"
	streakDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/streak"
	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/presenter"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/streak"
)

// Streak handles daily performance streak HTTP requests
type Streak struct {
	svc    streak.Service
	logger *zap.Logger
}

// NewStreak creates a new streak handler
func NewStreak(svc streak.Service, logger *zap.Logger) *Streak {
	return &Streak{svc: svc, logger: logger}
}

// Update handles POST /streak/user/:userId/streak
// @Summary      Update streak
// @Description  Records today's score, or only checks for missed days when no score is sent
// @Tags         Streak
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string                   true   "User ID (UUID)"
// @Param        request  body      streakDTO.UpdateRequest  false  "Today's score"
// @Success      200      {object}  streakDTO.UpdateResponse
// @Failure      400      {object}  map[string]interface{}  "Score out of range"
// @Failure      404      {object}  map[string]interface{}  "User not found"
// @Failure      409      {object}  map[string]interface{}  "Update already in progress"
// @Router       /streak/user/{userId}/streak [post]
func (h *Streak) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if !user.CanManage(userID) {
		return HandleError(h.logger, c, errors.ErrPermissionDenied("you can only update your own streak"))
	}

	var req streakDTO.UpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.svc.UpdateStreak(c.Request().Context(), userID, req.TodayScore)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &streakDTO.UpdateResponse{
		CurrentStreak: out.CurrentStreak,
		Message:       out.Message,
	})
}

// Get handles GET /streak/user/:userId/streak
// @Summary      Get streak
// @Description  Returns the streak after applying any pending reset
// @Tags         Streak
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID (UUID)"
// @Success      200     {object}  streakDTO.GetResponse
// @Failure      404     {object}  map[string]interface{}  "User not found"
// @Router       /streak/user/{userId}/streak [get]
func (h *Streak) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if !user.CanManage(userID) {
		return HandleError(h.logger, c, errors.ErrPermissionDenied("you can only view your own streak"))
	}

	out, err := h.svc.GetStreak(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToStreakResponse(out))
}
