package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	userDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/user"
	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/presenter"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	userUsecase "github.com/johnquangdev/loan-agent-trainer/internal/usecase/user"
)

// User handles profile HTTP requests
type User struct {
	svc    userUsecase.Service
	logger *zap.Logger
}

// NewUser creates a new user handler
func NewUser(svc userUsecase.Service, logger *zap.Logger) *User {
	return &User{svc: svc, logger: logger}
}

// UpdateDifficulty handles PUT /users/:userId/difficulty
// @Summary      Update difficulty
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string                           true  "User ID (UUID)"
// @Param        request  body      userDTO.UpdateDifficultyRequest  true  "easy or hard"
// @Success      200      {object}  map[string]interface{}  "Updated user"
// @Failure      400      {object}  map[string]interface{}  "Invalid difficulty value"
// @Failure      403      {object}  map[string]interface{}  "Not allowed"
// @Failure      404      {object}  map[string]interface{}  "User not found"
// @Router       /users/{userId}/difficulty [put]
func (h *User) UpdateDifficulty(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req userDTO.UpdateDifficultyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	updated, err := h.svc.UpdateDifficulty(c.Request().Context(), actor, userID, entities.Difficulty(req.Difficulty))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToUserResponse(updated))
}

// UpdateLevel handles PUT /users/:userId/level
// @Summary      Update level
// @Description  Sets the training level and optionally the difficulty
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string                      true  "User ID (UUID)"
// @Param        request  body      userDTO.UpdateLevelRequest  true  "Level and optional difficulty"
// @Success      200      {object}  map[string]interface{}  "Updated user"
// @Failure      400      {object}  map[string]interface{}  "Invalid level"
// @Failure      403      {object}  map[string]interface{}  "Not allowed"
// @Router       /users/{userId}/level [put]
func (h *User) UpdateLevel(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req userDTO.UpdateLevelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var difficulty *entities.Difficulty
	if req.Difficulty != "" {
		d := entities.Difficulty(req.Difficulty)
		difficulty = &d
	}

	updated, err := h.svc.UpdateLevel(c.Request().Context(), actor, userID, req.Level, difficulty)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToUserResponse(updated))
}
