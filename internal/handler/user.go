package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stripe-integration-demo/internal/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	return c.JSON(http.StatusOK, map[string]string{"id": userID})
}
