package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/middleware"
	"stripe-integration-demo/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.orderService.CreateOrder(ctx, userID, req.ProductID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}
