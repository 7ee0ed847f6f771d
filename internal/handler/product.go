package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/model"
	"stripe-integration-demo/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	product, err := h.productService.CreateProduct(ctx, req.Name, req.Description, price)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.GetProducts(ctx)
	if err != nil {
		return err
	}

	if products == nil {
		products = []*model.Product{}
	}
	return c.JSON(http.StatusOK, products)
}
