package dto

type CreateOrderRequest struct {
	ProductID string `json:"productId"`
}

type CreateOrderResponse struct {
	OrderID      string `json:"orderId"`
	ClientSecret string `json:"clientSecret"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"` // major units, e.g. "25.00"
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
