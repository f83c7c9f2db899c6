package dto

// StockItemRequest is the create/update payload for stock items.
// Update has full-record replace semantics: every field is resupplied.
type StockItemRequest struct {
	Name           string      `json:"name"`
	Reference      string      `json:"reference"`
	Quantity       FlexInt     `json:"quantity"`
	Unit           string      `json:"unit"`
	Location       string      `json:"location"`
	UnitPrice      FlexDecimal `json:"unit_price"`
	AlertThreshold FlexInt     `json:"alert_threshold"`
	Category       string      `json:"category"`
	Notes          string      `json:"notes"`
}

// QuantityPatchRequest is the single dedicated partial update.
type QuantityPatchRequest struct {
	Quantity FlexInt `json:"quantity"`
}

type ProductFilter struct {
	Category string `form:"category"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}
