package dto

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type DashboardStats struct {
	TotalProducts int64           `json:"total_products"`
	LowStock      int64           `json:"low_stock"`
	Machines      int64           `json:"machines"`
	ByCategory    []CategoryCount `json:"by_category"`
}
