package dto

// MaintenanceRequest creates or fully replaces a maintenance record.
type MaintenanceRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduled_date"` // "2006-01-02" or RFC 3339
	CompletedDate string `json:"completed_date"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
}
