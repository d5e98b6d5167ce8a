package notifyservice

// Notification уведомление для персонала или клиента салона
type Notification struct {
	TenantID      int64  `json:"tenant_id"`
	AppointmentID int64  `json:"appointment_id"`
	Event         string `json:"event"`
	Title         string `json:"title"`
	Message       string `json:"message"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
