package reminderservice

import "time"

// ScheduleRequest постановка напоминания о предстоящей записи
type ScheduleRequest struct {
	TenantID      int64     `json:"tenant_id"`
	AppointmentID int64     `json:"appointment_id"`
	StartTime     time.Time `json:"start_time"`
}

// ErrorResponse модель ошибки от сервиса напоминаний
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
