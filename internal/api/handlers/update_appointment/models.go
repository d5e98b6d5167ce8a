package update_appointment

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/service/appointments/models"
)

// UpdateAppointmentRequest HTTP request model
// Все поля опциональны - применяются только переданные изменения
type UpdateAppointmentRequest struct {
	Status             *string `json:"status,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	StartTime          *string `json:"startTime,omitempty"` // RFC3339
	EndTime            *string `json:"endTime,omitempty"`   // RFC3339
	StaffID            *int64  `json:"staffId,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAppointmentRequest) ToServiceRequest(tenantID, appointmentID int64) (*models.UpdateAppointmentRequest, error) {
	req := &models.UpdateAppointmentRequest{
		TenantID:           tenantID,
		AppointmentID:      appointmentID,
		Status:             r.Status,
		CancellationReason: r.CancellationReason,
		StaffID:            r.StaffID,
		Notes:              r.Notes,
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}
