package models

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// ManageView представление записи для страницы самообслуживания клиента
// CanCancel учитывает статус записи и политику отмены на момент запроса
type ManageView struct {
	AppointmentID  int64      `json:"appointmentId"`
	Status         string     `json:"status"`
	ServiceName    string     `json:"serviceName"`
	StaffID        int64      `json:"staffId"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	FinalPrice     float64    `json:"finalPrice"`
	CustomerName   *string    `json:"customerName,omitempty"`
	CanCancel      bool       `json:"canCancel"`
	CancelDeadline *time.Time `json:"cancelDeadline,omitempty"`
}

// BuildManageView собирает представление записи для клиента
// Дедлайн отмены показывается, только пока запись ещё можно отменять
func BuildManageView(appt *domain.Appointment, policy *domain.BookingPolicy, now time.Time) *ManageView {
	view := &ManageView{
		AppointmentID: appt.ID,
		Status:        string(appt.Status),
		ServiceName:   appt.ServiceName,
		StaffID:       appt.StaffID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		FinalPrice:    appt.FinalPrice,
		CustomerName:  appt.CustomerName,
	}

	if policy.AllowCancellation && appt.CanBeCancelled() {
		deadline := policy.CancellationDeadline(appt.StartTime)
		view.CancelDeadline = &deadline
		view.CanCancel = policy.CanCustomerCancelAt(now, appt.StartTime)
	}

	return view
}
