package models

import (
	"errors"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение календаря салона
type ListAppointmentsRequest struct {
	TenantID        int64      `json:"tenantId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	BranchID        *int64     `json:"branchId,omitempty"`        // Фильтр по филиалу (опционально)
	CustomerID      *int64     `json:"customerId,omitempty"`      // Фильтр по клиенту (опционально)
	DateFrom        *time.Time `json:"dateFrom,omitempty"`        // Начало периода (опционально)
	DateTo          *time.Time `json:"dateTo,omitempty"`          // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включать отменённые записи и неявки
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		TenantID:        r.TenantID,
		StaffID:         r.StaffID,
		BranchID:        r.BranchID,
		CustomerID:      r.CustomerID,
		DateFrom:        r.DateFrom,
		DateTo:          r.DateTo,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetCustomerAppointmentsRequest запрос на историю записей клиента
type GetCustomerAppointmentsRequest struct {
	TenantID   int64   `json:"tenantId"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// UpdateAppointmentRequest запрос на изменение записи
// Может переносить запись (время/мастер), менять статус и заметки
type UpdateAppointmentRequest struct {
	TenantID      int64 `json:"tenantId"`
	AppointmentID int64 `json:"appointmentId"`

	Status             *string `json:"status,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	StaffID   *int64     `json:"staffId,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// HasReschedule возвращает true, если запрос меняет время или мастера
func (r *UpdateAppointmentRequest) HasReschedule() bool {
	return r.StartTime != nil || r.EndTime != nil || r.StaffID != nil
}

// HasChanges возвращает true, если запрос содержит хотя бы одно изменение
func (r *UpdateAppointmentRequest) HasChanges() bool {
	return r.HasReschedule() || r.Status != nil || r.Notes != nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID       int64 `json:"id"`
	TenantID int64 `json:"tenantId"`

	CustomerID    *int64  `json:"customerId,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	ServiceID int64  `json:"serviceId"`
	StaffID   int64  `json:"staffId"`
	BranchID  *int64 `json:"branchId,omitempty"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Status        string `json:"status"`
	Source        string `json:"source"`
	PaymentStatus string `json:"paymentStatus"`

	// Денормализованные данные услуги и зафиксированная скидка
	ServiceName    string  `json:"serviceName"`
	OriginalPrice  float64 `json:"originalPrice"`
	FinalPrice     float64 `json:"finalPrice"`
	PromotionID    *int64  `json:"promotionId,omitempty"`
	DiscountCodeID *int64  `json:"discountCodeId,omitempty"`
	DiscountType   *string `json:"discountType,omitempty"`
	DiscountAmount float64 `json:"discountAmount"`

	Notes *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		TenantID:           a.TenantID,
		CustomerID:         a.CustomerID,
		CustomerName:       a.CustomerName,
		CustomerPhone:      a.CustomerPhone,
		CustomerEmail:      a.CustomerEmail,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		BranchID:           a.BranchID,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             string(a.Status),
		Source:             string(a.Source),
		PaymentStatus:      string(a.PaymentStatus),
		ServiceName:        a.ServiceName,
		OriginalPrice:      a.OriginalPrice,
		FinalPrice:         a.FinalPrice,
		PromotionID:        a.PromotionID,
		DiscountCodeID:     a.DiscountCodeID,
		DiscountAmount:     a.DiscountAmount,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.DiscountType != nil {
		discountType := string(*a.DiscountType)
		resp.DiscountType = &discountType
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments[i] = *apptResp
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	if !domain.IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return domain.AppointmentStatus(status), nil
}
