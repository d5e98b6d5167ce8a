package public_book

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

// PublicBookRequest HTTP request model
// Онлайн-запись всегда идёт с контактными данными клиента
type PublicBookRequest struct {
	ServiceID     int64   `json:"serviceId"`
	StaffID       int64   `json:"staffId"`
	BranchID      *int64  `json:"branchId,omitempty"`
	StartTime     string  `json:"startTime"` // RFC3339
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	PromoCode     *string `json:"promoCode,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// PublicBookResponse HTTP response model
// Отдаёт клиенту подтверждение записи и ссылку самообслуживания
type PublicBookResponse struct {
	ID             int64   `json:"id"`
	ServiceID      int64   `json:"serviceId"`
	StaffID        int64   `json:"staffId"`
	BranchID       *int64  `json:"branchId,omitempty"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	ServiceName    string  `json:"serviceName"`
	OriginalPrice  float64 `json:"originalPrice"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalPrice     float64 `json:"finalPrice"`
	CustomerName   *string `json:"customerName,omitempty"`

	ManageToken          *string `json:"manageToken,omitempty"`
	ManageTokenExpiresAt *string `json:"manageTokenExpiresAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PublicBookRequest) ToUseCaseRequest(tenantID int64) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	customerName := r.CustomerName

	return &createAppointment.Request{
		TenantID:      tenantID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		BranchID:      r.BranchID,
		StartTime:     startTime,
		Source:        string(domain.SourceOnline),
		CustomerName:  &customerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		PromoCode:     r.PromoCode,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *PublicBookResponse {
	response := &PublicBookResponse{
		ID:             resp.ID,
		ServiceID:      resp.ServiceID,
		StaffID:        resp.StaffID,
		BranchID:       resp.BranchID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         resp.Status,
		ServiceName:    resp.ServiceName,
		OriginalPrice:  resp.OriginalPrice,
		DiscountAmount: resp.DiscountAmount,
		FinalPrice:     resp.FinalPrice,
		CustomerName:   resp.CustomerName,
		ManageToken:    resp.ManageToken,
	}

	if resp.ManageTokenExpiresAt != nil {
		expiresAt := resp.ManageTokenExpiresAt.Format(time.RFC3339)
		response.ManageTokenExpiresAt = &expiresAt
	}

	return response
}
