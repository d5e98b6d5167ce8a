package create_appointment

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64   `json:"serviceId"`
	StaffID   int64   `json:"staffId"`
	BranchID  *int64  `json:"branchId,omitempty"`
	StartTime string  `json:"startTime"`         // RFC3339
	EndTime   *string `json:"endTime,omitempty"` // RFC3339, по умолчанию из длительности услуги
	Source    *string `json:"source,omitempty"`  // walk_in (по умолчанию) или online

	CustomerID    *int64  `json:"customerId,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	PromoCode *string `json:"promoCode,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64   `json:"id"`
	TenantID       int64   `json:"tenantId"`
	ServiceID      int64   `json:"serviceId"`
	StaffID        int64   `json:"staffId"`
	BranchID       *int64  `json:"branchId,omitempty"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	PaymentStatus  string  `json:"paymentStatus"`
	ServiceName    string  `json:"serviceName"`
	OriginalPrice  float64 `json:"originalPrice"`
	FinalPrice     float64 `json:"finalPrice"`
	PromotionID    *int64  `json:"promotionId,omitempty"`
	DiscountCodeID *int64  `json:"discountCodeId,omitempty"`
	DiscountType   *string `json:"discountType,omitempty"`
	DiscountAmount float64 `json:"discountAmount"`
	CustomerID     *int64  `json:"customerId,omitempty"`
	CustomerName   *string `json:"customerName,omitempty"`
	CustomerPhone  *string `json:"customerPhone,omitempty"`
	CustomerEmail  *string `json:"customerEmail,omitempty"`
	Notes          *string `json:"notes,omitempty"`

	ManageToken          *string `json:"manageToken,omitempty"`
	ManageTokenExpiresAt *string `json:"manageTokenExpiresAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(tenantID int64) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	var endTime *time.Time
	if r.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		endTime = &parsed
	}

	source := string(domain.SourceWalkIn)
	if r.Source != nil {
		source = *r.Source
	}

	return &createAppointment.Request{
		TenantID:      tenantID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		BranchID:      r.BranchID,
		StartTime:     startTime,
		EndTime:       endTime,
		Source:        source,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		PromoCode:     r.PromoCode,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	response := &AppointmentResponse{
		ID:             resp.ID,
		TenantID:       resp.TenantID,
		ServiceID:      resp.ServiceID,
		StaffID:        resp.StaffID,
		BranchID:       resp.BranchID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         resp.Status,
		Source:         resp.Source,
		PaymentStatus:  resp.PaymentStatus,
		ServiceName:    resp.ServiceName,
		OriginalPrice:  resp.OriginalPrice,
		FinalPrice:     resp.FinalPrice,
		PromotionID:    resp.PromotionID,
		DiscountCodeID: resp.DiscountCodeID,
		DiscountType:   resp.DiscountType,
		DiscountAmount: resp.DiscountAmount,
		CustomerID:     resp.CustomerID,
		CustomerName:   resp.CustomerName,
		CustomerPhone:  resp.CustomerPhone,
		CustomerEmail:  resp.CustomerEmail,
		Notes:          resp.Notes,
		ManageToken:    resp.ManageToken,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ManageTokenExpiresAt != nil {
		expiresAt := resp.ManageTokenExpiresAt.Format(time.RFC3339)
		response.ManageTokenExpiresAt = &expiresAt
	}

	return response
}
