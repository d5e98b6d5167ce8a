package models

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// InvoiceResponse ответ с данными счёта
type InvoiceResponse struct {
	ID            int64  `json:"id"`
	TenantID      int64  `json:"tenantId"`
	AppointmentID int64  `json:"appointmentId"`
	CustomerID    *int64 `json:"customerId,omitempty"`
	InvoiceNumber string `json:"invoiceNumber"`

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	DiscountType   *string `json:"discountType,omitempty"`
	TaxRate        float64 `json:"taxRate"`
	TaxAmount      float64 `json:"taxAmount"`
	TipAmount      float64 `json:"tipAmount"`
	Total          float64 `json:"total"`
	AmountPaid     float64 `json:"amountPaid"`
	Currency       string  `json:"currency"`

	Status        string     `json:"status"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`

	Items []InvoiceItemResponse `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceItemResponse строка счёта
type InvoiceItemResponse struct {
	ID          int64   `json:"id"`
	ItemType    string  `json:"itemType"`
	ReferenceID *int64  `json:"referenceId,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// FromDomainInvoice конвертирует domain.Invoice в response модель
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		AppointmentID:  inv.AppointmentID,
		CustomerID:     inv.CustomerID,
		InvoiceNumber:  inv.InvoiceNumber,
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		TipAmount:      inv.TipAmount,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		Currency:       inv.Currency,
		Status:         string(inv.Status),
		PaidAt:         inv.PaidAt,
		Items:          make([]InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}

	if inv.DiscountType != nil {
		discountType := string(*inv.DiscountType)
		resp.DiscountType = &discountType
	}
	if inv.PaymentMethod != nil {
		method := string(*inv.PaymentMethod)
		resp.PaymentMethod = &method
	}

	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID,
			ItemType:    string(item.ItemType),
			ReferenceID: item.ReferenceID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	return resp
}
