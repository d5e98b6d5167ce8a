package models

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// Метки области действия политики в ответах API
const (
	ScopeGlobal          = "global"
	ScopeBranch          = "branch"
	ScopeService         = "service"
	ScopeServiceAtBranch = "service@branch"
	ScopeDefault         = "default" // встроенные значения, в БД политики нет
)

// Request модели

// ResolvePolicyRequest запрос на получение действующей политики
// BranchID и ServiceID опциональны - используются для иерархического поиска
type ResolvePolicyRequest struct {
	TenantID  int64  `json:"tenantId"`
	BranchID  *int64 `json:"branchId,omitempty"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// UpsertPolicyRequest запрос на создание или замену политики области действия
// Непереданные числовые поля получают встроенные значения по умолчанию
type UpsertPolicyRequest struct {
	TenantID            int64  `json:"tenantId"`
	BranchID            *int64 `json:"branchId,omitempty"`  // NULL = для всех филиалов
	ServiceID           *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotIntervalMinutes *int   `json:"slotIntervalMinutes,omitempty"`
	BufferMinutes       *int   `json:"bufferMinutes,omitempty"`
	MinAdvanceHours     *int   `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays      *int   `json:"maxAdvanceDays,omitempty"` // 0 = без ограничений
	CancellationHours   *int   `json:"cancellationHours,omitempty"`
	AllowCancellation   *bool  `json:"allowCancellation,omitempty"`
	AutoConfirmOnline   *bool  `json:"autoConfirmOnline,omitempty"`
}

// DeletePolicyRequest запрос на удаление политики области действия
type DeletePolicyRequest struct {
	TenantID  int64  `json:"tenantId"`
	BranchID  *int64 `json:"branchId,omitempty"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// Response модели

// PolicyResponse ответ с данными политики бронирования
type PolicyResponse struct {
	ID                  int64     `json:"id,omitempty"` // 0 для встроенной политики
	TenantID            int64     `json:"tenantId"`
	BranchID            *int64    `json:"branchId,omitempty"`
	ServiceID           *int64    `json:"serviceId,omitempty"`
	Scope               string    `json:"scope"`
	SlotIntervalMinutes int       `json:"slotIntervalMinutes"`
	BufferMinutes       int       `json:"bufferMinutes"`
	MinAdvanceHours     int       `json:"minAdvanceHours"`
	MaxAdvanceDays      int       `json:"maxAdvanceDays"`
	CancellationHours   int       `json:"cancellationHours"`
	AllowCancellation   bool      `json:"allowCancellation"`
	AutoConfirmOnline   bool      `json:"autoConfirmOnline"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
}

// PolicyListResponse ответ со списком политик салона
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:                  p.ID,
		TenantID:            p.TenantID,
		BranchID:            p.BranchID,
		ServiceID:           p.ServiceID,
		Scope:               ScopeLabel(p),
		SlotIntervalMinutes: p.SlotIntervalMinutes,
		BufferMinutes:       p.BufferMinutes,
		MinAdvanceHours:     p.MinAdvanceHours,
		MaxAdvanceDays:      p.MaxAdvanceDays,
		CancellationHours:   p.CancellationHours,
		AllowCancellation:   p.AllowCancellation,
		AutoConfirmOnline:   p.AutoConfirmOnline,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.BookingPolicy) *PolicyListResponse {
	if policies == nil {
		return &PolicyListResponse{
			Policies: []PolicyResponse{},
		}
	}

	resp := &PolicyListResponse{
		Policies: make([]PolicyResponse, len(policies)),
	}

	for i, policy := range policies {
		if policyResp := FromDomainPolicy(policy); policyResp != nil {
			resp.Policies[i] = *policyResp
		}
	}

	return resp
}

// ToDomainPolicy конвертирует UpsertPolicyRequest в domain модель
// Непереданные поля заполняются встроенными значениями по умолчанию
func (r *UpsertPolicyRequest) ToDomainPolicy() *domain.BookingPolicy {
	policy := domain.DefaultPolicy(r.TenantID)
	policy.BranchID = r.BranchID
	policy.ServiceID = r.ServiceID

	if r.SlotIntervalMinutes != nil {
		policy.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.BufferMinutes != nil {
		policy.BufferMinutes = *r.BufferMinutes
	}
	if r.MinAdvanceHours != nil {
		policy.MinAdvanceHours = *r.MinAdvanceHours
	}
	if r.MaxAdvanceDays != nil {
		policy.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.CancellationHours != nil {
		policy.CancellationHours = *r.CancellationHours
	}
	if r.AllowCancellation != nil {
		policy.AllowCancellation = *r.AllowCancellation
	}
	if r.AutoConfirmOnline != nil {
		policy.AutoConfirmOnline = *r.AutoConfirmOnline
	}

	return policy
}

// ScopeLabel возвращает строковую метку области действия политики
func ScopeLabel(p *domain.BookingPolicy) string {
	switch {
	case p.IsServiceAtBranch():
		return ScopeServiceAtBranch
	case p.IsBranchSpecific():
		return ScopeBranch
	case p.IsServiceSpecific():
		return ScopeService
	case p.ID == 0:
		return ScopeDefault
	default:
		return ScopeGlobal
	}
}
