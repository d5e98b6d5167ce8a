package domain

import "time"

// BookingPolicy represents the booking rules for a tenant
// Supports hierarchical configuration:
// 1. Service at specific branch (tenant_id, branch_id, service_id)
// 2. Branch-wide (tenant_id, branch_id, NULL)
// 3. Service-wide (tenant_id, NULL, service_id)
// 4. Tenant-wide (tenant_id, NULL, NULL)
type BookingPolicy struct {
	ID        int64
	TenantID  int64
	BranchID  *int64 // NULL = policy for all branches
	ServiceID *int64 // NULL = policy for all services

	SlotIntervalMinutes int  // Шаг сетки слотов
	BufferMinutes       int  // Технический перерыв после каждой записи
	MinAdvanceHours     int  // Минимальное время до начала записи
	MaxAdvanceDays      int  // 0 = unlimited
	CancellationHours   int  // За сколько часов клиент может отменить запись
	AllowCancellation   bool // Разрешена ли отмена клиентом вообще
	AutoConfirmOnline   bool // Подтверждать ли онлайн-записи автоматически

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGlobal returns true if this is a tenant-wide policy
func (p *BookingPolicy) IsGlobal() bool {
	return p.BranchID == nil && p.ServiceID == nil
}

// IsBranchSpecific returns true if this policy is for a specific branch
func (p *BookingPolicy) IsBranchSpecific() bool {
	return p.BranchID != nil && p.ServiceID == nil
}

// IsServiceSpecific returns true if this policy is for a specific service (branch-wide)
func (p *BookingPolicy) IsServiceSpecific() bool {
	return p.BranchID == nil && p.ServiceID != nil
}

// IsServiceAtBranch returns true if this policy is for a specific service at a specific branch
func (p *BookingPolicy) IsServiceAtBranch() bool {
	return p.BranchID != nil && p.ServiceID != nil
}

// HasMaxAdvanceLimit returns true if there's a limit on how far in advance appointments can be booked
func (p *BookingPolicy) HasMaxAdvanceLimit() bool {
	return p.MaxAdvanceDays > 0
}

// CancellationDeadline возвращает момент, после которого клиентская отмена запрещена
func (p *BookingPolicy) CancellationDeadline(startTime time.Time) time.Time {
	return startTime.Add(-time.Duration(p.CancellationHours) * time.Hour)
}

// CanCustomerCancelAt проверяет клиентскую отмену: политика разрешает отмены
// и до начала записи остаётся не меньше CancellationHours часов
func (p *BookingPolicy) CanCustomerCancelAt(now, startTime time.Time) bool {
	if !p.AllowCancellation {
		return false
	}
	return !now.After(p.CancellationDeadline(startTime))
}

// DefaultPolicy возвращает политику с дефолтными значениями
// Используется, когда для салона не настроена ни одна политика
func DefaultPolicy(tenantID int64) *BookingPolicy {
	return &BookingPolicy{
		TenantID:            tenantID,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		BufferMinutes:       DefaultBufferMinutes,
		MinAdvanceHours:     DefaultMinAdvanceHours,
		MaxAdvanceDays:      DefaultMaxAdvanceDays,
		CancellationHours:   DefaultCancellationHours,
		AllowCancellation:   true,
		AutoConfirmOnline:   true,
	}
}
