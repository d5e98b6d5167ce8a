package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingPolicy_CanCustomerCancelAt(t *testing.T) {
	startTime := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name              string
		allowCancellation bool
		cancellationHours int
		now               time.Time
		want              bool
	}{
		{
			name:              "well before deadline",
			allowCancellation: true,
			cancellationHours: 24,
			now:               startTime.Add(-48 * time.Hour),
			want:              true,
		},
		{
			name:              "exactly at deadline",
			allowCancellation: true,
			cancellationHours: 24,
			now:               startTime.Add(-24 * time.Hour),
			want:              true,
		},
		{
			name:              "past deadline",
			allowCancellation: true,
			cancellationHours: 24,
			now:               startTime.Add(-23 * time.Hour),
			want:              false,
		},
		{
			name:              "zero hours allows cancel up to start",
			allowCancellation: true,
			cancellationHours: 0,
			now:               startTime,
			want:              true,
		},
		{
			name:              "cancellation disabled",
			allowCancellation: false,
			cancellationHours: 0,
			now:               startTime.Add(-100 * time.Hour),
			want:              false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &BookingPolicy{
				AllowCancellation: tt.allowCancellation,
				CancellationHours: tt.cancellationHours,
			}
			assert.Equal(t, tt.want, p.CanCustomerCancelAt(tt.now, startTime))
		})
	}
}

func TestBookingPolicy_ScopePredicates(t *testing.T) {
	branchID := int64(2)
	serviceID := int64(7)

	global := &BookingPolicy{}
	assert.True(t, global.IsGlobal())
	assert.False(t, global.IsBranchSpecific())

	branch := &BookingPolicy{BranchID: &branchID}
	assert.True(t, branch.IsBranchSpecific())
	assert.False(t, branch.IsGlobal())

	service := &BookingPolicy{ServiceID: &serviceID}
	assert.True(t, service.IsServiceSpecific())

	both := &BookingPolicy{BranchID: &branchID, ServiceID: &serviceID}
	assert.True(t, both.IsServiceAtBranch())
	assert.False(t, both.IsBranchSpecific())
	assert.False(t, both.IsServiceSpecific())
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy(42)

	assert.Equal(t, int64(42), p.TenantID)
	assert.Equal(t, DefaultSlotIntervalMinutes, p.SlotIntervalMinutes)
	assert.Equal(t, DefaultBufferMinutes, p.BufferMinutes)
	assert.Equal(t, DefaultMinAdvanceHours, p.MinAdvanceHours)
	assert.Equal(t, DefaultMaxAdvanceDays, p.MaxAdvanceDays)
	assert.True(t, p.AllowCancellation)
	assert.True(t, p.AutoConfirmOnline)
	assert.True(t, p.IsGlobal())
	assert.True(t, p.HasMaxAdvanceLimit())
}
