package domain

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/pkg/types"
)

// StaffSchedule расписание мастера на день недели
// Weekday соответствует time.Weekday: 0 = воскресенье ... 6 = суббота
type StaffSchedule struct {
	ID        int64
	TenantID  int64
	StaffID   int64
	Weekday   int
	IsWorking bool

	StartTime types.TimeString
	EndTime   types.TimeString

	// Перерыв внутри рабочего дня, пустые значения = без перерыва
	BreakStart types.TimeString
	BreakEnd   types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBreak returns true if the schedule has a break window
func (s *StaffSchedule) HasBreak() bool {
	return !s.BreakStart.IsZero() && !s.BreakEnd.IsZero()
}

// StaffDayOff разовый выходной мастера на конкретную дату
type StaffDayOff struct {
	ID       int64
	TenantID int64
	StaffID  int64
	Date     time.Time
	Reason   *string

	CreatedAt time.Time
}
