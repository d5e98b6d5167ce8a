package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	scheduleRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SBP-AppointmentService/pkg/types"
)

type fakeAppointments struct {
	listFn func(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

func (f *fakeAppointments) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, filter)
}

type fakeSchedules struct {
	getFn    func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error)
	dayOffFn func(ctx context.Context, tenantID, staffID int64, date time.Time) (bool, error)
}

func (f *fakeSchedules) GetByStaffWeekday(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
	if f.getFn == nil {
		return &domain.StaffSchedule{
			TenantID:  tenantID,
			StaffID:   staffID,
			Weekday:   weekday,
			IsWorking: true,
			StartTime: types.TimeString("10:00"),
			EndTime:   types.TimeString("13:00"),
		}, nil
	}
	return f.getFn(ctx, tenantID, staffID, weekday)
}

func (f *fakeSchedules) HasDayOff(ctx context.Context, tenantID, staffID int64, date time.Time) (bool, error) {
	if f.dayOffFn == nil {
		return false, nil
	}
	return f.dayOffFn(ctx, tenantID, staffID, date)
}

type fakePolicies struct {
	resolveFn func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error)
}

func (f *fakePolicies) Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
	if f.resolveFn == nil {
		return &domain.BookingPolicy{
			TenantID:            tenantID,
			SlotIntervalMinutes: 30,
			BufferMinutes:       0,
			MinAdvanceHours:     0,
			MaxAdvanceDays:      90,
		}, nil
	}
	return f.resolveFn(ctx, tenantID, branchID, serviceID)
}

type fakeCatalog struct {
	tenantFn  func(ctx context.Context, id int64) (*domain.Tenant, error)
	serviceFn func(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
}

func (f *fakeCatalog) GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	if f.tenantFn == nil {
		return &domain.Tenant{ID: id, Slug: "lotus", Timezone: "UTC", Active: true}, nil
	}
	return f.tenantFn(ctx, id)
}

func (f *fakeCatalog) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	if f.serviceFn == nil {
		return &domain.Service{
			ID:                serviceID,
			TenantID:          tenantID,
			Name:              "Стрижка",
			ProcessingMinutes: 30,
			Price:             50,
			Active:            true,
		}, nil
	}
	return f.serviceFn(ctx, tenantID, serviceID)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestUseCase(appts *fakeAppointments, schedules *fakeSchedules, policies *fakePolicies, catalog *fakeCatalog, now time.Time) *UseCase {
	uc := NewUseCase(appts, schedules, policies, catalog, noopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

// Запрашиваем слоты на 2026-03-10, "сейчас" - за день до этого
var (
	testNow  = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func baseRequest() *Request {
	return &Request{
		TenantID:  1,
		StaffID:   5,
		ServiceID: 7,
		Date:      testDate,
	}
}

func TestExecute_BasicGrid(t *testing.T) {
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Работа 10:00-13:00, услуга 30 минут, шаг 30 минут:
	// 10:00, 10:30, 11:00, 11:30, 12:00, 12:30
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), resp.Slots[0].EndTime)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC), resp.Slots[5].StartTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "UTC", resp.Timezone)
}

func TestExecute_OccupiedSlotMarkedUnavailable(t *testing.T) {
	appts := &fakeAppointments{
		listFn: func(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
			return []*domain.Appointment{
				{
					ID:        100,
					Status:    domain.StatusConfirmed,
					StartTime: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
					EndTime:   time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	uc := newTestUseCase(appts, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 6)

	byStart := make(map[string]bool)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime.Format("15:04")] = slot.Available
	}

	assert.False(t, byStart["11:00"])
	// Соседние слоты касаются записи границами и не конфликтуют
	assert.True(t, byStart["10:30"])
	assert.True(t, byStart["11:30"])
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	appts := &fakeAppointments{
		listFn: func(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
			return []*domain.Appointment{
				{
					ID:        100,
					Status:    domain.StatusCancelled,
					StartTime: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
					EndTime:   time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	uc := newTestUseCase(appts, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime.Format("15:04"))
	}
}

func TestExecute_CompletedEarlyFreesTail(t *testing.T) {
	// Запись завершили досрочно: фактический интервал 10:00-10:15,
	// освободившийся хвост снова доступен для записи
	appts := &fakeAppointments{
		listFn: func(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
			return []*domain.Appointment{
				{
					ID:        100,
					Status:    domain.StatusCompleted,
					StartTime: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
					EndTime:   time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	policies := &fakePolicies{
		resolveFn: func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
			return &domain.BookingPolicy{TenantID: tenantID, SlotIntervalMinutes: 15, MaxAdvanceDays: 90}, nil
		},
	}
	uc := newTestUseCase(appts, &fakeSchedules{}, policies, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	byStart := make(map[string]bool)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime.Format("15:04")] = slot.Available
	}

	assert.False(t, byStart["10:00"])
	assert.True(t, byStart["10:15"])
	assert.True(t, byStart["10:30"])
}

func TestExecute_BreakExcluded(t *testing.T) {
	schedules := &fakeSchedules{
		getFn: func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
			return &domain.StaffSchedule{
				IsWorking:  true,
				StartTime:  types.TimeString("10:00"),
				EndTime:    types.TimeString("14:00"),
				BreakStart: types.TimeString("12:00"),
				BreakEnd:   types.TimeString("13:00"),
			}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	starts := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		starts = append(starts, slot.StartTime.Format("15:04"))
	}

	// Слот 11:30 заканчивается ровно в начале перерыва и остаётся,
	// слоты 12:00 и 12:30 задевают перерыв и не показываются
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "13:00", "13:30"}, starts)
}

func TestExecute_MinAdvanceFiltersSlots(t *testing.T) {
	policies := &fakePolicies{
		resolveFn: func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
			return &domain.BookingPolicy{TenantID: tenantID, SlotIntervalMinutes: 30, MinAdvanceHours: 2, MaxAdvanceDays: 90}, nil
		},
	}
	// Сейчас 08:30 того же дня, минимум 2 часа - слоты раньше 10:30 недоступны
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, policies, &fakeCatalog{}, now)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), resp.Slots[0].StartTime)
}

func TestExecute_WholeDayBeforeMinAdvance(t *testing.T) {
	// Запрошенная дата уже прошла
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, now)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BeyondMaxAdvance(t *testing.T) {
	policies := &fakePolicies{
		resolveFn: func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
			return &domain.BookingPolicy{TenantID: tenantID, SlotIntervalMinutes: 30, MaxAdvanceDays: 7}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, policies, &fakeCatalog{}, testNow)

	req := baseRequest()
	req.Date = testNow.AddDate(0, 0, 10)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DayOff(t *testing.T) {
	schedules := &fakeSchedules{
		dayOffFn: func(ctx context.Context, tenantID, staffID int64, date time.Time) (bool, error) {
			return true, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NotWorkingWeekday(t *testing.T) {
	schedules := &fakeSchedules{
		getFn: func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
			return &domain.StaffSchedule{IsWorking: false}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoScheduleForWeekday(t *testing.T) {
	schedules := &fakeSchedules{
		getFn: func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
			return nil, scheduleRepo.ErrScheduleNotFound
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, &fakePolicies{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DefaultPolicyWhenNoneConfigured(t *testing.T) {
	policies := &fakePolicies{
		resolveFn: func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
			return nil, policyRepo.ErrPolicyNotFound
		},
	}
	schedules := &fakeSchedules{
		getFn: func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
			return &domain.StaffSchedule{
				IsWorking: true,
				StartTime: types.TimeString("10:00"),
				EndTime:   types.TimeString("11:00"),
			}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, policies, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Дефолтный шаг сетки 15 минут: 10:00, 10:15, 10:30
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), resp.Slots[2].StartTime)
}

func TestExecute_BufferShortensTail(t *testing.T) {
	policies := &fakePolicies{
		resolveFn: func(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
			return &domain.BookingPolicy{TenantID: tenantID, SlotIntervalMinutes: 30, BufferMinutes: 15, MaxAdvanceDays: 90}, nil
		},
	}
	schedules := &fakeSchedules{
		getFn: func(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
			return &domain.StaffSchedule{
				IsWorking: true,
				StartTime: types.TimeString("10:00"),
				EndTime:   types.TimeString("11:30"),
			}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, schedules, policies, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Услуга 30 минут + буфер 15: последний слот 10:30 (занимает до 11:15),
	// 11:00 уже не влезает (до 11:45 при конце дня 11:30)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), resp.Slots[1].StartTime)
	// EndTime слота - это конец услуги, без буфера
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[1].EndTime)
}

func TestExecute_SalonTimezone(t *testing.T) {
	catalog := &fakeCatalog{
		tenantFn: func(ctx context.Context, id int64) (*domain.Tenant, error) {
			return &domain.Tenant{ID: id, Slug: "lotus", Timezone: "Europe/Moscow", Active: true}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, catalog, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	msk, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// График 10:00-13:00 задан в местном времени салона
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, msk).UTC(), resp.Slots[0].StartTime.UTC())
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
}

func TestExecute_AppointmentFilterCoversRequestedDay(t *testing.T) {
	var captured domain.AppointmentsFilter
	appts := &fakeAppointments{
		listFn: func(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
			captured = filter
			return nil, nil
		},
	}
	uc := newTestUseCase(appts, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, testNow)

	_, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.NotNil(t, captured.StaffID)
	assert.Equal(t, int64(5), *captured.StaffID)
	require.NotNil(t, captured.DateFrom)
	require.NotNil(t, captured.DateTo)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *captured.DateFrom)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *captured.DateTo)
}

func TestExecute_InactiveService(t *testing.T) {
	catalog := &fakeCatalog{
		serviceFn: func(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
			return &domain.Service{ID: serviceID, TenantID: tenantID, ProcessingMinutes: 30, Active: false}, nil
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, catalog, testNow)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_TenantNotFound(t *testing.T) {
	catalog := &fakeCatalog{
		tenantFn: func(ctx context.Context, id int64) (*domain.Tenant, error) {
			return nil, catalogRepo.ErrTenantNotFound
		},
	}
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, catalog, testNow)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeAppointments{}, &fakeSchedules{}, &fakePolicies{}, &fakeCatalog{}, testNow)

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"zero tenant", func(req *Request) { req.TenantID = 0 }, ErrInvalidInput},
		{"negative staff", func(req *Request) { req.StaffID = -1 }, ErrInvalidInput},
		{"zero service", func(req *Request) { req.ServiceID = 0 }, ErrInvalidInput},
		{"zero date", func(req *Request) { req.Date = time.Time{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
