package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.BranchID != nil && *req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	source, err := toSource(req.Source)
	if err != nil {
		return err
	}

	// Онлайн-запись без карточки клиента требует контактных данных
	if source == domain.SourceOnline && req.CustomerID == nil {
		if !hasText(req.CustomerName) {
			return fmt.Errorf("%w: customerName is required for online bookings", ErrInvalidInput)
		}
		if !hasText(req.CustomerPhone) && !hasText(req.CustomerEmail) {
			return fmt.Errorf("%w: customerPhone or customerEmail is required for online bookings", ErrInvalidInput)
		}
	}

	if req.PromoCode != nil && strings.TrimSpace(*req.PromoCode) == "" {
		return fmt.Errorf("%w: promoCode must not be blank", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// toSource конвертирует строку в канал записи
func toSource(s string) (domain.AppointmentSource, error) {
	switch domain.AppointmentSource(s) {
	case domain.SourceWalkIn:
		return domain.SourceWalkIn, nil
	case domain.SourceOnline:
		return domain.SourceOnline, nil
	default:
		return "", fmt.Errorf("%w: source must be walk_in or online", ErrInvalidInput)
	}
}

// hasText проверяет, что опциональная строка задана и не пуста
func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// validateBookingWindow проверяет окно бронирования для онлайн-записи
// Записи от стойки (walk_in) окнами не ограничены: администратор может
// оформить визит, начавшийся только что
func validateBookingWindow(start, now time.Time, policy *domain.BookingPolicy) error {
	earliestStart := now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)
	if start.Before(earliestStart) {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, policy.MinAdvanceHours)
	}

	if policy.HasMaxAdvanceLimit() {
		maxBoundary := startOfDay(now).AddDate(0, 0, policy.MaxAdvanceDays)
		if !startOfDay(start).Before(maxBoundary) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceDays)
		}
	}

	return nil
}

// conflictWindow возвращает границы интервала, в котором ищутся конфликтующие записи:
// день начала записи в таймзоне салона, расширенный до конца записи,
// если она выходит за полночь
func conflictWindow(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	local := start.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	if end.After(dayEnd) {
		dayEnd = end
	}
	return dayStart, dayEnd
}

// hasConflict проверяет пересечение интервала [start, end) с занимающими
// календарь записями. Граничные случаи пересечением не считаются
func hasConflict(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.Blocks() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// initialStatus возвращает стартовый статус записи
// Записи от стойки создаются в scheduled, онлайн-записи политика
// может подтверждать автоматически
func initialStatus(source domain.AppointmentSource, policy *domain.BookingPolicy) domain.AppointmentStatus {
	if source == domain.SourceOnline && policy.AutoConfirmOnline {
		return domain.StatusConfirmed
	}
	return domain.StatusScheduled
}

// startOfDay обнуляет время, сохраняя дату и таймзону
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
