package get_available_slots

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// slotGrid параметры генерации сетки слотов на один день
// Все моменты времени указаны в таймзоне салона
type slotGrid struct {
	workStart time.Time // Начало рабочего дня мастера
	workEnd   time.Time // Конец рабочего дня мастера

	// Перерыв внутри дня, нулевые значения = без перерыва
	breakStart time.Time
	breakEnd   time.Time

	intervalMinutes int // Шаг сетки (как часто начинаются слоты)
	durationMinutes int // Длительность услуги
	bufferMinutes   int // Технический перерыв после записи

	earliestStart time.Time // Минимально допустимое начало слота (now + minAdvance)
}

// hasBreak возвращает true, если в рабочем дне настроен перерыв
func (g *slotGrid) hasBreak() bool {
	return !g.breakStart.IsZero() && !g.breakEnd.IsZero()
}

// generateDaySlots генерирует сетку слотов на день
// Кандидаты идут с шагом intervalMinutes от начала рабочего дня
// Каждый кандидат занимает интервал [start, start+duration+buffer):
// услуга плюс время на приведение места в порядок
//
// Слоты, попадающие в перерыв или раньше earliestStart, отбрасываются
// Слоты, пересекающиеся с существующими записями, возвращаются с Available = false
func generateDaySlots(grid slotGrid, appointments []*domain.Appointment) []domain.Slot {
	step := time.Duration(grid.durationMinutes+grid.bufferMinutes) * time.Minute
	duration := time.Duration(grid.durationMinutes) * time.Minute
	interval := time.Duration(grid.intervalMinutes) * time.Minute

	slots := make([]domain.Slot, 0)

	for start := grid.workStart; !start.Add(step).After(grid.workEnd); start = start.Add(interval) {
		occupiedEnd := start.Add(step)

		// Слот должен начинаться не раньше минимально допустимого времени
		if start.Before(grid.earliestStart) {
			continue
		}

		// Слоты, задевающие перерыв, не показываем вовсе
		if grid.hasBreak() && intervalsIntersect(start, occupiedEnd, grid.breakStart, grid.breakEnd) {
			continue
		}

		slots = append(slots, domain.Slot{
			StartTime: start,
			EndTime:   start.Add(duration),
			Available: !overlapsAppointments(start, occupiedEnd, appointments),
		})
	}

	return slots
}

// overlapsAppointments проверяет, пересекается ли интервал [start, end)
// хотя бы с одной записью, занимающей календарное время
//
// Завершённые записи занимают только фактический интервал: при досрочном
// завершении end_time укорачивается и освободившееся время снова доступно
func overlapsAppointments(start, end time.Time, appointments []*domain.Appointment) bool {
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

// intervalsIntersect проверяет пересечение двух полуоткрытых интервалов
// Интервалы, граничащие друг с другом, не пересекаются:
// слот 12:00-13:00 и перерыв 13:00-14:00 совместимы
func intervalsIntersect(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// dayBounds возвращает границы календарного дня в таймзоне салона
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// startOfDay обнуляет время, оставляя только дату
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
