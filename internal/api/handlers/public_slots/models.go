package public_slots

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SBP-AppointmentService/internal/usecase/get_available_slots"
)

// PublicSlotsResponse HTTP response model
// Публичная витрина отдаёт только свободные интервалы
type PublicSlotsResponse struct {
	Date            string       `json:"date"`
	StaffID         int64        `json:"staffId"`
	ServiceID       int64        `json:"serviceId"`
	DurationMinutes int          `json:"durationMinutes"`
	Timezone        string       `json:"timezone"`
	Slots           []PublicSlot `json:"slots"`
}

// PublicSlot свободный интервал в таймзоне салона
type PublicSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Занятые слоты отфильтровываются
func FromUseCaseResponse(resp *getAvailableSlots.Response) *PublicSlotsResponse {
	slots := make([]PublicSlot, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		if !slot.Available {
			continue
		}
		slots = append(slots, PublicSlot{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
		})
	}

	return &PublicSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		Slots:           slots,
	}
}
