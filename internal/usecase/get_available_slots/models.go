package get_available_slots

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID  int64     // ID салона
	StaffID   int64     // ID мастера
	ServiceID int64     // ID услуги
	BranchID  *int64    // ID филиала (опционально, влияет на выбор политики)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time     // Дата, на которую запрашивались слоты
	StaffID         int64         // ID мастера
	ServiceID       int64         // ID услуги
	DurationMinutes int           // Длительность услуги в минутах
	Timezone        string        // Таймзона салона, в которой указаны слоты
	Slots           []domain.Slot // Сетка слотов на день
}
