package domain

import "time"

// Tenant салон, обслуживаемый сервисом
// Slug используется для публичной страницы записи
type Tenant struct {
	ID       int64
	Slug     string
	Name     string
	Timezone string
	Currency string
	TaxRate  float64
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location возвращает таймзону салона
// Все расчёты слотов выполняются в локальном времени салона
func (t *Tenant) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}

// Service услуга салона
type Service struct {
	ID       int64
	TenantID int64
	Name     string

	// Длительность услуги складывается из времени выполнения и времени приведения места в порядок
	ProcessingMinutes int
	FinishingMinutes  int

	Price    float64
	Currency string
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes полная длительность услуги в минутах
func (s *Service) DurationMinutes() int {
	return s.ProcessingMinutes + s.FinishingMinutes
}
