package domain

import "time"

// Slot represents a time slot in a staff member's day
// Занятые слоты возвращаются с Available = false, слоты в перерывах
// и в прошлом не возвращаются вовсе
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
}

// Duration длительность слота
func (s *Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
