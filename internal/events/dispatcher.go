package events

import (
	"context"
	"sync"
	"time"
)

// dispatchTimeout ограничивает обработку одного события одним подписчиком
const dispatchTimeout = 10 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsCollector счётчики шины событий
type MetricsCollector interface {
	IncEventEmitted(service, event string)
	IncEventDropped(service string)
}

// Sink подписчик на доменные события
type Sink interface {
	// Name имя подписчика для логов
	Name() string
	// Handle обрабатывает событие; ошибка логируется и не прерывает раздачу
	Handle(ctx context.Context, event Event) error
}

// Dispatcher внутрипроцессная шина событий
// Emit не блокируется: при заполненном буфере событие отбрасывается с
// записью в лог. Потеря события не ломает бизнес-данные - уведомления
// и напоминания вторичны к состоянию записи в БД
type Dispatcher struct {
	ch      chan Event
	sinks   []Sink
	log     Logger
	metrics MetricsCollector
	service string

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher создает шину с буфером на bufferSize событий и запускает раздачу
// metrics может быть nil, когда сбор метрик отключен конфигурацией
func NewDispatcher(bufferSize int, sinks []Sink, log Logger, metrics MetricsCollector, service string) *Dispatcher {
	d := &Dispatcher{
		ch:      make(chan Event, bufferSize),
		sinks:   sinks,
		log:     log,
		metrics: metrics,
		service: service,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Emit кладет событие в буфер шины
// При переполненном буфере событие отбрасывается, вызывающий код не ждёт
func (d *Dispatcher) Emit(event Event) {
	select {
	case d.ch <- event:
		if d.metrics != nil {
			d.metrics.IncEventEmitted(d.service, string(event.Type))
		}
	default:
		d.log.Error("events: buffer full, dropping event type=%s appointment_id=%d", event.Type, event.AppointmentID)
		if d.metrics != nil {
			d.metrics.IncEventDropped(d.service)
		}
	}
}

// Close останавливает шину, дождавшись раздачи уже принятых событий
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for event := range d.ch {
		d.dispatch(event)
	}
}

// dispatch раздает событие всем подписчикам
// Подписчики ходят по сети, поэтому каждый вызов ограничен таймаутом
func (d *Dispatcher) dispatch(event Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		if err := sink.Handle(ctx, event); err != nil {
			d.log.Error("events: sink %s failed to handle event type=%s appointment_id=%d: %v",
				sink.Name(), event.Type, event.AppointmentID, err)
		}
		cancel()
	}
}
