package reminderservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrReminderNotFound возвращается, когда напоминание по записи не найдено
	ErrReminderNotFound = errors.New("reminderservice: reminder not found")

	// ErrUnavailable возвращается при недоступности сервиса напоминаний
	ErrUnavailable = errors.New("reminderservice: service unavailable")

	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("reminderservice: internal error")
)

// Client клиент сервиса напоминаний
// Сервис напоминаний сам решает, когда и по какому каналу напомнить клиенту,
// мы только сообщаем ему о появлении, переносе и отмене записей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса напоминаний
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Schedule ставит напоминание о записи
func (c *Client) Schedule(ctx context.Context, schedule ScheduleRequest) error {
	url := fmt.Sprintf("%s/internal/reminders", c.baseURL)

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}
}

// Reschedule переносит напоминание на новое время начала записи
func (c *Client) Reschedule(ctx context.Context, schedule ScheduleRequest) error {
	url := fmt.Sprintf("%s/internal/reminders/appointments/%d", c.baseURL, schedule.AppointmentID)

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrReminderNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}
}

// Cancel снимает напоминание по записи
func (c *Client) Cancel(ctx context.Context, appointmentID int64) error {
	url := fmt.Sprintf("%s/internal/reminders/appointments/%d", c.baseURL, appointmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		// Напоминания могло и не быть, для отмены это не ошибка
		return ErrReminderNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}
}
