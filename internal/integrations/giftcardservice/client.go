package giftcardservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент сервиса подарочных карт
// Списание - единственная операция, которую выполняет чекаут: валидация кода,
// проверка срока действия и баланса выполняются на стороне сервиса карт
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса подарочных карт
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Redeem списывает сумму с подарочной карты
// Бизнес-отказы (нет карты, карта истекла, не хватает баланса) возвращаются
// отдельными ошибками; всё остальное считается недоступностью сервиса
func (c *Client) Redeem(ctx context.Context, redeem RedeemRequest) (*RedeemResponse, error) {
	url := fmt.Sprintf("%s/internal/gift-cards/redeem", c.baseURL)

	payload, err := json.Marshal(redeem)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCardNotFound
	case http.StatusGone:
		return nil, ErrCardExpired
	case http.StatusPaymentRequired:
		return nil, ErrInsufficientBalance
	case http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: bad request: %s", ErrInvalidResponse, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var result RedeemResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Gift card redeemed: invoice_id=%d, amount=%.2f, transaction_id=%s",
		redeem.InvoiceID, redeem.Amount, result.TransactionID)

	return &result, nil
}
