package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/goroutine"
	"github.com/rockodragon/wonderwall-backend/internal/logger"
)

// Client пересылает события аналитики во внешний сервис.
// Отправка асинхронная и ни при каких условиях не влияет на обработку запроса.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Event — событие аналитики.
type Event struct {
	Name      string                 `json:"name"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	Props     map[string]interface{} `json:"props,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewClient создаёт клиент аналитики. Пустой endpoint отключает отправку.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled сообщает, настроена ли пересылка.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Track отправляет событие в фоне.
func (c *Client) Track(event Event) {
	if !c.Enabled() {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	goroutine.SafeGo(func() {
		c.send(event)
	})
}

func (c *Client) send(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Debug("analytics: событие не доставлено")
		}
		return
	}
	defer resp.Body.Close()
}
