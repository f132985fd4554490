package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"concursync/internal/domain/response"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "concursync/1.0"
)

type Config struct {
	AccessToken string
	Timeout     time.Duration
	UserAgent   string
}

// HTTPClient транспорт к Concur REST API.
// Ответ с HTTP-ошибкой возвращается как Raw с полем error, ошибка Go означает отсутствие ответа.
type HTTPClient struct {
	client    *http.Client
	log       *slog.Logger
	token     string
	userAgent string
}

// NewHTTPClient создает транспорт с таймаутом и токеном из конфигурации
func NewHTTPClient(cfg Config, log *slog.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       log.With("component", "concur_client"),
		token:     cfg.AccessToken,
		userAgent: userAgent,
	}
}

func (h *HTTPClient) Get(ctx context.Context, url string) (response.Raw, error) {
	return h.do(ctx, http.MethodGet, url, nil)
}

func (h *HTTPClient) Post(ctx context.Context, url string, body any) (response.Raw, error) {
	return h.do(ctx, http.MethodPost, url, body)
}

func (h *HTTPClient) Put(ctx context.Context, url string, body any) (response.Raw, error) {
	return h.do(ctx, http.MethodPut, url, body)
}

func (h *HTTPClient) do(ctx context.Context, method, url string, body any) (response.Raw, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request", "method", method, "url", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	h.log.Debug("response received", "status", resp.StatusCode, "bytes", len(data))

	return h.parse(resp.StatusCode, data)
}

func (h *HTTPClient) parse(status int, data []byte) (response.Raw, error) {
	raw, decodeErr := decode(data)

	if status >= http.StatusBadRequest {
		if decodeErr != nil {
			raw = response.Raw{"Message": strings.TrimSpace(string(data))}
		}
		raw["error"] = true
		raw["HTTPStatus"] = status
		if raw.String("Message") == "" && raw.String("ErrorMessage") == "" {
			if _, ok := raw.Object("Error"); !ok {
				raw["Message"] = http.StatusText(status)
			}
		}
		return raw, nil
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return raw, nil
}

// decode объект JSON как есть, массив под ключом Items, пустое тело как пустой ответ
func decode(data []byte) (response.Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return response.Raw{}, nil
	}

	if data[0] == '[' {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return response.Raw{"Items": items}, nil
	}

	var raw response.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = response.Raw{}
	}
	return raw, nil
}
