package trmnl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trmnlhealth/internal/domain"
)

const currentScreenURL = "https://usetrmnl.com/api/current_screen"

type Client struct {
	HttpClient   *http.Client
	PluginURL    string
	DeviceApiKey string
}

func NewClient(pluginURL, deviceApiKey string) Client {
	return Client{
		HttpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		PluginURL:    pluginURL,
		DeviceApiKey: deviceApiKey,
	}
}

// Publish POSTs {"merge_variables": <payload>} to the plugin webhook. Any
// 2xx counts as success; JSON bodies are decoded, anything else is
// reported with the status code.
func (c Client) Publish(ctx context.Context, mergeVariables interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(map[string]interface{}{
		"merge_variables": mergeVariables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merge variables: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.PluginURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{URL: c.PluginURL, Err: err}
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &domain.NetworkError{URL: c.PluginURL, StatusCode: response.StatusCode, Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &domain.NetworkError{
			URL:        c.PluginURL,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(responseBytes))),
		}
	}

	if strings.HasPrefix(response.Header.Get("Content-Type"), "application/json") {
		decoded := map[string]interface{}{}
		if err := json.Unmarshal(responseBytes, &decoded); err == nil {
			return decoded, nil
		}
	}

	return map[string]interface{}{
		"status_code": response.StatusCode,
		"body":        string(responseBytes),
	}, nil
}

// CurrentScreen fetches metadata about the most recently rendered screen.
// It needs the device API key; the webhook alone is not enough.
func (c Client) CurrentScreen(ctx context.Context) (map[string]interface{}, error) {
	if c.DeviceApiKey == "" {
		return nil, &domain.ConfigurationError{
			Setting: "TRMNL_DEVICE_API_KEY",
			Reason:  "required for the current-screen query",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, currentScreenURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("access-token", c.DeviceApiKey)

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{URL: currentScreenURL, Err: err}
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &domain.NetworkError{URL: currentScreenURL, StatusCode: response.StatusCode, Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &domain.NetworkError{
			URL:        currentScreenURL,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(responseBytes))),
		}
	}

	decoded := map[string]interface{}{}
	if err := json.Unmarshal(responseBytes, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode current screen response: %w", err)
	}

	return decoded, nil
}
