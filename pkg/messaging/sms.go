package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"otp-registration/pkg/utils"
)

const (
	defaultSMSBaseURL = "https://www.fast2sms.com/dev/bulkV2"
	defaultSMSTimeout = 15 * time.Second
	defaultSMSBrand   = "Registration"
)

// Fast2SMSClient sends OTP messages through the Fast2SMS bulkV2 quick route.
// It never logs the code.
type Fast2SMSClient struct {
	APIKey     string
	BaseURL    string
	Brand      string
	HTTPClient *http.Client
}

func NewFast2SMSClient(config utils.SMSConfig) *Fast2SMSClient {
	c := &Fast2SMSClient{
		APIKey:     config.APIKey,
		BaseURL:    config.BaseURL,
		Brand:      config.Brand,
		HTTPClient: &http.Client{Timeout: defaultSMSTimeout},
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultSMSBaseURL
	}
	if c.Brand == "" {
		c.Brand = defaultSMSBrand
	}
	return c
}

type fast2SMSResponse struct {
	Return  bool `json:"return"`
	Message any  `json:"message"`
}

func (c *Fast2SMSClient) SendSMSOTP(ctx context.Context, number, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("sms: API key not configured")
	}

	endpoint, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("sms: parse base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("authorization", c.APIKey)
	q.Set("message", fmt.Sprintf("Your %s OTP is %s", c.Brand, code))
	q.Set("language", "english")
	q.Set("route", "q")
	q.Set("numbers", number)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("sms: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out fast2SMSResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("sms: decode response: %w", err)
	}
	if !out.Return {
		return fmt.Errorf("sms: provider rejected message: %v", out.Message)
	}

	return nil
}
