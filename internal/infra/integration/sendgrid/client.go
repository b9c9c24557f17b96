package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, from string) *Client {
	return &Client{
		apiKey:  apiKey,
		from:    from,
		baseURL: "https://api.sendgrid.com/v3",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendConfirmation sends a plain-text mail through the v3 mail send API.
func (c *Client) SendConfirmation(ctx context.Context, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid not configured")
	}

	payload := mailRequest{
		Personalizations: []personalization{
			{To: []emailAddress{{Email: to}}},
		},
		From:    emailAddress{Email: c.from},
		Subject: subject,
		Content: []mailContent{
			{Type: "text/plain", Value: body},
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	url := fmt.Sprintf("%s/mail/send", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	// Mail send answers 202 Accepted; anything outside 2xx is a failure.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)

		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("sendgrid: %s (status %d)", apiErr.Errors[0].Message, resp.StatusCode)
		}
		return fmt.Errorf("sendgrid api error (status %d)", resp.StatusCode)
	}

	return nil
}
