package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

func NewClient(accountSID, authToken string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    "https://api.twilio.com/2010-04-01",
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage posts one message through the Messages resource. A WhatsApp
// send is the same call with "whatsapp:"-prefixed from/to numbers.
func (c *Client) SendMessage(ctx context.Context, from, to, body string) error {
	if c.accountSID == "" || c.authToken == "" {
		return fmt.Errorf("twilio not configured")
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio: %s (code %d)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("twilio api error (status %d)", resp.StatusCode)
	}

	var result messageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to parse twilio response: %w", err)
	}

	if result.ErrorCode != nil {
		return fmt.Errorf("twilio: %s (code %d)", result.ErrorMessage, *result.ErrorCode)
	}

	log.Printf("✅ Twilio: message %s queued for %s", result.Sid, to)
	return nil
}
