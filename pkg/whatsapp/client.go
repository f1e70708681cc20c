package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/casatienda/storefront-backend/pkg/config"
	"github.com/casatienda/storefront-backend/pkg/logger"
)

const messagesPathFormat = "/2010-04-01/Accounts/%s/Messages.json"

var (
	errAccountSIDRequired = errors.New("twilio account sid is required")
	errAuthTokenRequired  = errors.New("twilio auth token is required")
	errFromRequired       = errors.New("twilio whatsapp sender is required")
	errRecipientRequired  = errors.New("whatsapp recipient is required")
)

// Client sends WhatsApp messages through Twilio's Messages API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	recipient  string
}

// NewClient validates the Twilio credentials and builds a sender.
func NewClient(ctx context.Context, cfg config.WhatsAppConfig, logg *logger.Logger) (*Client, error) {
	accountSID := strings.TrimSpace(cfg.AccountSID)
	if accountSID == "" {
		return nil, errAccountSIDRequired
	}
	authToken := strings.TrimSpace(cfg.AuthToken)
	if authToken == "" {
		return nil, errAuthTokenRequired
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, errFromRequired
	}
	recipient := strings.TrimSpace(cfg.Recipient)
	if recipient == "" {
		return nil, errRecipientRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if logg != nil {
		logg.Info(ctx, "twilio whatsapp client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		recipient:  recipient,
	}, nil
}

// Send delivers the message body to the configured recipient.
func (c *Client) Send(ctx context.Context, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("message body is required")
	}

	form := url.Values{}
	form.Set("To", whatsappAddress(c.recipient))
	form.Set("From", whatsappAddress(c.from))
	form.Set("Body", body)

	endpoint := c.baseURL + fmt.Sprintf(messagesPathFormat, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building twilio request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
