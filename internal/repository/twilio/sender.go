package twilio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/notification"
)

const (
	phoneLen      = 10
	maxMessageLen = 1600
)

var ErrInvalidParams = errors.New("given parameters were missing or invalid")

type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code returned was %d", e.Code)
}

type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	AccountSID    string        `mapstructure:"account_sid"`
	AuthToken     string        `mapstructure:"auth_token"`
	FromPhone     string        `mapstructure:"from_phone"`
	CountryPrefix string        `mapstructure:"country_prefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

var _ notification.SMSSender = (*Sender)(nil)

type Sender struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func New(cfg Config) *Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Sender{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: zap.L().With(zap.String("component", "twilio.sender")),
	}
}

func (s *Sender) WithLogger(l *zap.Logger) *Sender {
	if l == nil {
		return s
	}
	cp := *s
	cp.log = l.With(zap.String("component", "twilio.sender"))
	return &cp
}

// Send posts message to phone through the Twilio Messages API.
func (s *Sender) Send(ctx context.Context, phone, message string) error {
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)
	if len(phone) != phoneLen || message == "" || len(message) > maxMessageLen {
		return ErrInvalidParams
	}

	form := url.Values{}
	form.Set("From", s.cfg.FromPhone)
	form.Set("To", s.cfg.CountryPrefix+phone)
	form.Set("Body", message)

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") +
		"/2010-04-01/Accounts/" + url.PathEscape(s.cfg.AccountSID) + "/Messages.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	log := s.log.With(zap.String("to", form.Get("To")))

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error("sms request failed", zap.Error(err))
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("sms rejected", zap.Int("status", resp.StatusCode))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Info("sms sent", zap.Duration("elapsed", time.Since(start)))
	return nil
}
