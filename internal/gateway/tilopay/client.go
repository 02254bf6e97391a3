package tilopay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/tubachi/tokenledger/internal/config"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/httpclient"
	"github.com/tubachi/tokenledger/internal/logger"
)

// tokenExpiryMargin is subtracted from the reported lifetime so a token is
// never used right at its expiry edge.
const tokenExpiryMargin = 60 * time.Second

// Client is the narrow surface the webhook handlers need from the Tilopay
// billing gateway.
type Client interface {
	GetToken(ctx context.Context) (string, error)
	PauseSubscription(ctx context.Context, email string, externalPlanID int) error
	ReactivateSubscription(ctx context.Context, email string, externalPlanID int) error
}

type client struct {
	cfg    config.TilopayConfig
	http   httpclient.Client
	logger *logger.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a Tilopay API client with a time-boxed cached auth token
func NewClient(cfg *config.Configuration, http httpclient.Client, logger *logger.Logger) Client {
	return &client{
		cfg:    cfg.Tilopay,
		http:   http,
		logger: logger,
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type subscriber struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type subscriberListResponse struct {
	Type       string       `json:"type"`
	Message    string       `json:"message"`
	Subscriber []subscriber `json:"suscriptor"`
}

// GetToken returns the cached auth token while it is still valid, otherwise
// logs in again and caches the fresh one.
func (c *client) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	if c.cfg.APIURL == "" || c.cfg.APIUser == "" || c.cfg.Password == "" {
		return "", ierr.NewError("tilopay credentials are not configured").
			WithHint("Payment gateway configuration is incomplete").
			Mark(ierr.ErrSystem)
	}

	body, err := json.Marshal(map[string]string{
		"apiuser":  c.cfg.APIUser,
		"password": c.cfg.Password,
		"key":      c.cfg.APIKey,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to encode login request").
			Mark(ierr.ErrSystem)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    c.cfg.APIURL + "/login",
		Body:   body,
	})
	if err != nil {
		return "", err
	}

	var login loginResponse
	if err := json.Unmarshal(resp.Body, &login); err != nil {
		return "", ierr.WithError(err).
			WithHint("Unexpected response from payment gateway").
			Mark(ierr.ErrHTTPClient)
	}
	if login.AccessToken == "" {
		return "", ierr.NewError("login response missing access token").
			WithHint("Unexpected response from payment gateway").
			Mark(ierr.ErrHTTPClient)
	}

	c.token = login.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(login.ExpiresIn)*time.Second - tokenExpiryMargin)
	c.logger.Debugw("obtained new tilopay token", "expires_at", c.tokenExpiry)
	return c.token, nil
}

// PauseSubscription pauses billing for the user's subscription on the plan
func (c *client) PauseSubscription(ctx context.Context, email string, externalPlanID int) error {
	subscriberID, err := c.subscriberIDByEmail(ctx, email, externalPlanID)
	if err != nil {
		return err
	}
	return c.subscriberAction(ctx, "/pauseSuscriptorRepeat", subscriberID)
}

// ReactivateSubscription resumes billing for a previously paused subscription
func (c *client) ReactivateSubscription(ctx context.Context, email string, externalPlanID int) error {
	subscriberID, err := c.subscriberIDByEmail(ctx, email, externalPlanID)
	if err != nil {
		return err
	}
	return c.subscriberAction(ctx, "/reactiveSuscriptorRepeat", subscriberID)
}

func (c *client) subscriberIDByEmail(ctx context.Context, email string, externalPlanID int) (int, error) {
	token, err := c.GetToken(ctx)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(map[string]any{
		"key": c.cfg.APIKey,
		"id":  externalPlanID,
	})
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to encode subscriber lookup").
			Mark(ierr.ErrSystem)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.cfg.APIURL + "/getSuscriptorRepeat",
		Headers: map[string]string{"Authorization": "Bearer " + token},
		Body:    body,
	})
	if err != nil {
		return 0, err
	}

	var list subscriberListResponse
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Unexpected response from payment gateway").
			Mark(ierr.ErrHTTPClient)
	}

	for _, s := range list.Subscriber {
		if s.Email == email {
			return s.ID, nil
		}
	}

	return 0, ierr.NewError("subscriber not found").
		WithHint("No gateway subscriber found for this email and plan").
		WithReportableDetails(map[string]any{
			"external_plan_id": externalPlanID,
		}).
		Mark(ierr.ErrNotFound)
}

func (c *client) subscriberAction(ctx context.Context, path string, subscriberID int) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"key":           c.cfg.APIKey,
		"id_suscriptor": subscriberID,
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode subscriber action").
			Mark(ierr.ErrSystem)
	}

	_, err = c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.cfg.APIURL + path,
		Headers: map[string]string{"Authorization": "Bearer " + token},
		Body:    body,
	})
	return err
}
