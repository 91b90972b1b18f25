package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/models/dto"
)

const apiPrefix = "/api/v1"

// Client is an HTTP client for the DataVault REST API. Every call is a
// single attempt: there are no retries and no client-imposed timeout.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates an API client rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Logger:     logger.Named("authapi"),
	}
}

// SignIn posts credentials to the sign-in endpoint.
func (c *Client) SignIn(ctx context.Context, req dto.SigninRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/signin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp posts a new account to the sign-up endpoint.
func (c *Client) SignUp(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUsers lists the users holding roleID.
func (c *Client) GetUsers(ctx context.Context, roleID models.RoleID) ([]models.ManagedUser, error) {
	q := url.Values{"role_id": {strconv.Itoa(int(roleID))}}
	var out dto.UsersResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/user?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateUser replaces a user's editable fields.
func (c *Client) UpdateUser(ctx context.Context, user models.ManagedUser) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/user", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a password reset for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*dto.AuthResponse, error) {
	q := url.Values{"user_email": {email}}
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/signin-forgotpwd?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChatHistory fetches the stored AskVault prompts of userID.
func (c *Client) GetChatHistory(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error) {
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	var out dto.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/prompts?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	target := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.Logger.With(zap.String("method", method), zap.String("path", path), zap.String("request_id", requestID))
	log.Debug("http request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Debug("http request failed", zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	log.Debug("http response", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
