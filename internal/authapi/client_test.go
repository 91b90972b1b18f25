package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/models/dto"
)

func TestSignInPostsCredentials(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"user_email": "a@b.com", "user_pwd": "secret1"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"user_id":7,"pi_roles":[{"role_id":1}]}],"expiry_date":"2026-01-01","is_app_valid":true}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/", nil).SignIn(context.Background(), dto.SigninRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(7), resp.Data[0].ID)
	assert.Equal(t, models.RoleAdmin, resp.Data[0].PrimaryRole())
	require.NotNil(t, resp.ExpiryDate)
	assert.Equal(t, "2026-01-01", *resp.ExpiryDate)
	require.NotNil(t, resp.IsAppValid)
	assert.True(t, *resp.IsAppValid)
}

func TestSignUpPostsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/signup", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["user_name"])
		assert.Equal(t, "MALE", body["gender"])
		assert.Equal(t, true, body["is_active"])
		_, _ = w.Write([]byte(`{"success":false,"msg":"email taken"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, nil).SignUp(context.Background(), dto.SignupRequest{
		Name: "Ada", Email: "a@b.com", Password: "secret1", Mobile: "0123456789",
		Gender: dto.DefaultGender, IsActive: true,
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "email taken", resp.Msg)
}

func TestNon2xxSurfacesErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
		server  bool
	}{
		{name: "message field", body: `{"code":401,"message":"invalid credentials"}`, wantMsg: "invalid credentials", server: true},
		{name: "msg field", body: `{"msg":"account locked"}`, wantMsg: "account locked", server: true},
		{name: "non-json body", body: `<html>bad gateway</html>`, wantMsg: fallbackErrorMessage},
		{name: "empty object", body: `{}`, wantMsg: fallbackErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).SignIn(context.Background(), dto.SigninRequest{})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)

			msg, ok := ServerMessage(err)
			assert.Equal(t, tt.server, ok)
			if tt.server {
				assert.Equal(t, tt.wantMsg, msg)
			}
		})
	}
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).SignIn(context.Background(), dto.SigninRequest{})
	require.Error(t, err)
	_, ok := ServerMessage(err)
	assert.False(t, ok)
}

func TestQueryEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/user":
			if r.Method == http.MethodPut {
				var u models.ManagedUser
				require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
				assert.Equal(t, int64(3), u.ID)
				_, _ = w.Write([]byte(`{"success":true}`))
				return
			}
			assert.Equal(t, "1", r.URL.Query().Get("role_id"))
			_, _ = w.Write([]byte(`{"data":[{"user_id":3,"user_name":"Bo","user_email":"bo@x.io","role_id":1,"is_active":true}]}`))
		case "/api/v1/signin-forgotpwd":
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "a+b@c.com", r.URL.Query().Get("user_email"))
			_, _ = w.Write([]byte(`{"success":true,"msg":"reset link sent"}`))
		case "/api/v1/prompts":
			assert.Equal(t, "7", r.URL.Query().Get("user_id"))
			_, _ = w.Write([]byte(`{"data":[{"prompt_id":1,"user_id":7,"prompt":"row count?","response":"42"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL, nil)

	users, err := c.GetUsers(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bo", users[0].Name)

	upd, err := c.UpdateUser(ctx, models.ManagedUser{ID: 3, Name: "Bo"})
	require.NoError(t, err)
	assert.True(t, upd.Success)

	fp, err := c.ForgotPassword(ctx, "a+b@c.com")
	require.NoError(t, err)
	assert.Equal(t, "reset link sent", fp.Msg)

	items, err := c.GetChatHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "42", items[0].Response)
}
