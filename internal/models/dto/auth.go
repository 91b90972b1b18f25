package dto

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/vault-console/internal/models"
)

const (
	minPasswordLength = 6
	minNameLength     = 2
	minMobileLength   = 10

	DefaultGender = "MALE"
)

type SigninRequest struct {
	Email    string `json:"user_email"`
	Password string `json:"user_pwd"`
}

// Validate applies the sign-in form rules.
func (r SigninRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

type SignupRequest struct {
	Name     string `json:"user_name"`
	Email    string `json:"user_email"`
	Password string `json:"user_pwd"`
	Mobile   string `json:"user_mobile"`
	Gender   string `json:"gender"`
	IsActive bool   `json:"is_active"`
}

// Validate applies the sign-up form rules.
func (r SignupRequest) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Name)) < minNameLength {
		return errors.New("name must be at least 2 characters")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Mobile)) < minMobileLength {
		return errors.New("please enter a valid phone number")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// AuthResponse is the envelope returned by the sign-in and sign-up endpoints.
type AuthResponse struct {
	Success    bool          `json:"success"`
	Data       []models.User `json:"data,omitempty"`
	Msg        string        `json:"msg,omitempty"`
	ExpiryDate *string       `json:"expiry_date,omitempty"`
	IsAppValid *bool         `json:"is_app_valid,omitempty"`
}

type UsersResponse struct {
	Data []models.ManagedUser `json:"data"`
}

type ChatHistoryResponse struct {
	Data []models.ChatHistoryItem `json:"data"`
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("please enter a valid email address")
	}
	return nil
}
