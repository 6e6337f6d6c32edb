package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Registration is the payload for creating a new account.
type Registration struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// SignupClient talks to the registration backend.
type SignupClient struct {
	c *client
}

func NewSignupClient(baseURL string, log *zap.Logger) *SignupClient {
	return &SignupClient{c: newClient("signup", baseURL, log)}
}

// Signup registers a new account. A duplicate email comes back as a
// declared failure with CodeEmailTaken so the form can offer the login
// page instead of a generic error.
func (s *SignupClient) Signup(ctx context.Context, reg Registration) (*User, error) {
	env, err := s.c.do(ctx, http.MethodPost, "/asSignup", nil, "", reg)
	if err != nil {
		return nil, err
	}

	var data struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.User == nil {
		// The account was created even if the profile echo is absent.
		return &User{Email: reg.Email, FirstName: reg.FirstName, LastName: reg.LastName}, nil
	}
	return data.User, nil
}
