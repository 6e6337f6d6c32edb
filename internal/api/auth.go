package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// User is the profile object the auth backend returns inside a login
// response. Field presence varies; email is the only guaranteed field.
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DisplayName returns the friendliest available name for greetings.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Email != "" {
		return u.Email
	}
	return "Usuario"
}

// Credentials is a successful login result.
type Credentials struct {
	User  User
	Token string
}

// AuthClient talks to the authentication backend.
type AuthClient struct {
	c *client
}

func NewAuthClient(baseURL string, log *zap.Logger) *AuthClient {
	return &AuthClient{c: newClient("auth", baseURL, log)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. Declared failures carry
// the server message verbatim plus a refined code (user not found vs bad
// credentials) so callers can pick the right notification without
// re-parsing prose.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	env, err := a.c.do(ctx, http.MethodPost, "/asAuth", nil, "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var data struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return nil, &Error{Kind: KindTransport, Message: "login response missing token", Err: err}
	}

	return &Credentials{User: data.User, Token: data.Token}, nil
}
