package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hyperjump/dishhub/internal/models"
	"go.uber.org/zap"
)

// Credentials is the login and registration payload.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, creds Credentials) (*models.User, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: username and password", models.ErrMissingField)
	}
	var u models.User
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", creds, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the returned session cookie in the client session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*models.User, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: username and password", models.ErrMissingField)
	}
	var u models.User
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", creds, &u)
	if err != nil {
		return nil, mapStatus(err)
	}
	var credential string
	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName {
			credential = ck.Value
		}
	}
	if credential == "" {
		return nil, fmt.Errorf("login response carried no %q cookie", c.cookieName)
	}
	if u.Username == "" {
		u.Username = creds.Username
	}
	c.session.Login(u, credential)
	c.logger.Info("Logged in", zap.String("user", u.Username))
	return &u, nil
}

// Logout ends the session on the service and clears the local identity. The
// local identity is cleared even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/logout", nil, nil)
	c.session.Logout()
	return err
}

// CurrentUser asks the service who the session belongs to. An unauthenticated
// session yields (nil, nil). The result is recorded in the client session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	if c.session.Credential() == "" {
		c.session.SetUser(nil)
		return nil, nil
	}
	var u models.User
	if _, err := c.do(ctx, http.MethodGet, "/api/user/me", nil, &u); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			c.session.SetUser(nil)
			return nil, nil
		}
		return nil, err
	}
	c.session.SetUser(&u)
	return &u, nil
}
