package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Login exchanges credentials for a token and starts the session with it.
// A rejected login returns the server's message and leaves the session alone.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out Token
	req := request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   strings.NewReader(form.Encode()),
		ctype:  "application/x-www-form-urlencoded",
	}
	if err := c.do(ctx, req, &out); err != nil {
		return Token{}, err
	}
	if out.AccessToken == "" {
		return Token{}, fmt.Errorf("login response carried no access token")
	}
	if err := c.session.Begin(out.AccessToken); err != nil {
		c.log.Warn("Session token could not be persisted", "error", err)
	}
	return out, nil
}

// Signup registers a new account. It does not log in.
func (c *Client) Signup(ctx context.Context, email, password string) (User, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return User{}, err
	}
	req.auth = false

	var out User
	if err := c.do(ctx, req, &out); err != nil {
		return User{}, err
	}
	return out, nil
}
