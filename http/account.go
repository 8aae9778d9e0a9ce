package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/wenyan"
)

// Login authenticates with email and password and keeps the returned token
// for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (wenyan.Auth, error) {
	return c.authenticate(ctx, "login", loginPath, email, password)
}

// Register creates an account and signs in to it.
func (c *Client) Register(ctx context.Context, email, password string) (wenyan.Auth, error) {
	return c.authenticate(ctx, "register", registerPath, email, password)
}

func (c *Client) authenticate(ctx context.Context, op, path, email, password string) (wenyan.Auth, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return wenyan.Auth{}, fmt.Errorf("%s: email and password are required: %w", op, wenyan.ErrValidation)
	}
	var out apiAuth
	if _, err := c.doJSON(ctx, op, http.MethodPost, path, nil, credentials{Email: email, Password: password}, &out); err != nil {
		return wenyan.Auth{}, err
	}
	if out.Token == "" {
		return wenyan.Auth{}, fmt.Errorf("%s: response carries no token", op)
	}
	auth := wenyan.Auth{Token: out.Token, User: out.User.toUser()}
	c.setSession(auth.Token, auth.User)
	return auth, nil
}

// User fetches the signed-in user. An expired session is dropped silently
// and the guest user returned.
func (c *Client) User(ctx context.Context) (wenyan.User, error) {
	var out apiUser
	status, err := c.doJSON(ctx, "user", http.MethodGet, userPath, nil, nil, &out, http.StatusUnauthorized)
	if err != nil {
		return wenyan.User{}, err
	}
	if status == http.StatusUnauthorized {
		c.Logout()
		return wenyan.GuestUser(), nil
	}
	user := out.toUser()
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return user, nil
}

// BalanceDetails fetches one page of the balance history.
func (c *Client) BalanceDetails(ctx context.Context, page int) (wenyan.BalancePage, error) {
	if page < 1 {
		page = 1
	}
	var out apiBalancePage
	query := url.Values{"page": {strconv.Itoa(page)}}
	if _, err := c.doJSON(ctx, "balance-details", http.MethodGet, balanceDetailsPath, query, nil, &out); err != nil {
		return wenyan.BalancePage{}, err
	}
	return out.toPage(), nil
}

// AdoptAnswer records answer as the accepted meaning of q.
func (c *Client) AdoptAnswer(ctx context.Context, q wenyan.Query, answer string) error {
	body := adoptRequest{Q: q.Word, Context: q.Context, Answer: answer}
	_, err := c.doJSON(ctx, "adopt-answer", http.MethodPost, adoptAnswerPath, nil, body, nil)
	return err
}
