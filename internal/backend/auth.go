package backend

import "context"

// User is the backend's account record.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// LoginInput is a credential pair.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterInput creates a new account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// AuthResult is a successful login or registration: the account plus the
// bearer token this service re-issues as the browser session cookie.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var resp envelope[AuthResult]
	if err := c.postJSON(ctx, "/api/v1/auth/login", input, &resp, ""); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Register creates an account and returns a token for it.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var resp envelope[AuthResult]
	if err := c.postJSON(ctx, "/api/v1/auth/register", input, &resp, ""); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CurrentUser resolves the account behind a token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var resp envelope[User]
	if err := c.getJSON(ctx, "/api/v1/auth/me", nil, token, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Notification is a user-facing message from the backend.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// ListNotifications fetches the authenticated user's notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]Notification, error) {
	var resp envelope[[]Notification]
	if err := c.getJSON(ctx, "/api/v1/notifications", nil, token, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
