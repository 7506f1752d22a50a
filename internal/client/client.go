// ABOUTME: HTTP client for the Affordaily property-management API
// ABOUTME: Owns the bearer token and wraps typed calls over the JSON envelope

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client is the API client for the Affordaily backend. It is the single
// owner of the auth token; all other components read token state only
// through IsAuthenticated.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu    sync.RWMutex
	token string
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// New creates a client for the given base URL. A nil store keeps the
// token in memory only; otherwise the persisted token is loaded so a
// previous login carries over.
func New(baseURL string, store TokenStore) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store: store,
	}
	if store != nil {
		tok, err := store.Load()
		if err != nil {
			slog.Warn("Failed to load stored token", "error", err)
		} else {
			c.token = tok
		}
	}
	return c
}

// SetTimeout overrides the default per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetToken stores the bearer token in memory and persists it. All
// subsequent requests attach it; requests already in flight keep the
// header they were built with.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Save(token); err != nil {
			slog.Warn("Failed to persist token", "error", err)
		}
	}
}

// ClearToken removes the token from memory and storage.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			slog.Warn("Failed to clear persisted token", "error", err)
		}
	}
}

// IsAuthenticated reports whether a bearer token is present.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// do performs a request against the backend and decodes the enveloped
// response into out (which may be nil when the data is not needed).
// contentType is empty for requests without a body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()
	if method != http.MethodGet {
		// Lets the backend deduplicate accidental double submissions.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.requestError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized {
			slog.Info("Token rejected by backend, clearing session")
			c.ClearToken()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	// Some endpoints return the payload bare rather than enveloped.
	payload := env.Data
	if len(payload) == 0 {
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// parseAPIError builds an APIError from a failure body, falling back to
// a generic status message when the body is not the standard envelope.
func parseAPIError(status int, raw []byte) *APIError {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		return &APIError{
			Status:  status,
			Message: fmt.Sprintf("HTTP error, status=%d", status),
		}
	}
	return &APIError{
		Status:      status,
		Message:     env.Message,
		FieldErrors: env.Errors,
	}
}

// postJSON marshals v and POSTs it to path.
func (c *Client) postJSON(ctx context.Context, path string, v any, out any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", out)
}

// Login exchanges credentials for a bearer token and profile. The token
// is stored on the client before returning.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	creds := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.postJSON(ctx, "/login", creds, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.AccessToken)
	return &result, nil
}

// Logout invalidates the server-side session and always clears the
// local token, even when the server call fails.
func (c *Client) Logout(ctx context.Context) {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, "", nil); err != nil {
		slog.Warn("Logout API call failed", "error", err)
	}
	c.ClearToken()
}

// Profile fetches the current operator profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user", nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchGuestByPhone finds a guest by phone number. A nil guest with a
// nil error means no match.
func (c *Client) SearchGuestByPhone(ctx context.Context, phone string) (*Guest, error) {
	path := "/guests/search/phone?phone=" + url.QueryEscape(phone)
	var g *Guest
	if err := c.do(ctx, http.MethodGet, path, nil, "", &g); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateBooking checks a guest in. With an ID photo attached the
// request is multipart form data; otherwise plain JSON.
func (c *Client) CreateBooking(ctx context.Context, input CreateBookingInput) (*Booking, error) {
	var b Booking
	if input.IDPhotoPath != "" {
		body, contentType, err := multipartBooking(input)
		if err != nil {
			return nil, err
		}
		if err := c.do(ctx, http.MethodPost, "/bookings", body, contentType, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}
	if err := c.postJSON(ctx, "/bookings", input, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Bookings lists all bookings.
func (c *Client) Bookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, "", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ActiveBookings lists bookings that are currently checked in.
func (c *Client) ActiveBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/active", nil, "", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CheckoutBooking finalizes a checkout.
func (c *Client) CheckoutBooking(ctx context.Context, bookingID int, input CheckoutInput) (*Booking, error) {
	var b Booking
	path := "/bookings/" + strconv.Itoa(bookingID) + "/checkout"
	if err := c.postJSON(ctx, path, input, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ExtendBooking adds nights to an existing stay.
func (c *Client) ExtendBooking(ctx context.Context, bookingID, additionalNights int) (*Booking, error) {
	var b Booking
	path := "/bookings/" + strconv.Itoa(bookingID) + "/extend"
	payload := map[string]int{"additional_nights": additionalNights}
	if err := c.postJSON(ctx, path, payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DashboardStats fetches the aggregate dashboard counters.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RoomOccupancy fetches room counts by status.
func (c *Client) RoomOccupancy(ctx context.Context) (*RoomOccupancy, error) {
	var occ RoomOccupancy
	if err := c.do(ctx, http.MethodGet, "/rooms/occupancy", nil, "", &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

// AvailableRooms lists rooms that are free right now.
func (c *Client) AvailableRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.do(ctx, http.MethodGet, "/rooms/available", nil, "", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// RoomRates fetches the nightly rates per bed-space type.
func (c *Client) RoomRates(ctx context.Context) (*RoomRates, error) {
	var rates RoomRates
	if err := c.do(ctx, http.MethodGet, "/rooms/rates", nil, "", &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}
