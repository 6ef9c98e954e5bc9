// Package upstream provides an HTTP client for the remote finance backend
// the mobile screens read from.
package upstream

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
	"time"

	"github.com/golang-jwt/jwt/v5"

	"merlin/internal/models"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 4 << 20

// Client communicates with the finance backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. baseURL is the backend root; requests
// go to baseURL + "/api".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: httpClient,
	}
}

// Login exchanges credentials for a backend token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/mobile/login", body, "logging in")
}

// Register creates a backend account and returns its token.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (*AuthResult, error) {
	body := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}
	return c.authenticate(ctx, "/mobile/register", body, "registering")
}

func (c *Client) authenticate(ctx context.Context, path string, body any, action string) (*AuthResult, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, path, "", body, &payload, action); err != nil {
		return nil, err
	}
	if err := validatePayload(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if err := validatePayload(*payload.User); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return &AuthResult{
		User:      payload.User.toModel(),
		Token:     *payload.Token,
		ExpiresAt: TokenExpiry(*payload.Token),
	}, nil
}

// Logout revokes the backend token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/mobile/logout", token, nil, nil, "logging out")
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var payload userPayload
	if err := c.do(ctx, http.MethodGet, "/mobile/user", token, nil, &payload, "fetching user"); err != nil {
		return nil, err
	}
	if err := validatePayload(payload); err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	user := payload.toModel()
	return &user, nil
}

// ListAssessments fetches the caller's assessments.
func (c *Client) ListAssessments(ctx context.Context, token string) ([]models.Assessment, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/mobile/financialAssessment", token, nil, "fetching assessments")
	if err != nil {
		return nil, err
	}

	payloads, err := decodeList[assessmentPayload](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding assessments: %v", ErrInvalidResponse, err)
	}

	assessments := make([]models.Assessment, 0, len(payloads))
	for i, p := range payloads {
		if err := validatePayload(p); err != nil {
			return nil, fmt.Errorf("assessment %d: %w", i, err)
		}
		assessments = append(assessments, models.Assessment{ID: *p.ID, Name: *p.Name})
	}
	return assessments, nil
}

// CreateAssessment creates a named assessment.
func (c *Client) CreateAssessment(ctx context.Context, token, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, "/mobile/financialAssessment/", token, body, nil, "creating assessment")
}

// DeleteAssessment deletes an assessment and its entries.
func (c *Client) DeleteAssessment(ctx context.Context, token string, assessmentID int) error {
	path := "/mobile/financialAssessment/" + strconv.Itoa(assessmentID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, "deleting assessment")
}

// ListEntries fetches the entries of one assessment. A single malformed
// entry fails the whole fetch.
func (c *Client) ListEntries(ctx context.Context, token string, assessmentID int) ([]models.Entry, error) {
	path := fmt.Sprintf("/mobile/assessment/%d/entries", assessmentID)
	raw, err := c.doRaw(ctx, http.MethodGet, path, token, nil, "fetching entries")
	if err != nil {
		return nil, err
	}

	payloads, err := decodeList[entryPayload](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding entries: %v", ErrInvalidResponse, err)
	}

	entries := make([]models.Entry, 0, len(payloads))
	for i, p := range payloads {
		if err := validatePayload(p); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, p.toModel(assessmentID))
	}
	return entries, nil
}

// CreateEntry adds an entry to an assessment.
func (c *Client) CreateEntry(ctx context.Context, token string, entry NewEntry) error {
	body := map[string]any{
		"name":          entry.Name,
		"amount":        json.Number(entry.Amount.String()),
		"date":          entry.Date,
		"category":      entry.Category,
		"type":          entry.Kind,
		"assessment_id": entry.AssessmentID,
	}
	return c.do(ctx, http.MethodPost, "/mobile/assessment/", token, body, nil, "creating entry")
}

// DeleteEntry removes one entry.
func (c *Client) DeleteEntry(ctx context.Context, token string, entryID int) error {
	path := "/mobile/assessment/entries/" + strconv.Itoa(entryID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, "deleting entry")
}

// GetAdvice returns previously generated advice for an assessment, looked up
// by name. The boolean is false when none exists yet.
func (c *Client) GetAdvice(ctx context.Context, token, assessmentName string) (string, bool, error) {
	path := "/mobile/assessment/" + url.PathEscape(assessmentName) + "/advice"
	var payload advicePayload
	if err := c.do(ctx, http.MethodGet, path, token, nil, &payload, "fetching advice"); err != nil {
		return "", false, err
	}
	if payload.Advice == nil || *payload.Advice == "" {
		return "", false, nil
	}
	return *payload.Advice, true, nil
}

// GenerateAdvice asks the backend to generate advice for an assessment.
func (c *Client) GenerateAdvice(ctx context.Context, token string, assessmentID int) (string, error) {
	path := fmt.Sprintf("/mobile/assessment/%d/generate-advice", assessmentID)
	var payload advicePayload
	if err := c.do(ctx, http.MethodPost, path, token, nil, &payload, "generating advice"); err != nil {
		return "", err
	}
	return deref(payload.Advice), nil
}

// SelectedAdvice asks for combined advice over several assessments.
func (c *Client) SelectedAdvice(ctx context.Context, token string, assessmentIDs []int) (string, error) {
	body := map[string][]int{"selected_ids": assessmentIDs}
	var payload advicePayload
	if err := c.do(ctx, http.MethodPost, "/mobile/assessment/selectedAssessmentsAdvice", token, body, &payload, "fetching selected advice"); err != nil {
		return "", err
	}
	return deref(payload.Advice), nil
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any, action string) error {
	raw, err := c.doRaw(ctx, method, path, token, body, action)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding response while %s: %v", ErrInvalidResponse, action, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path, token string, body any, action string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request while %s: %w", action, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response while %s: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var msg messagePayload
		if json.Unmarshal(raw, &msg) == nil {
			statusErr.Message = msg.Message
			if statusErr.Message == "" {
				statusErr.Message = msg.Error
			}
		}
		return nil, fmt.Errorf("%s: %w", action, statusErr)
	}
	return raw, nil
}

// TokenExpiry returns the exp claim of a JWT-shaped backend token without
// verifying it. Opaque tokens yield nil.
func TokenExpiry(token string) *time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
