package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/board-report/internal/domain"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

const (
	auditableType   = "Issue"
	pageLimit       = 100
	auditTimeLayout = "2006-01-02T15:04:05.999999"
	maxErrorBody    = 512
)

// Client talks to the project-management platform API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

type ticketRow struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Status     string      `json:"status"`
	Type       string      `json:"type"`
	Severity   string      `json:"severity"`
	StartDate  string      `json:"start_date"`
	Assignee   *personRow  `json:"assignee"`
	Engagement *contextRow `json:"engagement"`
}

type personRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type contextRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ticketsResponse struct {
	Total int         `json:"total"`
	Rows  []ticketRow `json:"rows"`
}

type auditRow struct {
	AuditableID int64                 `json:"auditable_id"`
	Action      string                `json:"action"`
	Changes     map[string]changeCell `json:"changes"`
	CreatedAt   string                `json:"created_at"`
}

type changeCell struct {
	OldValue any `json:"old_value"`
	NewValue any `json:"new_value"`
}

type auditLogsResponse struct {
	Total int        `json:"total"`
	Rows  []auditRow `json:"rows"`
}

// NewClient validates connection parameters and builds a Client.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, apperrors.NewValidationError("Carrier URL is required.", nil)
	}
	if token == "" {
		return nil, apperrors.NewValidationError("Token is required.", nil)
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}, nil
}

// FetchTickets downloads the board's tickets in one page.
func (c *Client) FetchTickets(ctx context.Context, projectID, boardID string) ([]domain.Ticket, error) {
	endpoint := fmt.Sprintf("%s/api/v1/issues/issues/%s", c.baseURL, url.PathEscape(projectID))
	query := url.Values{}
	query.Set("board_id", boardID)
	query.Set("limit", fmt.Sprint(pageLimit))

	var payload ticketsResponse
	if err := c.getJSON(ctx, endpoint+"?"+query.Encode(), &payload); err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		tickets = append(tickets, row.toDomain())
	}
	return tickets, nil
}

// FetchAuditLogs downloads audit entries for the given tickets, one request
// per ticket, keeping entries created at or after since.
func (c *Client) FetchAuditLogs(ctx context.Context, projectID string, ticketIDs []int64, since time.Time) ([]domain.AuditLogEntry, error) {
	var recent []domain.AuditLogEntry
	for _, ticketID := range ticketIDs {
		related, err := json.Marshal(struct {
			AuditableType string `json:"auditable_type"`
			AuditableID   int64  `json:"auditable_id"`
		}{auditableType, ticketID})
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		endpoint := fmt.Sprintf("%s/api/v1/audit_logs/logs/%s", c.baseURL, url.PathEscape(projectID))
		query := url.Values{}
		query.Set("auditable_type", auditableType)
		query.Set("auditable_id", fmt.Sprint(ticketID))
		query.Set("related_entities", string(related))
		query.Set("offset", "0")
		query.Set("limit", fmt.Sprint(pageLimit))

		var payload auditLogsResponse
		if err := c.getJSON(ctx, endpoint+"?"+query.Encode(), &payload); err != nil {
			return nil, err
		}

		for _, row := range payload.Rows {
			entry, err := row.toDomain()
			if err != nil {
				return nil, err
			}
			if entry.CreatedAt.Before(since) {
				continue
			}
			recent = append(recent, entry)
		}
	}
	return recent, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("carrier request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError("read carrier response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return apperrors.NewAuthError("carrier rejected the API token", map[string]any{
			"status": resp.StatusCode,
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewNetworkError(
			fmt.Sprintf("carrier returned status %d", resp.StatusCode),
			fmt.Errorf("body: %s", truncate(body, maxErrorBody)),
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewNetworkError("decode carrier response", err)
	}
	return nil
}

func (r ticketRow) toDomain() domain.Ticket {
	ticket := domain.Ticket{
		ID:        r.ID,
		Title:     r.Title,
		Status:    domain.NormalizeStatus(r.Status),
		Type:      r.Type,
		Severity:  domain.NormalizeSeverity(r.Severity),
		StartDate: r.StartDate,
	}
	if r.Assignee != nil {
		ticket.Assignee = &domain.Assignee{ID: r.Assignee.ID, Name: r.Assignee.Name}
	}
	if r.Engagement != nil {
		ticket.Engagement = &domain.Engagement{ID: r.Engagement.ID, Name: r.Engagement.Name}
	}
	return ticket
}

func (r auditRow) toDomain() (domain.AuditLogEntry, error) {
	createdAt, err := time.Parse(auditTimeLayout, r.CreatedAt)
	if err != nil {
		return domain.AuditLogEntry{}, apperrors.NewNetworkError("decode carrier response", err)
	}

	entry := domain.AuditLogEntry{
		TicketID:  r.AuditableID,
		Action:    r.Action,
		CreatedAt: createdAt,
	}
	if len(r.Changes) > 0 {
		entry.Changes = make(map[string]domain.FieldChange, len(r.Changes))
		for field, cell := range r.Changes {
			entry.Changes[field] = domain.FieldChange{OldValue: cell.OldValue, NewValue: cell.NewValue}
		}
	}
	return entry, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
