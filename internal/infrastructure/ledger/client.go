package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CallObserver receives the outcome of every ledger call
type CallObserver interface {
	ObserveLedgerCall(ctx context.Context, operation string, duration time.Duration, err error)
}

// Client implements integration.LedgerClient against the Lexoffice-compatible REST API.
// It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	keys       integration.APIKeyProvider
	observer   CallObserver
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver reports each call to o
func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a ledger client. keys resolves the API key on every call.
func NewClient(cfg Config, keys integration.APIKeyProvider, log *zap.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		keys:       keys,
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIKey returns the key in use, empty when unconfigured or unresolvable
func (c *Client) APIKey(ctx context.Context) string {
	key, err := c.requireKey(ctx)
	if err != nil {
		if !errors.Is(err, integration.ErrLedgerNotConfigured) {
			logger.L(ctx).Warn("Failed to resolve ledger API key", zap.Error(err))
		}
		return ""
	}
	return key
}

// requireKey resolves the key for reads whose empty result would be taken as
// "record gone". A missing key is ErrLedgerNotConfigured, a failed lookup
// ErrLedgerUnavailable.
func (c *Client) requireKey(ctx context.Context) (string, error) {
	if c.keys == nil {
		return "", integration.ErrLedgerNotConfigured
	}
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: resolve api key: %w", integration.ErrLedgerUnavailable, err)
	}
	if key == "" {
		return "", integration.ErrLedgerNotConfigured
	}
	return key, nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

// CreateContact creates a customer contact and returns its id.
// An unconfigured ledger returns an empty id.
func (c *Client) CreateContact(ctx context.Context, contact integration.LedgerContact) (string, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return "", nil
	}
	var resp idResponse
	if err := c.call(ctx, "create_contact", key, http.MethodPost, "/contacts", toContactPayload(contact, 0), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: contact id missing", integration.ErrLedgerInvalidResponse)
	}
	return resp.ID, nil
}

// UpdateContact overwrites a contact. The current version is read first for
// optimistic locking. A missing contact reports false.
func (c *Client) UpdateContact(ctx context.Context, ledgerContactID string, contact integration.LedgerContact) (bool, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return false, nil
	}
	var existing contactResponse
	if err := c.call(ctx, "get_contact", key, http.MethodGet, contactPath(ledgerContactID), nil, &existing); err != nil {
		return false, absentAsFalse(err)
	}
	payload := toContactPayload(contact, existing.Version)
	if err := c.call(ctx, "update_contact", key, http.MethodPut, contactPath(ledgerContactID), payload, nil); err != nil {
		return false, absentAsFalse(err)
	}
	return true, nil
}

// ArchiveContact flags a contact as archived while keeping all its other fields
func (c *Client) ArchiveContact(ctx context.Context, ledgerContactID string) (bool, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return false, nil
	}
	var existing map[string]any
	if err := c.call(ctx, "get_contact", key, http.MethodGet, contactPath(ledgerContactID), nil, &existing); err != nil {
		return false, absentAsFalse(err)
	}
	existing["archived"] = true
	if err := c.call(ctx, "archive_contact", key, http.MethodPut, contactPath(ledgerContactID), existing, nil); err != nil {
		return false, absentAsFalse(err)
	}
	return true, nil
}

// GetContact looks a contact up; (nil, nil) only when the ledger reports it missing
func (c *Client) GetContact(ctx context.Context, ledgerContactID string) (*integration.RemoteContact, error) {
	key, err := c.requireKey(ctx)
	if err != nil {
		return nil, err
	}
	var resp contactResponse
	if err := c.call(ctx, "get_contact", key, http.MethodGet, contactPath(ledgerContactID), nil, &resp); err != nil {
		if errors.Is(err, integration.ErrLedgerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &integration.RemoteContact{ID: resp.ID, Archived: resp.Archived}, nil
}

// ---------------------------------------------------------------------------
// Quotations
// ---------------------------------------------------------------------------

// CreateQuote creates a quotation for a remote contact and returns its id
func (c *Client) CreateQuote(ctx context.Context, draft integration.QuoteDraft) (string, error) {
	if len(draft.LineItems) == 0 {
		return "", shared.NewInvalidOperationError("At least one line item is required to create a quote")
	}
	key := c.APIKey(ctx)
	if key == "" {
		return "", nil
	}
	var resp idResponse
	if err := c.call(ctx, "create_quote", key, http.MethodPost, "/quotations", toQuotationPayload(draft, c.now()), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: quotation id missing", integration.ErrLedgerInvalidResponse)
	}
	return resp.ID, nil
}

// GetQuote reads a quotation; (nil, nil) only when the ledger reports it missing
func (c *Client) GetQuote(ctx context.Context, ledgerQuoteID string) (*integration.RemoteQuote, error) {
	key, err := c.requireKey(ctx)
	if err != nil {
		return nil, err
	}
	var resp quotationResponse
	if err := c.call(ctx, "get_quote", key, http.MethodGet, "/quotations/"+url.PathEscape(ledgerQuoteID), nil, &resp); err != nil {
		if errors.Is(err, integration.ErrLedgerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resp.ID == "" {
		resp.ID = ledgerQuoteID
	}
	q := toRemoteQuote(resp)
	return &q, nil
}

// GetQuoteLink returns the public document link of a quotation, empty when unknown
func (c *Client) GetQuoteLink(ctx context.Context, ledgerQuoteID string) (string, error) {
	q, err := c.GetQuote(ctx, ledgerQuoteID)
	if err != nil || q == nil {
		return "", err
	}
	return q.Link, nil
}

// GetQuotesByContactID lists the quotations addressed to a contact.
// The API has no server-side filter, so the full list is filtered here.
// Failures are logged and yield an empty list.
func (c *Client) GetQuotesByContactID(ctx context.Context, ledgerContactID string) ([]integration.RemoteQuote, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return []integration.RemoteQuote{}, nil
	}
	var resp quotationList
	if err := c.call(ctx, "list_quotes", key, http.MethodGet, "/quotations", nil, &resp); err != nil {
		logger.L(ctx).Warn("Failed to list ledger quotations",
			zap.String("ledger_contact_id", ledgerContactID),
			zap.Error(err))
		return []integration.RemoteQuote{}, nil
	}

	quotes := make([]integration.RemoteQuote, 0)
	for _, q := range resp.Content {
		if q.ID == "" || q.Address.ContactID != ledgerContactID {
			continue
		}
		quotes = append(quotes, toRemoteQuote(q))
	}
	return quotes, nil
}

// ---------------------------------------------------------------------------
// Articles
// ---------------------------------------------------------------------------

// GetArticles lists the ledger catalogue. Entries without id are skipped.
func (c *Client) GetArticles(ctx context.Context) ([]integration.Article, error) {
	key := c.APIKey(ctx)
	if key == "" {
		return []integration.Article{}, nil
	}
	var resp articleList
	if err := c.call(ctx, "list_articles", key, http.MethodGet, "/articles", nil, &resp); err != nil {
		return nil, err
	}
	articles := make([]integration.Article, 0, len(resp.Content))
	for _, a := range resp.Content {
		if article, ok := toArticle(a); ok {
			articles = append(articles, article)
		}
	}
	return articles, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// call performs one request inside a client span and reports it to the observer
func (c *Client) call(ctx context.Context, operation, key, method, path string, payload, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "ledger."+operation,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.method", method),
		telemetry.WithAttribute("ledger.path", path),
	)
	defer span.End()

	start := time.Now()
	err := c.doRequest(ctx, key, method, path, payload, out)
	if c.observer != nil {
		c.observer.ObserveLedgerCall(ctx, operation, time.Since(start), err)
	}

	if err != nil && !errors.Is(err, integration.ErrLedgerNotFound) {
		telemetry.RecordError(span, err)
		logger.L(ctx).Debug("Ledger call failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	telemetry.SetOK(span)
	return err
}

func (c *Client) doRequest(ctx context.Context, key, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ledger: failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("ledger: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", integration.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", integration.ErrLedgerUnavailable, err)
	}

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", integration.ErrLedgerInvalidResponse, err)
	}
	return nil
}

// statusError maps HTTP status codes onto the ledger error sentinels
func statusError(status int) error {
	switch {
	case status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: HTTP %d", integration.ErrLedgerNotFound, status)
	case status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("%w: HTTP %d", integration.ErrLedgerUnavailable, status)
	default:
		return fmt.Errorf("%w: HTTP %d", integration.ErrLedgerRequestFailed, status)
	}
}

func absentAsFalse(err error) error {
	if errors.Is(err, integration.ErrLedgerNotFound) {
		return nil
	}
	return err
}

func contactPath(id string) string {
	return "/contacts/" + url.PathEscape(id)
}

var _ integration.LedgerClient = (*Client)(nil)
