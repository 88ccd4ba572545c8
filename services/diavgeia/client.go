// Package diavgeia integrates with the Diavgeia open-data API: a thin
// registry client plus a local read-through cache over the decisions
// table. The remote registry stays authoritative for decision content.
package diavgeia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// ErrNotFound is the sentinel for a decision absent from the registry.
var ErrNotFound = errors.New("decision not found")

// NotFoundError carries the ADA so the API error message can name it.
type NotFoundError struct {
	ADA string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Decision with ADA %s not found", e.ADA)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FlexString unmarshals either a JSON string or a JSON number; the
// registry returns issue dates as epoch milliseconds in some responses
// and ISO strings in others.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	*f = FlexString(s)
	return nil
}

// DecisionPayload is a decision as returned by the registry.
type DecisionPayload struct {
	ADA                 string          `json:"ada"`
	Subject             string          `json:"subject"`
	ProtocolNumber      string          `json:"protocolNumber"`
	DecisionTypeID      string          `json:"decisionTypeId"`
	OrganizationID      string          `json:"organizationId"`
	OrganizationLabel   string          `json:"organizationLabel"`
	IssueDate           FlexString      `json:"issueDate"`
	DocumentURL         string          `json:"documentUrl"`
	Status              string          `json:"status"`
	SubmitterUID        string          `json:"submitterUid"`
	UnitUID             string          `json:"unitUid"`
	ThematicCategoryIDs json.RawMessage `json:"thematicCategoryIds"`
	Attachments         json.RawMessage `json:"attachments"`
	ExtraFieldValues    json.RawMessage `json:"extraFieldValues"`
	PrivateData         json.RawMessage `json:"privateData"`
}

// SearchParams are the filters accepted by the registry search endpoint.
// The same set drives cache-mode search.
type SearchParams struct {
	Q        string
	ADA      string
	Subject  string
	Protocol string
	Org      string
	Type     string
	FromDate string
	ToDate   string
	Status   string
	Page     int
	Size     int
	Sort     string
}

// PageInfo reports pagination math for a search response.
type PageInfo struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Total  int64  `json:"total"`
	Source string `json:"source,omitempty"`
}

// SearchResult is the registry search response shape.
type SearchResult struct {
	Decisions []DecisionPayload `json:"decisions"`
	Info      PageInfo          `json:"info"`
}

// Registry is the remote decision source. Tests substitute a fake.
type Registry interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetDecision(ctx context.Context, ada string) (*DecisionPayload, error)
}

// Client calls the Diavgeia open-data API with a bounded timeout and no
// retries; a timeout or error surfaces directly to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Search queries the registry search endpoint. Page size is capped at
// 100 per page by the registry.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	values := url.Values{}
	addParam(values, "q", params.Q)
	addParam(values, "ada", params.ADA)
	addParam(values, "subject", params.Subject)
	addParam(values, "protocol", params.Protocol)
	addParam(values, "org", params.Org)
	addParam(values, "type", params.Type)
	addParam(values, "from_date", params.FromDate)
	addParam(values, "to_date", params.ToDate)
	addParam(values, "status", params.Status)

	page := params.Page
	if page < 0 {
		page = 0
	}
	size := params.Size
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	addParam(values, "sort", params.Sort)

	body, err := c.get(ctx, c.baseURL+"/search?"+values.Encode())
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode Diavgeia search response: %w", err)
	}
	if result.Info.Size == 0 {
		result.Info.Page = page
		result.Info.Size = size
	}
	return &result, nil
}

// GetDecision fetches a single decision by ADA. A registry 404 maps to
// NotFoundError; every other failure is an upstream error.
func (c *Client) GetDecision(ctx context.Context, ada string) (*DecisionPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/decisions/"+url.PathEscape(ada), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Diavgeia API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{ADA: ada}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Diavgeia API error: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Diavgeia API request failed: %w", err)
	}

	var payload DecisionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode Diavgeia decision: %w", err)
	}
	if payload.ADA == "" {
		payload.ADA = ada
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Diavgeia API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Diavgeia API error: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}

func addParam(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
