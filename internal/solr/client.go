package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const httpTimeout = 15 * time.Second

// Client executes assembled requests against one Solr core over HTTP.
// It never retries: failures are surfaced immediately and retry policy, if
// any, belongs to the caller.
type Client struct {
	baseURL string // core URL without trailing slash, e.g. http://solr:8983/solr/jobs
	client  *http.Client
}

// NewClient constructs a client with a shared HTTP client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// solrResponse mirrors the top-level Solr select JSON response.
type solrResponse struct {
	Response struct {
		NumFound int               `json:"numFound"`
		Docs     []json.RawMessage `json:"docs"`
	} `json:"response"`
	FacetCounts struct {
		// facet_fields are alternating ["value", count, ...] arrays.
		FacetFields map[string][]any `json:"facet_fields"`
	} `json:"facet_counts"`
}

// Execute sends req to the engine's select handler and normalizes the
// response. Transport errors and non-200 statuses come back as wrapped
// errors; the pipeline maps any of them to its query-format error.
func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	params := url.Values{}
	q := req.Query
	if q == "" {
		q = "*:*"
	}
	params.Set("q", q)
	for _, fq := range req.Filters {
		params.Add("fq", fq)
	}
	if req.Boost != "" {
		params.Set("bq", req.Boost)
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	params.Set("start", strconv.Itoa(req.Start))
	params.Set("rows", strconv.Itoa(req.Rows))
	params.Set("wt", "json")
	if len(req.Facets) > 0 {
		params.Set("facet", "true")
		params.Set("facet.mincount", "1")
		for _, f := range req.Facets {
			params.Add("facet.field", f)
		}
	}

	reqURL := c.baseURL + "/select?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solr returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp solrResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	result := &Result{
		Total: apiResp.Response.NumFound,
		Docs:  apiResp.Response.Docs,
	}
	if len(apiResp.FacetCounts.FacetFields) > 0 {
		result.Facets = make(map[string][]FacetCount, len(apiResp.FacetCounts.FacetFields))
		for field, flat := range apiResp.FacetCounts.FacetFields {
			result.Facets[field] = parseFacetPairs(flat)
		}
	}
	return result, nil
}

// parseFacetPairs converts Solr's alternating ["value", count, ...] facet
// array into typed pairs. Malformed entries are skipped.
func parseFacetPairs(flat []any) []FacetCount {
	counts := make([]FacetCount, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		value, ok := flat[i].(string)
		if !ok {
			continue
		}
		n, ok := flat[i+1].(float64)
		if !ok {
			continue
		}
		counts = append(counts, FacetCount{Value: value, Count: int(n)})
	}
	return counts
}
