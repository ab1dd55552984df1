// Package client implements the fhir.Client operation set over the internal
// HTTP transport.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/UB-BiomedicalInformatics/gofhir/internal/constants"
	"github.com/UB-BiomedicalInformatics/gofhir/internal/http"
	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
)

// Client implements the fhir.Client interface. The endpoint is validated once
// at construction and immutable afterwards; no other state is held, so a
// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     fhir.Logger
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *fhir.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	return httpOpts
}

// New creates a client for the configured endpoint and performs capability
// negotiation against it. The endpoint is normalized to end in exactly one
// "/". Construction is the only place a network failure can abort client
// creation; operations assume the endpoint remains valid.
func New(ctx context.Context, config *fhir.Config) (*Client, error) {
	if config == nil {
		return nil, fhir.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, fhir.ErrEndpointRequired
	}

	endpoint := strings.TrimRight(config.Endpoint, "/") + "/"

	client := &Client{
		httpClient: http.NewClient(endpoint, createHTTPClientOptions(config)...),
		endpoint:   endpoint,
		logger:     config.Logger,
	}

	err := client.negotiateCapabilities(ctx)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// negotiateCapabilities fetches the capability summary and verifies the
// server speaks the supported FHIR major version. The probe is a small
// request and runs under the short timeout.
func (c *Client) negotiateCapabilities(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ShortHTTPTimeout)
	defer cancel()

	capability, err := c.fetchDocument(ctx, c.endpoint+"metadata?_summary=true")
	if err != nil {
		return fmt.Errorf("%w: %w", fhir.ErrConnectionFailed, err)
	}

	if capability.ResourceType() != "CapabilityStatement" {
		return fmt.Errorf("%w: got %q instead of a CapabilityStatement",
			fhir.ErrConnectionFailed, capability.ResourceType())
	}

	version, _ := capability["fhirVersion"].(string)
	if major, _, _ := strings.Cut(version, "."); major != fhir.SupportedMajorVersion {
		return fmt.Errorf("%w: server declares fhirVersion %q", fhir.ErrUnsupportedVersion, version)
	}

	return nil
}

// Endpoint implements fhir.Client.Endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Read implements fhir.Client.Read.
func (c *Client) Read(ctx context.Context, location string, summary fhir.SummaryType) (fhir.Document, error) {
	doc, err := c.fetchDocument(ctx, buildReadURL(c.endpoint, location, summary))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}

	return doc, nil
}

// Search implements fhir.Client.Search.
func (c *Client) Search(ctx context.Context, resourceType string, opts fhir.SearchOptions) (fhir.Document, error) {
	return c.search(ctx, request{
		resourceType: resourceType,
		criteria:     opts.Criteria,
		query:        opts.Query,
		includes:     opts.Include,
		count:        opts.Count,
		summary:      opts.Summary,
	})
}

// SearchByID implements fhir.Client.SearchByID. Criteria are forced to
// _id=<id> and the page size is forced absent; any criteria source in opts is
// ignored.
func (c *Client) SearchByID(ctx context.Context, resourceType, id string, opts fhir.SearchOptions) (fhir.Document, error) {
	return c.search(ctx, request{
		resourceType: resourceType,
		criteria:     []string{"_id=" + id},
		includes:     opts.Include,
		summary:      opts.Summary,
	})
}

// WholeSystemSearch implements fhir.Client.WholeSystemSearch.
func (c *Client) WholeSystemSearch(ctx context.Context, opts fhir.SearchOptions) (fhir.Document, error) {
	return c.Search(ctx, "", opts)
}

// SearchByQuery implements fhir.Client.SearchByQuery.
func (c *Client) SearchByQuery(ctx context.Context, query *fhir.Query) (fhir.Document, error) {
	if query == nil {
		return nil, fhir.ErrInvalidQueryObject
	}

	return c.search(ctx, request{
		resourceType: query.ResourceType(),
		query:        query,
	})
}

// GraphQL implements fhir.Client.GraphQL.
func (c *Client) GraphQL(ctx context.Context, location, query string) (fhir.Document, error) {
	doc, err := c.fetchDocument(ctx, buildGraphQLURL(c.endpoint, location, query))
	if err != nil {
		return nil, fmt.Errorf("executing graphql query: %w", err)
	}

	return doc, nil
}

// Operation implements fhir.Client.Operation.
func (c *Client) Operation(ctx context.Context, req fhir.OperationRequest) (fhir.Document, error) {
	operationURL, err := buildRequestURL(c.endpoint, request{
		resourceType: req.ResourceType,
		operation:    &req,
	})
	if err != nil {
		return nil, err
	}

	doc, err := c.fetchDocument(ctx, operationURL)
	if err != nil {
		return nil, fmt.Errorf("invoking $%s: %w", req.Name, err)
	}

	return doc, nil
}

// Update implements fhir.Client.Update.
func (c *Client) Update(ctx context.Context, resource fhir.Document) (fhir.Document, error) {
	resourceType := resource.ResourceType()
	if resourceType == "" {
		return nil, fhir.ErrMissingResourceType
	}

	id := resource.ID()
	if id == "" {
		return nil, fhir.ErrMissingResourceID
	}

	resp, err := c.httpClient.Put(ctx, c.endpoint+resourceType+"/"+id, resource)
	if err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", resourceType, id, err)
	}

	return parseDocument(resp.Body)
}

// Continue implements fhir.Client.Continue.
func (c *Client) Continue(ctx context.Context, bundle fhir.Document) (fhir.Document, error) {
	if !bundle.IsBundle() {
		return nil, fhir.ErrNotABundle
	}

	next, ok := bundle.NextLink()
	if !ok {
		return nil, nil
	}

	doc, err := c.fetchDocument(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("continuing search: %w", err)
	}

	if !doc.IsBundle() {
		return nil, fmt.Errorf("continuing search: server returned %q: %w", doc.ResourceType(), fhir.ErrNotABundle)
	}

	return doc, nil
}

// search builds the URL for one search request and fetches its bundle.
func (c *Client) search(ctx context.Context, req request) (fhir.Document, error) {
	searchURL, err := buildRequestURL(c.endpoint, req)
	if err != nil {
		return nil, err
	}

	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	return doc, nil
}

// fetchDocument performs one GET and parses the body. The parsed document is
// returned as-is; callers decide single-resource vs. bundle by inspecting
// resourceType.
func (c *Client) fetchDocument(ctx context.Context, url string) (fhir.Document, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseDocument(resp.Body)
}

// parseDocument decodes a response body into an opaque document.
func parseDocument(body []byte) (fhir.Document, error) {
	var doc fhir.Document

	err := json.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fhir.ErrInvalidJSON, err)
	}

	return doc, nil
}
