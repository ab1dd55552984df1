package fhir

import (
	"context"
	"time"
)

// SupportedMajorVersion is the FHIR major version this client speaks (STU3).
const SupportedMajorVersion = "3"

// Document is an opaque, parsed FHIR resource. No schema validation is applied
// beyond the presence of the resourceType field; callers inspect the fields
// they need.
type Document map[string]interface{}

// ResourceType returns the resourceType field, or "" when absent.
func (d Document) ResourceType() string {
	rt, _ := d["resourceType"].(string)

	return rt
}

// ID returns the id field, or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)

	return id
}

// IsBundle reports whether the document is a Bundle.
func (d Document) IsBundle() bool {
	return d.ResourceType() == "Bundle"
}

// Link returns the url of the bundle link with the given relation.
func (d Document) Link(relation string) (string, bool) {
	links, _ := d["link"].([]interface{})
	for _, raw := range links {
		link, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		rel, _ := link["relation"].(string)
		if rel != relation {
			continue
		}

		url, ok := link["url"].(string)

		return url, ok && url != ""
	}

	return "", false
}

// NextLink returns the url of the bundle's "next" link, if any.
func (d Document) NextLink() (string, bool) {
	return d.Link("next")
}

// SelfLink returns the url of the bundle's "self" link, if any.
func (d Document) SelfLink() (string, bool) {
	return d.Link("self")
}

// Entries returns the resources carried in the bundle's entry array. Entries
// without a resource are skipped.
func (d Document) Entries() []Document {
	entries, _ := d["entry"].([]interface{})

	var resources []Document

	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		resource, ok := entry["resource"].(map[string]interface{})
		if !ok {
			continue
		}

		resources = append(resources, Document(resource))
	}

	return resources
}

// SummaryType asks the server to omit full resource bodies.
type SummaryType string

// Summary types defined by the protocol. SummaryNone omits the parameter.
const (
	SummaryNone  SummaryType = ""
	SummaryTrue  SummaryType = "true"
	SummaryText  SummaryType = "text"
	SummaryData  SummaryType = "data"
	SummaryCount SummaryType = "count"
	SummaryFalse SummaryType = "false"
)

// SearchOptions expresses the optional parts of a search request.
//
// Criteria and Query are the two admissible criteria sources and are mutually
// exclusive: supplying both fails with ErrConflictingCriteriaSource before any
// network call.
type SearchOptions struct {
	// Criteria are raw "key=value" strings, split once on the first "=".
	Criteria []string
	// Query is a structured query object; when set it is used exclusively.
	Query *Query
	// Include paths become repeated _include parameters, in input order.
	Include []string
	// Count sets the _count page size when positive.
	Count int
	// Summary sets the _summary type when not SummaryNone.
	Summary SummaryType
}

// OperationRequest describes a named server-side operation, invoked via a
// $name URL segment. ResourceType and ID are optional; leaving both empty
// produces a system-level operation.
type OperationRequest struct {
	ResourceType string
	ID           string
	Name         string
	// Parameters are encoded as query pairs in input order.
	Parameters []Param
}

// Client is the public operation set of a FHIR STU3 read/search session.
//
// Implementations hold no mutable per-call state beyond the immutable
// endpoint, so a single Client is safe for concurrent use.
type Client interface {
	// Endpoint returns the normalized base URL this client talks to.
	Endpoint() string

	// Read fetches a single resource by location. The location may be a
	// relative resource path ("Patient/example") or a version-qualified one
	// ("Patient/example/_history/2").
	Read(ctx context.Context, location string, summary SummaryType) (Document, error)

	// Search performs a type-level search. The returned document is the
	// server's searchset Bundle.
	Search(ctx context.Context, resourceType string, opts SearchOptions) (Document, error)

	// SearchByID is sugar for Search with criteria forced to _id=<id> and no
	// page size.
	SearchByID(ctx context.Context, resourceType, id string, opts SearchOptions) (Document, error)

	// WholeSystemSearch searches across all resource types.
	WholeSystemSearch(ctx context.Context, opts SearchOptions) (Document, error)

	// SearchByQuery searches using a structured query object. A nil query
	// fails with ErrInvalidQueryObject before any network call.
	SearchByQuery(ctx context.Context, query *Query) (Document, error)

	// GraphQL executes a GraphQL query against the server, or against a single
	// resource when location is non-empty.
	GraphQL(ctx context.Context, location, query string) (Document, error)

	// Operation invokes a named operation at system, type, or instance level.
	Operation(ctx context.Context, req OperationRequest) (Document, error)

	// Update PUTs the resource to <endpoint><type>/<id>. The resource must
	// carry resourceType and id fields.
	Update(ctx context.Context, resource Document) (Document, error)

	// Continue follows the bundle's "next" link. It returns (nil, nil) when
	// the bundle has no next link, and ErrNotABundle, without any network
	// call, when the document is not a Bundle.
	Continue(ctx context.Context, bundle Document) (Document, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a fhir.Client.
type Config struct {
	// Endpoint is the base URL of the FHIR server (e.g.
	// "https://vonk.fire.ly"). fhirclient.New normalizes it to end in exactly
	// one "/" and adds "https://" when no scheme is present.
	Endpoint string

	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, the transport default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// HTTPTimeout: optional per-request timeout; context deadlines are the
	// preferred mechanism.
	HTTPTimeout time.Duration
	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
