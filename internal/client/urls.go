package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
)

// request aggregates everything that shapes one request URL. A request is
// either a criteria-based search or an operation invocation, never both.
type request struct {
	resourceType string
	criteria     []string
	query        *fhir.Query
	includes     []string
	count        int
	summary      fhir.SummaryType
	operation    *fhir.OperationRequest
}

// buildRequestURL turns a request into a fully encoded URL. All validation
// happens here, before any network call.
func buildRequestURL(endpoint string, req request) (string, error) {
	if req.operation != nil {
		if len(req.criteria) > 0 || req.query != nil {
			return "", fhir.ErrConflictingRequestIntent
		}

		return buildOperationURL(endpoint, *req.operation)
	}

	return buildSearchURL(endpoint, req)
}

// buildReadURL appends the location to the endpoint. The location may be a
// relative resource path or a version-qualified one; it is used verbatim.
func buildReadURL(endpoint, location string, summary fhir.SummaryType) string {
	readURL := endpoint + location
	if summary != fhir.SummaryNone {
		readURL += "?_summary=" + url.QueryEscape(string(summary))
	}

	return readURL
}

// buildSearchURL constructs a _search URL with query pairs in contract order:
// criteria, then includes, then _count, then _summary.
func buildSearchURL(endpoint string, req request) (string, error) {
	base := endpoint + "_search"
	if req.resourceType != "" {
		base = endpoint + req.resourceType + "/_search"
	}

	pairs, err := resolveParams(req)
	if err != nil {
		return "", err
	}

	return joinQuery(base, pairs), nil
}

// buildOperationURL constructs a $-prefixed operation URL. ResourceType and ID
// segments are omitted when absent, producing a system-level operation.
func buildOperationURL(endpoint string, op fhir.OperationRequest) (string, error) {
	if op.Name == "" {
		return "", fhir.ErrOperationNameRequired
	}

	path := endpoint
	if op.ResourceType != "" {
		path += op.ResourceType + "/"
	}

	if op.ID != "" {
		path += op.ID + "/"
	}

	return joinQuery(path+"$"+op.Name, op.Parameters), nil
}

// buildGraphQLURL constructs a $graphql URL, scoped to a single resource when
// location is non-empty.
func buildGraphQLURL(endpoint, location, query string) string {
	path := endpoint
	if location != "" {
		path += location + "/"
	}

	return joinQuery(path+"$graphql", []fhir.Param{{Name: "query", Value: query}})
}

// resolveParams normalizes the two criteria sources into one ordered pair
// sequence and appends the modifier parameters. Supplying both sources is a
// caller error.
func resolveParams(req request) ([]fhir.Param, error) {
	var pairs []fhir.Param

	switch {
	case req.query != nil && len(req.criteria) > 0:
		return nil, fhir.ErrConflictingCriteriaSource
	case req.query != nil:
		pairs = append(pairs, req.query.Params()...)
	default:
		parsed, err := fhir.ParseCriteria(req.criteria)
		if err != nil {
			return nil, fmt.Errorf("parsing criteria: %w", err)
		}

		pairs = append(pairs, parsed...)
	}

	for _, include := range req.includes {
		pairs = append(pairs, fhir.Param{Name: "_include", Value: include})
	}

	if req.count > 0 {
		pairs = append(pairs, fhir.Param{Name: "_count", Value: strconv.Itoa(req.count)})
	}

	if req.summary != fhir.SummaryNone {
		pairs = append(pairs, fhir.Param{Name: "_summary", Value: string(req.summary)})
	}

	return pairs, nil
}

// joinQuery percent-encodes the pairs and joins them to the base with "?".
// Encoding happens exactly once, here.
func joinQuery(base string, pairs []fhir.Param) string {
	if len(pairs) == 0 {
		return base
	}

	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = url.QueryEscape(pair.Name) + "=" + url.QueryEscape(pair.Value)
	}

	return base + "?" + strings.Join(parts, "&")
}
