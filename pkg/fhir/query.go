package fhir

import (
	"fmt"
	"strings"
)

// Param is one search parameter pair. Values are kept raw here;
// percent-encoding is applied once, when the request URL is built.
type Param struct {
	Name  string
	Value string
}

// Query is a structured query object: a resource-type hint plus an ordered
// parameter list. It is the alternative to raw "key=value" criteria strings
// and is used exclusively when supplied.
type Query struct {
	resourceType string
	params       []Param
}

// NewQuery creates a structured query for the given resource type.
func NewQuery(resourceType string) *Query {
	return &Query{resourceType: resourceType}
}

// Where appends a parameter, preserving declaration order, and returns the
// query for chaining.
func (q *Query) Where(name, value string) *Query {
	q.params = append(q.params, Param{Name: name, Value: value})

	return q
}

// ResourceType returns the resource-type hint.
func (q *Query) ResourceType() string {
	return q.resourceType
}

// Params returns the parameters in declaration order.
func (q *Query) Params() []Param {
	return q.params
}

// ParseCriteria normalizes raw "key=value" strings into ordered pairs. Each
// string is split on the first "=" only, so values may themselves contain "=".
// A string without any "=" fails with ErrMalformedCriteria.
func ParseCriteria(criteria []string) ([]Param, error) {
	params := make([]Param, 0, len(criteria))

	for _, criterium := range criteria {
		name, value, found := strings.Cut(criterium, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCriteria, criterium)
		}

		params = append(params, Param{Name: name, Value: value})
	}

	return params, nil
}
