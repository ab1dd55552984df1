// Package fhirclient provides the main entry point for creating FHIR STU3 API clients.
package fhirclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/UB-BiomedicalInformatics/gofhir/internal/client"
	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
)

// New creates a FHIR STU3 client for the configured endpoint.
//
// The endpoint is normalized (scheme added when missing, exactly one trailing
// slash) and the server's capability statement is fetched and validated before
// the client is returned: a server that does not present a CapabilityStatement
// fails with fhir.ErrConnectionFailed, and one whose fhirVersion major is not
// 3 fails with fhir.ErrUnsupportedVersion.
func New(ctx context.Context, config *fhir.Config) (fhir.Client, error) {
	if config == nil {
		return nil, fhir.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, fhir.ErrEndpointRequired
	}

	config.Endpoint = NormalizeEndpoint(config.Endpoint)

	fhirClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating fhir client: %w", err)
	}

	return fhirClient, nil
}

// NormalizeEndpoint adds an https scheme when none is present and ensures the
// endpoint ends in exactly one "/". Normalizing an already normalized endpoint
// is a no-op.
func NormalizeEndpoint(endpoint string) string {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return strings.TrimRight(endpoint, "/") + "/"
}
