// Package fhir provides types, errors, and helpers for working with FHIR STU3
// REST servers.
//
// # Overview
//
// The fhir package defines the document model (an opaque parsed JSON resource),
// the search criteria/query types, the error surface, and the Client interface
// for read and search operations. A concrete implementation of the client is
// provided by the fhirclient package, which wires configuration, transport,
// and capability negotiation. Most consumers should import fhirclient to
// construct a client and then interact with the operations exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
//	  "github.com/UB-BiomedicalInformatics/gofhir/pkg/fhirclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := fhirclient.New(ctx, &fhir.Config{Endpoint: "https://vonk.fire.ly"})
//	  if err != nil { log.Fatal(err) }
//
//	  patient, err := cli.Read(ctx, "Patient/example", fhir.SummaryNone)
//	  if err != nil { log.Fatal(err) }
//	  _ = patient
//	}
//
// # Searching and pagination
//
// Search results are searchset Bundles. Paging is stateless: each Bundle
// carries a "next" link, and Continue follows it. The idiomatic loop is:
//
//	bundle, err := cli.Search(ctx, "Patient", fhir.SearchOptions{
//	  Criteria: []string{"name=Peter"},
//	})
//	for bundle != nil && err == nil {
//	  // consume bundle.Entries()
//	  bundle, err = cli.Continue(ctx, bundle)
//	}
//
// The Pages iterator wraps the same loop for convenience.
//
// # Errors
//
// Caller-input failures are reported through package sentinels such as
// ErrMalformedCriteria and ErrNotABundle, detected before any network call.
// Protocol failures are represented by ResponseError, which carries the HTTP
// status and the server's OperationOutcome when one was returned. Helpers such
// as IsNotFound make it easy to branch on common cases.
package fhir
