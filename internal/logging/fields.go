// Package logging provides structured logging utilities for the choreosync daemon.
package logging

// Standard field names for consistent logging across the application.
const (
	// FieldRunID is the unique identifier for a reconciliation run.
	FieldRunID = "run_id"

	// FieldNamespace is the platform namespace being synchronized.
	FieldNamespace = "namespace"

	// FieldKind is the catalog entity kind a log line concerns.
	FieldKind = "kind"

	// FieldEntity is the canonical reference of a catalog entity.
	FieldEntity = "entity"

	// FieldLocationKey identifies the mutation source a run writes under.
	FieldLocationKey = "location_key"

	// FieldRequestID is a unique identifier for each HTTP request.
	FieldRequestID = "request_id"

	// FieldDuration is the duration of an operation in milliseconds.
	FieldDuration = "duration_ms"

	// FieldStatusCode is the HTTP status code of a response.
	FieldStatusCode = "status_code"

	// FieldMethod is the HTTP method of a request.
	FieldMethod = "method"

	// FieldPath is the URL path of an HTTP request.
	FieldPath = "path"

	// FieldRemoteAddr is the client's remote address.
	FieldRemoteAddr = "remote_addr"

	// FieldUserAgent is the client's user agent string.
	FieldUserAgent = "user_agent"

	// FieldError is the error message or description.
	FieldError = "error"
)
