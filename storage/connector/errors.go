package connector

import "errors"

// Typed errors returned by the connector business logic. Callers (the MCP
// service, the wizard, the sequencer) branch on these values to decide
// whether to surface a failure, retry, or trigger a credential flow; never
// compare error strings.

var (
	// ErrNamespaceNotFound is returned when the namespace derived from the
	// request context has no connectors registered.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrConnectorNotFound is returned when the requested connector is
	// missing in the namespace.
	ErrConnectorNotFound = errors.New("connector not found")

	// ErrValidation is returned when a submitted definition fails field
	// validation; user input is preserved by the caller.
	ErrValidation = errors.New("invalid connector definition")

	// ErrConflict is returned on an update whose If-Match tag no longer
	// matches the stored connector.
	ErrConflict = errors.New("connector was modified concurrently")

	// ErrUnauthorized is returned when the caller may not touch the target
	// namespace.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConnection is returned when a test-connection probe fails; it is
	// recoverable by editing the configuration and retrying.
	ErrConnection = errors.New("storage connection failed")

	// ErrSentinelMisuse is returned when the saved-secret display value is
	// about to be submitted as a real field value. It must be caught before
	// anything reaches the backend.
	ErrSentinelMisuse = errors.New("saved-secret placeholder resubmitted as value")

	// ErrIntegrationRequired is returned for schemas gated on an external
	// connected service which must be set up first.
	ErrIntegrationRequired = errors.New("schema requires a connected service integration")
)
