package connector

import "context"

// Mode selects whether a submission creates or updates a connector.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// SecretValue is a named secret destined for the credential store.
type SecretValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SubmitClient accepts a candidate definition and returns the stored
// connector or a typed failure (ErrValidation, ErrConflict,
// ErrUnauthorized).
type SubmitClient interface {
	Submit(ctx context.Context, definition *Definition, mode Mode, ifMatch string) (*Connector, error)
}

// ConnectionTester checks connectivity of a candidate configuration. A
// failure wraps ErrConnection.
type ConnectionTester interface {
	Test(ctx context.Context, configuration map[string]interface{}, sourcePath string) error
}

// CredentialStore persists and removes named secret values for a connector
// id, physically separate from the non-secret definition.
type CredentialStore interface {
	Save(ctx context.Context, connectorID string, values []SecretValue) error
	Delete(ctx context.Context, connectorID string) error
}

// ProjectLinker attaches a connector to a project.
type ProjectLinker interface {
	Link(ctx context.Context, connectorID, projectID string) error
}
