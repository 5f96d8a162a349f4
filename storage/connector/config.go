package connector

import (
	"github.com/viant/mcp-storagekit/policy"
	"github.com/viant/mcp/server/auth"
)

// Namespaced associates preconfigured connectors with a namespace.
type Namespaced struct {
	Namespace  string       `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Connectors []*Connector `json:"connectors,omitempty" yaml:"connectors,omitempty"`
}

type Config struct {
	Policy            *policy.Policy
	DefaultConnectors []*Namespaced
	CallbackBaseURL   string

	BackendForFrontend *auth.BackendForFrontend `json:"backendForFrontend,omitempty"  yaml:"backendForFrontend,omitempty"`

	// SecretBaseLocation specifies the base directory where connector
	// credentials are stored. When left empty, credentials are kept in-memory
	// only. The final location for a connector is:
	//   <SecretBaseLocation>/<schema>/<slug>/<namespace>
	SecretBaseLocation string
}
