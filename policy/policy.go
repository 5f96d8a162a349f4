package policy

import (
	"golang.org/x/oauth2"
)

// Policy controls how callers of the storage-connector service are
// identified and which namespace isolation applies.
type Policy struct {

	// Oauth2Config identifies the authorization server whose tokens carry the
	// caller identity; when nil all callers share the default namespace.
	Oauth2Config *oauth2.Config `json:"oauth2,omitempty" yaml:"oauth2,omitempty"`

	// RequireIdentityToken indicates whether this policy mandates identity tokens
	RequireIdentityToken bool `json:"requireIdentityToken,omitempty" yaml:"requireIdentityToken,omitempty"`
}
