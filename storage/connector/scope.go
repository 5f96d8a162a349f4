package connector

import (
	"net/url"
	"strings"
)

// Scope classifies where a connector lives, derived from the shape of its
// namespace: empty means global, a single segment is a user or group
// namespace, two or more segments point into a project.
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeNamespace Scope = "namespace"
	ScopeProject   Scope = "project"
)

// ScopeOf derives the connector scope from a namespace path.
func ScopeOf(namespace string) Scope {
	if namespace == "" {
		return ScopeGlobal
	}
	if len(strings.Split(namespace, "/")) >= 2 {
		return ScopeProject
	}
	return ScopeNamespace
}

// Source names where a connector's data comes from: the namespace for owned
// connectors, the DOI (or "unknown") for global ones.
func (c *Connector) Source() string {
	if ScopeOf(c.Metadata.Namespace) != ScopeGlobal {
		return c.Metadata.Namespace
	}
	if doi, ok := c.Storage.Configuration["doi"].(string); ok && doi != "" {
		return doi
	}
	return "unknown"
}

// ParseDOI normalizes the common DOI spellings to the bare identifier:
//
//	10.1000/182                  -> 10.1000/182
//	https://doi.org/10.1000/182  -> 10.1000/182
//	doi:10.1000/182              -> 10.1000/182
func ParseDOI(doi string) string {
	parsed, err := url.Parse(doi)
	if err != nil {
		return doi
	}
	if strings.EqualFold(parsed.Scheme, "doi") {
		return strings.TrimLeft(doi[len("doi:"):], "/")
	}
	if strings.HasSuffix(strings.ToLower(parsed.Hostname()), "doi.org") {
		return strings.TrimLeft(parsed.Path, "/")
	}
	return doi
}
