package connector

import "github.com/viant/mcp-protocol/syncmap"

type (
	// Connectors is a concurrency-safe connector collection keyed by slug.
	Connectors struct {
		*syncmap.Map[string, *Connector]
	}

	// Namespace groups the connectors owned by one caller namespace.
	Namespace struct {
		Name string
		*Connectors
	}

	// Namespaces is the concurrency-safe namespace registry.
	Namespaces struct {
		*syncmap.Map[string, *Namespace]
	}
)

func NewConnectors() *Connectors {
	return &Connectors{syncmap.NewMap[string, *Connector]()}
}

func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, Connectors: NewConnectors()}
}

func NewNamespaces() *Namespaces {
	return &Namespaces{syncmap.NewMap[string, *Namespace]()}
}
