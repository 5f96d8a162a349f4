package connector

import (
	"context"
	"strings"
)

// ListInput represents parameters for the list tool.
type ListInput struct {
	Pattern string `json:"pattern,omitempty" description:"Substring filter on connector name or slug"`
}

// ListOutput represents the result returned by the list tool.
type ListOutput struct {
	Data   []interface{} `json:"data,omitempty"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// ListItem is one row of the list tool output: the stored connector plus its
// derived scope and data source.
type ListItem struct {
	*Connector
	Scope  Scope  `json:"scope"`
	Source string `json:"source"`
}

// ListConnectors produces ListOutput with all connectors visible in the
// caller's namespace. It is a convenience wrapper used by the MCP tool
// registration.
func (s *Service) ListConnectors(ctx context.Context, input *ListInput) *ListOutput {
	output := &ListOutput{Status: "ok"}
	connectors := s.List(ctx)
	if len(connectors) == 0 {
		return output
	}

	pattern := ""
	if input != nil {
		pattern = input.Pattern
	}
	filtered := connectors
	if pattern != "" {
		filtered = nil
		for _, c := range connectors {
			if strings.Contains(c.Metadata.Name, pattern) || strings.Contains(c.Metadata.Slug, pattern) {
				filtered = append(filtered, c)
			}
		}
	}

	output.Data = make([]interface{}, len(filtered))
	for i, c := range filtered {
		output.Data[i] = &ListItem{Connector: c, Scope: ScopeOf(c.Metadata.Namespace), Source: c.Source()}
	}
	return output
}
