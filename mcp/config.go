package mcp

import (
	"fmt"
	"strings"

	"github.com/viant/mcp-storagekit/policy"
	"github.com/viant/mcp-storagekit/storage/connector"
)

type Config struct {
	Connector *connector.Config

	// CatalogURL points at a schema catalog document. When empty the
	// embedded catalog snapshot is used.
	CatalogURL string `json:"catalogURL,omitempty"`

	// UseData, when set to true, instructs the toolbox to put tool results
	// in the `data` field of CallToolResultContentElem. When false (default)
	// the result JSON is carried in the `text` field.
	UseData bool `json:"useData,omitempty"`

	// Deprecated: kept for backwards-compatibility with earlier versions
	// that used `useText` (default false). When both UseText and UseData are
	// set the latter wins.
	UseText bool `json:"useText,omitempty"`
}

func (c *Config) Init(httpAddr string) {
	if c.Connector == nil {
		c.Connector = &connector.Config{}
	}

	// Assign default directory for persisted credentials when not specified.
	if c.Connector.SecretBaseLocation == "" {
		c.Connector.SecretBaseLocation = "~/.secret/mcpsk"
	}
	if c.Connector.CallbackBaseURL == "" {
		port := "5000"
		if idx := strings.LastIndex(httpAddr, ":"); idx >= 0 {
			port = httpAddr[idx+1:]
		}
		c.Connector.CallbackBaseURL = fmt.Sprintf("http://localhost:%v", port)
	}
	if c.Connector.Policy == nil {
		c.Connector.Policy = &policy.Policy{}
	}
}
