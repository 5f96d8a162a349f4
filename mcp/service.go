package mcp

import (
	"net/http"

	"github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-storagekit/auth"
	"github.com/viant/mcp-storagekit/mcp/ui/interaction"
	"github.com/viant/mcp-storagekit/policy"
	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
	"github.com/viant/mcp-storagekit/storage/secret"
)

type Service struct {
	connectors *connector.Manager
	schemas    *schema.Service
	ui         *interaction.Service
	auth       *auth.Service

	// useText determines which field (`text` vs `data`) the toolbox will
	// populate when returning CallToolResultContentElem.
	useText bool
}

// RegisterHTTP attaches all MCP auxiliary HTTP handlers (currently
// user-interaction callbacks).
func (s *Service) RegisterHTTP(mux *http.ServeMux) {
	if s.ui != nil {
		s.ui.Register(mux)
	}
}

func (s *Service) NewConnector(operations client.Operations) *connector.Service {
	return connector.NewService(s.connectors, operations)
}

func (s *Service) Schemas() *schema.Service {
	return s.schemas
}

func (s *Service) UI() *interaction.Service {
	return s.ui
}

// Auth returns the underlying authentication service.
func (s *Service) Auth() *auth.Service {
	return s.auth
}

// UseTextField indicates whether the toolbox should populate the `text`
// field (true, default) or the `data` field (false) when returning tool
// results.
func (s *Service) UseTextField() bool {
	return s.useText
}

func NewService(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}
	if config.Connector == nil {
		config.Connector = &connector.Config{}
	}
	if config.Connector.Policy == nil {
		config.Connector.Policy = &policy.Policy{}
	}

	authService := auth.New(config.Connector.Policy)
	var catalog schema.Client = schema.NewStaticClient()
	if config.CatalogURL != "" {
		catalog = schema.NewFileClient(config.CatalogURL)
	}
	resolver := schema.NewResolver(nil)
	secrets := secret.New(config.Connector.SecretBaseLocation)
	connectors := connector.NewManager(config.Connector, authService, catalog, resolver, secrets)

	useText := true
	if config.UseData {
		useText = false
	} else if config.UseText {
		useText = true
	}

	ret := &Service{
		connectors: connectors,
		schemas:    schema.New(catalog, resolver),
		ui:         interaction.New(connectors, secrets),
		auth:       authService,
		useText:    useText,
	}
	return ret
}
