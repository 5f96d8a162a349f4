package connector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/schema"
)

type Service struct {
	*Manager
	prober    *Prober
	mcpClient client.Operations
}

// NewService builds a connector Service.
func NewService(manager *Manager, mcp client.Operations) *Service {
	return &Service{
		Manager:   manager,
		prober:    NewProber(),
		mcpClient: mcp,
	}
}

// Prober exposes the connection tester.
func (s *Service) Prober() *Prober { return s.prober }

// Set registers or updates a connector from its flattened form. Sensitive
// values travel in-memory only; when saveCredentials is requested they are
// persisted in the credential store, otherwise any previously stored bundle
// is removed. The method never returns credential values.
func (s *Service) Set(ctx context.Context, flat *Flat, mode Mode, ifMatch string, saveCredentials bool) (*Connector, error) {
	if flat == nil {
		return nil, fmt.Errorf("%w: connector input cannot be nil", ErrValidation)
	}
	namespace, err := s.auth.Namespace(ctx)
	if err != nil {
		return nil, err
	}
	if flat.Namespace == "" {
		flat.Namespace = namespace
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	var existing *Connector
	if mode == ModeUpdate {
		if existing, err = s.Manager.Connection(ctx, flat.Slug); err != nil {
			return nil, err
		}
	}
	definition, err := Unflatten(flat, catalog, existing)
	if err != nil {
		return nil, err
	}
	stored, err := s.Submit(ctx, definition, mode, ifMatch)
	if err != nil {
		return nil, err
	}
	if err := s.storeCredentials(ctx, flat, stored, namespace, saveCredentials); err != nil {
		return stored, err
	}
	// Once a connector is active its pending credential flow is obsolete.
	s.closePendingFor(namespace, flat.Slug)
	return stored, nil
}

// storeCredentials persists or clears the sensitive option values of a
// flattened connector. Only literal values of declared sensitive fields are
// stored; pending markers carry no payload and are collected through the
// browser flow instead.
func (s *Service) storeCredentials(ctx context.Context, flat *Flat, stored *Connector, namespace string, saveCredentials bool) error {
	if s.secrets == nil {
		return nil
	}
	if !saveCredentials {
		return s.secrets.Delete(ctx, flat.Schema, flat.Slug, namespace)
	}
	values := map[string]string{}
	for _, field := range stored.SensitiveFields {
		value, ok := flat.Options[field.Name]
		if !ok || value.Kind() != KindPlain || value.IsEmpty() {
			continue
		}
		values[field.Name] = value.Text()
	}
	if len(values) == 0 {
		return nil
	}
	return s.secrets.Save(ctx, flat.Schema, flat.Slug, namespace, values)
}

func (s *Service) closePendingFor(namespace, slug string) {
	for _, entry := range s.pending.Values() {
		if entry == nil || entry.Connector == nil {
			continue
		}
		if entry.Namespace == namespace && entry.Connector.Metadata.Slug == slug {
			s.pending.Close(entry.UUID)
			s.pending.Delete(entry.UUID)
		}
	}
}

// Connection retrieves a connector, falling back to an elicitation round-trip
// when the caller's namespace has no such connector and the client supports
// elicitation.
func (s *Service) Connection(ctx context.Context, slug string) (*Connector, error) {
	conn, err := s.Manager.Connection(ctx, slug)
	if err == nil {
		return conn, nil
	}
	if (errors.Is(err, ErrNamespaceNotFound) || errors.Is(err, ErrConnectorNotFound)) && s.mcpClient != nil && s.mcpClient.Implements(schema.MethodElicitationCreate) {
		namespace, _ := s.auth.Namespace(ctx)
		slug, err = s.requestConnectorElicit(ctx, s.mcpClient, slug, namespace)
		if err != nil {
			return nil, err
		}
		return s.Manager.Connection(ctx, slug)
	}
	return nil, err
}

// RequestCredentials starts a browser credential flow for a connector whose
// sensitive fields still need values. Provided the client supports
// elicitation, the flow URI is surfaced and the call waits for submission.
func (s *Service) RequestCredentials(ctx context.Context, conn *Connector) (*PendingCredential, error) {
	pend, err := s.GeneratePendingCredential(ctx, conn)
	if err != nil {
		return nil, err
	}
	pend.MCP = s.mcpClient
	if impl, ok := s.mcpClient.(client.Operations); ok && impl.Implements(schema.MethodElicitationCreate) {
		_, _ = impl.Elicit(ctx, &jsonrpc.TypedRequest[*schema.ElicitRequest]{
			Request: &schema.ElicitRequest{
				Params: schema.ElicitRequestParams{
					Message: "Initiate credential flow for " + conn.Metadata.Name + " storage connector",
					RequestedSchema: schema.ElicitRequestParamsRequestedSchema{
						Properties: map[string]interface{}{
							"flowURI": map[string]interface{}{
								"default":     pend.CallbackURL,
								"type":        "string",
								"title":       "Flow URI",
								"description": "URI of the flow to initiate",
							},
						},
						Required: []string{"flowURI"},
					},
				}}})

		// Wait for credential submission up to 5 min.
		select {
		case <-pend.done:
		case <-time.After(5 * time.Minute):
		case <-ctx.Done():
		}
	}
	return pend, nil
}

// GeneratePendingCredential registers a pending credential entry for the
// connector and derives the callback URL the browser flow uses.
func (s *Service) GeneratePendingCredential(ctx context.Context, conn *Connector) (*PendingCredential, error) {
	namespace, err := s.auth.Namespace(ctx)
	if err != nil {
		return nil, err
	}
	ns, ok := s.namespaces.Get(namespace)
	if !ok {
		ns = NewNamespace(namespace)
		s.namespaces.Put(namespace, ns)
	}
	fields := CredentialFieldDefinitions(conn)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: connector %s declares no sensitive fields", ErrValidation, conn.Metadata.Slug)
	}
	pend := &PendingCredential{
		UUID:      uuid.NewString(),
		ElicitID:  uuid.NewString(),
		Namespace: namespace,
		NS:        ns,
		Connector: conn,
		Fields:    fields,
		done:      make(chan struct{}),
	}
	baseURL := "http://localhost"
	if s.Config != nil && s.Config.CallbackBaseURL != "" {
		baseURL = strings.TrimRight(s.Config.CallbackBaseURL, "/")
	}
	pend.CallbackURL = fmt.Sprintf("%s/ui/interaction/%s", baseURL, pend.UUID)
	s.pending.Put(pend.UUID, pend)
	return pend, nil
}
