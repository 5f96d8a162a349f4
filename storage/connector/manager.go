package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/mcp-protocol/syncmap"
	"github.com/viant/mcp-storagekit/auth"
	"github.com/viant/mcp-storagekit/storage/schema"
	"github.com/viant/mcp-storagekit/storage/secret"
)

// Manager owns the in-memory connector registry, one Namespace per caller.
// It implements SubmitClient and ProjectLinker; the Service wrapper adds the
// MCP-facing workflows (elicitation, pending credential flows).
type Manager struct {
	Config   *Config
	auth     *auth.Service
	catalog  schema.Client
	resolver *schema.Resolver
	secrets  *secret.Store

	namespaces *Namespaces
	links      *syncmap.Map[string, []string]
	pending    *PendingCredentials
}

// NewManager builds a Manager backed by the given catalog client.
func NewManager(cfg *Config, authService *auth.Service, catalog schema.Client, resolver *schema.Resolver, secrets *secret.Store) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	if resolver == nil {
		resolver = schema.NewResolver(nil)
	}
	mgr := &Manager{
		Config:     cfg,
		auth:       authService,
		catalog:    catalog,
		resolver:   resolver,
		secrets:    secrets,
		namespaces: NewNamespaces(),
		links:      syncmap.NewMap[string, []string](),
		pending:    NewPendingCredentials(),
	}
	mgr.initDefaultConnectors()
	return mgr
}

// initDefaultConnectors loads connectors supplied via configuration and makes
// them immediately available in their respective namespaces. Called once
// during Manager construction.
func (m *Manager) initDefaultConnectors() {
	if m.Config == nil || len(m.Config.DefaultConnectors) == 0 {
		return
	}
	for _, nsCfg := range m.Config.DefaultConnectors {
		if nsCfg == nil {
			continue
		}
		nsName := nsCfg.Namespace
		if nsName == "" {
			nsName = "default"
		}
		ns, _ := m.namespaces.Get(nsName)
		if ns == nil {
			ns = NewNamespace(nsName)
			m.namespaces.Put(nsName, ns)
		}
		for _, conn := range nsCfg.Connectors {
			if conn == nil || conn.Metadata.Slug == "" {
				continue
			}
			if conn.ETag == "" {
				conn.ETag = uuid.NewString()
			}
			if conn.ID == "" {
				conn.ID = uuid.NewString()
			}
			ns.Connectors.Put(conn.Metadata.Slug, conn)
		}
	}
}

// Secrets exposes the credential store backing this registry.
func (m *Manager) Secrets() *secret.Store { return m.secrets }

// Resolver exposes the schema resolver used for this registry.
func (m *Manager) Resolver() *schema.Resolver { return m.resolver }

// Catalog fetches the backend schema catalog.
func (m *Manager) Catalog(ctx context.Context) ([]*schema.Descriptor, error) {
	return m.catalog.Catalog(ctx)
}

// Submit validates and stores a candidate definition, returning the stored
// connector. Create assigns a fresh id; update requires a matching If-Match
// tag when one is supplied. Sensitive fields for the stored connector are
// derived from the schema catalog.
func (m *Manager) Submit(ctx context.Context, definition *Definition, mode Mode, ifMatch string) (*Connector, error) {
	if err := m.validate(definition); err != nil {
		return nil, err
	}
	if doi, ok := definition.Storage.Configuration["doi"].(string); ok && doi != "" {
		definition.Storage.Configuration["doi"] = ParseDOI(doi)
	}
	if _, gated := m.resolver.UsesIntegration(schemaPrefixOf(definition)); gated {
		return nil, fmt.Errorf("%w: schema %q", ErrIntegrationRequired, schemaPrefixOf(definition))
	}
	ns, err := m.namespaceFor(definition.Metadata.Namespace)
	if err != nil {
		return nil, err
	}

	sensitive, err := m.declaredSensitiveFields(ctx, definition)
	if err != nil {
		return nil, err
	}

	slug := definition.Metadata.Slug
	existing, found := ns.Connectors.Get(slug)
	switch mode {
	case ModeUpdate:
		if !found {
			return nil, fmt.Errorf("%w: %s/%s", ErrConnectorNotFound, ns.Name, slug)
		}
		if ifMatch != "" && ifMatch != existing.ETag {
			return nil, fmt.Errorf("%w: slug %s", ErrConflict, slug)
		}
	default:
		if found {
			return nil, fmt.Errorf("%w: slug %s already exists", ErrConflict, slug)
		}
	}

	stored := &Connector{
		ETag:            uuid.NewString(),
		SensitiveFields: sensitive,
		Definition:      *definition,
	}
	if mode == ModeUpdate {
		stored.ID = existing.ID
	} else {
		stored.ID = uuid.NewString()
	}
	ns.Connectors.Put(slug, stored)
	return stored, nil
}

// Connection retrieves a connector by slug from the caller's namespace.
func (m *Manager) Connection(ctx context.Context, slug string) (*Connector, error) {
	namespace, err := m.auth.Namespace(ctx)
	if err != nil {
		return nil, err
	}
	ns, ok := m.namespaces.Get(namespace)
	if !ok {
		return nil, ErrNamespaceNotFound
	}
	ret, ok := ns.Connectors.Get(slug)
	if !ok {
		return nil, ErrConnectorNotFound
	}
	return ret, nil
}

// List returns all connectors visible in the caller's namespace.
func (m *Manager) List(ctx context.Context) []*Connector {
	namespace, err := m.auth.Namespace(ctx)
	if err != nil {
		return nil
	}
	ns, ok := m.namespaces.Get(namespace)
	if !ok {
		return nil
	}
	return ns.Connectors.Values()
}

// Remove deletes a connector from the caller's namespace.
func (m *Manager) Remove(ctx context.Context, slug string) {
	namespace, err := m.auth.Namespace(ctx)
	if err != nil {
		return
	}
	if ns, ok := m.namespaces.Get(namespace); ok {
		ns.Connectors.Delete(slug)
	}
}

// Link attaches a connector to a project.
func (m *Manager) Link(_ context.Context, connectorID, projectID string) error {
	if connectorID == "" || projectID == "" {
		return fmt.Errorf("%w: connector and project ids are required", ErrValidation)
	}
	linked, _ := m.links.Get(connectorID)
	for _, candidate := range linked {
		if candidate == projectID {
			return nil
		}
	}
	m.links.Put(connectorID, append(linked, projectID))
	return nil
}

// Pending retrieves a pending credential entry by its flow id.
func (m *Manager) Pending(flowID string) (*PendingCredential, bool) {
	return m.pending.Get(flowID)
}

// CompletePending marks a pending credential flow done and releases waiters.
func (m *Manager) CompletePending(flowID string) error {
	if _, ok := m.pending.Get(flowID); !ok {
		return fmt.Errorf("pending credential flow %s not found", flowID)
	}
	m.pending.Close(flowID)
	return nil
}

// CancelPending aborts a pending credential flow without activating it.
func (m *Manager) CancelPending(flowID string) error {
	if _, ok := m.pending.Get(flowID); !ok {
		return fmt.Errorf("pending credential flow %s not found", flowID)
	}
	m.pending.Close(flowID)
	m.pending.Delete(flowID)
	return nil
}

func (m *Manager) namespaceFor(name string) (*Namespace, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrValidation)
	}
	ns, ok := m.namespaces.Get(name)
	if !ok {
		ns = NewNamespace(name)
		m.namespaces.Put(name, ns)
	}
	return ns, nil
}

// declaredSensitiveFields derives the sensitive-field declarations stored
// alongside a connector from the live schema catalog.
func (m *Manager) declaredSensitiveFields(ctx context.Context, definition *Definition) ([]SensitiveField, error) {
	catalog, err := m.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	descriptor := m.resolver.Schema(catalog, schemaPrefixOf(definition))
	if descriptor == nil {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrValidation, schemaPrefixOf(definition))
	}
	var ret []SensitiveField
	for _, name := range FindSensitive(descriptor) {
		field := SensitiveField{Name: name}
		if option := descriptor.Option(name); option != nil {
			field.Help = option.Help
		}
		ret = append(ret, field)
	}
	return ret, nil
}

func (m *Manager) validate(definition *Definition) error {
	if definition == nil {
		return fmt.Errorf("%w: definition is nil", ErrValidation)
	}
	var missing []string
	if definition.Metadata.Name == "" {
		missing = append(missing, "name")
	}
	if definition.Metadata.Slug == "" {
		missing = append(missing, "slug")
	}
	if definition.Storage.TargetPath == "" {
		missing = append(missing, "target_path")
	}
	if schemaPrefixOf(definition) == "" {
		missing = append(missing, "configuration.type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	for key, value := range definition.Storage.Configuration {
		if value == SavedSecretDisplayValue {
			return fmt.Errorf("%w: option %q", ErrSentinelMisuse, key)
		}
	}
	return nil
}

func schemaPrefixOf(definition *Definition) string {
	if definition == nil || definition.Storage.Configuration == nil {
		return ""
	}
	prefix, _ := definition.Storage.Configuration[configTypeKey].(string)
	return prefix
}
