package connector

// Visibility values accepted by the backend.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Configuration keys reserved for schema selection; everything else in a
// configuration map is an option value.
const (
	configTypeKey     = "type"
	configProviderKey = "provider"
)

// Metadata carries the connector's identity and sharing attributes.
type Metadata struct {
	Name       string   `json:"name"`
	Namespace  string   `json:"namespace"`
	Slug       string   `json:"slug"`
	Visibility string   `json:"visibility"`
	Keywords   []string `json:"keywords,omitempty"`
}

// StorageSpec is the nested, backend-shaped storage definition. The
// configuration map always carries "type" (the schema prefix) and, when
// applicable, "provider"; secret values are replaced by SensitiveFieldToken
// before a definition is submitted.
type StorageSpec struct {
	Configuration map[string]interface{} `json:"configuration"`
	SourcePath    string                 `json:"source_path"`
	TargetPath    string                 `json:"target_path"`
	ReadOnly      bool                   `json:"readonly"`
}

// Definition is a candidate connector submitted to the backing service.
type Definition struct {
	Metadata Metadata    `json:"metadata"`
	Storage  StorageSpec `json:"storage"`
}

// SensitiveField is a secret option declared by the backend for a stored
// connector.
type SensitiveField struct {
	Name string `json:"name"`
	Help string `json:"help,omitempty"`
}

// Connector is a stored connector as returned by the backing service: the
// definition plus server-assigned identity, concurrency tag and the declared
// sensitive fields.
type Connector struct {
	ID              string           `json:"id"`
	ETag            string           `json:"etag,omitempty"`
	SensitiveFields []SensitiveField `json:"sensitive_fields,omitempty"`
	Definition
}

// SchemaPrefix returns the configuration's "type" entry.
func (c *Connector) SchemaPrefix() string {
	if c == nil || c.Storage.Configuration == nil {
		return ""
	}
	prefix, _ := c.Storage.Configuration[configTypeKey].(string)
	return prefix
}

// Flat is the wizard's working, denormalized representation of a connector.
// One instance exists per open wizard; it is created empty or from an
// existing connector and discarded on close.
type Flat struct {
	ConnectorID string
	Name        string
	Namespace   string
	Slug        string
	Visibility  string
	Keywords    []string
	Schema      string
	Provider    string
	Options     map[string]Value
	SourcePath  string
	MountPoint  string
	ReadOnly    bool
}

// EmptyFlat returns the canonical empty wizard state: private visibility,
// read-only mount, everything else unset.
func EmptyFlat() *Flat {
	return &Flat{Visibility: VisibilityPrivate, ReadOnly: true}
}

// Clone returns a deep copy; the wizard never shares option maps across
// states.
func (f *Flat) Clone() *Flat {
	ret := *f
	if f.Options != nil {
		ret.Options = make(map[string]Value, len(f.Options))
		for name, value := range f.Options {
			ret.Options[name] = value
		}
	}
	if f.Keywords != nil {
		ret.Keywords = append([]string(nil), f.Keywords...)
	}
	return &ret
}
