// Package secret persists connector credential values separately from the
// connector definitions, so definitions stay safe to return over RPC.
package secret

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// Bundle holds the sensitive option values of one connector, keyed by option
// name. It is what gets encrypted at rest.
type Bundle struct {
	Values map[string]string `json:"values"`
}

// Store encrypts and persists sensitive option values with scy. Each
// connector keeps one bundle per namespace under:
//
//	<base>/<schema>/<slug>/<namespace>
//
// When no base location is configured the bundle lives in memory only.
type Store struct {
	base    string
	secrets *scy.Service
	fs      afs.Service
}

// New builds a Store rooted at baseLocation. An empty baseLocation keeps
// secrets in memory.
func New(baseLocation string) *Store {
	return &Store{
		base:    baseLocation,
		secrets: scy.New(),
		fs:      afs.New(),
	}
}

// Resource returns the scy resource addressing the credential bundle for the
// given connector coordinates.
func (s *Store) Resource(schemaPrefix, slug, namespace string) *scy.Resource {
	return scy.NewResource(reflect.TypeOf(&Bundle{}), s.location(schemaPrefix, slug, namespace), "blowfish://default")
}

// Save encrypts and stores the supplied sensitive values.
func (s *Store) Save(ctx context.Context, schemaPrefix, slug, namespace string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	bundle := &Bundle{Values: values}
	resource := s.Resource(schemaPrefix, slug, namespace)
	secret := scy.NewSecret(bundle, resource)
	if err := s.secrets.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store credentials for %s/%s: %w", schemaPrefix, slug, err)
	}
	return nil
}

// Load decrypts the credential bundle. A missing bundle yields a nil map.
func (s *Store) Load(ctx context.Context, schemaPrefix, slug, namespace string) (map[string]string, error) {
	resource := s.Resource(schemaPrefix, slug, namespace)
	if exists, _ := s.fs.Exists(ctx, resource.URL); !exists {
		return nil, nil
	}
	secret, err := s.secrets.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials for %s/%s: %w", schemaPrefix, slug, err)
	}
	bundle, ok := secret.Target.(*Bundle)
	if !ok || bundle == nil {
		return nil, nil
	}
	return bundle.Values, nil
}

// Delete removes the credential bundle if present.
func (s *Store) Delete(ctx context.Context, schemaPrefix, slug, namespace string) error {
	location := s.location(schemaPrefix, slug, namespace)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return err
	}
	return s.fs.Delete(ctx, location)
}

func (s *Store) location(schemaPrefix, slug, namespace string) string {
	encodedNS := url.QueryEscape(namespace)
	if base := s.base; base != "" {
		if strings.HasPrefix(base, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				base = filepath.Join(home, base[2:])
			}
		}
		fullPath := filepath.Join(base, schemaPrefix, slug, encodedNS)
		return fmt.Sprintf("file://%s", filepath.ToSlash(fullPath))
	}
	return fmt.Sprintf("mem://localhost/%s/%s/%s", schemaPrefix, slug, encodedNS)
}
