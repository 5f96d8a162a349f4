package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog(t *testing.T) []*Descriptor {
	t.Helper()
	catalog, err := NewStaticClient().Catalog(context.Background())
	assert.Nil(t, err)
	assert.NotEmpty(t, catalog)
	return catalog
}

func TestResolverSchemas(t *testing.T) {
	resolver := NewResolver(nil)
	catalog := testCatalog(t)

	type testCase struct {
		name          string
		shortList     bool
		currentSchema string
		expectFirst   string
		expectHas     []string
		expectMissing []string
	}

	testCases := []testCase{
		{
			name:          "hidden_schema_excluded",
			expectFirst:   "s3",
			expectMissing: []string{"gcs"},
		},
		{
			name:          "hidden_schema_kept_when_current",
			currentSchema: "gcs",
			expectHas:     []string{"gcs"},
		},
		{
			name:          "shortlist_drops_unlisted",
			shortList:     true,
			expectHas:     []string{"s3", "polybox", "webdav"},
			expectMissing: []string{"drive", "gcs"},
		},
		{
			name:          "shortlist_keeps_current",
			shortList:     true,
			currentSchema: "drive",
			expectHas:     []string{"drive"},
		},
	}

	for _, tc := range testCases {
		resolved := resolver.Schemas(catalog, tc.shortList, tc.currentSchema)
		prefixes := make(map[string]bool)
		for _, descriptor := range resolved {
			prefixes[descriptor.Prefix] = true
		}
		if tc.expectFirst != "" {
			assert.EqualValues(t, tc.expectFirst, resolved[0].Prefix, tc.name)
		}
		for _, prefix := range tc.expectHas {
			assert.True(t, prefixes[prefix], "%v: expected %v", tc.name, prefix)
		}
		for _, prefix := range tc.expectMissing {
			assert.False(t, prefixes[prefix], "%v: unexpected %v", tc.name, prefix)
		}
	}
}

func TestResolverSchemasOrdering(t *testing.T) {
	resolver := NewResolver(nil)
	catalog := testCatalog(t)
	resolved := resolver.Schemas(catalog, true, "")
	var prefixes []string
	for _, descriptor := range resolved {
		prefixes = append(prefixes, descriptor.Prefix)
	}
	// Positioned overrides come first, in declared order.
	assert.EqualValues(t, []string{"s3", "azureblob", "polybox", "switchDrive", "webdav", "openbis", "sftp"}, prefixes)
}

func TestResolverSchemaOverrideApplied(t *testing.T) {
	resolver := NewResolver(nil)
	catalog := testCatalog(t)
	openbis := resolver.Schema(catalog, "openbis")
	assert.NotNil(t, openbis)
	assert.EqualValues(t, "openBIS", openbis.Name)
	assert.True(t, openbis.ForceReadOnly)
	assert.Nil(t, resolver.Schema(catalog, "no-such-schema"))
}

func TestResolverProviders(t *testing.T) {
	resolver := NewResolver(nil)
	catalog := testCatalog(t)

	type testCase struct {
		name            string
		schema          string
		shortList       bool
		currentProvider string
		expectRequired  bool
		expectNames     []string
	}

	testCases := []testCase{
		{
			name:           "s3_shortlist_positions_aws_first",
			schema:         "s3",
			shortList:      true,
			expectRequired: true,
			expectNames:    []string{"AWS", "GCS", "Switch"},
		},
		{
			name:            "s3_shortlist_keeps_current",
			schema:          "s3",
			shortList:       true,
			currentProvider: "Minio",
			expectRequired:  true,
			expectNames:     []string{"AWS", "GCS", "Switch", "Minio"},
		},
		{
			name:           "s3_full_list",
			schema:         "s3",
			expectRequired: true,
			expectNames:    []string{"AWS", "GCS", "Switch", "DigitalOcean", "Minio", "Other"},
		},
		{
			name:           "webdav_needs_no_provider",
			schema:         "webdav",
			expectRequired: false,
		},
		{
			name:           "polybox_access_modes",
			schema:         "polybox",
			expectRequired: true,
			expectNames:    []string{"personal", "shared"},
		},
	}

	for _, tc := range testCases {
		providers, required := resolver.Providers(catalog, tc.schema, tc.shortList, tc.currentProvider)
		assert.EqualValues(t, tc.expectRequired, required, tc.name)
		var names []string
		for _, provider := range providers {
			names = append(names, provider.Name)
		}
		assert.ElementsMatch(t, tc.expectNames, names, tc.name)
		if tc.name == "s3_shortlist_positions_aws_first" {
			assert.EqualValues(t, "AWS", providers[0].Name, tc.name)
		}
	}
}

func TestResolverAccessModeFriendlyNames(t *testing.T) {
	resolver := NewResolver(nil)
	catalog := testCatalog(t)
	providers, required := resolver.Providers(catalog, "switchDrive", false, "")
	assert.True(t, required)
	assert.EqualValues(t, 2, len(providers))
	assert.EqualValues(t, "Personal", providers[0].FriendlyName)
	assert.EqualValues(t, "Shared", providers[1].FriendlyName)
}

func TestResolverUsesIntegration(t *testing.T) {
	resolver := NewResolver(nil)
	kind, gated := resolver.UsesIntegration("drive")
	assert.True(t, gated)
	assert.EqualValues(t, "google", kind)
	_, gated = resolver.UsesIntegration("s3")
	assert.False(t, gated)
}

func TestResolverSourcePathHint(t *testing.T) {
	resolver := NewResolver(nil)
	hint := resolver.SourcePathHint("s3")
	assert.NotNil(t, hint)
	assert.Contains(t, hint.Help, "Source path to mount. ")
	// Access-mode schemas keep their bespoke hint without the generic prefix.
	polybox := resolver.SourcePathHint("polybox")
	assert.NotNil(t, polybox)
	assert.NotContains(t, polybox.Help, "Source path to mount. ")
}

func TestResolverHasProviderShortlist(t *testing.T) {
	resolver := NewResolver(nil)
	assert.True(t, resolver.HasProviderShortlist("s3"))
	assert.False(t, resolver.HasProviderShortlist("webdav"))
}
