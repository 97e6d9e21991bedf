package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/registrable/catalog"
)

// writeManifest drops a manifest file into dir and returns its path.
func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ParsesModuleBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "catalog.hcl", `
module "acme.sinks" {
  description = "Out-of-tree sinks."
  plugin      = "acme-sinks.so"
  members     = ["Webhook", "Kafka"]
}

module "acme.codecs" {
  plugin = "/opt/acme/acme-codecs.so"
}
`)

	cat, err := catalog.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, cat.Entries(), 2)

	sinks, ok := cat.Entry("acme.sinks")
	require.True(t, ok)
	require.Equal(t, "Out-of-tree sinks.", sinks.Description)
	require.Equal(t, filepath.Join(dir, "acme-sinks.so"), sinks.Plugin, "relative plugin paths anchor at the manifest directory")
	require.Equal(t, []string{"Webhook", "Kafka"}, sinks.Members)

	codecs, ok := cat.Entry("acme.codecs")
	require.True(t, ok)
	require.Equal(t, "/opt/acme/acme-codecs.so", codecs.Plugin, "absolute plugin paths pass through")
	require.Empty(t, codecs.Members)
}

func TestLoad_AcceptsSingleFilePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeManifest(t, dir, "only.hcl", `
module "acme.one" {
  plugin = "one.so"
}
`)

	cat, err := catalog.Load(context.Background(), path)
	require.NoError(t, err)
	_, ok := cat.Entry("acme.one")
	require.True(t, ok)
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate module path",
			content: `
module "acme.sinks" {
  plugin = "a.so"
}
module "acme.sinks" {
  plugin = "b.so"
}
`,
			wantErr: "declared twice",
		},
		{
			name: "malformed hcl",
			content: `
module "acme.sinks" {
  plugin = "a.so"
`,
			wantErr: "failed to parse",
		},
		{
			name: "missing plugin attribute",
			content: `
module "acme.sinks" {
}
`,
			wantErr: "failed to decode",
		},
		{
			name: "members must be strings",
			content: `
module "acme.sinks" {
  plugin  = "a.so"
  members = [1, 2]
}
`,
			wantErr: "must be a list of strings",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeManifest(t, dir, "catalog.hcl", tc.content)

			_, err := catalog.Load(context.Background(), dir)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCatalog_LoadUndeclaredModule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "catalog.hcl", `
module "acme.sinks" {
  plugin = "a.so"
}
`)

	cat, err := catalog.Load(context.Background(), dir)
	require.NoError(t, err)

	_, err = cat.Load("acme.other")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"acme.other"`)
	require.Contains(t, err.Error(), "not declared")
}

func TestCatalog_LoadMissingPluginFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "catalog.hcl", `
module "acme.sinks" {
  plugin = "does-not-exist.so"
}
`)

	cat, err := catalog.Load(context.Background(), dir)
	require.NoError(t, err)

	_, err = cat.Load("acme.sinks")
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening plugin")
}
