package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompose(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ComposeFileName), []byte(content), 0644))
}

func TestScanRecognizedForms(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, `
services:
  api:
    image: myapp:latest
    ports:
      - "8080:80"
      - "9090:90/udp"
      - "7070"
      - 6060
      - "127.0.0.1:5050:50"
      - target: 40
        published: 4040
      - target: 30
        published: "3030"
        protocol: udp
`)

	snap, err := Scan(dir)
	require.NoError(t, err)
	require.Empty(t, snap.Warnings)
	require.Len(t, snap.Mappings, 7)

	want := []struct {
		host, container int
		proto           string
	}{
		{8080, 80, "tcp"},
		{9090, 90, "udp"},
		{7070, 7070, "tcp"},
		{6060, 6060, "tcp"},
		{5050, 50, "tcp"},
		{4040, 40, "tcp"},
		{3030, 30, "udp"},
	}
	for i, w := range want {
		m := snap.Mappings[i]
		assert.Equal(t, "api", m.Service)
		assert.Equal(t, w.host, m.HostPort, "entry %d", i)
		assert.Equal(t, w.container, m.ContainerPort, "entry %d", i)
		assert.Equal(t, w.proto, m.Protocol, "entry %d", i)
		assert.Equal(t, filepath.Join(dir, ComposeFileName), m.SourceFile)
	}
}

func TestScanSkipsMalformedEntriesWithWarnings(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, `
services:
  api:
    ports:
      - "8080:80"
      - "not-a-port"
      - target: 90
  broken: just a string
`)

	snap, err := Scan(dir)
	require.NoError(t, err)

	require.Len(t, snap.Mappings, 1)
	assert.Equal(t, 8080, snap.Mappings[0].HostPort)

	// One warning per skipped entry, one for the non-mapping service.
	assert.Len(t, snap.Warnings, 3)
}

func TestScanMissingFileIsEmptySnapshot(t *testing.T) {
	dir := t.TempDir()

	snap, err := Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, snap.Mappings)
	assert.Equal(t, filepath.Base(dir), snap.Project)
	assert.Zero(t, snap.TotalHostPorts())
}

func TestScanMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, "services:\n  api:\n   ports:\n  - [broken\n")

	_, err := Scan(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Path, ComposeFileName)
}

func TestScanTopLevelNotMapping(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, "- one\n- two\n")

	_, err := Scan(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "not a mapping")
	assert.Greater(t, perr.Line, 0)
}

func TestScanEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, "")

	snap, err := Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, snap.Mappings)
}

func TestScanIgnoresOtherTopLevelKeys(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, `
version: "3.8"
volumes:
  data: {}
networks:
  backend: {}
services:
  web:
    ports:
      - "4000:3000"
`)

	snap, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, snap.Mappings, 1)
	assert.Equal(t, "web", snap.Mappings[0].Service)
	assert.Equal(t, []int{4000}, snap.HostPorts())
}

func TestScanPreservesDeclarationOrder(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, `
services:
  zeta:
    ports: ["9000:90"]
  alpha:
    ports: ["8000:80"]
`)

	snap, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, snap.Mappings, 2)
	assert.Equal(t, "zeta", snap.Mappings[0].Service)
	assert.Equal(t, "alpha", snap.Mappings[1].Service)
}

func TestScanServicesNotMapping(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, "services:\n  - web\n  - api\n")

	_, err := Scan(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "services is not a mapping")
}

func TestScanNullServices(t *testing.T) {
	dir := t.TempDir()
	writeCompose(t, dir, "version: \"3.8\"\nservices:\n")

	snap, err := Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, snap.Mappings)
}

func TestScanAll(t *testing.T) {
	base := t.TempDir()

	p1 := filepath.Join(base, "blog")
	require.NoError(t, os.Mkdir(p1, 0755))
	writeCompose(t, p1, "services:\n  web:\n    ports: [\"4000:80\"]\n")

	p2 := filepath.Join(base, "shop")
	require.NoError(t, os.Mkdir(p2, 0755))
	writeCompose(t, p2, "services:\n  api:\n    ports: [\"4001:80\"]\n")

	// A directory without a compose file is silently skipped.
	require.NoError(t, os.Mkdir(filepath.Join(base, "scratch"), 0755))

	// A broken document must not hide the healthy siblings.
	p3 := filepath.Join(base, "broken")
	require.NoError(t, os.Mkdir(p3, 0755))
	writeCompose(t, p3, "- not\n- a\n- mapping\n")

	snaps, errs := ScanAll(base)
	require.Len(t, snaps, 2)
	require.Len(t, errs, 1)

	names := []string{snaps[0].Project, snaps[1].Project}
	assert.ElementsMatch(t, []string{"blog", "shop"}, names)

	var perr *ParseError
	assert.ErrorAs(t, errs[0], &perr)
}

func TestScanAllMissingBase(t *testing.T) {
	snaps, errs := ScanAll(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, snaps)
	assert.Len(t, errs, 1)
}
