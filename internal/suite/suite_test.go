package suite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/smoke/internal/checks"
	"github.com/spboyer/smoke/internal/probe"
	"github.com/spboyer/smoke/internal/projectconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuite(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "smoke.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeSuite(t, dir, `
checks:
  - type: tautology
  - name: import-app
    type: import
    params:
      module: app
`)

	spec, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "smoke", spec.Name, "name defaults to file stem")
	require.Len(t, spec.Checks, 2)
	assert.Equal(t, "import-app", spec.Checks[1].Name)
	assert.Equal(t, "app", spec.Checks[1].Params["module"])

	absDir, _ := filepath.Abs(dir)
	assert.Equal(t, absDir, spec.Dir)
}

func TestLoad_SchemaError(t *testing.T) {
	p := writeSuite(t, t.TempDir(), "checks:\n  - type: http\n")

	_, err := Load(p)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.NotEmpty(t, schemaErr.Errors)
	assert.Contains(t, err.Error(), "does not match the suite schema")
}

func TestLoadOrDefault(t *testing.T) {
	spec, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"), "app")
	require.NoError(t, err)
	assert.Equal(t, Default("app"), spec)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild_Default(t *testing.T) {
	list, err := Build(Default("app"), BuildOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tautology", list[0].Name)
	assert.Equal(t, "import:app", list[1].Name)
	assert.Equal(t, probe.KindImport, list[1].Kind)
}

func TestBuild_ImportSearchPathRelativeToSuite(t *testing.T) {
	root := t.TempDir()
	testsDir := filepath.Join(root, "tests")
	require.NoError(t, os.MkdirAll(testsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), nil, 0o644))

	p := writeSuite(t, testsDir, `
checks:
  - type: import
    params:
      module: app
      dirs: [".."]
`)
	spec, err := Load(p)
	require.NoError(t, err)

	list, err := Build(spec, BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, list[0].Procedure(context.Background()))
}

func TestBuild_ImportModuleAbsentSkips(t *testing.T) {
	spec := &Spec{Dir: t.TempDir(), Checks: []CheckSpec{
		{Type: TypeImport, Params: map[string]any{"module": "app", "dirs": []any{"."}}},
	}}

	list, err := Build(spec, BuildOptions{})
	require.NoError(t, err)

	skipErr, ok := checks.AsSkip(list[0].Procedure(context.Background()))
	require.True(t, ok)
	assert.Equal(t, probe.NotAvailableMessage, skipErr.Reason)
}

func TestBuild_ImportOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "server"), 0o755))

	spec := &Spec{Checks: []CheckSpec{{Type: TypeImport}}}
	lenient := true

	list, err := Build(spec, BuildOptions{Module: "server", SearchDirs: []string{dir}, Lenient: &lenient})
	require.NoError(t, err)
	assert.Equal(t, "import:server", list[0].Name)

	// server/ has no entry file, which is a broken module; lenient turns it into SKIP.
	_, ok := checks.AsSkip(list[0].Procedure(context.Background()))
	assert.True(t, ok)
}

func TestBuild_ImportRegistry(t *testing.T) {
	reg := probe.NewRegistry()
	reg.Register("app", nil)

	spec := &Spec{Checks: []CheckSpec{
		{Type: TypeImport, Params: map[string]any{"module": "app", "resolver": "registry"}},
		{Name: "worker", Type: TypeImport, Params: map[string]any{"module": "worker", "resolver": "registry"}},
	}}

	list, err := Build(spec, BuildOptions{Registry: reg})
	require.NoError(t, err)
	assert.NoError(t, list[0].Procedure(context.Background()))
	assert.Equal(t, "worker", list[1].Name)

	_, ok := checks.AsSkip(list[1].Procedure(context.Background()))
	assert.True(t, ok)
}

func TestBuild_ImportRegistryEmpty(t *testing.T) {
	spec := &Spec{Checks: []CheckSpec{
		{Type: TypeImport, Params: map[string]any{"module": "app", "resolver": "registry"}},
	}}

	_, err := Build(spec, BuildOptions{Registry: probe.NewRegistry()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolver "registry" has no registered modules`)
}

func TestBuild_ChainToleratesEmptyRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), nil, 0o644))

	spec := &Spec{Checks: []CheckSpec{
		{Type: TypeImport, Params: map[string]any{"module": "app", "resolver": "chain", "dirs": []any{dir}}},
	}}

	list, err := Build(spec, BuildOptions{Registry: probe.NewRegistry()})
	require.NoError(t, err)
	assert.NoError(t, list[0].Procedure(context.Background()))
}

func TestBuild_ImportUsesConfigDefaults(t *testing.T) {
	cfg := projectconfig.New()
	cfg.Defaults.Module = "server"
	cfg.Defaults.Resolver = "registry"

	reg := probe.NewRegistry()
	reg.Register("server", nil)

	list, err := Build(&Spec{Checks: []CheckSpec{{Type: TypeImport}}}, BuildOptions{Config: cfg, Registry: reg})
	require.NoError(t, err)
	assert.Equal(t, "import:server", list[0].Name)
	assert.NoError(t, list[0].Procedure(context.Background()))
}

func TestBuild_InvalidResolver(t *testing.T) {
	spec := &Spec{Checks: []CheckSpec{{Type: TypeImport, Params: map[string]any{"resolver": "pip"}}}}

	_, err := Build(spec, BuildOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'pip' is not a valid resolver")
}

func TestBuild_EnvAndFail(t *testing.T) {
	spec := &Spec{Checks: []CheckSpec{
		{Type: TypeEnv, Params: map[string]any{"vars": []any{"SMOKE_UNSET_A", "SMOKE_UNSET_B"}}},
		{Type: TypeFail, Params: map[string]any{"message": "nope"}},
	}}

	list, err := Build(spec, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "env:SMOKE_UNSET_A,SMOKE_UNSET_B", list[0].Name)
	_, ok := checks.AsSkip(list[0].Procedure(context.Background()))
	assert.True(t, ok)

	assert.Equal(t, "fail", list[1].Name)
	assert.EqualError(t, list[1].Procedure(context.Background()), "nope")
}

func TestBuild_Command(t *testing.T) {
	spec := &Spec{Dir: "/repo", Checks: []CheckSpec{
		{Type: TypeCommand, Description: "run migrations", Params: map[string]any{"command": "node", "args": []any{"migrate.js"}}},
	}}

	list, err := Build(spec, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "command:node", list[0].Name)
	assert.Equal(t, "run migrations", list[0].Description)
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := Build(&Spec{Checks: []CheckSpec{{Type: "http"}}}, BuildOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check 1 (http)")
}

func TestBuild_EnvWithoutVars(t *testing.T) {
	_, err := Build(&Spec{Checks: []CheckSpec{{Type: TypeEnv}}}, BuildOptions{})
	require.Error(t, err)
}
