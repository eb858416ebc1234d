package batch

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/gliderprep/internal/core/descriptor"
	"github.com/artpar/gliderprep/internal/shell/configset"
	"github.com/artpar/gliderprep/internal/shell/workspace"
)

// =============================================================================
// Test Helpers
// =============================================================================

const (
	goodDeployment = "ru39-20250423T1535"
	badDeployment  = "ru44-20250306T0038"
)

var configSet = map[string]string{
	descriptor.TemplateFile: `
metadata:
  title: template
netcdf_variables:
  temp:
    source: sci_water_temp
`,
	descriptor.GlobalAttributesFile: "title: deployment title\n",
	descriptor.PlatformFile: `
glider: ru39
platform:
  wmo_id: "4802989"
  wmo_platform_code: 4802989
  serial_number: unit_507
`,
	descriptor.InstrumentsFile:       `[{"nc_var_name": "instrument_ctd", "attrs": {"serial_number": "9711"}}]`,
	descriptor.RawSensorDefsFile:     `{"m_depth": {"nc_var_name": "depth", "attrs": {"units": "m"}}}`,
	descriptor.ProfileSensorDefsFile: `{}`,
	descriptor.ManifestFile:          "sci_water_temp\nm_depth\nm_unknown\n",
}

func writeFiles(t *testing.T, dir string) {
	t.Helper()
	for name, content := range configSet {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

// setupDeployments provisions both test deployments and gives only the good
// one a complete config set.
func setupDeployments(t *testing.T) string {
	t.Helper()
	root, err := workspace.CreateDeploymentsRoot(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{goodDeployment, badDeployment} {
		layout, err := workspace.Plan(root, name)
		require.NoError(t, err)
		require.NoError(t, workspace.Provision(layout))
		if name == goodDeployment {
			writeFiles(t, layout.ConfigDir())
		}
	}
	return root
}

func testRunner(root string) (*Runner, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRunner(Config{
		DeploymentsRoot: root,
		User:            "gsb",
		Now:             func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) },
	}, logger)
	return r, buf
}

func layoutOf(t *testing.T, root, name string) (configDir, procLogs string) {
	t.Helper()
	layout, err := workspace.Locate(root, name)
	require.NoError(t, err)
	return layout.ConfigDir(), layout.ProcLogsDir()
}

// =============================================================================
// Compile Tests
// =============================================================================

func TestCompile_FailureIsolatedPerDeployment(t *testing.T) {
	root := setupDeployments(t)
	r, _ := testRunner(root)

	summary := r.Compile([]string{badDeployment, goodDeployment})

	assert.False(t, summary.OK())
	require.Contains(t, summary.Failed, badDeployment)
	assert.True(t, errors.Is(summary.Failed[badDeployment], configset.ErrMissingFile))

	configDir, _ := layoutOf(t, root, goodDeployment)
	assert.Equal(t, filepath.Join(configDir, descriptor.DescriptorFile), summary.Written[goodDeployment])
	_, err := os.Stat(summary.Written[goodDeployment])
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Warnings)
	assert.NotEmpty(t, summary.RunID)
}

func TestCompile_WritesProcLog(t *testing.T) {
	root := setupDeployments(t)
	r, base := testRunner(root)

	summary := r.Compile([]string{goodDeployment})
	require.True(t, summary.OK())

	_, procLogs := layoutOf(t, root, goodDeployment)
	logFile := filepath.Join(procLogs, "gsb-20261016-"+goodDeployment+"-configure-deploymentyaml.log")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	assert.Contains(t, string(data), "sensor=m_unknown")
	assert.Contains(t, string(data), "successfully wrote deployment descriptor")
	assert.Contains(t, string(data), "run_id="+summary.RunID)
	assert.Contains(t, base.String(), "sensor=m_unknown")
}

func TestCompile_MissingFileLoggedWithPath(t *testing.T) {
	root := setupDeployments(t)
	r, _ := testRunner(root)

	r.Compile([]string{badDeployment})

	_, procLogs := layoutOf(t, root, badDeployment)
	entries, err := os.ReadDir(procLogs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(procLogs, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=ERROR")
	assert.Contains(t, string(data), descriptor.TemplateFile)
}

func TestCompile_FailureLoggedOnceOnConsole(t *testing.T) {
	root := setupDeployments(t)
	r, base := testRunner(root)

	summary := r.Compile([]string{badDeployment, "ru99-20250101T0000"})

	require.Len(t, summary.Failed, 2)
	assert.Equal(t, 2, strings.Count(base.String(), "level=ERROR"))
	assert.Equal(t, 1, strings.Count(base.String(), "failed to load config set"))
	assert.Equal(t, 1, strings.Count(base.String(), "deployment not found"))
}

func TestCompile_UnknownDeployment(t *testing.T) {
	root := setupDeployments(t)
	r, _ := testRunner(root)

	summary := r.Compile([]string{"ru99-20250101T0000", "not-a-deployment"})

	assert.Len(t, summary.Failed, 2)
	assert.True(t, errors.Is(summary.Failed["ru99-20250101T0000"], workspace.ErrDeploymentNotFound))
}

func TestCompile_MissingProcLogs(t *testing.T) {
	root := setupDeployments(t)
	_, procLogs := layoutOf(t, root, goodDeployment)
	require.NoError(t, os.Remove(procLogs))
	r, _ := testRunner(root)

	summary := r.Compile([]string{goodDeployment})

	assert.True(t, errors.Is(summary.Failed[goodDeployment], ErrProcLogsMissing))
}

func TestCompile_InvalidDescriptorNotWritten(t *testing.T) {
	root := setupDeployments(t)
	configDir, _ := layoutOf(t, root, goodDeployment)
	template := "netcdf_variables:\n  temp:\n    units: Celsius\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, descriptor.TemplateFile), []byte(template), 0o644))
	r, _ := testRunner(root)

	summary := r.Compile([]string{goodDeployment})

	assert.True(t, errors.Is(summary.Failed[goodDeployment], ErrInvalidDescriptor))
	_, err := os.Stat(filepath.Join(configDir, descriptor.DescriptorFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCompile_ReplacesStaleDescriptor(t *testing.T) {
	root := setupDeployments(t)
	configDir, _ := layoutOf(t, root, goodDeployment)
	path := filepath.Join(configDir, descriptor.DescriptorFile)
	require.NoError(t, os.WriteFile(path, []byte("stale: true\n"), 0o644))
	r, _ := testRunner(root)

	r.Compile([]string{goodDeployment})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.True(t, strings.Contains(string(data), "deployment_name: "+goodDeployment))
}

// =============================================================================
// Init Tests
// =============================================================================

func TestInit_ProvisionsAndCopiesConfig(t *testing.T) {
	root, err := workspace.CreateDeploymentsRoot(t.TempDir())
	require.NoError(t, err)
	configHome := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(configHome, "ru39"), 0o755))
	writeFiles(t, filepath.Join(configHome, "ru39"))

	r, _ := testRunner(root)
	r.config.ConfigHome = configHome

	summary := r.Init([]string{goodDeployment})
	require.True(t, summary.OK(), "%v", summary.Failed)

	configDir, _ := layoutOf(t, root, goodDeployment)
	assert.Empty(t, configset.Missing(configDir))

	compiled := r.Compile([]string{goodDeployment})
	assert.True(t, compiled.OK(), "%v", compiled.Failed)
}

func TestInit_MissingGliderConfig(t *testing.T) {
	root, err := workspace.CreateDeploymentsRoot(t.TempDir())
	require.NoError(t, err)
	r, _ := testRunner(root)
	r.config.ConfigHome = t.TempDir()

	summary := r.Init([]string{goodDeployment})

	assert.Contains(t, summary.Failed, goodDeployment)
}

func TestInit_InvalidName(t *testing.T) {
	root, err := workspace.CreateDeploymentsRoot(t.TempDir())
	require.NoError(t, err)
	r, _ := testRunner(root)

	summary := r.Init([]string{"ru39", goodDeployment})

	assert.Contains(t, summary.Failed, "ru39")
	assert.Contains(t, summary.Written, goodDeployment)
}

// =============================================================================
// Check Tests
// =============================================================================

func TestCheck_ReportsMissing(t *testing.T) {
	root := setupDeployments(t)
	r, _ := testRunner(root)

	summary := r.Check([]string{goodDeployment, badDeployment})

	assert.Contains(t, summary.Written, goodDeployment)
	assert.Equal(t, descriptor.RequiredFiles, summary.Missing[badDeployment])
	assert.True(t, errors.Is(summary.Failed[badDeployment], ErrConfigIncomplete))
}

// =============================================================================
// Tee Handler Tests
// =============================================================================

func TestTeeHandler_RespectsLevels(t *testing.T) {
	var info, debug bytes.Buffer
	logger := slog.New(newTeeHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)).With("deployment", goodDeployment)

	logger.Debug("detail")
	logger.Info("summary")

	assert.NotContains(t, info.String(), "detail")
	assert.Contains(t, info.String(), "summary")
	assert.Contains(t, debug.String(), "detail")
	assert.Contains(t, debug.String(), "deployment="+goodDeployment)
}
