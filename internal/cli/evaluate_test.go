package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearRegistryYAML = `features:
  - name: id
    raw_type: int
    kind: identifier
    missingness: none
    strategy: drop
    missing_semantics: not-applicable
  - name: x1
    raw_type: float
    kind: numeric
    missingness: none
    strategy: keep
    missing_semantics: not-applicable
  - name: x2
    raw_type: float
    kind: numeric
    missingness: none
    strategy: keep
    missing_semantics: not-applicable
  - name: y
    raw_type: float
    kind: target
    missingness: none
    strategy: target
    missing_semantics: not-applicable
`

// writeLinearFixtures writes a registry file and an n-row CSV drawn from
// y = 3*x1 + 2*x2 + 10 into a temp dir.
func writeLinearFixtures(t *testing.T, n int) (registryPath, dataPath, dir string) {
	t.Helper()
	dir = t.TempDir()

	registryPath = filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(registryPath, []byte(linearRegistryYAML), 0o644))

	var b strings.Builder
	b.WriteString("id,x1,x2,y\n")
	for i := 0; i < n; i++ {
		x1 := float64(i%17) + 0.5*float64(i%5)
		x2 := float64((i * 7) % 13)
		y := 3*x1 + 2*x2 + 10
		fmt.Fprintf(&b, "%d,%g,%g,%g\n", i+1, x1, x2, y)
	}
	dataPath = filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(b.String()), 0o644))
	return registryPath, dataPath, dir
}

func TestTransformCommand(t *testing.T) {
	registryPath, dataPath, dir := writeLinearFixtures(t, 10)
	outPath := filepath.Join(dir, "matrix.csv")

	out, err := execute(t, "transform", dataPath, "--registry", registryPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Transformed 10 rows into 2 features")

	matrix, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(matrix), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "x1,x2", lines[0])
	assert.Equal(t, "0,0", lines[1])
}

func TestTransformCommandToStdout(t *testing.T) {
	registryPath, dataPath, _ := writeLinearFixtures(t, 5)

	out, err := execute(t, "transform", dataPath, "--registry", registryPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "x1,x2\n"))
}

func TestTransformCommandJSONRequiresOut(t *testing.T) {
	registryPath, dataPath, _ := writeLinearFixtures(t, 5)

	_, err := execute(t, "--format", "json", "transform", dataPath, "--registry", registryPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEvaluateCommandEndToEnd(t *testing.T) {
	registryPath, dataPath, dir := writeLinearFixtures(t, 40)
	dbPath := filepath.Join(dir, "runs.db")

	// Near-zero fold errors make the relative spread jumpy, so the
	// stability gate is loosened; the verdict logic has its own tests.
	out, err := execute(t, "evaluate", dataPath,
		"--registry", registryPath, "--k", "4", "--seed", "42",
		"--tolerance", "1.0", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "stable")
	assert.Contains(t, out, "MAE")

	// The persisted run shows up in the list.
	listOut, err := execute(t, "runs", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, listOut, "k=4")
	assert.Contains(t, listOut, "seed=42")
	assert.NotContains(t, listOut, "No runs recorded")
}

func TestEvaluateCommandUnknownModel(t *testing.T) {
	registryPath, dataPath, _ := writeLinearFixtures(t, 40)

	_, err := execute(t, "evaluate", dataPath, "--registry", registryPath, "--model", "forest")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEvaluateCommandInsufficientRows(t *testing.T) {
	registryPath, dataPath, _ := writeLinearFixtures(t, 5)

	_, err := execute(t, "evaluate", dataPath, "--registry", registryPath, "--k", "10")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunsListEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, err := execute(t, "runs", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestRunsShowUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	_, err := execute(t, "runs", "show", "nope", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
