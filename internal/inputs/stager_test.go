package inputs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfncontract/harness/internal/exports"
)

func literalSource() *exports.Source {
	return &exports.Source{Endpoint: "http://127.0.0.1:3001"}
}

func writeTriple(t *testing.T, dir string, seq int, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, phase := range []string{"create", "update", "invalid"} {
		name := "inputs_" + strconv.Itoa(seq) + "_" + phase + ".json"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestStageNoRoot(t *testing.T) {
	set, err := Stage(context.Background(), "", 0, literalSource())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageMissingDirectory(t *testing.T) {
	set, err := Stage(context.Background(), t.TempDir(), 0, literalSource())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageCompleteTriple(t *testing.T) {
	root := t.TempDir()
	writeTriple(t, filepath.Join(root, DirName), 1, `{"a": 1}`)

	set, err := Stage(context.Background(), root, 0, literalSource())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, Set{
		PhaseCreate:  map[string]any{"a": float64(1)},
		PhaseUpdate:  map[string]any{"a": float64(1)},
		PhaseInvalid: map[string]any{"a": float64(1)},
	}, set)
}

func TestStageIncompleteTripleVoidsSet(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs_1_create.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs_1_update.json"), []byte(`{}`), 0o644))

	set, err := Stage(context.Background(), root, 0, literalSource())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageHighestCompleteTripleWins(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	writeTriple(t, dir, 1, `{"seq": 1}`)
	writeTriple(t, dir, 3, `{"seq": 3}`)
	// Sequence 7 is incomplete and must not win despite being highest.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs_7_create.json"), []byte(`{}`), 0o644))

	set, err := Stage(context.Background(), root, 0, literalSource())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, map[string]any{"seq": float64(3)}, set[PhaseCreate])
}

func TestStageRequestedSequence(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	writeTriple(t, dir, 1, `{"seq": 1}`)
	writeTriple(t, dir, 3, `{"seq": 3}`)

	set, err := Stage(context.Background(), root, 1, literalSource())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, map[string]any{"seq": float64(1)}, set[PhaseCreate])
}

func TestStageRequestedSequenceMissing(t *testing.T) {
	root := t.TempDir()
	writeTriple(t, filepath.Join(root, DirName), 1, `{}`)

	set, err := Stage(context.Background(), root, 2, literalSource())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageInvalidJSONVoidsSet(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	writeTriple(t, dir, 1, `{}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs_1_update.json"), []byte(`{`), 0o644))

	set, err := Stage(context.Background(), root, 0, literalSource())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageWithExports(t *testing.T) {
	root := t.TempDir()
	writeTriple(t, filepath.Join(root, DirName), 1, `{"Name": "{{NameExport}}"}`)

	src := &exports.Source{Catalog: exports.Catalog{"NameExport": "exported"}}
	set, err := Stage(context.Background(), root, 0, src)
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, map[string]any{"Name": "exported"}, set[PhaseCreate])
}

func TestStageUnresolvedReferenceVoidsSet(t *testing.T) {
	root := t.TempDir()
	writeTriple(t, filepath.Join(root, DirName), 1, `{"Name": "{{MissingExport}}"}`)

	src := &exports.Source{Catalog: exports.Catalog{"Other": "x"}}
	set, err := Stage(context.Background(), root, 0, src)
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestStageFetchFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	writeTriple(t, filepath.Join(root, DirName), 1, `{}`)

	src := &exports.Source{Fetch: func(ctx context.Context, region, profile, roleARN string) (exports.Catalog, error) {
		return nil, errors.New("no credentials")
	}}
	set, err := Stage(context.Background(), root, 0, src)
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "no credentials")
}

func TestStageIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	writeTriple(t, dir, 2, `{"seq": 2}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs_0_create.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(`docs`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "inputs_9_create.json"), 0o755))

	set, err := Stage(context.Background(), root, 0, literalSource())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, map[string]any{"seq": float64(2)}, set[PhaseCreate])
}
