package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_BACKENDS", "file")
	t.Setenv("STORAGE_FORMAT", "json")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	store, err := storage.NewFileStore(dir, storage.JSONCodec{})
	require.NoError(t, err)

	l := models.NewLeague("Spring Cup")
	lions := models.NewTeam("lions", "Lions")
	lions.AddPlayer(models.NewPlayer("ann", "Ann"))
	l.AddTeam(lions)
	l.AddTeam(models.NewTeam("tigers", "Tigers"))
	m, err := l.CreateMatch("lions", "tigers")
	require.NoError(t, err)
	require.NoError(t, m.SetScore(3, 0))
	require.NoError(t, m.AddPlayerResult("ann", models.Win))
	require.NoError(t, store.Save(context.Background(), l))
	return dir
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(strings.NewReader(input), &out).Run(append([]string{"leaguectl"}, args...))
	return out.String(), err
}

func TestListAndReports(t *testing.T) {
	seedDataDir(t)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "Spring_Cup\n", out)

	out, err = run(t, "", "standings", "--league", "Spring Cup")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring Cup, round 1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Lions")
	assert.Contains(t, lines[2], "+3")

	out, err = run(t, "", "rankings", "-l", "Spring_Cup")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "1.000")

	_, err = run(t, "", "standings", "--league", "Missing")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	seedDataDir(t)
	target := filepath.Join(t.TempDir(), "spring.yaml")

	_, err := run(t, "", "export", "--league", "Spring Cup", "--format", "yaml", "-o", target)
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	l, err := storage.DecodeLeague(storage.YAMLCodec{}, f)
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", l.Name)
	lions, ok := l.Team("lions")
	require.True(t, ok)
	assert.Equal(t, 1, lions.Wins)

	out, err := run(t, "", "export", "--league", "Spring Cup", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Spring Cup"`)

	_, err = run(t, "", "export", "--league", "Spring Cup", "--format", "xml")
	assert.Error(t, err)
}

func TestMenuCreatesAndSavesLeague(t *testing.T) {
	dir := seedDataDir(t)

	out, err := run(t, "1\n2\nOwls\n0\n0\ny\n", "menu", "--league", "Autumn Cup")
	require.NoError(t, err)
	assert.Contains(t, out, "Autumn Cup league manager")
	assert.Contains(t, out, `League "Autumn Cup" saved.`)

	_, err = os.Stat(filepath.Join(dir, "Autumn_Cup.json"))
	assert.NoError(t, err)
}
