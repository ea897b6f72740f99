package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "spendtrack-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "spendtrack")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/spendtrack")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSpendtrack(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "Test Owner", "--no-git")
	require.NoError(t, err)

	expectedDirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"ledger",
		"rules",
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "--no-git should skip git init")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "Mario Rossi", "--no-git")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", cfg.Owner)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.True(t, cfg.Git.AutoCommit)
}

func TestInit_Rules(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "Test Owner", "--no-git")
	require.NoError(t, err)

	f, err := categorize.LoadFile(filepath.Join(dir, categorize.RulesPath))
	require.NoError(t, err)
	assert.True(t, f.UseDefaults)
	assert.Empty(t, f.Rules)
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "Test Owner")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Initialize Test Owner")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Spendtrack <import@spendtrack.local>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "Test Owner", "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "import/*")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendtrack(t, "init", dir, "--name", "A", "--no-git")
	require.NoError(t, err)

	out, err := runSpendtrack(t, "init", dir, "--name", "B", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestVersion(t *testing.T) {
	out, err := runSpendtrack(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
