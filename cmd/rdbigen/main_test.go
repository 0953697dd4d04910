package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const usersDDL = `CREATE TABLE users (
	id BIGINT NOT NULL AUTO_INCREMENT,
	email VARCHAR(255) NOT NULL,
	nickname VARCHAR(255),
	PRIMARY KEY (id),
	UNIQUE KEY uk_email (email)
);`

func resetFlags() {
	schemaFlag = ""
	outputFlag = ""
	configFlag = ""
	dryRun = false
}

func writeDDL(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte(usersDDL), 0o644))
	return path
}

func TestInspectPrintsColumnsAndKeys(t *testing.T) {
	require := require.New(t)
	resetFlags()
	defer resetFlags()

	schemaFlag = writeDDL(t)
	var buf bytes.Buffer
	inspectCmd.SetOut(&buf)

	require.NoError(runInspect(inspectCmd, nil))

	out := buf.String()
	require.Contains(out, "users")
	require.Contains(out, "id")
	require.Contains(out, "BIGINT")
	require.Contains(out, "AUTO_INCREMENT")
	require.Contains(out, "PRIMARY KEY (id)")
	require.Contains(out, "UNIQUE INDEX uk_email (email)")
}

func TestInspectReturnsErrorForUnreadableFile(t *testing.T) {
	require := require.New(t)
	resetFlags()
	defer resetFlags()

	schemaFlag = filepath.Join(t.TempDir(), "missing.sql")
	require.Error(runInspect(inspectCmd, nil))
}

func writeAppConfig(t *testing.T, schemaPath string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rdbigen.yaml")
	contents := "schema_file: " + schemaPath + "\nmodule_path: example.com/app/generated\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestGenerateDryRunListsFilesWithoutWriting(t *testing.T) {
	require := require.New(t)
	resetFlags()
	defer resetFlags()

	dir := t.TempDir()
	configFlag = writeAppConfig(t, writeDDL(t))
	outputFlag = filepath.Join(dir, "gen")
	dryRun = true

	var buf bytes.Buffer
	generateCmd.SetOut(&buf)

	require.NoError(runGenerate(generateCmd, nil))

	out := buf.String()
	require.Contains(out, "user.go")
	require.Contains(out, "users.go")

	_, err := os.Stat(filepath.Join(dir, "gen", "models"))
	require.True(os.IsNotExist(err))
}

func TestGenerateWritesFilesWhenNotDryRun(t *testing.T) {
	require := require.New(t)
	resetFlags()
	defer resetFlags()

	dir := t.TempDir()
	configFlag = writeAppConfig(t, writeDDL(t))
	outputFlag = filepath.Join(dir, "gen")

	require.NoError(runGenerate(generateCmd, nil))

	require.FileExists(filepath.Join(dir, "gen", "models", "user.go"))
	require.FileExists(filepath.Join(dir, "gen", "dao", "users.go"))
}

func TestGenerateFailsValidationWithoutModulePath(t *testing.T) {
	require := require.New(t)
	resetFlags()
	defer resetFlags()

	schemaFlag = writeDDL(t)
	err := runGenerate(generateCmd, nil)
	require.Error(err)
}
