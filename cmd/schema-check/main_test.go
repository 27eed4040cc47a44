package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runValidate(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	attrsPath = ""
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"validate"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateYAMLSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "person.yaml", `
title: person
properties:
  name:
    type: string
required:
  - name
`)
	stdout, _, err := runValidate(t, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok (1 properties)")
}

func TestValidateRejectsBadDeclaration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", `{"properties": {"a": {"type": "mystery"}}}`)
	_, stderr, err := runValidate(t, path)
	assert.Error(t, err)
	assert.Contains(t, stderr, "unsupported type")
}

func TestValidateAttributesDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.json",
		`{"properties": {"name": {"type": "string"}, "age": {"type": "number"}}}`)

	good := writeFile(t, dir, "good.json", `{"name": "Ann", "age": 30}`)
	stdout, _, err := runValidate(t, schemaPath, "--attrs", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok")

	bad := writeFile(t, dir, "bad.json", `{"name": 7}`)
	_, stderr, err := runValidate(t, schemaPath, "--attrs", bad)
	assert.Error(t, err)
	assert.Contains(t, stderr, "attributes invalid")
}

func TestValidateMissingFile(t *testing.T) {
	_, stderr, err := runValidate(t, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.NotEmpty(t, stderr)
}
