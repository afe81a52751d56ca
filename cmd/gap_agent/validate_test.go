package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_AnalyzeOutput(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", sampleJob)
	resume := writeFile(t, dir, "resume.txt", sampleResume)
	outPath := filepath.Join(dir, "result.json")

	_, err := execute(t, "analyze", "--job", job, "--resume", resume, "--out", outPath, "--cache", "none")
	require.NoError(t, err)

	output, err := execute(t, "validate", "--file", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "is valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"id": "x", "gaps": []}`)

	output, err := execute(t, "validate", "--schema", "analysis_result", "--file", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match analysis_result.schema.json")
	assert.Contains(t, output, "validation against analysis_result.schema.json failed")
}

func TestValidateCommand_PairsFileAndCustomSchema(t *testing.T) {
	dir := t.TempDir()
	pairs := writeFile(t, dir, "pairs.yaml", "pairs:\n  - name: acme\n    job: job.txt\n    resume: resume.txt\n")

	output, err := execute(t, "validate", "--schema", "batch_pairs", "--file", pairs)
	require.NoError(t, err)
	assert.Contains(t, output, "is valid")

	schema := writeFile(t, dir, "name.schema.json",
		`{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`)
	doc := writeFile(t, dir, "doc.json", `{"name": 7}`)
	_, err = execute(t, "validate", "--schema", schema, "--file", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match name.schema.json")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", "--file", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}
