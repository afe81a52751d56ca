// Package schemas embeds the JSON Schemas for the documents gap_agent reads
// and writes.
package schemas

import "embed"

// Schema file names.
const (
	AnalysisResult = "analysis_result.schema.json"
	BatchPairs     = "batch_pairs.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the named schema.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
