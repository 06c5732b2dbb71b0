package output

import (
	"bytes"
	"encoding/json"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

// jsonOutput represents the full JSON output structure.
//
// Runtime entries marshal with their contract field names (Path, Version,
// Architecture); stats and errors use snake_case like the rest of the CLI
// surface.
type jsonOutput struct {
	Runtimes []types.JavaInfo  `json:"runtimes"`
	Stats    jsonStats         `json:"stats"`
	Errors   []types.ScanError `json:"errors,omitempty"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	RootsScanned     int64  `json:"roots_scanned"`
	DirsScanned      int64  `json:"dirs_scanned"`
	CandidatesFound  int64  `json:"candidates_found"`
	CandidatesProbed int64  `json:"candidates_probed"`
	CacheHits        int64  `json:"cache_hits"`
	Elapsed          string `json:"elapsed"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with runtimes, stats, and errors.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	runtimes := r.Runtimes
	if runtimes == nil {
		runtimes = []types.JavaInfo{}
	}

	doc := jsonOutput{
		Runtimes: runtimes,
		Stats: jsonStats{
			RootsScanned:     r.Stats.RootsScanned,
			DirsScanned:      r.Stats.DirsScanned,
			CandidatesFound:  r.Stats.CandidatesFound,
			CandidatesProbed: r.Stats.CandidatesProbed,
			CacheHits:        r.Stats.CacheHits,
			Elapsed:          r.Stats.Elapsed.String(),
		},
		Errors: r.Errors,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one runtime per
// line). Each runtime is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	for _, rt := range r.Runtimes {
		data, err := json.Marshal(rt)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
