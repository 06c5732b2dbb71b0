package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleResult returns a result with two runtimes and realistic stats.
func sampleResult() *types.ScanResult {
	return &types.ScanResult{
		Runtimes: []types.JavaInfo{
			{Path: "/usr/lib/jvm/jdk-17/bin/java", Version: "17.0.2", Architecture: types.ArchX64},
			{Path: "/opt/java/jre8/bin/java", Version: "1.8.0_322", Architecture: types.ArchX86},
		},
		Stats: types.ScanStats{
			RootsScanned:     3,
			DirsScanned:      1200,
			CandidatesFound:  4,
			CandidatesProbed: 2,
			CacheHits:        2,
			BytesProbed:      150000,
			Elapsed:          3 * time.Second,
		},
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatter")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("plain", func() Formatter { return &PlainFormatter{} })

	f, err := r.Get("plain")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
}

func TestDefaultRegistryHasAllFormats(t *testing.T) {
	names := Available()
	for _, want := range []string{"csv", "json", "jsonl", "markdown", "plain", "pretty", "table", "tsv"} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}

func TestJSONFormatterContractFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleResult()))

	// Runtime entries serialize with their exported Go field names.
	assert.Contains(t, buf.String(), `"Path": "/usr/lib/jvm/jdk-17/bin/java"`)
	assert.Contains(t, buf.String(), `"Version": "17.0.2"`)
	assert.Contains(t, buf.String(), `"Architecture": "x64"`)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "runtimes")
	assert.Contains(t, doc, "stats")
}

func TestJSONFormatterEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, &types.ScanResult{}))

	// An empty set must serialize as [], not null.
	assert.Contains(t, buf.String(), `"runtimes": []`)
}

func TestJSONLFormatterOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rt types.JavaInfo
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rt))
	assert.Equal(t, "1.8.0_322", rt.Version)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "VERSION")
	assert.Contains(t, lines[0], "PATH")
	assert.Contains(t, lines[1], "17.0.2")
	assert.Contains(t, lines[1], "x64")
	assert.Contains(t, lines[2], "/opt/java/jre8/bin/java")
}

func TestTSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "VERSION\tARCH\tPATH", lines[0])
	assert.Equal(t, "17.0.2\tx64\t/usr/lib/jvm/jdk-17/bin/java", lines[1])
}

func TestCSVFormatterQuotesCommas(t *testing.T) {
	result := &types.ScanResult{
		Runtimes: []types.JavaInfo{
			{Path: `/data/java, backup/bin/java`, Version: "21", Architecture: types.ArchX64},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{}).Format(&buf, result))

	assert.Contains(t, buf.String(), `"/data/java, backup/bin/java"`)
}

func TestMarkdownFormatterEscapesPipes(t *testing.T) {
	result := &types.ScanResult{
		Runtimes: []types.JavaInfo{
			{Path: `/weird|dir/java`, Version: "17.0.2", Architecture: types.ArchX86},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, result))

	assert.Contains(t, buf.String(), `/weird\|dir/java`)
	assert.True(t, strings.HasPrefix(buf.String(), "| VERSION |"))
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "17.0.2")
	assert.Contains(t, out, "/opt/java/jre8/bin/java")
	assert.Contains(t, out, "Runtimes:")
}

func TestPrettyFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, &types.ScanResult{}))
	assert.Contains(t, buf.String(), "No Java runtimes found")
}

func TestPrettyFormatterShowsErrors(t *testing.T) {
	result := sampleResult()
	result.Errors = []types.ScanError{{Path: "/mnt/broken", Error: "input/output error"}}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, result))

	assert.Contains(t, buf.String(), "Warnings:")
	assert.Contains(t, buf.String(), "/mnt/broken")
}

func TestRender(t *testing.T) {
	out, err := Render("tsv", sampleResult())
	require.NoError(t, err)
	assert.Contains(t, out, "17.0.2\tx64")

	_, err = Render("bogus", sampleResult())
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{3 * time.Second, "3.0s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
