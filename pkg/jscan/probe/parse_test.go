package probe

import (
	"testing"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/stretchr/testify/assert"
)

// TestExtractVersion covers the banner shapes seen across vendors and
// eras: modern dotted versions, legacy 1.x update versions, early-access
// pre-release suffixes, and non-Java output.
func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "modern openjdk banner",
			text: "openjdk version \"17.0.2\" 2022-01-18\nOpenJDK Runtime Environment (build 17.0.2+8-86)",
			want: "17.0.2",
		},
		{
			name: "oracle banner",
			text: "java version \"21.0.1\" 2023-10-17 LTS",
			want: "21.0.1",
		},
		{
			name: "legacy update version",
			text: "java version \"1.8.0_322\"\nJava(TM) SE Runtime Environment (build 1.8.0_322-b06)",
			want: "1.8.0_322",
		},
		{
			name: "early access suffix",
			text: "openjdk version \"21-ea\" 2023-09-19",
			want: "21-ea",
		},
		{
			name: "bare major",
			text: "openjdk version \"25\" 2025-09-16",
			want: "25",
		},
		{
			name: "no version anywhere",
			text: "command not understood",
			want: "",
		},
		{
			name: "empty output",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVersion(tt.text))
		})
	}
}

// TestDetectArch pins the 64-Bit substring heuristic, including its
// case-sensitivity.
func TestDetectArch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "64-bit server vm",
			text: "OpenJDK 64-Bit Server VM (build 17.0.2+8-86, mixed mode, sharing)",
			want: types.ArchX64,
		},
		{
			name: "no marker",
			text: "Java HotSpot(TM) Client VM (build 25.322-b06, mixed mode)",
			want: types.ArchX86,
		},
		{
			name: "lowercase marker does not count",
			text: "some vm 64-bit",
			want: types.ArchX86,
		},
		{
			name: "empty",
			text: "",
			want: types.ArchX86,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectArch(tt.text))
		})
	}
}

// TestOutputText verifies stderr is ordered before stdout, matching where
// the banner conventionally lands.
func TestOutputText(t *testing.T) {
	o := Output{Stdout: "out", Stderr: "err"}
	assert.Equal(t, "err\nout", o.Text())

	assert.Equal(t, "err", Output{Stderr: "err"}.Text())
	assert.Equal(t, "out", Output{Stdout: "out"}.Text())
	assert.Equal(t, "", Output{}.Text())
}
