package probe

import (
	"regexp"
	"strings"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

// versionPattern matches a dotted/underscore version with an optional
// pre-release suffix: MAJOR(.MINOR)?(.PATCH)?([._]UPDATE)?(-PRERELEASE)?.
// Both modern ("17.0.2", "21-ea") and legacy ("1.8.0_322") banners match.
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)?(?:\.\d+)?(?:[._]\d+)?(?:-[0-9A-Za-z]+)?`)

// sixtyFourBitMarker is the banner substring identifying a 64-bit VM,
// e.g. "OpenJDK 64-Bit Server VM".
const sixtyFourBitMarker = "64-Bit"

// ExtractVersion returns the first version-shaped token in the captured
// banner text, or "" when none is found. No match means the binary is not a
// Java runtime (or produced unparseable output) and the candidate is
// discarded.
func ExtractVersion(text string) string {
	return versionPattern.FindString(text)
}

// DetectArch classifies the runtime architecture from the banner text.
// This is a substring heuristic, not a structured parse; banners that omit
// the 64-Bit marker are classified x86 even on 64-bit VMs that phrase
// their banner differently.
func DetectArch(text string) string {
	if strings.Contains(text, sixtyFourBitMarker) {
		return types.ArchX64
	}
	return types.ArchX86
}
