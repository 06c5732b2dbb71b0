// Package heuristics decides which directory branches are worth descending
// into and which filenames look like Java launcher binaries.
//
// Scanning whole volumes exhaustively is prohibitively slow, so the walker
// prunes any subdirectory whose name does not suggest a Java installation.
// The keyword sets are a pruning filter, not a correctness guarantee: a
// pruned branch simply yields no candidates.
package heuristics

import (
	"os/user"
	"runtime"
	"strings"
)

// Keywords holds the substring sets driving directory pruning.
// Both sets are matched case-insensitively against lowercased names.
// A Keywords value is immutable configuration; build one with Default or
// construct it directly in tests.
type Keywords struct {
	// Include lists substrings whose presence marks a directory as worth
	// descending into.
	Include []string

	// Exclude lists substrings that veto a match regardless of Include.
	Exclude []string
}

// defaultInclude covers install-root names, vendor names, and the path
// segments that lead to conventional install locations on each platform.
var defaultInclude = []string{
	"java", "jdk", "jre", "jvm", "sdk", "runtime",
	"oracle", "zulu", "corretto", "amazon", "adopt", "temurin",
	"eclipse", "microsoft", "semeru", "liberica", "graalvm", "sapmachine",
	"hotspot", "openj9", "bellsoft",
	"program files", "common files", "scoop", "chocolatey",
	"homebrew", "library", "opt", "usr", "lib", "local", "home", "users",
	"sdkman", "asdf", "mise",
}

// defaultExclude vetoes template-variable markers left behind by broken
// installers, and the Office tree, which is large and matches "microsoft".
var defaultExclude = []string{
	"%", "$", "{",
	"office",
}

// Default returns the stock keyword sets. The current user's login name is
// appended to the inclusion set so that home directories survive pruning
// when walking from a volume root.
func Default() Keywords {
	kw := Keywords{
		Include: append([]string(nil), defaultInclude...),
		Exclude: append([]string(nil), defaultExclude...),
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// Windows reports DOMAIN\user; only the account name appears in paths.
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		kw.Include = append(kw.Include, strings.ToLower(name))
	}
	return kw
}

// Extend returns a copy of kw with additional include and exclude
// substrings appended (both lowercased).
func (k Keywords) Extend(include, exclude []string) Keywords {
	out := Keywords{
		Include: append([]string(nil), k.Include...),
		Exclude: append([]string(nil), k.Exclude...),
	}
	for _, s := range include {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out.Include = append(out.Include, s)
		}
	}
	for _, s := range exclude {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out.Exclude = append(out.Exclude, s)
		}
	}
	return out
}

// Matcher applies the keyword sets and the launcher-name check.
type Matcher struct {
	keywords Keywords

	// windows selects the java.exe launcher name. It is a field rather
	// than a runtime.GOOS check so tests can pin both behaviors.
	windows bool
}

// NewMatcher creates a Matcher for the current platform.
func NewMatcher(kw Keywords) *Matcher {
	return &Matcher{keywords: kw, windows: runtime.GOOS == "windows"}
}

// newMatcherFor creates a Matcher with an explicit platform; used by tests.
func newMatcherFor(kw Keywords, windows bool) *Matcher {
	return &Matcher{keywords: kw, windows: windows}
}

// IsCandidateBinary reports whether name is the Java launcher binary.
//
// The match is against the exact base name: "java.exe" (case-insensitive,
// Windows filesystems are case-preserving but insensitive) or "java"
// (case-sensitive) elsewhere. Names that merely end in the launcher name,
// such as "somejava.exe", do not match; spawning arbitrary near-miss
// binaries is not worth the broader net.
func (m *Matcher) IsCandidateBinary(name string) bool {
	if m.windows {
		return strings.EqualFold(name, "java.exe")
	}
	return name == "java"
}

// IsHeuristicDir reports whether a directory name is worth descending into.
// The name is lowercased first; an exclusion substring vetoes the match
// regardless of any inclusion substrings present.
func (m *Matcher) IsHeuristicDir(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range m.keywords.Exclude {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range m.keywords.Include {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
