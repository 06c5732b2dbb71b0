package updater

import "testing"

func TestNew(t *testing.T) {
	u, err := New("v1.2.3")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if u.currentVersion != "1.2.3" {
		t.Errorf("currentVersion = %q, want %q", u.currentVersion, "1.2.3")
	}
}

func TestCleanVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.0.0", "1.0.0"},
		{"1.0.0", "1.0.0"},
		{"dev", "dev"},
	}

	for _, tt := range tests {
		if got := cleanVersion(tt.in); got != tt.want {
			t.Errorf("cleanVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
