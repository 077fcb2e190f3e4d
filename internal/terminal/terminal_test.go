package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDetect(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p := Detect(env(map[string]string{"WT_SESSION": "abc"}), f)
	if !p.TabProgress {
		t.Error("expected tab progress inside Windows Terminal")
	}
	if p.Interactive {
		t.Error("a regular file is not a terminal")
	}

	// An empty value still marks a Windows Terminal session.
	if p := Detect(env(map[string]string{"WT_SESSION": ""}), nil); !p.TabProgress {
		t.Error("expected tab progress for empty WT_SESSION")
	}
	if p := Detect(env(nil), nil); p.TabProgress || p.Interactive {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestIndicator(t *testing.T) {
	var out bytes.Buffer
	ind := NewIndicator(&out, Profile{TabProgress: true})

	ind.Start()
	ind.Start()
	ind.Stop()
	ind.Stop()
	ind.Start()

	want := "\x1b]9;4;3\x1b\\" + "\x1b]9;4;0\x1b\\" + "\x1b]9;4;3\x1b\\"
	if out.String() != want {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestIndicatorDisabled(t *testing.T) {
	var out bytes.Buffer
	ind := NewIndicator(&out, Profile{})

	ind.Start()
	ind.Stop()

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
