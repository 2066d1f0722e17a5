package profile

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vortex/ooxml-audit/internal/bridge"
	"github.com/vortex/ooxml-audit/internal/opc"
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/verrors"
)

// fixture is the shape of a testdata/*.yaml file: a small OOXML package
// described inline, plus the outcome a full Driver.Run over it should
// produce.
type fixture struct {
	ExpectKind  string            `yaml:"expect_kind"`
	ExpectValid bool              `yaml:"expect_valid"`
	ErrorSubstr string            `yaml:"error_substring"`
	Files       map[string]string `yaml:"files"`
}

func loadFixtures(t *testing.T) map[string]fixture {
	t.Helper()
	entries, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}
	out := make(map[string]fixture)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join("testdata", e.Name()))
		if err != nil {
			t.Fatalf("reading %s: %v", e.Name(), err)
		}
		var f fixture
		if err := yaml.Unmarshal(raw, &f); err != nil {
			t.Fatalf("parsing %s: %v", e.Name(), err)
		}
		out[e.Name()] = f
	}
	return out
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip.Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Close: %v", err)
	}
	return buf.Bytes()
}

func TestDriver_RunsFixtures(t *testing.T) {
	fixtures := loadFixtures(t)
	if len(fixtures) == 0 {
		t.Fatal("no fixtures found under testdata/")
	}

	for name, f := range fixtures {
		f := f
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data := buildZip(t, f.Files)
			ctx := verrors.NewContext(true, 0, verrors.Office2019)
			reader, ok := opc.Open(bytes.NewReader(data), int64(len(data)), ctx)
			if !ok {
				t.Fatalf("opc.Open failed: %v", ctx.Errors())
			}
			defer reader.Close()

			br := bridge.New(schema.NewBuilder(nil).Build(), nil)
			d := New(reader, br)
			d.Run(ctx)

			if got := d.Kind().String(); got != f.ExpectKind {
				t.Errorf("kind = %q, want %q", got, f.ExpectKind)
			}
			if got := ctx.IsValid(); got != f.ExpectValid {
				t.Errorf("valid = %v, want %v (errors: %v)", got, f.ExpectValid, ctx.Errors())
			}
			if f.ErrorSubstr != "" {
				found := false
				for _, e := range ctx.Errors() {
					if strings.Contains(e.Description, f.ErrorSubstr) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected an error containing %q, got %v", f.ErrorSubstr, ctx.Errors())
				}
			}
		})
	}
}
