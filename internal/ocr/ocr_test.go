package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

// stubRunner answers by binary name. For pdftoppm it writes the requested number of
// page images under the given prefix so the OCR path can glob them.
type stubRunner struct {
	calls     []call
	pdftext   string
	pdfErr    error
	ppmPages  int
	tesseract map[string]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	switch name {
	case "pdftotext":
		if s.pdfErr != nil {
			return nil, []byte("Syntax Error: broken xref"), s.pdfErr
		}
		return []byte(s.pdftext), nil, nil
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.ppmPages; i++ {
			p := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(s.tesseract[filepath.Base(args[0])]), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func (s *stubRunner) count(name string) int {
	n := 0
	for _, c := range s.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func newTestExtractor(cfg Config, r Runner) *Extractor {
	return NewExtractor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).WithRunner(r)
}

func TestExtractUsesTextLayer(t *testing.T) {
	r := &stubRunner{pdftext: "LUNCH\tMENU\r\nRoasted   Red Potatoes A1234\n\n\n\nGreen Beans\f"}
	e := newTestExtractor(Config{EnableFallback: true, MinTextChars: 5}, r)

	res, err := e.Extract(context.Background(), "/menus/2025_L_outsidemenu.PDF")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != "pdf-text" {
		t.Fatalf("method = %s", res.Method)
	}
	want := "LUNCH MENU\nRoasted Red Potatoes A1234\n\nGreen Beans"
	if res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
	if res.Pages != 1 {
		t.Fatalf("pages = %d", res.Pages)
	}
	if r.count("pdftoppm") != 0 {
		t.Fatal("fallback must not run when the text layer is usable")
	}
	args := strings.Join(r.calls[0].args, " ")
	if !strings.Contains(args, "-layout") || !strings.HasSuffix(args, " -") {
		t.Fatalf("unexpected pdftotext args %q", args)
	}
}

func TestExtractFallsBackToOCR(t *testing.T) {
	r := &stubRunner{
		pdftext:  "\f\f",
		ppmPages: 2,
		tesseract: map[string]string{
			"page-1.png": "Chicken Alfredo B20001\n-----\n",
			"page-2.png": "Garlic Bread",
		},
	}
	e := newTestExtractor(Config{EnableFallback: true, MaxPages: 5}, r)

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != "pdf-ocr" || res.Pages != 2 {
		t.Fatalf("method=%s pages=%d", res.Method, res.Pages)
	}
	if !strings.Contains(res.Text, "Chicken Alfredo B20001") || !strings.Contains(res.Text, "Garlic Bread") {
		t.Fatalf("text = %q", res.Text)
	}
	if strings.Contains(res.Text, "-----") {
		t.Fatalf("box noise not removed: %q", res.Text)
	}
	if r.count("tesseract") != 2 {
		t.Fatalf("tesseract calls = %d", r.count("tesseract"))
	}
}

func TestExtractMaxPages(t *testing.T) {
	r := &stubRunner{ppmPages: 3, tesseract: map[string]string{"page-1.png": "Only Page"}}
	e := newTestExtractor(Config{EnableFallback: true, MaxPages: 1}, r)

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Pages != 1 || r.count("tesseract") != 1 {
		t.Fatalf("pages=%d tesseract=%d", res.Pages, r.count("tesseract"))
	}
}

func TestExtractErrorWithoutFallback(t *testing.T) {
	r := &stubRunner{pdfErr: errors.New("exit status 1")}
	e := newTestExtractor(Config{}, r)

	res, err := e.Extract(context.Background(), "broken.pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "broken xref") {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestExtractSparseTextWithoutFallback(t *testing.T) {
	r := &stubRunner{pdftext: "x"}
	e := newTestExtractor(Config{}, r)

	res, err := e.Extract(context.Background(), "thin.pdf")
	if err != nil || res.Text != "x" || res.Method != "pdf-text" {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	e := newTestExtractor(Config{}, &stubRunner{})
	if _, err := e.Extract(context.Background(), "menu.xlsx"); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  a  \r\nb\t\tc  ", "a\nb c"},
		{"one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"page one\fpage two", "page one\n\npage two"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
