package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
	PSM           int // 6 suits a uniform block of text; 0 keeps the tesseract default

	// EnableFallback rasterizes and OCRs the PDF when the text layer has fewer than
	// MinTextChars non-space characters.
	EnableFallback bool
	MinTextChars   int // default 20
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 20
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract returns the normalized text of a PDF. Non-PDF paths are rejected.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.PDF {
		e.logger.Error("ocr.unsupported_extension", "path", path, "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	e.logger.Debug("ocr.extract.start", "path", path)
	res, err := e.extractPDF(ctx, path)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.failed", "path", path, "error", err, "elapsed_ms", res.Duration.Milliseconds())
		return res, err
	}
	e.logger.Info("ocr.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	txt, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && (!e.cfg.EnableFallback || meaningfulChars(txt) >= e.cfg.MinTextChars) {
		return ExtractionResult{Text: Normalize(txt), Pages: pages, Method: "pdf-text", Warnings: warns}, nil
	}
	if err != nil {
		if !e.cfg.EnableFallback {
			return ExtractionResult{Warnings: warns}, fmt.Errorf("pdftotext: %w", err)
		}
		warns = append(warns, "pdftotext failed: "+err.Error())
	} else {
		e.logger.Info("ocr.text_layer_sparse", "path", path, "chars", meaningfulChars(txt))
	}

	otxt, opages, owarns, oerr := e.pdfToOCR(ctx, path)
	warns = append(warns, owarns...)
	if oerr != nil {
		return ExtractionResult{Warnings: warns}, fmt.Errorf("pdf ocr: %w", oerr)
	}
	return ExtractionResult{Text: Normalize(otxt), Pages: opages, Method: "pdf-ocr", Warnings: warns}, nil
}

func meaningfulChars(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && r != '\f' && r != '\r' {
			n++
		}
	}
	return n
}

// ExtractText is a convenience wrapper returning only the text.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	res, err := e.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}
