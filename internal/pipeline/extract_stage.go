package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/ingest"
)

// TextExtractor turns a document into plain text. *ocr.Extractor satisfies it.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type ExtractStage struct {
	Extractor TextExtractor
	Logger    *slog.Logger
}

func NewExtractStage(x TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Extractor: x, Logger: logger}
}

// Run concatenates the text of docs, one document per block. A document that cannot be
// read fails the run.
func (s *ExtractStage) Run(ctx context.Context, docs []ingest.Document) (string, error) {
	var parts []string
	for _, d := range docs {
		txt, err := s.Extractor.ExtractText(ctx, d.Path)
		if err != nil {
			s.Logger.Error("pipeline.extract.failed", "path", d.Path, "kind", d.Kind, "error", err)
			return "", common.InputError(d.Path, err)
		}
		s.Logger.Debug("pipeline.extract.ok", "path", d.Path, "kind", d.Kind, "chars", len(txt))
		parts = append(parts, txt)
	}
	return strings.Join(parts, "\n"), nil
}
