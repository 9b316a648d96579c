package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// Options selects which files a run produces.
type Options struct {
	Dir       string // output directory, created if missing
	XLSX      bool   // also write menu_<date>.xlsx
	MasterCSV string // append rows to this running CSV when set
}

// Paths lists the files written by a run.
type Paths struct {
	CSV       string
	JSON      string
	XLSX      string
	MasterCSV string
}

// Service writes a run's rows to the per-date files and the running master CSV.
type Service struct {
	opts   Options
	logger *slog.Logger
}

func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Service{opts: opts, logger: logger}
}

// Write produces menu_<date>.csv and menu_<date>.json (plus the optional outputs).
func (s *Service) Write(date string, rows []entity.MenuRow) (Paths, error) {
	start := time.Now()
	var p Paths

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return p, outputError(s.opts.Dir, err)
	}
	base := filepath.Join(s.opts.Dir, "menu_"+date)

	p.CSV = base + ".csv"
	if err := WriteCSVFile(p.CSV, rows); err != nil {
		return p, outputError(p.CSV, err)
	}
	p.JSON = base + ".json"
	if err := WriteJSONFile(p.JSON, rows); err != nil {
		return p, outputError(p.JSON, err)
	}
	if s.opts.XLSX {
		b, err := RowsXLSX(rows)
		if err != nil {
			return p, outputError(base+".xlsx", err)
		}
		p.XLSX = base + ".xlsx"
		if err := os.WriteFile(p.XLSX, b, 0o644); err != nil {
			return p, outputError(p.XLSX, err)
		}
	}
	if s.opts.MasterCSV != "" {
		if err := AppendMasterCSV(s.opts.MasterCSV, rows); err != nil {
			return p, outputError(s.opts.MasterCSV, err)
		}
		p.MasterCSV = s.opts.MasterCSV
	}

	s.logger.Info("export.write.ok",
		"date", date,
		"rows", len(rows),
		"csv", p.CSV,
		"json", p.JSON,
		"xlsx", p.XLSX,
		"master_csv", p.MasterCSV,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return p, nil
}

func outputError(path string, err error) error {
	return common.NewAppError(common.CodeOutput, fmt.Sprintf("write %q", path), err)
}
