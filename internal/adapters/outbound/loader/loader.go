// Package loader reads store reports and customer data from a data directory:
//
//	<data>/reports/**/<code>.json
//	<data>/customers/<code>.json
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	reportsDir   = "reports"
	customersDir = "customers"
)

// ErrNoReport is returned when no report file exists for a store code.
var ErrNoReport = errors.New("no report")

// FileReports implements domain.ReportLoader.
type FileReports struct {
	fsys fs.FS
}

func NewFileReports(dataDir string) *FileReports {
	return &FileReports{fsys: os.DirFS(dataDir)}
}

// LoadReport reads reports/<code>.json, or the first reports/**/<code>.json.
func (l *FileReports) LoadReport(ctx context.Context, code string) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkCode(code); err != nil {
		return nil, err
	}

	name := path.Join(reportsDir, code+".json")
	if _, err := fs.Stat(l.fsys, name); err != nil {
		matches, gerr := doublestar.Glob(l.fsys, reportsDir+"/**/"+code+".json")
		if gerr != nil {
			return nil, fmt.Errorf("searching reports for %s: %w", code, gerr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("store %s: %w", code, ErrNoReport)
		}
		sort.Strings(matches)
		name = matches[0]
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if r.StoreCode == "" {
		r.StoreCode = code
	}
	return &r, nil
}

// Discover lists the store codes that have a report, sorted and unique.
func Discover(dataDir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dataDir), reportsDir+"/**/*.json")
	if err != nil {
		return nil, fmt.Errorf("discovering reports: %w", err)
	}
	seen := make(map[string]bool, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		code := strings.TrimSuffix(path.Base(m), ".json")
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// FileCustomers implements domain.CustomerContextLoader. A store without a
// customers file has an empty context.
type FileCustomers struct {
	fsys fs.FS
}

func NewFileCustomers(dataDir string) *FileCustomers {
	return &FileCustomers{fsys: os.DirFS(dataDir)}
}

func (l *FileCustomers) LoadCustomerContext(ctx context.Context, code string) (domain.CustomerContext, error) {
	empty := domain.CustomerContext{StoreCode: code, Segments: []domain.CustomerSegment{}}
	if err := ctx.Err(); err != nil {
		return empty, err
	}
	if err := checkCode(code); err != nil {
		return empty, err
	}

	name := path.Join(customersDir, code+".json")
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("reading %s: %w", name, err)
	}

	var cc domain.CustomerContext
	if err := json.Unmarshal(data, &cc); err != nil {
		return empty, fmt.Errorf("decoding %s: %w", name, err)
	}
	if cc.StoreCode == "" {
		cc.StoreCode = code
	}
	if cc.Segments == nil {
		cc.Segments = []domain.CustomerSegment{}
	}
	return cc, nil
}

// checkCode rejects codes that are not a plain file name or that carry glob syntax.
func checkCode(code string) error {
	if code == "" || code == "." || code == ".." || strings.ContainsAny(code, `/\*?[]{}`) {
		return fmt.Errorf("invalid store code %q", code)
	}
	return nil
}
