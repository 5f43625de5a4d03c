package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/logger"
	"pushmetrics/internal/normalizer"
	"pushmetrics/internal/table"
)

// ErrDuplicateKind is returned when two files in one directory map to the
// same dataset kind.
var ErrDuplicateKind = errors.New("more than one file for dataset kind")

// Bundle holds the normalized tables of one export directory.
type Bundle struct {
	Tables  map[dataset.Kind]*table.Table
	Files   map[dataset.Kind]string
	Missing []dataset.Kind
}

// Table returns the normalized table for kind, or nil.
func (b *Bundle) Table(kind dataset.Kind) *table.Table {
	return b.Tables[kind]
}

// Kinds returns the loaded kinds in registry order.
func (b *Bundle) Kinds(reg *dataset.Registry) []dataset.Kind {
	var out []dataset.Kind

	for _, k := range reg.Kinds() {
		if _, ok := b.Tables[k]; ok {
			out = append(out, k)
		}
	}

	return out
}

// Loader reads export files and normalizes them.
type Loader struct {
	processor *normalizer.Processor
	log       *logger.Logger
}

// New creates a loader. A nil logger discards output.
func New(processor *normalizer.Processor, log *logger.Logger) *Loader {
	if processor == nil {
		processor = normalizer.NewProcessor(nil)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Loader{processor: processor, log: log}
}

// LoadFile reads path as kind and returns its normalized table.
func (l *Loader) LoadFile(path string, kind dataset.Kind) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	norm, err := l.processor.Normalize(raw, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	l.log.Debug("normalized file",
		"file", filepath.Base(path),
		"kind", kind,
		"rows", norm.Len(),
		"missing_cells", countMissing(norm),
	)

	return norm, nil
}

// LoadDir normalizes every recognised export in dir. Files whose names match
// no dataset kind are skipped. Per-file failures are joined into the returned
// error while the bundle still carries every file that loaded, and Missing
// lists the required kinds with no usable file. Files are normalized
// concurrently, at most GOMAXPROCS at a time.
func (l *Loader) LoadDir(dir string, required []dataset.Kind) (*Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	reg := l.processor.Registry()
	bundle := &Bundle{
		Tables: make(map[dataset.Kind]*table.Table),
		Files:  make(map[dataset.Kind]string),
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	type job struct {
		name string
		kind dataset.Kind
		norm *table.Table
		err  error
	}

	var (
		errs []error
		jobs []*job
	)

	for _, name := range names {
		kind, ok := reg.DetectKind(name)
		if !ok {
			l.log.Warn("skipping unrecognised file", "file", name)
			continue
		}

		if prev, dup := bundle.Files[kind]; dup {
			errs = append(errs, fmt.Errorf("%w %s: %s and %s", ErrDuplicateKind, kind, prev, name))
			continue
		}

		bundle.Files[kind] = name
		jobs = append(jobs, &job{name: name, kind: kind})
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, j := range jobs {
		g.Go(func() error {
			j.norm, j.err = l.LoadFile(filepath.Join(dir, j.name), j.kind)
			return nil
		})
	}

	_ = g.Wait()

	for _, j := range jobs {
		if j.err != nil {
			l.log.Error("failed to load file", "file", j.name, "kind", j.kind, "error", j.err)
			errs = append(errs, j.err)
			delete(bundle.Files, j.kind)

			continue
		}

		bundle.Tables[j.kind] = j.norm
	}

	for _, k := range required {
		if _, ok := bundle.Tables[k]; !ok {
			bundle.Missing = append(bundle.Missing, k)
		}
	}

	if len(bundle.Missing) > 0 {
		l.log.Warn("required datasets not loaded", "kinds", bundle.Missing)
	}

	l.log.Info("loaded export directory", "dir", dir, "datasets", len(bundle.Tables), "errors", len(errs))

	return bundle, errors.Join(errs...)
}

func countMissing(t *table.Table) int {
	n := 0

	for _, row := range t.Rows {
		for _, v := range row {
			if v.IsMissing() {
				n++
			}
		}
	}

	return n
}
