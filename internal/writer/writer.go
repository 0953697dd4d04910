// Package writer takes the already-planned, already-rendered *jen.File
// set for a schema and puts it on disk: one record file and one DAO file
// per table, the two shared files every DAO method depends on, and a
// per-directory aggregator file, all written atomically and formatted
// the way the teacher's own compiler/gen/writer.go formats its output.
package writer

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/a4501150/rdbigen/internal/codegen"
	"github.com/a4501150/rdbigen/internal/config"
	"github.com/a4501150/rdbigen/internal/naming"
	"github.com/a4501150/rdbigen/internal/planner"
	"github.com/a4501150/rdbigen/internal/rdbierr"
	"github.com/a4501150/rdbigen/internal/schema"

	"github.com/dave/jennifer/jen"
)

// Write generates and atomically writes every file cfg's settings call
// for: unless GenerateStructs is false, one record file (struct plus
// ENUM types) per table under OutputStructsDir; unless GenerateDAO is
// false, one DAO file per table plus the shared runtime.go/pagination.go
// under OutputDAODir; and one models.go/dao.go aggregator for each of
// those directories that is generated.
//
// Per-table generation and formatting fan out over an errgroup exactly
// like the teacher's GenerateAll; the two aggregator files are written
// last, from the sorted table list rather than completion order, so
// their symbol listing is deterministic across runs.
func Write(ctx context.Context, sch *schema.Schema, cfg *config.Config) error {
	tables := filterTables(sch.Tables, cfg.IncludeTables, cfg.ExcludeTables)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	tw := &treeWriter{cfg: cfg}

	if cfg.GenerateStructs {
		if err := os.MkdirAll(cfg.OutputStructsDir, 0o755); err != nil {
			return rdbierr.IO(cfg.OutputStructsDir, "create output directory", err)
		}
	}
	if cfg.GenerateDAO {
		if err := os.MkdirAll(cfg.OutputDAODir, 0o755); err != nil {
			return rdbierr.IO(cfg.OutputDAODir, "create output directory", err)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for _, t := range tables {
		t := t
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			return tw.writeTable(egCtx, t)
		})
	}

	if cfg.GenerateDAO {
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			if err := tw.writeFile(egCtx, filepath.Join(cfg.OutputDAODir, "runtime.go"), codegen.GenerateRuntime(cfg.DAOPackage)); err != nil {
				return err
			}
			return tw.writeFile(egCtx, filepath.Join(cfg.OutputDAODir, "pagination.go"), codegen.GeneratePagination(cfg.DAOPackage))
		})
	}

	if err := eg.Wait(); err != nil {
		tw.cleanupTemps()
		return err
	}

	if cfg.GenerateStructs {
		if err := tw.writeAggregator(ctx, cfg.OutputStructsDir, cfg.StructsPackage, "models", tw.recordSymbolsSorted()); err != nil {
			tw.cleanupTemps()
			return err
		}
	}
	if cfg.GenerateDAO {
		if err := tw.writeAggregator(ctx, cfg.OutputDAODir, cfg.DAOPackage, "dao", tw.daoSymbolsSorted()); err != nil {
			tw.cleanupTemps()
			return err
		}
	}

	return nil
}

// Plan runs the same parse-resolve-plan-emit pipeline Write does, for
// every table Write would touch, but never writes to disk: it returns
// the sorted list of paths Write would produce. A schema error the real
// generation stages would hit (UnsupportedType, PlanConflict) still
// surfaces here, since Plan calls the same planner.Plan/codegen.Generate*
// functions Write does rather than only computing filenames — this is
// what lets --dry-run report the same fatal errors a real run would.
func Plan(ctx context.Context, sch *schema.Schema, cfg *config.Config) ([]string, error) {
	tables := filterTables(sch.Tables, cfg.IncludeTables, cfg.ExcludeTables)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	var paths []string
	for _, t := range tables {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dao, err := planner.Plan(t)
		if err != nil {
			return nil, err
		}

		if cfg.GenerateStructs {
			if _, err := codegen.GenerateRecord(t, cfg.StructsPackage); err != nil {
				return nil, err
			}
			paths = append(paths, filepath.Join(cfg.OutputStructsDir, naming.Singularize(naming.Snake(t.Name))+".go"))
		}
		if cfg.GenerateDAO {
			if _, err := codegen.GenerateDAO(t, dao, cfg.DAOPackage, cfg.ModelsImportPath()); err != nil {
				return nil, err
			}
			paths = append(paths, filepath.Join(cfg.OutputDAODir, naming.ModuleName(t.Name)+".go"))
		}
	}

	if cfg.GenerateStructs {
		paths = append(paths, filepath.Join(cfg.OutputStructsDir, "models.go"))
	}
	if cfg.GenerateDAO {
		paths = append(paths,
			filepath.Join(cfg.OutputDAODir, "runtime.go"),
			filepath.Join(cfg.OutputDAODir, "pagination.go"),
			filepath.Join(cfg.OutputDAODir, "dao.go"),
		)
	}
	return paths, nil
}

func filterTables(tables []*schema.Table, include, exclude []string) []*schema.Table {
	includeSet := toSet(include)
	excludeSet := toSet(exclude)

	var out []*schema.Table
	for _, t := range tables {
		if len(includeSet) > 0 && !includeSet[t.Name] {
			continue
		}
		if excludeSet[t.Name] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// treeWriter accumulates the aggregator symbol lists and the set of
// temp files created during one Write call, so a mid-run failure can
// clean up every ".tmp-*" file it left behind.
type treeWriter struct {
	cfg *config.Config

	mu      sync.Mutex
	temps   []string
	records []string
	daos    []string
}

func (w *treeWriter) recordSymbolsSorted() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := append([]string(nil), w.records...)
	sort.Strings(out)
	return out
}

func (w *treeWriter) daoSymbolsSorted() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := append([]string(nil), w.daos...)
	sort.Strings(out)
	return out
}

func (w *treeWriter) writeTable(ctx context.Context, t *schema.Table) error {
	dao, err := planner.Plan(t)
	if err != nil {
		return err
	}
	typeName := naming.TypeName(t.Name)
	if stem := naming.Snake(t.Name); naming.Singularize(stem) == stem {
		slog.Warn("table name resisted singularization, using it unchanged for the record type", "table", t.Name)
	}

	if w.cfg.GenerateStructs {
		f, err := codegen.GenerateRecord(t, w.cfg.StructsPackage)
		if err != nil {
			return err
		}
		path := filepath.Join(w.cfg.OutputStructsDir, naming.Singularize(naming.Snake(t.Name))+".go")
		if err := w.writeFile(ctx, path, f); err != nil {
			return err
		}
		w.mu.Lock()
		w.records = append(w.records, typeName)
		w.mu.Unlock()
	}

	if w.cfg.GenerateDAO {
		f, err := codegen.GenerateDAO(t, dao, w.cfg.DAOPackage, w.cfg.ModelsImportPath())
		if err != nil {
			return err
		}
		path := filepath.Join(w.cfg.OutputDAODir, naming.ModuleName(t.Name)+".go")
		if err := w.writeFile(ctx, path, f); err != nil {
			return err
		}
		w.mu.Lock()
		w.daos = append(w.daos, typeName+"DAO")
		w.mu.Unlock()
	}

	return nil
}

// writeFile renders f, formats it with goimports, and writes it
// atomically: a temp file next to the target followed by os.Rename,
// so a reader never observes a partially-written file under path.
// Formatter failure downgrades to a warning; the unformatted bytes are
// written instead rather than failing the whole run over cosmetics.
func (w *treeWriter) writeFile(ctx context.Context, path string, f *jen.File) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return rdbierr.IO(path, "render generated source", err)
	}

	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		slog.Warn("goimports formatting failed, writing unformatted source", "path", path, "error", err)
		formatted = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rdbierr.IO(path, "create output directory", err)
	}

	tmp := path + ".tmp-" + strconv.Itoa(os.Getpid())
	w.mu.Lock()
	w.temps = append(w.temps, tmp)
	w.mu.Unlock()

	if err := os.WriteFile(tmp, formatted, 0o644); err != nil {
		return rdbierr.IO(path, "write temp file", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.Rename(tmp, path); err != nil {
		return rdbierr.IO(path, "rename temp file into place", err)
	}
	return nil
}

// cleanupTemps removes every ".tmp-*" file this Write call created but
// never renamed into place, run once after a failed or cancelled
// errgroup.Wait.
func (w *treeWriter) cleanupTemps() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, tmp := range w.temps {
		_ = os.Remove(tmp)
	}
}

// writeAggregator emits <dirBase>.go, a doc-comment index of the
// per-table symbols written into the directory (each table's record
// type under models, each table's DAO type under dao), sorted by name.
// Go has no crate-level re-export index, so this file's only job is
// letting a reader find every table's generated type without opening
// each per-table file; enum types and shared files are not listed.
func (w *treeWriter) writeAggregator(ctx context.Context, dir, packageName, dirBase string, symbols []string) error {
	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by rdbigen. DO NOT EDIT.")
	f.Commentf("Package %s aggregates the following generated symbols:", packageName)
	for _, s := range symbols {
		f.Comment("  - " + s)
	}
	return w.writeFile(ctx, filepath.Join(dir, dirBase+".go"), f)
}
