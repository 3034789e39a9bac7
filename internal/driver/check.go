package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"duckcheck/internal/ast"
	"duckcheck/internal/diag"
	"duckcheck/internal/observ"
	"duckcheck/internal/sema"
	"duckcheck/internal/source"
	"duckcheck/internal/trace"
)

// FileResult is the outcome of checking one document.
type FileResult struct {
	Path string
	// FileID is where the diagnostics point: the program text when it
	// sits next to the document, the document otherwise.
	FileID  source.FileID
	Builder *ast.Builder
	Root    ast.NodeID
	// Sema is nil when the diagnostics came from the cache or the
	// document could not be loaded.
	Sema   *sema.Result
	Bag    *diag.Bag
	Cached bool
	Err    error
}

// Result is the outcome of a Check run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag merges every file's diagnostics in location order.
	Bag   *diag.Bag
	Timer *observ.Timer
}

// HasErrors reports whether any document produced an error diagnostic.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

type loaded struct {
	path   string
	docID  source.FileID
	textID source.FileID
	text   bool
	err    error
}

// Check analyses every document under targets. Each document gets its own
// constraint store and environment, so documents are checked in parallel.
// The returned error covers listing failures and cancellation only; a
// broken document is reported as a diagnostic.
func Check(ctx context.Context, targets []string, opts Options) (*Result, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	timer := observ.NewTimer()
	paths, err := ListDocuments(targets)
	if err != nil {
		return nil, err
	}
	span.WithExtra("documents", strconv.Itoa(len(paths)))

	fileSet := source.NewFileSet()
	if opts.BaseDir != "" {
		fileSet.SetBaseDir(opts.BaseDir)
	}
	res := &Result{
		FileSet: fileSet,
		Files:   make([]FileResult, len(paths)),
		Timer:   timer,
	}
	for _, p := range paths {
		opts.Events.emit(p, StageLoad, StatusQueued)
	}

	// FileSet is not safe for concurrent writes, so loading is sequential.
	var docs []loaded
	loadCtx, loadSpan := trace.BeginCtx(ctx, trace.ScopePass, "load")
	_ = timer.Time("load", func() error {
		docs = loadAll(loadCtx, fileSet, paths, opts.Events)
		return nil
	})
	loadSpan.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	inferCtx, inferSpan := trace.BeginCtx(ctx, trace.ScopePass, "infer")
	g, gctx := errgroup.WithContext(inferCtx)
	g.SetLimit(max(1, min(jobs, len(docs))))
	inferIdx := timer.Begin("infer")
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Files[i] = checkOne(gctx, fileSet, docs[i], opts, timer)
			return nil
		})
	}
	err = g.Wait()
	timer.End(inferIdx, fmt.Sprintf("%d documents", len(docs)))
	inferSpan.End("")
	if err != nil {
		return nil, err
	}

	_, reportSpan := trace.BeginCtx(ctx, trace.ScopePass, "report")
	reportIdx := timer.Begin("report")
	res.Bag = merge(res.Files, opts.MaxDiagnostics)
	timer.End(reportIdx, "")
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, fileSet, timer)
	}
	reportSpan.End(strconv.Itoa(res.Bag.Len()) + " diagnostics")
	return res, nil
}

func loadAll(ctx context.Context, fileSet *source.FileSet, paths []string, events EventSink) []loaded {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	out := make([]loaded, len(paths))
	for i, p := range paths {
		events.emit(p, StageLoad, StatusWorking)
		l := loaded{path: p}
		// #nosec G304 -- paths come from the command line
		data, err := os.ReadFile(p)
		if err != nil {
			l.docID = fileSet.AddVirtual(p, nil)
			l.err = err
			out[i] = l
			events.emit(p, StageLoad, StatusError)
			continue
		}
		l.docID = fileSet.Add(p, data, source.FileDocument)
		if id, err := fileSet.Load(ProgramTextPath(p), 0); err == nil {
			l.textID, l.text = id, true
		}
		trace.Point(tracer, trace.ScopeModule, parent, "load", p)
		out[i] = l
		events.emit(p, StageLoad, StatusDone)
	}
	return out
}

func checkOne(ctx context.Context, fileSet *source.FileSet, l loaded, opts Options, timer *observ.Timer) FileResult {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeModule, "doc:"+l.path)
	defer span.End("")

	fr := FileResult{Path: l.path, FileID: l.docID, Bag: diag.NewBag(bagLimit(opts.MaxDiagnostics))}
	if l.text {
		fr.FileID = l.textID
	}
	if l.err != nil {
		fr.Err = l.err
		diag.ReportError(&diag.BagReporter{Bag: fr.Bag}, diag.IOLoadFileError,
			source.At(l.docID, 0, 0), fmt.Sprintf("cannot read %s: %v", l.path, l.err)).Emit()
		return fr
	}

	opts.Events.emit(l.path, StageInfer, StatusWorking)
	idx := timer.Begin("infer:" + l.path)
	defer func() { timer.End(idx, cacheNote(fr.Cached)) }()

	doc := fileSet.Get(l.docID).Content
	var text []byte
	if l.text {
		text = fileSet.Get(l.textID).Content
	}
	key := DocumentDigest(doc, text, opts.Policy)
	if opts.Cache != nil {
		payload, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			diag.ReportWarning(&diag.BagReporter{Bag: fr.Bag}, diag.IOCacheError,
				source.At(l.docID, 0, 0), fmt.Sprintf("ignoring cache entry: %v", err)).Emit()
		case ok:
			if err := fromCached(fr.FileID, payload.Diagnostics, fr.Bag); err != nil {
				diag.ReportWarning(&diag.BagReporter{Bag: fr.Bag}, diag.IOCacheError,
					source.At(l.docID, 0, 0), fmt.Sprintf("ignoring cache entry: %v", err)).Emit()
				break
			}
			fr.Cached = true
			span.WithExtra("cache", "hit")
			opts.Events.emit(l.path, StageReport, StatusCached)
			return fr
		}
	}

	b, root, err := decode(l.path, doc, fr.FileID)
	if err != nil {
		fr.Err = err
		diag.ReportError(&diag.BagReporter{Bag: fr.Bag}, diag.IODecodeError,
			source.At(l.docID, 0, 0), err.Error()).Emit()
		opts.Events.emit(l.path, StageInfer, StatusError)
		return fr
	}
	fr.Builder, fr.Root = b, root
	tracer := trace.FromContext(ctx)
	docSpan := trace.CurrentSpan(ctx).SpanID
	var reporter diag.Reporter = &diag.BagReporter{Bag: fr.Bag}
	if tracer.Enabled() && tracer.Level().ShouldEmit(trace.ScopeModule) {
		reporter = diag.MultiReporter{reporter, traceReporter{tracer: tracer, parent: docSpan}}
	}
	fr.Sema = sema.Check(ctx, b, root, sema.Options{
		Reporter: reporter,
		Policy:   opts.Policy,
	})
	span.WithExtra("failures", strconv.Itoa(len(fr.Sema.Failures)))
	if tracer.Level() >= trace.LevelDebug {
		trace.Point(tracer, trace.ScopeModule, docSpan, "validate", validateDetail(fr.Sema))
	}

	if opts.Cache != nil {
		err := opts.Cache.Put(key, &CachePayload{
			Path:        l.path,
			Nodes:       b.Len(),
			Diagnostics: toCached(fr.Bag.Items()),
		})
		if err != nil {
			diag.ReportWarning(&diag.BagReporter{Bag: fr.Bag}, diag.IOCacheError,
				source.At(l.docID, 0, 0), fmt.Sprintf("cannot write cache entry: %v", err)).Emit()
		}
	}

	status := StatusDone
	if fr.Bag.HasErrors() {
		status = StatusError
	}
	opts.Events.emit(l.path, StageReport, status)
	return fr
}

// decode builds the document into a fresh builder whose spans point at
// file.
func decode(path string, data []byte, file source.FileID) (*ast.Builder, ast.NodeID, error) {
	format, _ := ast.FormatForPath(path)
	doc, err := ast.DecodeBytes(data, format)
	if err != nil {
		return nil, ast.NoNodeID, fmt.Errorf("%s: %w", path, err)
	}
	b := ast.NewBuilder(file, nil, ast.Hints{})
	root, err := ast.Build(b, doc)
	if err != nil {
		return nil, ast.NoNodeID, fmt.Errorf("%s: %w", path, err)
	}
	if b.Kind(root) != ast.KindModule {
		return nil, ast.NoNodeID, fmt.Errorf("%s: %w: root is %s, want Module", path, ast.ErrMalformed, b.Kind(root))
	}
	return b, root, nil
}

// ErrNoDocuments is returned by callers that require at least one input.
var ErrNoDocuments = errors.New("no AST documents found")

func merge(files []FileResult, limit int) *diag.Bag {
	out := diag.NewBag(bagLimit(limit))
	for i := range files {
		out.Merge(files[i].Bag)
	}
	out.Dedup()
	out.Sort()
	if limit > 0 && out.Len() > limit {
		n := 0
		out.Filter(func(diag.Diagnostic) bool {
			n++
			return n <= limit
		})
	}
	return out
}

func bagLimit(limit int) int {
	if limit <= 0 {
		return int(^uint16(0))
	}
	return limit
}

func cacheNote(cached bool) string {
	if cached {
		return "cached"
	}
	return ""
}
