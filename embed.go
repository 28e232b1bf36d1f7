// Package xlembed binds image assets from a zip archive to the rows of a
// spreadsheet by an identifier column and embeds resized copies into an
// image column, producing a new workbook.
package xlembed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Result is the outcome of one successful run.
type Result struct {
	Output     []byte      // the new workbook
	Sheet      string      // processed sheet
	Columns    ColumnRef   // resolved identifier and target columns
	Rows       int         // data rows walked (excluding the header)
	Placements []Placement // embedded images in row order
	Notices    []Notice    // soft failures in row order
}

// Embedder runs the binding-and-embedding pipeline.
type Embedder struct {
	opts     *Options
	namer    AssetNamer
	namerErr error
}

// NewEmbedder creates an Embedder with the given options.
func NewEmbedder(opts ...Option) *Embedder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	namer, err := newNamer(o)
	return &Embedder{opts: o, namer: namer, namerErr: err}
}

// Embed loads the archive, embeds matching images into a copy of workbook and
// returns the new workbook bytes with any per-row notices.
func Embed(ctx context.Context, workbook, archive []byte, opts ...Option) (*Result, error) {
	return NewEmbedder(opts...).Embed(ctx, workbook, archive)
}

// EmbedFiles reads the workbook and archive from disk and writes the result to
// outputPath. An empty outputPath writes next to the workbook using OutputName.
func EmbedFiles(ctx context.Context, workbookPath, archivePath, outputPath string, opts ...Option) (*Result, error) {
	workbook, err := os.ReadFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("read workbook %q: %w", workbookPath, err)
	}
	archive, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive %q: %w", archivePath, err)
	}
	res, err := Embed(ctx, workbook, archive, opts...)
	if err != nil {
		return nil, err
	}
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(workbookPath), OutputName(filepath.Base(workbookPath)))
	}
	if err := os.WriteFile(outputPath, res.Output, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write %q: %v", ErrSerialize, outputPath, err)
	}
	return res, nil
}

// OutputName returns the conventional output filename: "report.xlsx" becomes
// "report_with_images.xlsx".
func OutputName(inputName string) string {
	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	if base == "" {
		base = "workbook"
	}
	return base + "_with_images.xlsx"
}

// Embed runs the pipeline. Hard failures (archive, workbook, schema,
// serialization) return an error and no output. The staging area is released
// on every path.
func (e *Embedder) Embed(ctx context.Context, workbook, archive []byte) (*Result, error) {
	log := e.opts.logger
	if e.namerErr != nil {
		return nil, e.namerErr
	}

	store, err := loadAssets(archive, e.opts.stagingDir)
	if err != nil {
		log.Error().Err(err).Msg("load archive")
		return nil, err
	}
	defer store.Close()
	log.Debug().Str("root", store.Root()).Int("assets", len(store.Names())).Msg("archive loaded")

	tx, err := OpenWorkbook(workbook)
	if err != nil {
		log.Error().Err(err).Msg("open workbook")
		return nil, err
	}
	defer tx.Close()

	res, err := e.Process(ctx, tx, store)
	if err != nil {
		log.Error().Err(err).Msg("embed images")
		return nil, err
	}
	return res, nil
}

// Process resolves the schema, applies the layout, binds and places images
// on tx, then serializes it. It is the pipeline after the inputs are open.
func (e *Embedder) Process(ctx context.Context, tx Transformer, store *AssetStore) (*Result, error) {
	log := e.opts.logger

	sheet, rows, err := e.readSheet(tx)
	if err != nil {
		return nil, err
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	cols, err := ResolveSchema(header, e.opts.identifierColumn, e.opts.targetColumn)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Sheet = sheet
		}
		return nil, err
	}
	log.Debug().Str("sheet", sheet).Int("identifier", cols.Identifier).Int("target", cols.Target).Msg("schema resolved")

	if err := ApplyLayout(tx, sheet, cols, len(rows), e.opts.layout); err != nil {
		return nil, fmt.Errorf("apply layout: %w", err)
	}
	log.Debug().Int("rows", len(rows)-1).Msg("layout applied")

	res := &Result{Sheet: sheet, Columns: cols, Rows: len(rows) - 1}
	outcomes, err := e.bindRows(ctx, rows, cols, store)
	if err != nil {
		return nil, err
	}
	e.resizeAll(ctx, outcomes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range outcomes {
		oc := &outcomes[i]
		switch {
		case oc.notice != nil:
			res.addNotice(log, *oc.notice)
		case !oc.bound:
			// empty key
		case oc.err != nil:
			res.addNotice(log, Notice{Row: oc.row, Key: oc.key, Asset: oc.asset, Reason: ImageDecodeError, Err: oc.err})
		default:
			cell, err := PlaceImage(tx, sheet, cols.Target, oc.row, oc.img)
			if err != nil {
				res.addNotice(log, Notice{Row: oc.row, Key: oc.key, Asset: oc.asset, Reason: ImageDecodeError, Err: err})
				continue
			}
			res.Placements = append(res.Placements, Placement{
				Row: oc.row, Key: oc.key, Asset: oc.asset, Cell: cell,
				Width: e.opts.imageWidth, Height: e.opts.imageHeight,
			})
		}
	}
	log.Debug().Int("placed", len(res.Placements)).Int("notices", len(res.Notices)).Msg("rows processed")

	out, err := Serialize(tx)
	if err != nil {
		return nil, err
	}
	res.Output = out
	log.Info().Str("sheet", sheet).Int("placed", len(res.Placements)).Int("notices", len(res.Notices)).Int("bytes", len(out)).Msg("workbook serialized")
	return res, nil
}

func (e *Embedder) readSheet(tx Transformer) (string, [][]string, error) {
	sheet := e.opts.sheet
	if sheet == "" {
		sheet = tx.ActiveSheet()
	}
	found := false
	for _, name := range tx.SheetNames() {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		return "", nil, fmt.Errorf("%w: sheet %q not found", ErrWorkbook, sheet)
	}
	rows, err := tx.Rows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWorkbook, err)
	}
	return sheet, rows, nil
}

// rowOutcome carries one data row through binding, resizing and placement.
type rowOutcome struct {
	rowBinding
	bound  bool
	notice *Notice
	img    []byte
	err    error
}

func (e *Embedder) bindRows(ctx context.Context, rows [][]string, cols ColumnRef, store *AssetStore) ([]rowOutcome, error) {
	b := &binder{store: store, namer: e.namer, cols: cols, header: rows[0]}
	outcomes := make([]rowOutcome, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rb, notice, ok, err := b.bind(i+1, rows[i])
		if err != nil {
			return nil, fmt.Errorf("bind row %d: %w", i+1, err)
		}
		outcomes = append(outcomes, rowOutcome{rowBinding: rb, bound: ok, notice: notice})
	}
	return outcomes, nil
}

// resizeAll decodes and resizes every bound row. Workers write only to their
// own outcome slot; placement happens afterwards on the caller's goroutine.
func (e *Embedder) resizeAll(ctx context.Context, outcomes []rowOutcome) {
	var jobs []int
	for i := range outcomes {
		if outcomes[i].bound {
			jobs = append(jobs, i)
		}
	}
	workers := e.opts.concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	resize := func(i int) {
		oc := &outcomes[i]
		oc.img, _, oc.err = ResizeImage(oc.data, e.opts.imageWidth, e.opts.imageHeight, e.opts.jpegQuality, e.opts.maxPixels)
		oc.data = nil
	}
	if workers <= 1 {
		for _, i := range jobs {
			if ctx.Err() != nil {
				return
			}
			resize(i)
		}
		return
	}

	ch := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				resize(i)
			}
		}()
	}
	for _, i := range jobs {
		if ctx.Err() != nil {
			break
		}
		ch <- i
	}
	close(ch)
	wg.Wait()
}

func (r *Result) addNotice(log zerolog.Logger, n Notice) {
	if n.Err != nil {
		n.Error = n.Err.Error()
	}
	r.Notices = append(r.Notices, n)
	ev := log.Warn().Int("row", n.Row).Str("key", n.Key).Str("asset", n.Asset).Str("reason", n.Reason.String())
	if n.Err != nil {
		ev = ev.Err(n.Err)
	}
	ev.Msg("row not embedded")
}
