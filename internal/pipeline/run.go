package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/extract"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/ranker"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/refiner"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/sectioner"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/vectorspace"
)

// Input is one document handed to a run: a filename plus its raw bytes.
type Input struct {
	Filename string
	Data     []byte
}

// Request is a full batch: the query, the document set, and the
// options governing every stage.
type Request struct {
	Query     document.Query
	Inputs    []Input
	Options   config.Options
	Timestamp time.Time
}

// Engine executes relevance runs. It holds no per-run state; a single
// Engine serves concurrent runs.
type Engine struct {
	log                  *slog.Logger
	maxConcurrentExtract int
	maxConcurrentScore   int
	pdfFallback          bool
}

func NewEngine(log *slog.Logger, maxExtract, maxScore int, pdfFallback bool) *Engine {
	if maxExtract <= 0 {
		maxExtract = 1
	}
	if maxScore <= 0 {
		maxScore = 1
	}
	return &Engine{
		log:                  log,
		maxConcurrentExtract: maxExtract,
		maxConcurrentScore:   maxScore,
		pdfFallback:          pdfFallback,
	}
}

// Execute runs the full pipeline for one batch: extract documents in
// parallel, build sections, fit the vector space over the whole corpus
// plus the query (the single barrier), score sections in parallel,
// rank, refine, and assemble. progress may be nil.
func (e *Engine) Execute(ctx context.Context, req Request, progress func(phase string)) (document.RunResult, error) {
	if err := req.Options.Validate(); err != nil {
		return document.RunResult{}, err
	}
	if progress == nil {
		progress = func(string) {}
	}
	at := req.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	inputIDs := make([]string, len(req.Inputs))
	for i, in := range req.Inputs {
		inputIDs[i] = in.Filename
	}

	// Phase 1: extract every document with bounded concurrency. A
	// document that fails extraction drops out of the run; the rest
	// proceed.
	progress("extracting")
	docs, skipped := e.extractAll(ctx, req.Inputs)
	if len(docs) == 0 {
		if len(req.Inputs) > 0 {
			return document.RunResult{}, &extract.ExtractionError{
				Document: "all",
				Err:      fmt.Errorf("no document could be extracted"),
			}
		}
		return document.RunResult{}, vectorspace.ErrEmptyCorpus
	}

	// Phase 2: build sections per document. Zero sections for one
	// document is not fatal.
	progress("sectioning")
	var all []docSections
	total := 0
	for order, doc := range docs {
		secs := sectioner.Build(doc, req.Options)
		if len(secs) == 0 {
			e.log.Warn("no sections built", "document", doc.ID)
			continue
		}
		all = append(all, docSections{docOrder: order, sections: secs})
		total += len(secs)
	}
	if total == 0 {
		// Nothing to score. The query alone fits, but a run with no
		// sections has no corpus.
		return document.RunResult{}, vectorspace.ErrEmptyCorpus
	}

	// Phase 3: fit the shared vector space. Every section plus the
	// query must be visible before any scoring starts.
	progress("fitting")
	corpus := make([]string, 0, total+1)
	for _, ds := range all {
		for i := range ds.sections {
			corpus = append(corpus, ds.sections[i].ScoringText())
		}
	}
	corpus = append(corpus, req.Query.Text())
	space, err := vectorspace.Fit(corpus)
	if err != nil {
		return document.RunResult{}, err
	}
	queryVec := space.Project(req.Query.Text())

	// Phase 4: score every section concurrently. The fitted space is
	// read-only, so workers share it without locking.
	progress("scoring")
	if err := e.scoreAll(queryVec, space, all); err != nil {
		return document.RunResult{}, err
	}

	// Phase 5: rank under the total order and apply both filters.
	rk := &ranker.Ranking{}
	for _, ds := range all {
		for i := range ds.sections {
			rk.Add(&ds.sections[i], ds.docOrder)
		}
	}
	top := rk.Top(req.Options.TopKSections, req.Options.MinRelevanceScore)

	// Phase 6: refine one excerpt per ranked section.
	var excerpts []document.Excerpt
	if req.Options.IncludeSubsections {
		progress("refining")
		excerpts = make([]document.Excerpt, len(top))
		for i, sec := range top {
			excerpts[i] = refiner.Refine(sec, queryVec, space, req.Options)
		}
	}

	res := output.Assemble(req.Query, inputIDs, top, excerpts, at)
	res.Skipped = skipped
	return res, nil
}

// extractAll fans extraction out under a semaphore, preserving input
// order in the returned slice. The second return lists documents that
// did not survive extraction.
func (e *Engine) extractAll(ctx context.Context, inputs []Input) ([]document.Document, []string) {
	results := make([]*document.Document, len(inputs))
	sem := make(chan struct{}, e.maxConcurrentExtract)
	var wg sync.WaitGroup

	for i, in := range inputs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return collectDocs(results, inputs)
		}
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			doc, err := extract.Run(bytes.NewReader(in.Data), in.Filename, e.pdfFallback)
			if err != nil {
				e.log.Warn("document skipped", "document", in.Filename, "error", err)
				return
			}
			results[i] = &doc
		}(i, in)
	}
	wg.Wait()
	return collectDocs(results, inputs)
}

func collectDocs(results []*document.Document, inputs []Input) ([]document.Document, []string) {
	var docs []document.Document
	var skipped []string
	for i, d := range results {
		if d != nil {
			docs = append(docs, *d)
		} else {
			skipped = append(skipped, inputs[i].Filename)
		}
	}
	return docs, skipped
}

// docSections groups one document's sections with its input position.
type docSections struct {
	docOrder int
	sections []document.Section
}

// scoreAll scores every section on a shared worker pool.
func (e *Engine) scoreAll(queryVec []float64, space *vectorspace.VectorSpace, all []docSections) error {
	pool, err := ants.NewPool(e.maxConcurrentScore)
	if err != nil {
		return fmt.Errorf("scoring pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for di := range all {
		for si := range all[di].sections {
			sec := &all[di].sections[si]
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				sec.Score = ranker.Score(queryVec, sec, space)
			}); err != nil {
				wg.Done()
				// Pool rejected the task; score inline instead.
				sec.Score = ranker.Score(queryVec, sec, space)
			}
		}
	}
	wg.Wait()
	return nil
}
