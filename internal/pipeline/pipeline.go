// Package pipeline orchestrates the batch job: discovery, extraction,
// graph build, score/filter, merge, then aggregation. Stages run in
// order; extraction is the only parallel phase and accumulates into
// independent per-document buffers. A single bad document or corrupt
// prior collection never aborts the batch.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/ppiankov/gnosia/internal/cache"
	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/ppiankov/gnosia/internal/corpus"
	"github.com/ppiankov/gnosia/internal/extract"
	"github.com/ppiankov/gnosia/internal/fitness"
	"github.com/ppiankov/gnosia/internal/kb"
	"github.com/ppiankov/gnosia/internal/merge"
	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/oracle"
	"github.com/ppiankov/gnosia/internal/stats"
	"github.com/ppiankov/gnosia/internal/worker"
)

// Pipeline wires the pipeline stages together.
type Pipeline struct {
	catalog   *catalog.Catalog
	scanner   *corpus.Scanner
	extractor *extract.Extractor
	scorer    *fitness.Scorer
	merger    *merge.Merger
	cache     cache.Cache
	cfg       *model.Config
	workers   int
}

// Result is the outcome of one pipeline run.
type Result struct {
	KnowledgeBase *model.KnowledgeBase
	Summary       *merge.Summary
	Documents     int
}

// New builds a pipeline from configuration. Catalog validation happens
// here, before any document is touched: a dangling category dependency
// fails fast.
func New(cfg *model.Config) (*Pipeline, error) {
	cat, err := catalog.Load(cfg.Extraction.CatalogPath)
	if err != nil {
		return nil, err
	}

	o, err := oracle.FromConfig(cfg.Oracle, cfg.Cache.OracleTTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}

	workers := cfg.Concurrency.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var docCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		docCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		catalog:   cat,
		scanner:   corpus.NewScanner(cfg.Corpus),
		extractor: extract.NewExtractor(cat, o, cfg.Extraction, cfg.Oracle.MinRelevance),
		scorer:    fitness.NewScorer(cfg.Scoring),
		merger:    merge.NewMerger(cfg.Scoring.CoherenceScale),
		cache:     docCache,
		cfg:       cfg,
		workers:   workers,
	}, nil
}

// Catalog exposes the validated catalog (for the catalog CLI command).
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}

// Run executes the full batch over root, merging in any prior
// collections, and returns the final knowledge base.
func (p *Pipeline) Run(ctx context.Context, root string, priorPaths []string) (*Result, error) {
	var failures model.FailureCounts

	// 1. Discovery
	scanRes, err := p.scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	failures.DocumentsSkipped += scanRes.Skipped
	p.verbose("✓ Discovered %d documents (%d skipped)\n", len(scanRes.Documents), scanRes.Skipped)

	// 2. Extraction (parallel, independent buffers per document)
	docResults := p.extractAll(ctx, scanRes.Documents, &failures)

	var raw []model.Fact
	for _, dr := range docResults {
		raw = append(raw, dr.result.Facts...)
	}
	p.verbose("✓ Extracted %d raw facts\n", len(raw))

	// 3+4. Graph build and survival filter
	survivors := p.scorer.Filter(raw)
	p.verbose("✓ %d facts survived filtering\n", len(survivors))

	// 5. Assemble this run's collection
	run := p.buildRunCollection(root, survivors)

	// 6. Prior collections
	inputs := []*model.KnowledgeBase{run}
	for _, path := range priorPaths {
		prior, err := merge.LoadCollection(path)
		if err != nil {
			// CorruptKnowledgeCollection: skip with a warning.
			fmt.Fprintf(os.Stderr, "Warning: skipping collection %s: %v\n", path, err)
			failures.CollectionsSkipped++
			continue
		}
		inputs = append(inputs, prior)
	}

	var store *kb.Store
	if p.cfg.Output.KBPath != "" {
		store, err = kb.Open(p.cfg.Output.KBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		prior, err := store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping persisted knowledge base: %v\n", err)
			failures.CollectionsSkipped++
		} else if len(prior.Collections.Facts) > 0 || len(prior.Collections.Patterns) > 0 {
			inputs = append(inputs, prior)
		}
	}

	// 7. Merge
	merged, summary := p.merger.Merge(inputs)

	// 8. Aggregate statistics
	merged.Stats = stats.Compute(merged.Collections.Facts, p.cfg.Scoring.CoherenceScale)

	merged.Meta.Source = run.Meta.Source
	merged.Meta.ConsumedSources = dropSource(merged.Meta.ConsumedSources, run.Meta.Source)
	merged.Meta.GeneratedAt = time.Now().UTC()
	merged.Meta.Failures = failures
	merged.Meta.Failures.HashCollisions = summary.Collisions
	merged.CountItems()

	if store != nil {
		if err := store.Save(merged, summary.Coherence); err != nil {
			return nil, fmt.Errorf("persist knowledge base: %w", err)
		}
	}

	return &Result{
		KnowledgeBase: merged,
		Summary:       summary,
		Documents:     len(scanRes.Documents),
	}, nil
}

// dropSource removes a run's own identifier from its consumed-source
// list; the identifier already appears as meta.source.
func dropSource(sources []string, own string) []string {
	kept := sources[:0]
	for _, s := range sources {
		if s != own {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// docResult pairs a document with its extraction output so results can
// be re-ordered deterministically after the parallel phase.
type docResult struct {
	doc    model.Document
	result *extract.Result
}

// extractJob is the worker pool job for one document. The outer run
// context is carried on the job so cancellation reaches workers.
type extractJob struct {
	pipeline *Pipeline
	ctx      context.Context
	doc      model.Document
}

type extractOutcome struct {
	docResult
	err error
}

func (r *extractOutcome) GetError() error { return r.err }

func (j *extractJob) Execute(ctx context.Context) worker.Result {
	if err := j.ctx.Err(); err != nil {
		return &extractOutcome{docResult: docResult{doc: j.doc}, err: err}
	}
	if err := ctx.Err(); err != nil {
		return &extractOutcome{docResult: docResult{doc: j.doc}, err: err}
	}
	res, err := j.pipeline.extractCached(j.doc)
	return &extractOutcome{docResult: docResult{doc: j.doc, result: res}, err: err}
}

func (p *Pipeline) extractAll(ctx context.Context, docs []model.Document, failures *model.FailureCounts) []docResult {
	pool := worker.NewPool(p.workers)
	pool.Start()

	for _, doc := range docs {
		pool.Submit(&extractJob{pipeline: p, ctx: ctx, doc: doc})
	}

	results := make([]docResult, 0, len(docs))
	for _, outcome := range pool.Wait() {
		out := outcome.(*extractOutcome)
		if out.err != nil {
			if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
				continue // cancelled before this document was processed
			}
			// DocumentReadError: skip and count.
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", out.doc.Path, out.err)
			failures.DocumentsSkipped++
			continue
		}
		if out.result.StructuredFallback {
			failures.StructuredFallbacks++
		}
		results = append(results, out.docResult)
	}

	return p.sortResults(results)
}

// sortResults restores path order so concatenated fact buffers are
// reproducible regardless of worker scheduling.
func (p *Pipeline) sortResults(results []docResult) []docResult {
	sort.Slice(results, func(i, j int) bool {
		return results[i].doc.Path < results[j].doc.Path
	})
	return results
}

// extractCached consults the document cache before extracting.
func (p *Pipeline) extractCached(doc model.Document) (*extract.Result, error) {
	if p.cache == nil {
		return p.extractor.ExtractFile(doc)
	}

	key := cache.DocumentKey(doc.Path, doc.Size, doc.ModTime)
	if data, found := p.cache.Get(key); found {
		var res extract.Result
		if err := json.Unmarshal(data, &res); err == nil {
			return &res, nil
		}
	}

	res, err := p.extractor.ExtractFile(doc)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		_ = p.cache.Set(key, data, 0)
	}
	return res, nil
}

// buildRunCollection wraps this run's surviving facts, plus one pattern
// item per category that yielded facts, into a knowledge base.
func (p *Pipeline) buildRunCollection(root string, facts []model.Fact) *model.KnowledgeBase {
	run := &model.KnowledgeBase{}
	run.Meta.Source = "gnosia:" + root
	run.Meta.GeneratedAt = time.Now().UTC()
	run.Collections.Facts = facts

	counts := make(map[string]int)
	maxFitness := make(map[string]float64)
	var order []string
	for i := range facts {
		id := facts[i].CategoryID
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
		if facts[i].Fitness > maxFitness[id] {
			maxFitness[id] = facts[i].Fitness
		}
	}
	for _, id := range order {
		run.Collections.Patterns = append(run.Collections.Patterns, model.Item{
			Content:  "category:" + id,
			Weight:   maxFitness[id],
			Origins:  []string{run.Meta.Source},
			LastSeen: run.Meta.GeneratedAt,
			Payload:  map[string]any{"matches": counts[id]},
		})
	}

	run.CountItems()
	return run
}

func (p *Pipeline) verbose(format string, args ...any) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// MergeOnly runs the merger over serialized collections without a scan.
func (p *Pipeline) MergeOnly(paths []string) (*Result, error) {
	var inputs []*model.KnowledgeBase
	var failures model.FailureCounts

	for _, path := range paths {
		in, err := merge.LoadCollection(path)
		if err != nil {
			// Unreadable and corrupt inputs alike are skip+count, the
			// same policy Run applies to prior collections.
			fmt.Fprintf(os.Stderr, "Warning: skipping collection %s: %v\n", path, err)
			failures.CollectionsSkipped++
			continue
		}
		inputs = append(inputs, in)
	}

	merged, summary := p.merger.Merge(inputs)
	merged.Stats = stats.Compute(merged.Collections.Facts, p.cfg.Scoring.CoherenceScale)
	merged.Meta.GeneratedAt = time.Now().UTC()
	merged.Meta.Source = "gnosia:merge"
	merged.Meta.Failures = failures
	merged.Meta.Failures.HashCollisions = summary.Collisions
	merged.CountItems()

	return &Result{KnowledgeBase: merged, Summary: summary}, nil
}
