package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ppiankov/newscred/internal/model"
)

// Analyzer runs a single credibility analysis
type Analyzer interface {
	Analyze(ctx context.Context, in model.AnalysisInput) (*model.AnalysisResult, error)
	AnalyzeURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
}

// Item is one line of a batch file: a URL to fetch or a bare headline
type Item struct {
	Line  int
	Value string
	IsURL bool
}

// ItemResult is the outcome of analyzing one Item
type ItemResult struct {
	Item     Item
	Result   *model.AnalysisResult
	Error    error
	Duration time.Duration
}

// Err returns the analysis error, if any
func (r *ItemResult) Err() error {
	return r.Error
}

// analyzeJob adapts an Item to the pool
type analyzeJob struct {
	item     Item
	analyzer Analyzer
	timeout  time.Duration
}

func (j *analyzeJob) Execute(ctx context.Context) Result {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	var (
		result *model.AnalysisResult
		err    error
	)
	if j.item.IsURL {
		result, err = j.analyzer.AnalyzeURL(ctx, j.item.Value)
	} else {
		result, err = j.analyzer.Analyze(ctx, model.AnalysisInput{Title: j.item.Value})
	}

	return &ItemResult{
		Item:     j.item,
		Result:   result,
		Error:    err,
		Duration: time.Since(start),
	}
}

// ProgressFunc is called after each item completes
type ProgressFunc func(done, total int, r *ItemResult)

// BatchProcessor analyzes many items concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	itemTimeout time.Duration
	progress    ProgressFunc
}

// NewBatchProcessor creates a batch processor. itemTimeout 0 means no per-item deadline.
func NewBatchProcessor(analyzer Analyzer, concurrency int, itemTimeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		itemTimeout: itemTimeout,
	}
}

// OnProgress registers a progress callback. Calls may come from several goroutines.
func (b *BatchProcessor) OnProgress(fn ProgressFunc) {
	b.progress = fn
}

// Process analyzes items and returns one result per item, in input order
func (b *BatchProcessor) Process(ctx context.Context, items []Item) []*ItemResult {
	if len(items) == 0 {
		return []*ItemResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start(ctx)

	var done int32
	for _, item := range items {
		job := Job(&analyzeJob{item: item, analyzer: b.analyzer, timeout: b.itemTimeout})
		if b.progress != nil {
			job = &progressJob{inner: job, done: &done, total: len(items), fn: b.progress}
		}
		if err := pool.Submit(job); err != nil {
			break
		}
	}

	results := pool.Wait()

	out := make([]*ItemResult, len(items))
	for i := range items {
		var r Result
		if i < len(results) {
			r = results[i]
		}
		switch v := r.(type) {
		case *ItemResult:
			out[i] = v
		case nil:
			out[i] = &ItemResult{Item: items[i], Error: fmt.Errorf("not processed: %w", context.Cause(ctx))}
		default:
			out[i] = &ItemResult{Item: items[i], Error: v.Err()}
		}
	}
	return out
}

// ProcessFile reads items from a file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ItemResult, error) {
	items, err := ReadItemsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return b.Process(ctx, items), nil
}

type progressJob struct {
	inner Job
	done  *int32
	total int
	fn    ProgressFunc
}

func (j *progressJob) Execute(ctx context.Context) Result {
	r := j.inner.Execute(ctx)
	n := atomic.AddInt32(j.done, 1)
	if ir, ok := r.(*ItemResult); ok {
		j.fn(int(n), j.total, ir)
	}
	return r
}

// ReadItemsFromFile reads batch items from a file
func ReadItemsFromFile(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseItems(file)
}

// ParseItems reads one item per line. Blank lines and # comments are
// skipped, duplicates dropped. An http(s) URL is a URL item, anything
// else is a headline.
func ParseItems(r io.Reader) ([]Item, error) {
	var items []Item
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true

		items = append(items, Item{Line: lineNo, Value: line, IsURL: IsHTTPURL(line)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return items, nil
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host
func IsHTTPURL(s string) bool {
	if strings.ContainsAny(s, " \t") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
