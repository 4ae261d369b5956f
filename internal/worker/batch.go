package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/medichain/triage/internal/cache"
	"github.com/medichain/triage/internal/model"
	"github.com/medichain/triage/internal/pipeline"
)

// Triager runs the full triage flow for one case description
type Triager interface {
	Triage(text string, patient pipeline.PatientContext) *model.Report
}

// TriageJob triages a single case description, consulting the report cache
// first when one is configured
type TriageJob struct {
	Text    string
	Triager Triager
	Cache   cache.Cache
}

// Execute runs the job
func (j *TriageJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &TriageResult{Text: j.Text, Error: err}
	}

	if j.Cache != nil {
		if data, found := j.Cache.Get(cache.Key(j.Text)); found {
			var report model.Report
			if err := json.Unmarshal(data, &report); err == nil {
				return &TriageResult{Text: j.Text, Report: &report, Cached: true}
			}
		}
	}

	report := j.Triager.Triage(j.Text, pipeline.PatientContext{})

	if j.Cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = j.Cache.Set(cache.Key(j.Text), data, 0)
		}
	}

	return &TriageResult{Text: j.Text, Report: report}
}

// TriageResult is the outcome of one batch case
type TriageResult struct {
	Text   string
	Report *model.Report
	Cached bool
	Error  error
}

// GetError returns the job error, if any
func (r *TriageResult) GetError() error {
	return r.Error
}

// BatchProcessor triages many case descriptions concurrently
type BatchProcessor struct {
	triager     Triager
	cache       cache.Cache
	concurrency int
}

// NewBatchProcessor creates a batch processor; cache may be nil
func NewBatchProcessor(triager Triager, reportCache cache.Cache, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		triager:     triager,
		cache:       reportCache,
		concurrency: concurrency,
	}
}

// ProcessCases triages the given case descriptions concurrently
func (b *BatchProcessor) ProcessCases(ctx context.Context, cases []string) []*TriageResult {
	if len(cases) == 0 {
		return []*TriageResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Caller cancellation propagates to the pool's context
	stop := context.AfterFunc(ctx, pool.cancelFunc)
	defer stop()

	// Submit from a goroutine so large batches never outrun the buffered
	// channels while results are still unread.
	go func() {
		for _, text := range cases {
			pool.Submit(&TriageJob{Text: text, Triager: b.triager, Cache: b.cache})
		}
		pool.CloseQueue()
	}()

	results := pool.Drain()

	triageResults := make([]*TriageResult, len(results))
	for i, result := range results {
		triageResults[i] = result.(*TriageResult)
	}

	return triageResults
}

// ProcessFile reads case descriptions from a file (one per line) and triages
// them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*TriageResult, error) {
	cases, err := ReadCasesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	return b.ProcessCases(ctx, cases), nil
}

// ReadCasesFromFile reads case descriptions, one per line, skipping blanks,
// comments and duplicates
func ReadCasesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var cases []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			cases = append(cases, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return cases, nil
}
