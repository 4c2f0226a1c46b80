package sorter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasksort/internal/method"
	"github.com/nibzard/tasksort/internal/parallel"
)

// Default option values.
const (
	DefaultParallelThreshold = 2048
	insertionCutoff          = 12
)

// Options controls how a Sorter executes.
type Options struct {
	// Workers bounds concurrent leaf sorts and merges. 0 uses GOMAXPROCS.
	Workers int
	// ParallelThreshold is the largest segment sorted by a single worker.
	// Collections at or below it are sorted sequentially; 0 disables parallel sorting.
	ParallelThreshold int
	// IDField names the record key reported in evaluation errors.
	IDField string
	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the default sorter options.
func DefaultOptions() Options {
	return Options{
		ParallelThreshold: DefaultParallelThreshold,
		IDField:           DefaultIDField,
	}
}

// Sorter applies one compiled sorting method to record collections.
// It holds no per-call state and is safe for concurrent use.
type Sorter struct {
	name string
	cmp  *Comparator
	opts Options
}

// New compiles m into a Sorter.
func New(m *method.Method, opts Options) *Sorter {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.ParallelThreshold < 0 {
		opts.ParallelThreshold = 0
	}
	return &Sorter{name: m.Name(), cmp: Compile(m), opts: opts}
}

// Sort orders records with m using the default options.
func Sort(ctx context.Context, m *method.Method, records []Record) ([]Record, error) {
	return New(m, DefaultOptions()).Sort(ctx, records)
}

// Comparator returns the compiled comparator.
func (s *Sorter) Comparator() *Comparator {
	return s.cmp
}

// Sort returns a new slice holding the same records in sorted order.
// On error no partial result is returned.
func (s *Sorter) Sort(ctx context.Context, records []Record) ([]Record, error) {
	order, err := s.Order(ctx, records)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(order))
	for i, idx := range order {
		out[i] = records[idx]
	}
	return out, nil
}

// Order returns the stable sorted permutation of records: out[i] is the input
// index of the record at position i.
func (s *Sorter) Order(ctx context.Context, records []Record) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	keys, err := s.resolve(records)
	if err != nil {
		s.debug("sort aborted", "method", s.name, "records", len(records), "error", err)
		return nil, err
	}

	st := &sortState{
		cmp:  s.cmp,
		keys: keys,
		idx:  make([]int, len(records)),
		buf:  make([]int, len(records)),
	}
	for i := range st.idx {
		st.idx[i] = i
	}

	if !s.parallel(len(records)) {
		st.sortRange(0, len(records))
		s.debug("sorted records",
			"method", s.name,
			"records", len(records),
			"attributes", s.cmp.Len(),
			"mode", "sequential",
			"duration", time.Since(start))
		return st.idx, nil
	}

	if err := st.sortParallel(ctx, s.opts.Workers, s.opts.ParallelThreshold); err != nil {
		return nil, err
	}
	s.debug("sorted records",
		"method", s.name,
		"records", len(records),
		"attributes", s.cmp.Len(),
		"mode", "parallel",
		"workers", s.opts.Workers,
		"jobs", st.stats.Jobs,
		"busy", st.stats.Busy,
		"duration", time.Since(start))
	return st.idx, nil
}

func (s *Sorter) parallel(n int) bool {
	return s.opts.ParallelThreshold > 0 && s.opts.Workers > 1 && n > s.opts.ParallelThreshold
}

// resolve computes every record's keys in input order and stops at the first error.
func (s *Sorter) resolve(records []Record) ([][]key, error) {
	n := s.cmp.Len()
	backing := make([]key, len(records)*n)
	keys := make([][]key, len(records))
	for i, rec := range records {
		k, err := s.cmp.keys(rec, backing[i*n:(i+1)*n:(i+1)*n])
		if err != nil {
			var ee *EvaluationError
			if errors.As(err, &ee) {
				ee.Index = i
				ee.RecordID = RecordID(rec, s.opts.IDField, i)
			}
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

func (s *Sorter) debug(msg string, keyvals ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger.Debug(msg, keyvals...)
	}
}

// sortState is the working set of one sort call. Concurrent merges touch
// disjoint ranges of idx and buf.
type sortState struct {
	cmp   *Comparator
	keys  [][]key
	idx   []int
	buf   []int
	stats parallel.Stats
}

func (st *sortState) compare(a, b int) int {
	return st.cmp.compareKeys(st.keys[a], st.keys[b])
}

// sortRange is a stable top-down merge sort of idx[lo:hi].
func (st *sortState) sortRange(lo, hi int) {
	if hi-lo <= insertionCutoff {
		st.insertionSort(lo, hi)
		return
	}
	mid := lo + (hi-lo)/2
	st.sortRange(lo, mid)
	st.sortRange(mid, hi)
	st.merge(lo, mid, hi)
}

func (st *sortState) insertionSort(lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && st.compare(st.idx[j-1], st.idx[j]) > 0; j-- {
			st.idx[j-1], st.idx[j] = st.idx[j], st.idx[j-1]
		}
	}
}

// merge merges the sorted runs idx[lo:mid] and idx[mid:hi]. Ties take the
// left element, which preserves input order.
func (st *sortState) merge(lo, mid, hi int) {
	copy(st.buf[lo:hi], st.idx[lo:hi])
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if st.compare(st.buf[j], st.buf[i]) < 0 {
			st.idx[k] = st.buf[j]
			j++
		} else {
			st.idx[k] = st.buf[i]
			i++
		}
		k++
	}
	k += copy(st.idx[k:], st.buf[i:mid])
	copy(st.idx[k:hi], st.buf[j:hi])
}

// segment is a node of the merge-sort recursion tree.
type segment struct {
	lo, mid, hi int
	depth       int
}

// sortParallel splits the range exactly as sortRange would, sorts segments no
// larger than threshold concurrently, then merges one tree level per pass,
// deepest first.
func (st *sortState) sortParallel(ctx context.Context, workers, threshold int) error {
	var leaves, merges []segment
	var split func(lo, hi, depth int)
	split = func(lo, hi, depth int) {
		if hi-lo <= threshold || hi-lo <= insertionCutoff {
			leaves = append(leaves, segment{lo: lo, hi: hi, depth: depth})
			return
		}
		mid := lo + (hi-lo)/2
		merges = append(merges, segment{lo: lo, mid: mid, hi: hi, depth: depth})
		split(lo, mid, depth+1)
		split(mid, hi, depth+1)
	}
	split(0, len(st.idx), 0)

	jobs := make([]func() error, len(leaves))
	for i, seg := range leaves {
		seg := seg
		jobs[i] = func() error {
			st.sortRange(seg.lo, seg.hi)
			return nil
		}
	}
	stats, err := parallel.Run(ctx, workers, jobs)
	st.stats.Add(stats)
	if err != nil {
		return fmt.Errorf("sort segments: %w", err)
	}

	maxDepth := 0
	for _, seg := range merges {
		if seg.depth > maxDepth {
			maxDepth = seg.depth
		}
	}
	for depth := maxDepth; depth >= 0 && len(merges) > 0; depth-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		jobs = jobs[:0]
		for _, seg := range merges {
			if seg.depth != depth {
				continue
			}
			seg := seg
			jobs = append(jobs, func() error {
				st.merge(seg.lo, seg.mid, seg.hi)
				return nil
			})
		}
		stats, err := parallel.Run(ctx, workers, jobs)
		st.stats.Add(stats)
		if err != nil {
			return fmt.Errorf("merge pass %d: %w", depth, err)
		}
	}
	return nil
}
