package vtterm

import (
	"sort"
	"strings"
)

// DefaultFindBatchSize is how many rows a find scan examines per batch.
const DefaultFindBatchSize = 50

// RowTextProvider is the read-only view the find index scans: the
// Terminal's row-provider surface restricted to text.
type RowTextProvider interface {
	RowCount() int
	GetRowText(index int) string
}

// Scheduler defers a find-batch continuation so the scan stays cooperative.
// It returns a cancel function. The default scheduler runs the continuation
// immediately, which makes Start a full synchronous scan.
type Scheduler func(fn func()) (cancel func())

func syncScheduler(fn func()) (cancel func()) {
	fn()
	return func() {}
}

// FindOption configures a Find at construction.
type FindOption func(*Find)

// WithFindScheduler sets how batch continuations are deferred.
func WithFindScheduler(s Scheduler) FindOption {
	return func(f *Find) {
		if s != nil {
			f.schedule = s
		}
	}
}

// WithFindBatch sets the rows-per-batch count. Values <= 0 keep the default.
func WithFindBatch(n int) FindOption {
	return func(f *Find) {
		if n > 0 {
			f.batch = n
		}
	}
}

// Find is the case-insensitive substring index over the terminal's rows:
// scrollback first, then the visible screen. Scanning runs in batches, each
// continuation handed to the Scheduler; with a deferring scheduler a large
// scrollback does not block the caller, while the default scheduler runs
// every batch inside Start. Results accumulate in a map of per-row match
// offsets plus a sorted index of hit rows.
type Find struct {
	rows     RowTextProvider
	schedule Scheduler
	batch    int

	query   string
	matches map[int][]int
	hitRows []int
	next    int
	done    bool
	total   int

	pending func()
	closed  bool

	selRow     int
	selOff     int // offset index within the selected row's matches
	selOrdinal int
	selected   bool
}

// NewFind returns an index over rows. The zero configuration scans
// synchronously in batches of DefaultFindBatchSize.
func NewFind(rows RowTextProvider, opts ...FindOption) *Find {
	f := &Find{
		rows:     rows,
		schedule: syncScheduler,
		batch:    DefaultFindBatchSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.resetResults()
	return f
}

func (f *Find) resetResults() {
	f.matches = make(map[int][]int)
	f.hitRows = nil
	f.next = 0
	f.done = false
	f.total = 0
	f.selected = false
	f.selRow = 0
	f.selOff = 0
	f.selOrdinal = 0
}

// Start resets any previous search and begins scanning for text. An empty
// query just clears the index.
func (f *Find) Start(text string) {
	f.Stop()
	f.resetResults()
	f.query = strings.ToLower(text)
	if f.query == "" || f.closed {
		f.done = true
		return
	}
	f.scanBatch()
}

// Stop cancels any pending batch and freezes the current results.
func (f *Find) Stop() {
	if f.pending != nil {
		f.pending()
		f.pending = nil
	}
}

// Close stops the scan permanently; a late batch completion self-cancels.
func (f *Find) Close() {
	f.Stop()
	f.closed = true
}

// scanBatch examines the next batch of rows, then schedules itself until
// the row range is exhausted.
func (f *Find) scanBatch() {
	f.pending = nil
	if f.closed {
		return
	}

	end := f.next + f.batch
	if count := f.rows.RowCount(); end > count {
		end = count
	}
	for ; f.next < end; f.next++ {
		offsets := findAll(strings.ToLower(f.rows.GetRowText(f.next)), f.query)
		if len(offsets) == 0 {
			continue
		}
		f.matches[f.next] = offsets
		f.hitRows = append(f.hitRows, f.next)
		f.total += len(offsets)
	}

	if f.next >= f.rows.RowCount() {
		f.done = true
		return
	}
	f.pending = f.schedule(f.scanBatch)
}

// findAll returns every occurrence offset of query in text (both already
// lower-cased), allowing overlapping hits to start past each other.
func findAll(text, query string) []int {
	var offsets []int
	for from := 0; ; {
		i := strings.Index(text[from:], query)
		if i < 0 {
			return offsets
		}
		offsets = append(offsets, from+i)
		from += i + 1
	}
}

// Done reports whether the scan has covered every row.
func (f *Find) Done() bool { return f.done }

// Total returns the number of hits across all batched rows so far.
func (f *Find) Total() int { return f.total }

// Ordinal returns the 0-based position of the selection across all hits,
// or -1 when nothing is selected.
func (f *Find) Ordinal() int {
	if !f.selected {
		return -1
	}
	return f.selOrdinal
}

// Selection returns the selected hit's absolute row and offset within that
// row's text.
func (f *Find) Selection() (row, offset int, ok bool) {
	if !f.selected {
		return 0, 0, false
	}
	return f.selRow, f.matches[f.selRow][f.selOff], true
}

// Matches returns the match offsets recorded for an absolute row.
func (f *Find) Matches(row int) []int {
	return f.matches[row]
}

// Next advances the selection to the following hit in ascending row order,
// wrapping at the end. With no hits it does nothing.
func (f *Find) Next() {
	if len(f.hitRows) == 0 {
		return
	}
	if !f.selected {
		f.selectHit(0, 0)
		return
	}
	if f.selOff+1 < len(f.matches[f.selRow]) {
		f.selectHit(f.hitIndex(f.selRow), f.selOff+1)
		return
	}
	i := f.hitIndex(f.selRow) + 1
	if i >= len(f.hitRows) {
		i = 0
	}
	f.selectHit(i, 0)
}

// Prev moves the selection to the preceding hit, wrapping at the start.
func (f *Find) Prev() {
	if len(f.hitRows) == 0 {
		return
	}
	if !f.selected {
		last := len(f.hitRows) - 1
		f.selectHit(last, len(f.matches[f.hitRows[last]])-1)
		return
	}
	if f.selOff > 0 {
		f.selectHit(f.hitIndex(f.selRow), f.selOff-1)
		return
	}
	i := f.hitIndex(f.selRow) - 1
	if i < 0 {
		i = len(f.hitRows) - 1
	}
	f.selectHit(i, len(f.matches[f.hitRows[i]])-1)
}

// hitIndex binary-searches the sorted hit-row index for row.
func (f *Find) hitIndex(row int) int {
	return sort.SearchInts(f.hitRows, row)
}

// selectHit sets the selection to offset off of the i-th hit row and
// recomputes the ordinal against the currently batched rows.
func (f *Find) selectHit(i, off int) {
	f.selRow = f.hitRows[i]
	f.selOff = off
	ordinal := 0
	for _, row := range f.hitRows[:i] {
		ordinal += len(f.matches[row])
	}
	f.selOrdinal = ordinal + off
	f.selected = true
}
