package vtterm

import "testing"

// sliceRows is a fixed RowTextProvider for find tests.
type sliceRows []string

func (s sliceRows) RowCount() int           { return len(s) }
func (s sliceRows) GetRowText(i int) string { return s[i] }

// manualScheduler queues batch continuations for explicit stepping.
type manualScheduler struct {
	queue []func()
}

func (m *manualScheduler) schedule(fn func()) (cancel func()) {
	m.queue = append(m.queue, fn)
	return func() {}
}

func (m *manualScheduler) step() bool {
	if len(m.queue) == 0 {
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	fn()
	return true
}

func TestFindBasic(t *testing.T) {
	rows := sliceRows{"hay", "needle here", "hay", "two needle needle"}
	f := NewFind(rows)

	f.Start("needle")

	if !f.Done() {
		t.Fatal("sync scan should finish in Start")
	}
	if got := f.Total(); got != 3 {
		t.Errorf("total = %d, want 3", got)
	}
	if got := f.Matches(1); len(got) != 1 || got[0] != 0 {
		t.Errorf("row 1 matches = %v", got)
	}
	if got := f.Matches(3); len(got) != 2 {
		t.Errorf("row 3 matches = %v", got)
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	f := NewFind(sliceRows{"NeEdLe"})

	f.Start("needle")

	if f.Total() != 1 {
		t.Errorf("total = %d", f.Total())
	}
}

func TestFindNextCyclesAscending(t *testing.T) {
	rows := sliceRows{"x needle", "hay", "needle needle", "hay", "needle"}
	f := NewFind(rows)
	f.Start("needle")

	wantRows := []int{0, 2, 2, 4, 0} // wraps at end
	for i, want := range wantRows {
		f.Next()
		row, _, ok := f.Selection()
		if !ok || row != want {
			t.Fatalf("next #%d: row = %d, want %d", i, row, want)
		}
	}
	if got := f.Ordinal(); got != 0 {
		t.Errorf("ordinal after wrap = %d, want 0", got)
	}
}

func TestFindPrevWraps(t *testing.T) {
	f := NewFind(sliceRows{"needle", "hay", "needle"})
	f.Start("needle")

	f.Prev()
	if row, _, _ := f.Selection(); row != 2 {
		t.Errorf("first prev row = %d, want last hit", row)
	}
	f.Prev()
	if row, _, _ := f.Selection(); row != 0 {
		t.Errorf("second prev row = %d, want 0", row)
	}
	f.Prev()
	if row, _, _ := f.Selection(); row != 2 {
		t.Errorf("prev wrap row = %d, want 2", row)
	}
}

func TestFindBatchedScan(t *testing.T) {
	rows := make(sliceRows, 0, 120)
	for i := 0; i < 120; i++ {
		if i%2 == 0 {
			rows = append(rows, "needle")
		} else {
			rows = append(rows, "hay")
		}
	}

	sched := &manualScheduler{}
	f := NewFind(rows, WithFindScheduler(sched.schedule), WithFindBatch(50))

	f.Start("needle")

	if f.Done() {
		t.Fatal("scan finished without stepping the scheduler")
	}
	if got := f.Total(); got != 25 {
		t.Errorf("total after first batch = %d, want 25", got)
	}

	for sched.step() {
	}

	if !f.Done() {
		t.Fatal("scan not done after draining batches")
	}
	if got := f.Total(); got != 60 {
		t.Errorf("total = %d, want 60", got)
	}
}

func TestFindMidScanCounterConsistent(t *testing.T) {
	rows := make(sliceRows, 100)
	for i := range rows {
		rows[i] = "needle"
	}

	sched := &manualScheduler{}
	f := NewFind(rows, WithFindScheduler(sched.schedule), WithFindBatch(10))
	f.Start("needle")

	// Mid-scan, ordinal+1 over total must stay consistent with the rows
	// batched so far.
	f.Next()
	if f.Ordinal() != 0 || f.Total() != 10 {
		t.Errorf("ordinal/total = %d/%d, want 0/10", f.Ordinal(), f.Total())
	}

	sched.step()
	if f.Total() != 20 {
		t.Errorf("total after second batch = %d", f.Total())
	}
}

func TestFindStartResets(t *testing.T) {
	f := NewFind(sliceRows{"needle", "other"})

	f.Start("needle")
	f.Next()
	f.Start("other")

	if got := f.Total(); got != 1 {
		t.Errorf("total = %d", got)
	}
	if _, _, ok := f.Selection(); ok {
		t.Error("selection survived restart")
	}
}

func TestFindEmptyQuery(t *testing.T) {
	f := NewFind(sliceRows{"anything"})

	f.Start("")

	if f.Total() != 0 || !f.Done() {
		t.Errorf("empty query: total=%d done=%v", f.Total(), f.Done())
	}
	f.Next() // must not panic with no hits
}

func TestFindCloseCancelsLateBatch(t *testing.T) {
	sched := &manualScheduler{}
	rows := make(sliceRows, 100)
	for i := range rows {
		rows[i] = "needle"
	}
	f := NewFind(rows, WithFindScheduler(sched.schedule), WithFindBatch(10))
	f.Start("needle")

	f.Close()
	totalAtClose := f.Total()

	// A late batch completion must self-cancel.
	for sched.step() {
	}
	if got := f.Total(); got != totalAtClose {
		t.Errorf("total advanced after close: %d -> %d", totalAtClose, got)
	}

	f.Start("needle")
	if got := f.Total(); got != 0 {
		t.Errorf("closed index scanned anyway: total = %d", got)
	}
}

func TestFindOverTerminalScrollback(t *testing.T) {
	term := New(WithSize(5, 40), WithScrollback(NewRingScrollback(1000)))
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			term.WriteString("needle " + itoa(i) + "\r\n")
		} else {
			term.WriteString("hay " + itoa(i) + "\r\n")
		}
	}

	f := term.NewFind()
	f.Start("needle")

	if !f.Done() {
		t.Fatal("sync scan not done")
	}
	if got := f.Total(); got != 100 {
		t.Errorf("total = %d, want 100", got)
	}

	f.Next()
	first, _, _ := f.Selection()
	f.Next()
	second, _, _ := f.Selection()
	if second <= first {
		t.Errorf("hits not ascending: %d then %d", first, second)
	}
}
