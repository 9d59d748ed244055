package sim

import (
	"sync"
	"sync/atomic"
	"time"
)

// ADC returns a settable raw value. Ready=false simulates a poll timeout.
type ADC struct {
	raw     atomic.Uint32
	stuck   atomic.Bool
	Starts  atomic.Uint32
	Stops   atomic.Uint32
	pending atomic.Bool
}

func NewADC(raw uint16) *ADC {
	a := &ADC{}
	a.raw.Store(uint32(raw))
	return a
}

func (a *ADC) Set(raw uint16)    { a.raw.Store(uint32(raw)) }
func (a *ADC) SetStuck(b bool)   { a.stuck.Store(b) }
func (a *ADC) StartConversion()  { a.Starts.Add(1); a.pending.Store(true) }
func (a *ADC) StopConversion()   { a.Stops.Add(1); a.pending.Store(false) }
func (a *ADC) ReadValue() uint16 { return uint16(a.raw.Load()) }

func (a *ADC) PollReady(time.Duration) bool {
	return a.pending.Load() && !a.stuck.Load()
}

// Pin is a plain settable digital level, usable as hal.Output or hal.Button.
type Pin struct {
	level   atomic.Bool
	Toggles atomic.Uint32
}

func NewPin(level bool) *Pin {
	p := &Pin{}
	p.level.Store(level)
	return p
}

func (p *Pin) Set(level bool) {
	if p.level.Swap(level) != level {
		p.Toggles.Add(1)
	}
}

func (p *Pin) Get() bool { return p.level.Load() }

// Display is a character grid that records what was last drawn.
type Display struct {
	mu       sync.Mutex
	rows     [][]byte
	row, col int
	Clears   int
}

func NewDisplay(cols, rows int) *Display {
	d := &Display{rows: make([][]byte, rows)}
	for i := range d.rows {
		d.rows[i] = make([]byte, cols)
	}
	d.blank()
	return d
}

func (d *Display) blank() {
	for _, r := range d.rows {
		for i := range r {
			r[i] = ' '
		}
	}
}

func (d *Display) Clear() {
	d.mu.Lock()
	d.blank()
	d.row, d.col = 0, 0
	d.Clears++
	d.mu.Unlock()
}

func (d *Display) SetCursor(row, col int) {
	d.mu.Lock()
	d.row, d.col = row, col
	d.mu.Unlock()
}

func (d *Display) WriteString(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.row < 0 || d.row >= len(d.rows) {
		return
	}
	r := d.rows[d.row]
	for i := 0; i < len(s) && d.col < len(r); i++ {
		if d.col >= 0 {
			r[d.col] = s[i]
		}
		d.col++
	}
}

// Line returns row n as currently shown.
func (d *Display) Line(n int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 || n >= len(d.rows) {
		return ""
	}
	return string(d.rows[n])
}

// Sink records every transmitted chunk.
type Sink struct {
	mu     sync.Mutex
	chunks []string
}

func (s *Sink) Transmit(b []byte) {
	s.mu.Lock()
	s.chunks = append(s.chunks, string(b))
	s.mu.Unlock()
}

func (s *Sink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.chunks))
	copy(out, s.chunks)
	return out
}
