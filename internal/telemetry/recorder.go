// Package telemetry records engine events as CSV and summarizes a run.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/tomz197/buzz/internal/game"
)

// EventRow is one line of events.csv.
type EventRow struct {
	Time     float64 `csv:"time"`
	Event    string  `csv:"event"`
	ID       uint64  `csv:"id"`
	Flower   string  `csv:"flower"`
	Role     string  `csv:"role"`
	Lane     string  `csv:"lane"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Full     bool    `csv:"full"`
	Carried  int     `csv:"carried"`
	Score    int     `csv:"score"`
	Interval float64 `csv:"interval"`
}

func rowFor(ev game.Event) EventRow {
	row := EventRow{
		Time:    ev.Time,
		Event:   ev.Type.String(),
		ID:      uint64(ev.Object.ID),
		Flower:  ev.Object.Definition.IDName,
		X:       ev.Object.X,
		Y:       ev.Object.Y,
		Full:    ev.Object.Full(),
		Carried: ev.Carried,
		Score:   ev.Score,
	}
	if row.Flower != "" {
		row.Role = ev.Object.Definition.Role()
	}
	switch ev.Type {
	case game.EventSpawned:
		row.Lane = ev.Lane.String()
		row.Interval = ev.Interval
	case game.EventVisualState:
		row.Full = ev.Full
	}
	return row
}

// Recorder is an engine observer that writes every event as a CSV row and
// keeps the running numbers for a Summary. A nil writer only summarizes.
type Recorder struct {
	w             io.Writer
	file          *os.File
	headerWritten bool
	err           error

	stats tally
}

var _ game.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Open creates dir and a recorder writing to dir/events.csv.
// Returns nil if dir is empty (recording disabled).
func Open(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	r := NewRecorder(f)
	r.file = f
	return r, nil
}

// Notify records ev. After the first write error, rows are no longer written
// but the summary keeps counting; Err reports the failure.
func (r *Recorder) Notify(ev game.Event) {
	if r == nil {
		return
	}
	r.stats.add(ev)
	if r.w == nil || r.err != nil {
		return
	}

	records := []EventRow{rowFor(ev)}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			r.err = fmt.Errorf("writing event: %w", err)
			return
		}
		r.headerWritten = true
		return
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		r.err = fmt.Errorf("writing event: %w", err)
	}
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}

// Summary returns the statistics collected so far.
func (r *Recorder) Summary() Summary {
	if r == nil {
		return Summary{}
	}
	return r.stats.summary()
}

// Close closes the file opened by Open.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return r.Err()
	}
	if err := r.file.Close(); err != nil {
		return err
	}
	return r.err
}
