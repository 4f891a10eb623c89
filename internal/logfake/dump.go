// pattern: Imperative Shell

package logfake

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DumpRecord is the plain-data form of an Entry handed to a Printer. Field
// order is fixed.
type DumpRecord struct {
	Level          Level   `yaml:"level"`
	Message        any     `yaml:"message"`
	Context        Context `yaml:"context"`
	TimesForgotten int     `yaml:"times_channel_has_been_forgotten_at_time_of_writing_log"`
	Channel        string  `yaml:"channel"`
}

// Printer receives dumped records.
type Printer interface {
	Print(records []DumpRecord) error
}

// YAMLPrinter writes records as a YAML sequence.
type YAMLPrinter struct {
	w io.Writer
}

// NewYAMLPrinter returns a printer writing to w, or to stderr when w is nil.
func NewYAMLPrinter(w io.Writer) *YAMLPrinter {
	if w == nil {
		w = os.Stderr
	}
	return &YAMLPrinter{w: w}
}

// Print encodes records to the printer's writer.
func (p *YAMLPrinter) Print(records []DumpRecord) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if records == nil {
		records = []DumpRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode dump: %w", err)
	}
	return enc.Close()
}

// Record converts e to its dump form. Errors and Stringers are printed by
// their text.
func (e Entry) Record() DumpRecord {
	message := e.Message
	switch m := message.(type) {
	case error:
		message = m.Error()
	case fmt.Stringer:
		message = m.String()
	}
	return DumpRecord{
		Level:          e.Level,
		Message:        message,
		Context:        e.Context,
		TimesForgotten: e.TimesForgotten,
		Channel:        e.Channel,
	}
}

func records(entries []Entry, preds []Predicate) []DumpRecord {
	out := make([]DumpRecord, 0, len(entries))
	for _, e := range entries {
		if e.accepts(preds) {
			out = append(out, e.Record())
		}
	}
	return out
}

func (s *Store) print(recs []DumpRecord) {
	if err := s.printer.Print(recs); err != nil {
		s.t.Errorf("logfake: dump failed: %v", err)
	}
}

func (s *Store) dump(name string, preds []Predicate) {
	s.print(records(s.snapshot(name), preds))
}

// Dump prints the current channel's entries accepted by preds.
func (s *Store) Dump(preds ...Predicate) *Store {
	s.dump(s.CurrentChannel(), preds)
	return s
}

// DumpAll prints every entry accepted by preds, across all channels.
func (s *Store) DumpAll(preds ...Predicate) *Store {
	s.print(records(s.AllEntries(), preds))
	return s
}
