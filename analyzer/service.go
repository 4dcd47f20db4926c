package analyzer

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
)

// Service owns the session state: the current result set, its overlay boxes
// and the decode generation used to discard stale outcomes.
type Service struct {
	decoder    Decoder
	diagnostic string
	logger     *log.Logger

	cfgMu sync.RWMutex
	cfg   Config

	mu    sync.Mutex
	gen   uint64
	rows  []ResultRow
	boxes []Rect
}

// Outcome carries the applied (or discarded) result of one decode run.
type Outcome struct {
	Rows    []ResultRow
	Boxes   []Rect
	Report  Report
	Applied bool // false when a newer session started while decoding
}

// NewService constructs a service. decoder may be nil when decoding is
// unavailable; diagnostic then explains why decode attempts are refused.
func NewService(decoder Decoder, diagnostic string, cfg Config, logger *log.Logger) *Service {
	cfg.ApplyDefaults()
	return &Service{decoder: decoder, diagnostic: diagnostic, cfg: cfg, logger: logger}
}

// DecoderAvailable reports whether decoding can run; when it cannot, the
// returned string names the missing capability.
func (s *Service) DecoderAvailable() (bool, string) {
	if s.decoder == nil {
		return false, s.diagnostic
	}
	return true, ""
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the configuration.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// BeginSession starts a new decode generation and discards the previous
// result set, notes included.
func (s *Service) BeginSession() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.rows = nil
	s.boxes = nil
	return s.gen
}

// Decode runs the collaborator and the result pipeline for the given
// session. The outcome replaces the service state only while the session is
// still the latest one, so a slow decode can never clobber a newer image.
func (s *Service) Decode(ctx context.Context, img image.Image, gen uint64) (Outcome, error) {
	if s.decoder == nil {
		return Outcome{}, fmt.Errorf("decoding unavailable: %s", s.diagnostic)
	}
	hits, err := s.decoder.Decode(ctx, img)
	if err != nil {
		return Outcome{}, fmt.Errorf("decode: %w", err)
	}
	rows, boxes := ProcessHits(hits)
	out := Outcome{Rows: rows, Boxes: boxes, Report: Summarize(hits, rows)}
	s.mu.Lock()
	if gen == s.gen {
		s.rows = rows
		s.boxes = boxes
		out.Applied = true
	}
	s.mu.Unlock()
	if out.Applied {
		s.logf("decoded %d Code128 hits (total %d) into %d rows", out.Report.Accepted, out.Report.Total, out.Report.Shown)
	} else {
		s.logf("discarded stale decode result (session %d)", gen)
	}
	return out, nil
}

// Rows returns a copy of the current result set.
func (s *Service) Rows() []ResultRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ResultRow(nil), s.rows...)
}

// Boxes returns a copy of the current overlay rectangles.
func (s *Service) Boxes() []Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Rect(nil), s.boxes...)
}

// SetNote updates the note of the row with the given index.
func (s *Service) SetNote(index int, note string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].Index == index {
			s.rows[i].Note = note
			return true
		}
	}
	return false
}

// ImportNotes applies a JSON note mapping to the current rows and returns
// how many rows the mapping covered. Codes and suggestions are never
// overwritten; rows absent from the mapping get their note cleared.
func (s *Service) ImportNotes(r io.Reader) (int, error) {
	notes, err := ReadNotes(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	ApplyNotes(s.rows, notes)
	n := len(s.rows)
	s.mu.Unlock()
	return n, nil
}

// ExportCSV writes the current rows as CSV.
func (s *Service) ExportCSV(w io.Writer) error {
	return WriteCSV(w, s.Rows())
}

// ExportJSON writes the current rows as JSON.
func (s *Service) ExportJSON(w io.Writer) error {
	return WriteJSON(w, s.Rows())
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
