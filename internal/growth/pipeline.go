package growth

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("pipeline already finished")

const maxLineLength = 1024 * 1024

type State int

const (
	Reading State = iota
	Finalizing
	Ranking
	Reporting
	Done
)

func (s State) String() string {
	switch s {
	case Reading:
		return "reading"
	case Finalizing:
		return "finalizing"
	case Ranking:
		return "ranking"
	case Reporting:
		return "reporting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Stats struct {
	Lines      int `json:"lines"`
	Qualifying int `json:"qualifying"`
	Skipped    int `json:"skipped"`
	Regions    int `json:"regions"`
}

type Report struct {
	Entries    []Entry
	Lines      []string
	Stats      Stats
	Duplicates []Duplicate
}

type Option func(*Pipeline)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline owns the accumulator for the whole run. Lines are ingested one
// at a time in delivery order; Finish is the only way out of Reading.
type Pipeline struct {
	opts    Options
	decoder *Decoder
	acc     *Accumulator
	logger  *zap.Logger
	state   State
	stats   Stats
}

func New(opts Options, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		opts:    opts,
		decoder: NewDecoder(opts),
		acc:     NewAccumulator(opts.EarlierYear, opts.LaterYear),
		logger:  zap.NewNop(),
		state:   Reading,
	}
	for _, apply := range options {
		apply(p)
	}
	return p, nil
}

func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) Ingest(raw string) error {
	if p.state != Reading {
		return ErrClosed
	}
	p.stats.Lines++

	line := p.decoder.Decode(raw)
	if !p.decoder.Qualifies(line) {
		p.stats.Skipped++
		p.logger.Debug("skipping line", zap.Int("line", p.stats.Lines), zap.Stringer("year", line.Year))
		return nil
	}
	p.stats.Qualifying++

	before := len(p.acc.Duplicates())
	p.acc.Ingest(line.Region, line.Year.N, line.Population)
	if dups := p.acc.Duplicates(); len(dups) > before {
		dup := dups[len(dups)-1]
		p.logger.Warn("duplicate region/year, keeping last value",
			zap.Int("line", p.stats.Lines),
			zap.String("region", dup.Region),
			zap.Int64("year", dup.Year),
			zap.Stringer("previous", dup.Previous),
			zap.Stringer("current", dup.Current))
	}
	return nil
}

// Finish marks the end of input and produces the ranked report.
func (p *Pipeline) Finish() (*Report, error) {
	if p.state != Reading {
		return nil, ErrClosed
	}

	p.transition(Finalizing)
	records := p.acc.Records()
	Finalize(records)

	p.transition(Ranking)
	entries, err := Rank(records)
	if err != nil {
		p.transition(Done)
		return nil, fmt.Errorf("rank: %w", err)
	}

	p.transition(Reporting)
	stats := p.stats
	stats.Regions = p.acc.Len()
	report := &Report{
		Entries:    entries,
		Lines:      Format(entries),
		Stats:      stats,
		Duplicates: p.acc.Duplicates(),
	}

	p.transition(Done)
	return report, nil
}

func (p *Pipeline) transition(next State) {
	p.logger.Debug("pipeline state", zap.Stringer("from", p.state), zap.Stringer("to", next))
	p.state = next
}

// ReadLines calls fn for every line of r in order, stopping at the first
// error fn returns.
func ReadLines(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}

func Run(r io.Reader, opts Options, options ...Option) (*Report, error) {
	p, err := New(opts, options...)
	if err != nil {
		return nil, err
	}
	if err := ReadLines(r, p.Ingest); err != nil {
		return nil, err
	}
	return p.Finish()
}
