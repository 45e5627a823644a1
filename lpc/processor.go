package lpc

import (
	"errors"
	"io"

	"lpcdec/common"
)

// SampleSource supplies an ordered, gap-free stream of capture samples.
// Next returns io.EOF once the stream is exhausted; any other error is an
// acquisition failure. The decoder never seeks or rewinds a source.
type SampleSource interface {
	Next() (seq uint64, sample byte, err error)
}

// CycleHandler receives decoded cycle records in stream order.
type CycleHandler func(cycle *DecodedCycle)

// Processor drives a Decoder from a sample source. One sample is pulled
// and fully processed before the next, so handlers observe cycles in
// non-decreasing sequence-number order.
type Processor struct {
	decoder *Decoder
	log     common.Logger
}

// NewProcessor creates a processor around the given decoder.
func NewProcessor(decoder *Decoder) *Processor {
	return &Processor{decoder: decoder, log: common.NewNoOpLogger()}
}

// NewProcessorWithLogger creates a processor with a custom logger.
func NewProcessorWithLogger(decoder *Decoder, log common.Logger) *Processor {
	return &Processor{decoder: decoder, log: log}
}

// Decoder returns the underlying decoder.
func (p *Processor) Decoder() *Decoder {
	return p.decoder
}

// Run pulls samples from src until end of stream, handing each decoded
// cycle to handler. It stops cleanly at io.EOF; a cycle still in flight at
// that point is never reported. Source errors and decoder defects are
// returned as is, so callers can tell an acquisition failure from a
// decoder bug.
func (p *Processor) Run(src SampleSource, handler CycleHandler) error {
	for {
		seq, sample, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cyc, err := p.decoder.ProcessSample(seq, sample)
		if cyc != nil && handler != nil {
			handler(cyc)
		}
		if err != nil {
			p.log.Error(err)
			return err
		}
	}
}

// Collect runs the processor and gathers all decoded cycles in order.
func (p *Processor) Collect(src SampleSource) ([]*DecodedCycle, error) {
	var cycles []*DecodedCycle
	err := p.Run(src, func(cyc *DecodedCycle) {
		cycles = append(cycles, cyc)
	})
	return cycles, err
}
