package runtime

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"palletchain/primitives"
)

// ExtrinsicOutcome describes what happened to one extrinsic of a block.
type ExtrinsicOutcome struct {
	BlockNumber primitives.BlockNumber
	Index       int
	Caller      primitives.AccountID
	Pallet      string
	Call        string
	Err         error
}

func (o ExtrinsicOutcome) Succeeded() bool {
	return o.Err == nil
}

// Reporter is told about every executed extrinsic, in execution order.
type Reporter interface {
	ReportExtrinsic(ExtrinsicOutcome)
}

type ReporterFunc func(ExtrinsicOutcome)

func (f ReporterFunc) ReportExtrinsic(o ExtrinsicOutcome) {
	f(o)
}

// Tee fans every outcome out to each reporter in turn.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(o ExtrinsicOutcome) {
		for _, r := range reporters {
			r.ReportExtrinsic(o)
		}
	})
}

// LogReporter writes failed extrinsics at warn level and successful ones at
// debug level.
type LogReporter struct {
	logger log.FieldLogger
}

func NewLogReporter(logger log.FieldLogger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (l *LogReporter) ReportExtrinsic(o ExtrinsicOutcome) {
	entry := l.logger.WithFields(log.Fields{
		"block":     o.BlockNumber,
		"extrinsic": o.Index,
		"caller":    o.Caller,
		"pallet":    o.Pallet,
		"call":      o.Call,
	})
	if o.Err != nil {
		entry.WithError(o.Err).Warn("Extrinsic failed")
		return
	}
	entry.Debug("Extrinsic applied")
}

// Receipt collects the outcomes of one block.
type Receipt struct {
	BlockNumber primitives.BlockNumber `json:"block_number"`
	Outcomes    []ExtrinsicOutcome     `json:"outcomes"`
}

func (r *Receipt) ReportExtrinsic(o ExtrinsicOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes whose dispatch returned an error.
func (r *Receipt) Failed() []ExtrinsicOutcome {
	var failed []ExtrinsicOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err combines every extrinsic failure of the block, nil if all succeeded.
func (r *Receipt) Err() error {
	var err error
	for _, o := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("block %d extrinsic %d: %w", o.BlockNumber, o.Index, o.Err))
	}
	return err
}
