package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bromq-dev/mqttcodec/pkg/packet"
)

// Result is the outcome of checking one stored fixture.
type Result struct {
	Name string
	Type string
	Err  error
}

// Report collects the results of a verification run.
type Report struct {
	Results []Result
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every failure into one error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
	}
	return errors.Join(errs...)
}

// Verify loads the manifest from sink and checks every listed fixture: the
// stored bytes must match the recorded checksum, decode as exactly one packet
// of the recorded kind, and encode back to the same bytes.
//
// Per-fixture problems are reported in the Report; the returned error is
// reserved for failures that stop the run, such as a missing manifest.
func Verify(ctx context.Context, sink Sink, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m, err := ReadManifest(ctx, sink)
	if err != nil {
		return nil, err
	}

	report := &Report{Results: make([]Result, 0, len(m.Entries))}
	for _, e := range m.Entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := Result{Name: e.Name, Type: e.Type, Err: verifyEntry(ctx, sink, e)}
		if res.Err != nil {
			logger.Warn("fixture failed verification", "fixture", e.Name, "error", res.Err)
		} else {
			logger.Debug("fixture verified", "fixture", e.Name, "bytes", e.Size)
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("fixtures verified",
		"checked", len(report.Results),
		"failed", len(report.Failed()),
	)
	return report, nil
}

func verifyEntry(ctx context.Context, sink Sink, e Entry) error {
	data, err := sink.Get(ctx, e.Name)
	if err != nil {
		return err
	}
	if len(data) != e.Size || Checksum(data) != e.Checksum {
		return fmt.Errorf("%w: %d bytes", ErrChecksumMismatch, len(data))
	}
	return VerifyBytes(data, e.Type)
}

// VerifyBytes checks that data holds exactly one packet of the named kind
// whose encoding reproduces data. An empty kind skips the kind check.
func VerifyBytes(data []byte, kind string) error {
	p, err := packet.Unmarshal(data)
	if err != nil {
		return err
	}
	if kind != "" && p.Type().String() != kind {
		return fmt.Errorf("%w: stored %s, decoded %s", ErrTypeMismatch, kind, p.Type())
	}

	encoded, err := packet.Encode(p)
	if err != nil {
		return err
	}
	if !bytes.Equal(encoded, data) {
		return fmt.Errorf("%w: %d bytes stored, %d re-encoded", ErrReencodeMismatch, len(data), len(encoded))
	}
	return nil
}
