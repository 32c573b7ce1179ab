package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/enstruman/enstruman/pkg/audio"
	"github.com/enstruman/enstruman/pkg/classifier"
	"github.com/enstruman/enstruman/pkg/labels"
	"github.com/enstruman/enstruman/pkg/trace"
)

// ErrModelUnavailable reports that the classifier or its label table is
// missing or unusable. Collaborators must be able to tell this apart from
// an empty verdict, which is a normal outcome.
var ErrModelUnavailable = errors.New("analysis: model unavailable")

// Verdict is the final ordered list of distinct labels, at most the
// profile's TopK entries. An empty verdict is the explicit "no confident
// detection" result.
type Verdict []string

// Detected reports whether the verdict carries any label.
func (v Verdict) Detected() bool { return len(v) > 0 }

// Analyzer runs the pipeline for one loaded model. The classifier and
// label table are read-only after construction, so one Analyzer may serve
// concurrent recordings; each Analyze call works exclusively on buffers it
// creates itself.
type Analyzer struct {
	cls     classifier.Classifier
	table   labels.Table
	profile Profile

	mu       sync.Mutex
	loaded   bool
	frameCfg audio.FrameConfig
}

// NewAnalyzer wires a classifier and its label table to a variant profile.
func NewAnalyzer(cls classifier.Classifier, table labels.Table, profile Profile) (*Analyzer, error) {
	if cls == nil {
		return nil, fmt.Errorf("%w: no classifier", ErrModelUnavailable)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty label table", ErrModelUnavailable)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cls: cls, table: table, profile: profile}, nil
}

// Load resolves the frame geometry from the classifier's declared input
// size. It is idempotent: once the analyzer is loaded, repeated calls are
// no-ops. Analyze calls it implicitly.
func (a *Analyzer) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loaded {
		return nil
	}

	frameLength := a.profile.FrameLength
	if frameLength == 0 {
		frameLength = a.cls.InputLength()
	}
	if frameLength <= 0 {
		return fmt.Errorf("%w: model declares no input length", ErrModelUnavailable)
	}

	hop := int(float64(frameLength) * a.profile.HopFraction)
	if hop < 1 {
		hop = 1
	}

	a.frameCfg = audio.FrameConfig{
		Length:    frameLength,
		Hop:       hop,
		MaxFrames: a.profile.MaxFrames,
	}
	a.loaded = true
	return nil
}

// Profile returns the variant descriptor the analyzer runs with.
func (a *Analyzer) Profile() Profile { return a.profile }

// Analyze classifies one complete WAV recording. It always returns a
// (possibly empty) verdict for decodable and undecodable input alike; the
// error is non-nil only when the classifier itself fails, which callers
// surface as "analysis error" rather than "nothing detected".
func (a *Analyzer) Analyze(ctx context.Context, wav []byte) (Verdict, error) {
	if err := a.Load(); err != nil {
		return nil, err
	}

	_, span := trace.StartSpan(ctx, "analysis.analyze")
	defer span.End()
	span.SetAttributes(trace.Profile(a.profile.Name))

	sig, err := audio.DecodeWAV(wav)
	if err != nil {
		// Malformed input is recoverable: the recording yields no
		// detection, the analyzer stays usable.
		log.Printf("analysis: wav decode failed: %v", err)
		span.SetAttributes(trace.Outcome("decode_failure"))
		return Verdict{}, nil
	}
	sig = audio.Resample(sig, audio.TargetSampleRate)
	span.SetAttributes(trace.ClipSeconds(sig.Duration()))

	clipLevel := audio.DBFS(sig.Samples)
	span.SetAttributes(trace.ClipLevelDB(clipLevel))
	if clipLevel < a.profile.ClipGateDB {
		span.SetAttributes(trace.Outcome("no_detection"))
		return Verdict{}, nil
	}

	frames := audio.SplitFrames(sig.Samples, a.frameCfg)
	span.SetAttributes(trace.FramesTotal(len(frames)))

	agg := NewScoreAggregator(a.cls.NumClasses())
	for _, frame := range frames {
		if audio.DBFS(frame.Samples[:frame.Occupancy]) < a.profile.FrameGateDB {
			continue
		}
		scores, err := a.cls.Infer(frame.Samples)
		if err != nil {
			trace.RecordError(span, err)
			span.SetAttributes(trace.Outcome("error"))
			return nil, fmt.Errorf("analysis: classifier: %w", err)
		}
		agg.Add(scores)
	}
	span.SetAttributes(trace.FramesScored(agg.FrameCount()))

	avg := agg.Average()
	if avg == nil {
		// Every frame was silent or the clip too short.
		span.SetAttributes(trace.Outcome("no_detection"))
		return Verdict{}, nil
	}

	verdict := Verdict(Decide(avg, a.table, a.profile))
	if verdict == nil {
		verdict = Verdict{}
	}
	span.SetAttributes(trace.VerdictLabels(len(verdict)))
	if verdict.Detected() {
		span.SetAttributes(trace.Outcome("verdict"))
	} else {
		span.SetAttributes(trace.Outcome("no_detection"))
	}
	return verdict, nil
}
