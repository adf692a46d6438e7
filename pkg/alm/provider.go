package alm

import (
	"context"
	"encoding/json"

	"audio-insight-be/pkg/transport"
)

// ChatResult is the structured answer returned by the model's conversational
// entrypoint. Error is set when the model itself reports a failure inside an
// otherwise well-formed response.
type ChatResult struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	ModelUsed string `json:"model_used,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Option allows optional processing parameters (speaker bounds, artifacts).
type Option func(*Options)

type Options struct {
	MinSpeakers      int
	MaxSpeakers      int
	SavePreprocessed bool
}

// WithSpeakerBounds sets the diarization speaker search range.
func WithSpeakerBounds(min, max int) Option {
	return func(o *Options) {
		o.MinSpeakers = min
		o.MaxSpeakers = max
	}
}

// WithPreprocessedCopy controls whether the model keeps its preprocessed wav.
func WithPreprocessedCopy(keep bool) Option {
	return func(o *Options) {
		o.SavePreprocessed = keep
	}
}

// Provider defines the contract for the external audio-language model. The
// core only consumes this interface; the model's internals stay out of
// scope.
type Provider interface {
	// ProcessAudio runs transcription and diarization over the staged file
	// and returns the raw nested result structure as the model produced it.
	ProcessAudio(ctx context.Context, path string, opts ...Option) (json.RawMessage, error)

	// Chat forwards a question plus previously produced results to the
	// model's conversational entrypoint.
	Chat(ctx context.Context, question string, results transport.Value) (*ChatResult, error)

	// ChatAvailable reports whether the conversational entrypoint is usable
	// (it depends on the model side holding reasoning-engine credentials).
	ChatAvailable(ctx context.Context) bool
}
