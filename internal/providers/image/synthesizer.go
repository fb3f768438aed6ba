package image

import (
	"context"
	"errors"
	"strings"

	"notemint/internal/domain"
	"notemint/internal/infra"
)

// MaxNSFWRetries bounds how often a safety-filtered request is repeated.
// A request is attempted at most MaxNSFWRetries+1 times.
const MaxNSFWRetries = 3

const nsfwMarker = "NSFW"

// SynthesizerOptions configures a Synthesizer.
type SynthesizerOptions struct {
	Runner       Runner
	ModelVersion string
	Logger       *infra.Logger
}

// Synthesizer turns note text into a single ephemeral image URL.
type Synthesizer struct {
	runner  Runner
	version string
	logger  *infra.Logger
}

// NewSynthesizer validates opts and returns a ready synthesizer.
func NewSynthesizer(opts SynthesizerOptions) (*Synthesizer, error) {
	if opts.Runner == nil {
		return nil, errors.New("image: runner is required")
	}
	version := strings.TrimSpace(opts.ModelVersion)
	if version == "" {
		return nil, errors.New("image: model version is required")
	}
	return &Synthesizer{
		runner:  opts.Runner,
		version: version,
		logger:  infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Synthesize requests an image for prompt, starting at the given attempt
// number. Safety-filtered rejections are retried with the identical request
// until MaxNSFWRetries is reached; every other failure is returned at once.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string, attempt int) (string, error) {
	// The model gets the note text verbatim, matching the stored description.
	if NormalizePrompt(prompt) == "" {
		return "", domain.NewValidationError(domain.ErrEmptyContent, "image: prompt is empty")
	}
	if attempt < 0 {
		attempt = 0
	}
	input := DefaultInput(prompt)

	for {
		outputs, err := s.runner.Run(ctx, s.version, input)
		if err == nil {
			if len(outputs) == 0 || strings.TrimSpace(outputs[0]) == "" {
				return "", domain.NewGenerationError(domain.ErrGenerationFailed, errors.New("image: no output returned"))
			}
			s.logger.Debug().Int("attempt", attempt).Msg("image: synthesized")
			return outputs[0], nil
		}
		if !isNSFW(err) {
			return "", domain.NewGenerationError(domain.ErrGenerationFailed, err)
		}
		if attempt >= MaxNSFWRetries {
			return "", domain.NewGenerationError(domain.ErrNSFWExhausted, err)
		}
		attempt++
		s.logger.Warn().Int("attempt", attempt).Msg("image: output filtered as NSFW, retrying")
	}
}

func isNSFW(err error) bool {
	return err != nil && strings.Contains(err.Error(), nsfwMarker)
}
