package image

import "context"

// Runner is the contract the synthesizer needs from a prediction backend.
type Runner interface {
	Run(ctx context.Context, version string, input any) ([]string, error)
}

// Input is the SDXL request payload. Every field other than Prompt is fixed by
// DefaultInput and never caller-tunable.
type Input struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	Prompt            string  `json:"prompt"`
	Refine            string  `json:"refine"`
	Scheduler         string  `json:"scheduler"`
	LoraScale         float64 `json:"lora_scale"`
	NumOutputs        int     `json:"num_outputs"`
	GuidanceScale     float64 `json:"guidance_scale"`
	ApplyWatermark    bool    `json:"apply_watermark"`
	HighNoiseFrac     float64 `json:"high_noise_frac"`
	NegativePrompt    string  `json:"negative_prompt"`
	PromptStrength    float64 `json:"prompt_strength"`
	NumInferenceSteps int     `json:"num_inference_steps"`
}

// DefaultInput returns the fixed rendering configuration for prompt.
func DefaultInput(prompt string) Input {
	return Input{
		Width:             768,
		Height:            768,
		Prompt:            prompt,
		Refine:            "expert_ensemble_refiner",
		Scheduler:         "K_EULER",
		LoraScale:         0.6,
		NumOutputs:        1,
		GuidanceScale:     7.5,
		ApplyWatermark:    false,
		HighNoiseFrac:     0.8,
		NegativePrompt:    "",
		PromptStrength:    0.8,
		NumInferenceSteps: 25,
	}
}
