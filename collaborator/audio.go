// Package collaborator implements the external collaborators consumed by
// the built-in pipeline components through the uniform contracts described
// in spec.md §6: audio capture, speech-to-text, text-to-speech, LLM
// connectors, cache, parental control, and content filter. The engine core
// never imports this package directly — components do, via the Context
// slots defined in pipeline.Context.
package collaborator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Audio captures microphone input and produces a processed artifact ready
// for transcription, matching spec.md §6's "Audio capture: record(duration)
// → artifact_path | null".
type Audio interface {
	Record(ctx context.Context, duration time.Duration) (string, error)
}

// AudioConfig configures the RecorderAudio collaborator. RecordBin is an
// external capture utility (arecord/sox-style: writes a WAV to the path
// given as its last argument); the real audio stack — device selection,
// resampling, noise gating — is the job of that external tool, the same
// division of responsibility the Python original draws between
// AudioProcessor and the OS audio backend it shells out to indirectly via
// sounddevice/PortAudio.
type AudioConfig struct {
	RecordBin  string `json:"record_bin" default:"arecord"`
	SampleRate int    `json:"sample_rate" default:"16000" validate:"gt=0"`
	Channels   int    `json:"channels" default:"1" validate:"gt=0"`
	OutputDir  string `json:"output_dir"`
}

// RecorderAudio implements Audio by shelling out to RecordBin, the same
// "invoke an external capture binary, write a timestamped WAV" shape as
// kidsvoiceai/audio/processor.py's AudioProcessor.start_recording.
type RecorderAudio struct {
	cfg AudioConfig
}

func NewRecorderAudio(configFile string) (*RecorderAudio, error) {
	cfg := AudioConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(os.TempDir(), "movatalk", "audio")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio output dir: %w", err)
	}
	return &RecorderAudio{cfg: cfg}, nil
}

func (a *RecorderAudio) Record(ctx context.Context, duration time.Duration) (string, error) {
	outPath := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("recording_%d.wav", time.Now().UnixNano()))

	cmd := exec.CommandContext(ctx, a.cfg.RecordBin,
		"-r", fmt.Sprintf("%d", a.cfg.SampleRate),
		"-c", fmt.Sprintf("%d", a.cfg.Channels),
		"-d", fmt.Sprintf("%d", int(duration.Seconds())),
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("recording audio: %w: %s", err, stderr.String())
	}
	return outPath, nil
}
