package collaborator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// STTErrorSentinel prefixes any text Transcribe returns on failure, so
// callers can distinguish "the model heard nothing useful" from "this
// string literally is the error", per spec.md §6's "error string begins
// with a known error sentinel" contract.
const STTErrorSentinel = "stt_error:"

// SpeechToText transcribes a recorded artifact to text.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// WhisperConfig configures WhisperSTT, mirroring movatalk/audio/stt.py's
// WhisperSTT constructor defaults (a whisper.cpp binary plus a ggml model
// file, both under ~/.movatalk/models/stt by default).
type WhisperConfig struct {
	BinaryPath string `json:"binary_path" default:"~/.movatalk/models/stt/main"`
	ModelPath  string `json:"model_path" default:"~/.movatalk/models/stt/models/ggml-tiny.bin"`
	Language   string `json:"language" default:"auto"`
}

// WhisperSTT shells out to a whisper.cpp binary, the same invocation shape
// as the Python original's subprocess.run([...]).
type WhisperSTT struct {
	cfg WhisperConfig
}

func NewWhisperSTT(configFile string) (*WhisperSTT, error) {
	cfg := WhisperConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	cfg.BinaryPath = expandHome(cfg.BinaryPath)
	cfg.ModelPath = expandHome(cfg.ModelPath)
	return &WhisperSTT{cfg: cfg}, nil
}

// NewWhisperSTTForModel builds a WhisperSTT from the stack's defaults, then
// overrides ModelPath and Language directly — for the "speech_to_text"
// component's model_path and language step params, neither of which name a
// JSON config document.
func NewWhisperSTTForModel(modelPath, language string) (*WhisperSTT, error) {
	stt, err := NewWhisperSTT("")
	if err != nil {
		return nil, err
	}
	if modelPath != "" {
		stt.cfg.ModelPath = expandHome(modelPath)
	}
	if language != "" {
		stt.cfg.Language = language
	}
	return stt, nil
}

func (w *WhisperSTT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return STTErrorSentinel + " audio file not found", nil
	}
	if _, err := os.Stat(w.cfg.BinaryPath); err != nil {
		return STTErrorSentinel + " whisper binary not found", nil
	}
	if _, err := os.Stat(w.cfg.ModelPath); err != nil {
		return STTErrorSentinel + " whisper model not found", nil
	}

	args := []string{"-m", w.cfg.ModelPath, "-f", audioPath}
	if w.cfg.Language != "" && w.cfg.Language != "auto" {
		args = append(args, "-l", w.cfg.Language)
	}

	cmd := exec.CommandContext(ctx, w.cfg.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Sprintf("%s transcription failed: %s", STTErrorSentinel, stderr.String()), nil
	}

	return extractTranscript(stdout.String()), nil
}

// extractTranscript strips whisper.cpp's "[timestamp] text" line prefixes,
// the same post-processing the Python original does line by line.
func extractTranscript(raw string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if idx := strings.Index(line, "]"); idx != -1 {
			b.WriteString(strings.TrimSpace(line[idx+1:]))
		} else {
			b.WriteString(strings.TrimSpace(line))
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
