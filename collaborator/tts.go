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

// TextToSpeech synthesises text either to the default output device or to
// a file, per spec.md §6's "speak(text) → bool, save_to_file(text, path) →
// bool".
type TextToSpeech interface {
	Speak(ctx context.Context, text string) (bool, error)
	SaveToFile(ctx context.Context, text, path string) (bool, error)
}

// PiperConfig configures PiperTTS, mirroring kidsvoiceai/audio/tts.py's
// PiperTTS defaults (a Piper ONNX voice model plus its companion
// config.json, and an external player binary for the speaker path).
type PiperConfig struct {
	BinaryPath string `json:"binary_path" default:"piper"`
	VoicePath  string `json:"voice_path" default:"~/.local/share/piper/voices/en/amy/low/en_amy_low.onnx"`
	PlayBin    string `json:"play_bin" default:"aplay"`
}

// PiperTTS shells out to the piper binary to synthesize a WAV, then either
// plays it with PlayBin or leaves it at the requested path — the same
// split the Python original draws between voice.synthesize(...) and
// sd.play(...)/sf.write(...).
type PiperTTS struct {
	cfg PiperConfig
}

func NewPiperTTS(configFile string) (*PiperTTS, error) {
	cfg := PiperConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	cfg.VoicePath = expandHome(cfg.VoicePath)
	return &PiperTTS{cfg: cfg}, nil
}

// NewPiperTTSForVoice builds a PiperTTS from the stack's defaults, then
// overrides VoicePath directly — for the "text_to_speech" component's
// voice_path step param, which names a model file rather than a JSON
// config document.
func NewPiperTTSForVoice(voicePath string) (*PiperTTS, error) {
	tts, err := NewPiperTTS("")
	if err != nil {
		return nil, err
	}
	if voicePath != "" {
		tts.cfg.VoicePath = expandHome(voicePath)
	}
	return tts, nil
}

func (p *PiperTTS) Speak(ctx context.Context, text string) (bool, error) {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("movatalk_tts_%d.wav", time.Now().UnixNano()))
	defer os.Remove(tmp)

	if ok, err := p.SaveToFile(ctx, text, tmp); !ok || err != nil {
		return ok, err
	}

	cmd := exec.CommandContext(ctx, p.cfg.PlayBin, tmp)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("playing synthesized audio: %w: %s", err, stderr.String())
	}
	return true, nil
}

func (p *PiperTTS) SaveToFile(ctx context.Context, text, path string) (bool, error) {
	voicePath := p.cfg.VoicePath
	if _, err := os.Stat(voicePath); err != nil {
		return false, fmt.Errorf("voice model not found: %s", voicePath)
	}

	cmd := exec.CommandContext(ctx, p.cfg.BinaryPath, "--model", voicePath, "--output_file", path)
	cmd.Stdin = bytes.NewBufferString(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("synthesizing speech: %w: %s", err, stderr.String())
	}
	return true, nil
}
