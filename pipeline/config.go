package pipeline

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("url_format", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})
}

// LoadCollaboratorConfig is the single entry point collaborator constructors
// use to turn an optional JSON config file into a validated, defaulted
// struct: defaults from struct tags, then the file's values layered on top
// (when path is non-empty and exists), then validation — mirrored from the
// teacher's InitializeConfig three-step contract. A missing path is not an
// error: the collaborator falls back to pure defaults, matching the Python
// originals' "file absent → use built-in defaults" behavior.
func LoadCollaboratorConfig(path string, config any) error {
	if err := defaults.Set(config); err != nil {
		return fmt.Errorf("applying config defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				return ParseError("invalid config file %s: %s", path, err)
			}
			if err := MapToStruct(raw, config); err != nil {
				return ValidationError("", "config file %s: %s", path, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("field %q failed validation (rule: %s)", fe.Field(), fe.Tag()))
			}
			return ValidationError("", "config validation failed: %s", strings.Join(msgs, "; "))
		}
		return ValidationError("", "config validation failed: %s", err)
	}

	return nil
}
