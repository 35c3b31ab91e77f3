package collaborator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/movatalk/pipeline/pipeline"
)

// loadConfig tilde-expands configFile and loads it through
// pipeline.LoadCollaboratorConfig. Every collaborator constructor in this
// package goes through it so a missing config file is never fatal — the
// struct's `default` tags apply instead, mirroring every Python collaborator
// here falling back to an in-memory default dict when its JSON file is
// absent.
func loadConfig(configFile string, target any) error {
	return pipeline.LoadCollaboratorConfig(expandHome(configFile), target)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
