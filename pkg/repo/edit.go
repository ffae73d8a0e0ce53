package repo

import (
	"fmt"
	"os"
	"os/exec"
)

// Edit opens the manifest in an editor and, once the editor exits
// successfully, applies the repository. The editor is the config override,
// then $EDITOR, then vi. A missing manifest is created as an empty mapping
// so the user starts from valid syntax.
func (r *Repository) Edit() ([]Action, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	manifest, err := r.ManifestPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(manifest); os.IsNotExist(err) {
		if err := os.WriteFile(manifest, []byte("{}\n"), 0o644); err != nil {
			return nil, fmt.Errorf("edit: seed manifest: %w", err)
		}
	}

	editor := cfg.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, manifest)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("edit: %s: %w", editor, err)
	}

	return r.Apply()
}
