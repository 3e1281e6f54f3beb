package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// metaFile mirrors the subset of pack.mcmeta this compiler emits.
type metaFile struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

// Write serializes p to dir, which is created if it does not exist:
//
//	<dir>/pack.mcmeta
//	<dir>/data/<namespace>/function/<script>.mcfunction
func Write(p *Pack, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating pack dir %s: %w", dir, err)
	}

	var meta metaFile
	meta.Pack.PackFormat = p.FormatMajor
	meta.Pack.Description = p.Description
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pack.mcmeta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pack.mcmeta"), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing pack.mcmeta: %w", err)
	}

	for _, ns := range p.Namespaces() {
		fnDir := filepath.Join(dir, "data", ns.Name, "function")
		if err := os.MkdirAll(fnDir, 0o755); err != nil {
			return fmt.Errorf("creating namespace dir for %s: %w", ns.Name, err)
		}
		for _, s := range ns.Scripts() {
			path := filepath.Join(fnDir, s.Name+".mcfunction")
			if err := os.WriteFile(path, []byte(s.Text()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return nil
}
