package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Package is the package.json written next to the generated files.
type Package struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	License     string   `json:"license,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	Authors     []string `json:"collaborators,omitempty"`
	Files       []string `json:"files"`
	Main        string   `json:"main"`
	Types       string   `json:"types"`
}

// NewPackage describes the npm package for crate. opts.Scope prefixes the
// name with @scope/ and opts.OutName replaces the library name as the
// file prefix.
func NewPackage(crate *Crate, opts Options) *Package {
	name := crate.Package.Name
	if scope := strings.TrimPrefix(opts.Scope, "@"); scope != "" {
		name = "@" + scope + "/" + name
	}
	prefix := opts.OutName
	if prefix == "" {
		prefix = crate.LibName()
	}

	return &Package{
		Name:        name,
		Version:     crate.Package.Version,
		Description: crate.Package.Description,
		License:     crate.Package.License,
		Repository:  crate.Package.Repository,
		Authors:     crate.Package.Authors,
		Files:       []string{prefix + "_bg.wasm", prefix + ".js", prefix + ".d.ts"},
		Main:        prefix + ".js",
		Types:       prefix + ".d.ts",
	}
}

// Write stores the package as <dir>/package.json.
func (p *Package) Write(dir string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding package.json: %w", err)
	}
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
