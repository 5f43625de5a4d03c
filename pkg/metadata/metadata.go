// Package metadata writes and verifies the manifest that accompanies an
// export: a run identifier plus a content hash for every exported file.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest's name inside an export directory.
const FileName = "manifest.yaml"

// Manifest verification errors.
var (
	ErrNoManifest   = errors.New("no manifest found")
	ErrNoHashFound  = errors.New("no hash found in manifest entry")
	ErrHashMismatch = errors.New("hash mismatch")
	ErrInvalidName  = errors.New("manifest entry name is not local to the export directory")
)

// Entry describes one exported file.
type Entry struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Rows   int    `yaml:"rows"`
	SHA256 string `yaml:"sha256"`
}

// Manifest describes one export run.
type Manifest struct {
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Range       string    `yaml:"range"`
	Files       []Entry   `yaml:"files"`
}

// New starts a manifest with a fresh run id.
func New(rangeDesc string, now time.Time) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC().Truncate(time.Second),
		Range:       rangeDesc,
	}
}

// CalculateHash computes the SHA-256 hash of data.
func CalculateHash(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Add records a file and its hash.
func (m *Manifest) Add(name, kind string, rows int, data []byte) {
	m.Files = append(m.Files, Entry{
		Name:   name,
		Kind:   kind,
		Rows:   rows,
		SHA256: CalculateHash(data),
	})
}

// Write stores the manifest in dir.
func (m *Manifest) Write(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Read loads the manifest from dir.
func Read(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoManifest
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks that every file listed in dir's manifest still matches its
// recorded hash. Entry names must be local paths inside dir.
func Verify(dir string) (*Manifest, error) {
	m, err := Read(dir)
	if err != nil {
		return nil, err
	}

	for _, e := range m.Files {
		if !filepath.IsLocal(e.Name) {
			return m, fmt.Errorf("%w: %q", ErrInvalidName, e.Name)
		}

		if e.SHA256 == "" {
			return m, fmt.Errorf("%w: %s", ErrNoHashFound, e.Name)
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name))
		if err != nil {
			return m, fmt.Errorf("failed to read %s: %w", e.Name, err)
		}

		if calculated := CalculateHash(data); calculated != e.SHA256 {
			return m, fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, e.Name, e.SHA256, calculated)
		}
	}

	return m, nil
}
