// Package repository exports the allowed script templates to a directory
// tree and loads them back, so tooling outside the process can consume the
// exact bytecode the bridge hands out.
package repository

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/govm-net/ffibridge/scripts"
)

const (
	codeFile     = "script.wasm"
	metadataFile = "metadata.json"
)

// Manager keeps one directory per script template under rootDir.
type Manager struct {
	rootDir string
}

// ScriptCode is an exported script template.
type ScriptCode struct {
	Name       scripts.Name
	Function   string
	Code       []byte
	UpdateTime time.Time
	Hash       [32]byte
}

// ScriptMetadata is stored next to the bytecode of every exported script.
type ScriptMetadata struct {
	Hash       string    `json:"hash"`
	Function   string    `json:"function"`
	Size       int       `json:"size"`
	UpdateTime time.Time `json:"update_time"`
}

// NewManager creates a manager rooted at rootDir, creating it if needed.
func NewManager(rootDir string) (*Manager, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		slog.Error("failed to create root directory", "dir", rootDir, "error", err)
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	return &Manager{rootDir: rootDir}, nil
}

// ExportAll writes every template in the registry, replacing earlier exports.
func (m *Manager) ExportAll() ([]ScriptCode, error) {
	templates := scripts.All()
	out := make([]ScriptCode, 0, len(templates))
	for _, tmpl := range templates {
		code, err := m.Export(tmpl)
		if err != nil {
			return nil, err
		}
		out = append(out, *code)
	}
	return out, nil
}

// Export writes tmpl to its directory.
func (m *Manager) Export(tmpl scripts.Template) (*ScriptCode, error) {
	code := &ScriptCode{
		Name:       tmpl.Name,
		Function:   tmpl.Function,
		Code:       tmpl.Code(),
		UpdateTime: time.Now().UTC(),
	}
	code.Hash = sha256.Sum256(code.Code)

	dir := m.scriptDir(tmpl.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create script directory: %w", err)
	}
	if err := m.saveScriptFiles(dir, code); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to save script files: %w", err)
	}
	return code, nil
}

// Load reads the exported script name and checks it against its hash.
func (m *Manager) Load(name scripts.Name) (*ScriptCode, error) {
	dir := m.scriptDir(name)

	code, err := os.ReadFile(filepath.Join(dir, codeFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read script code: %w", err)
	}
	metadataBytes, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var metadata ScriptMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	hash := sha256.Sum256(code)
	if hex.EncodeToString(hash[:]) != metadata.Hash {
		return nil, fmt.Errorf("script %s: code does not match metadata hash", name)
	}
	return &ScriptCode{
		Name:       name,
		Function:   metadata.Function,
		Code:       code,
		UpdateTime: metadata.UpdateTime,
		Hash:       hash,
	}, nil
}

// Verify reports whether the exported script name is byte-identical to
// the registered template.
func (m *Manager) Verify(name scripts.Name) error {
	tmpl, ok := scripts.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown script %s", name)
	}
	code, err := m.Load(name)
	if err != nil {
		return err
	}
	if !bytes.Equal(code.Code, tmpl.Code()) {
		return fmt.Errorf("script %s differs from the allowed template", name)
	}
	return nil
}

func (m *Manager) scriptDir(name scripts.Name) string {
	return filepath.Join(m.rootDir, string(name))
}

func (m *Manager) saveScriptFiles(dir string, code *ScriptCode) error {
	if err := os.WriteFile(filepath.Join(dir, codeFile), code.Code, 0644); err != nil {
		return fmt.Errorf("failed to save script code: %w", err)
	}

	metadata := ScriptMetadata{
		Hash:       hex.EncodeToString(code.Hash[:]),
		Function:   code.Function,
		Size:       len(code.Code),
		UpdateTime: code.UpdateTime,
	}
	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), metadataBytes, 0644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}
