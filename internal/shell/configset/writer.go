package configset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/artpar/gliderprep/internal/core/descriptor"
)

// =============================================================================
// Writing
// =============================================================================

// EncodeDescriptor renders doc as block-style YAML with sorted mapping keys.
// Equal documents always encode to identical bytes.
func EncodeDescriptor(doc descriptor.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDescriptor writes doc to deployment.yml in dir, replacing any earlier
// descriptor, and returns the written path.
func WriteDescriptor(dir string, doc descriptor.Document) (string, error) {
	data, err := EncodeDescriptor(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, descriptor.DescriptorFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// =============================================================================
// Copying
// =============================================================================

// CopyConfig copies every regular file in src into dst, overwriting files of
// the same name, and returns the copied file names in directory order.
// Subdirectories are not descended into.
func CopyConfig(src, dst string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("config source %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config source %s: %w", src, ErrNotDirectory)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	var copied []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return copied, err
		}
		copied = append(copied, entry.Name())
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
