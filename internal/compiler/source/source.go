// Package source supplies program text to the checker.
package source

import (
	"fmt"
	"os"
)

// Provider yields the complete text of one program.
type Provider interface {
	// Name identifies the program in messages, usually a path.
	Name() string
	Text() (string, error)
}

// File reads a program from disk.
type File struct {
	Path string
}

func (f File) Name() string {
	return f.Path
}

func (f File) Text() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(b), nil
}

// Text is a program held in memory.
type Text struct {
	Label string
	Body  string
}

func (t Text) Name() string {
	if t.Label == "" {
		return "<input>"
	}
	return t.Label
}

func (t Text) Text() (string, error) {
	return t.Body, nil
}
