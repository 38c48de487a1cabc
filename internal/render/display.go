package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Displayer shows an encoded figure to the user.
type Displayer interface {
	Display(ctx context.Context, name string, png []byte) error
}

// DisplayFunc adapts a function to Displayer.
type DisplayFunc func(ctx context.Context, name string, png []byte) error

func (f DisplayFunc) Display(ctx context.Context, name string, png []byte) error {
	return f(ctx, name, png)
}

// SystemViewer opens figures with the platform's default image viewer.
// The image is copied to a temporary file first, so the viewer never
// holds the report's output path open.
type SystemViewer struct {
	// Command overrides the viewer executable. Empty selects the platform
	// default (open, xdg-open, or start).
	Command string
}

func (v SystemViewer) Display(ctx context.Context, name string, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp("", "cosmoviz-*-"+name)
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	if _, err := f.Write(png); err != nil {
		f.Close()
		return fmt.Errorf("write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write preview file: %w", err)
	}

	bin, args, err := v.command(f.Name())
	if err != nil {
		return err
	}
	// The viewer outlives the report, so it is not bound to ctx.
	return exec.Command(bin, args...).Start()
}

func (v SystemViewer) command(path string) (string, []string, error) {
	if v.Command != "" {
		return v.Command, []string{path}, nil
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	}
	return "", nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
}
