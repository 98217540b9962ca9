package pdf

import "os"

// LogoProvider supplies the banner logo as PNG bytes. A provider that cannot
// deliver the asset returns an error; composition then falls back to the
// placeholder label instead of failing.
type LogoProvider interface {
	Load() ([]byte, error)
}

// FileLogo loads the logo from a path on disk.
type FileLogo struct {
	Path string
}

func (f FileLogo) Load() ([]byte, error) {
	return os.ReadFile(f.Path)
}
