package gpu

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobuffalo/packr"
)

// ShaderSource locates precompiled shader binaries by file name. Names
// follow the `<label>.main<suffix>` convention, where the suffix belongs
// to the backend (".spv" for SPIR-V backends, ".wgsl" for WGSL).
type ShaderSource interface {
	Lookup(name string) ([]byte, error)
}

// DirSource serves shader binaries from a directory on disk.
type DirSource string

// Lookup implements ShaderSource.
func (d DirSource) Lookup(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

// BoxSource serves shader binaries embedded in the binary via packr.
type BoxSource struct {
	Box packr.Box
}

// Lookup implements ShaderSource.
func (b BoxSource) Lookup(name string) ([]byte, error) {
	return b.Box.Find(name)
}

// ShaderModule is a loaded precompiled shader binary. Modules are
// identified by label; the numeric id is unique per Instance.
type ShaderModule struct {
	device    *Device
	handle    DriverShaderModule
	label     string
	id        uint64
	size      int
	destroyed bool
}

// Label returns the module's lookup label.
func (m *ShaderModule) Label() string { return m.label }

// ID returns the module's instance-unique identifier.
func (m *ShaderModule) ID() uint64 { return m.id }

// Size returns the binary's byte length.
func (m *ShaderModule) Size() int { return m.size }

// Destroy releases the native module. Destroying twice fails.
func (m *ShaderModule) Destroy() error {
	if m.destroyed {
		return fmt.Errorf("%w: shader module %q destroyed twice", ErrDisposed, m.label)
	}
	m.destroyed = true
	m.handle.Destroy()
	return nil
}
