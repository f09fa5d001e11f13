// Package shaders holds the built-in WGSL sources and turns WGSL or SPIR-V
// files into SPIR-V for shader module creation.
package shaders

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"
)

// SPIRVMagic is the first word of every SPIR-V module, little-endian.
const SPIRVMagic uint32 = 0x07230203

//go:embed wgsl/triangle_vs.wgsl
var TriangleVertexWGSL string

//go:embed wgsl/triangle_fs.wgsl
var TriangleFragmentWGSL string

//go:embed wgsl/multiply_cs.wgsl
var MultiplyWGSL string

// Entry points of the built-in shaders.
const (
	TriangleVertexEntry   = "main_vs"
	TriangleFragmentEntry = "main_fs"
	MultiplyEntry         = "main_cs"
)

// Parameters baked into the multiply compute shader.
const (
	MultiplyFactor        = 12
	MultiplyLength        = 65536
	MultiplyWorkgroupSize = 64
)

// Compile translates WGSL to SPIR-V.
func Compile(src string) ([]byte, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("compile wgsl: empty source")
	}
	code, err := naga.Compile(src)
	if err != nil {
		return nil, errors.Wrap(err, "compile wgsl")
	}
	return code, nil
}

// Load reads a shader from disk. Files ending in .wgsl are compiled, anything
// else is taken as SPIR-V.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read shader")
	}
	if strings.EqualFold(filepath.Ext(path), ".wgsl") {
		code, err := Compile(string(data))
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		return code, nil
	}
	return data, nil
}

// IsSPIRV reports whether code starts with the SPIR-V magic number.
func IsSPIRV(code []byte) bool {
	if len(code) < 4 {
		return false
	}
	magic := uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24
	return magic == SPIRVMagic
}
