package vkframe

import (
	"encoding/binary"

	"github.com/celer/vkframe/shaders"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrInvalidShader is returned for shader code that is not SPIR-V.
var ErrInvalidShader = errors.New("invalid shader code")

type ShaderModule struct {
	Device         *Device
	EntryPoint     string
	VKShaderModule vk.ShaderModule
}

// ValidateShaderCode checks that code is a non-empty SPIR-V word stream.
func ValidateShaderCode(code []byte) error {
	switch {
	case len(code) == 0:
		return errors.Wrap(ErrInvalidShader, "empty")
	case len(code)%4 != 0:
		return errors.Wrapf(ErrInvalidShader, "length %d is not a multiple of 4", len(code))
	case !shaders.IsSPIRV(code):
		return errors.Wrap(ErrInvalidShader, "missing SPIR-V magic number")
	}
	return nil
}

// spirvWords reinterprets little-endian SPIR-V bytes as words.
func spirvWords(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words
}

// CreateShaderModule wraps SPIR-V code. entryPoint names the function the
// pipeline stage will call.
func (d *Device) CreateShaderModule(code []byte, entryPoint string) (*ShaderModule, error) {
	if err := ValidateShaderCode(code); err != nil {
		return nil, err
	}
	var module vk.ShaderModule
	res := vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    spirvWords(code),
	}, nil, &module)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "create shader module")
	}
	return &ShaderModule{Device: d, EntryPoint: entryPoint, VKShaderModule: module}, nil
}

// CreateShaderModuleFromWGSL compiles src and wraps the result.
func (d *Device) CreateShaderModuleFromWGSL(src, entryPoint string) (*ShaderModule, error) {
	code, err := shaders.Compile(src)
	if err != nil {
		return nil, err
	}
	return d.CreateShaderModule(code, entryPoint)
}

// LoadShaderModuleFromFile loads a .spv or .wgsl file.
func (d *Device) LoadShaderModuleFromFile(path, entryPoint string) (*ShaderModule, error) {
	code, err := shaders.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := d.CreateShaderModule(code, entryPoint)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return m, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits) vk.PipelineShaderStageCreateInfo {
	entry := s.EntryPoint
	if entry == "" {
		entry = "main"
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entry),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}
