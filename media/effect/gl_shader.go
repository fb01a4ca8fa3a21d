package effect

import (
	"strings"
)

const glslHeader = "#version 330 core\n"

type ShaderStage uint32

const (
	StageVertex   = ShaderStage(VertexShader)
	StageFragment = ShaderStage(FragmentShader)
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "unknown"
}

type GlShader struct {
	dev    Device
	handle uint32
	stage  ShaderStage
}

// NewGlShader compiles one stage. On failure the shader object is released
// before the error is returned.
func NewGlShader(dev Device, src string, stage ShaderStage) (*GlShader, error) {

	handle := dev.CreateShader(uint32(stage))

	dev.ShaderSource(handle, withVersionHeader(src))
	dev.CompileShader(handle)

	if !dev.ShaderCompiled(handle) {
		xErr := &ShaderCompileError{Stage: stage, Log: strings.TrimSpace(dev.ShaderInfoLog(handle))}
		dev.DeleteShader(handle)
		return nil, xErr
	}

	return &GlShader{dev: dev, handle: handle, stage: stage}, nil
}

func (shader *GlShader) Delete() {
	if shader.handle == 0 {
		return
	}
	shader.dev.DeleteShader(shader.handle)
	shader.handle = 0
}

func withVersionHeader(src string) string {
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return src
	}
	return glslHeader + src
}
