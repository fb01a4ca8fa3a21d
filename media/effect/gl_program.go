package effect

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

type uniformKind int

const (
	uniformMat2 uniformKind = iota
	uniformVec2
	uniformVec4
	uniformSampler
)

type uniformValue struct {
	kind    uniformKind
	floats  [4]float32
	sampler int32
}

// GlProgram is a linked vertex+fragment program. Locations are resolved lazily
// and every value set through it is remembered so it can be replayed after a
// relink.
type GlProgram struct {
	dev       Device
	handle    uint32
	linked    bool
	locations map[string]int32
	bindings  map[string]uniformValue
	order     []string
}

// ProgramBuilder compiles and links shader pairs on one Device.
type ProgramBuilder struct {
	dev Device
}

func NewProgramBuilder(dev Device) *ProgramBuilder {
	return &ProgramBuilder{dev: dev}
}

// Build compiles both stages, links them and releases the stage objects.
// Nothing survives a failed build.
func (b *ProgramBuilder) Build(vertexSrc string, fragmentSrc string) (*GlProgram, error) {

	handle, xErr := b.link(vertexSrc, fragmentSrc)
	if xErr != nil {
		return nil, xErr
	}

	prog := &GlProgram{
		dev:       b.dev,
		handle:    handle,
		linked:    true,
		locations: make(map[string]int32),
		bindings:  make(map[string]uniformValue),
	}

	return prog, nil
}

// Rebuild replaces the program's code in place. The location cache is dropped
// and every recorded binding is applied again. On failure prog is unchanged.
func (b *ProgramBuilder) Rebuild(prog *GlProgram, vertexSrc string, fragmentSrc string) error {

	if prog == nil || !prog.linked {
		return errors.New("rebuild of a deleted program")
	}

	handle, xErr := b.link(vertexSrc, fragmentSrc)
	if xErr != nil {
		return xErr
	}

	old := prog.handle
	prog.handle = handle
	prog.locations = make(map[string]int32)

	if xErr = prog.replay(); xErr != nil {
		b.dev.DeleteProgram(handle)
		prog.handle = old
		prog.locations = make(map[string]int32)
		return errors.Wrap(xErr, "replay uniform bindings")
	}

	b.dev.DeleteProgram(old)

	return nil
}

func (b *ProgramBuilder) link(vertexSrc string, fragmentSrc string) (uint32, error) {

	vertexShader, xErr := NewGlShader(b.dev, vertexSrc, StageVertex)
	if xErr != nil {
		return 0, xErr
	}
	defer vertexShader.Delete()

	fragmentShader, xErr := NewGlShader(b.dev, fragmentSrc, StageFragment)
	if xErr != nil {
		return 0, xErr
	}
	defer fragmentShader.Delete()

	handle := b.dev.CreateProgram()
	b.dev.AttachShader(handle, vertexShader.handle)
	b.dev.AttachShader(handle, fragmentShader.handle)
	b.dev.LinkProgram(handle)

	linked := b.dev.ProgramLinked(handle)
	var linkLog string
	if !linked {
		linkLog = strings.TrimSpace(b.dev.ProgramInfoLog(handle))
	}

	b.dev.DetachShader(handle, vertexShader.handle)
	b.dev.DetachShader(handle, fragmentShader.handle)

	if !linked {
		b.dev.DeleteProgram(handle)
		return 0, &ShaderLinkError{Log: linkLog}
	}

	return handle, nil
}

func (prog *GlProgram) Handle() uint32 {
	return prog.handle
}

func (prog *GlProgram) Linked() bool {
	return prog.linked
}

func (prog *GlProgram) Use() {
	prog.dev.UseProgram(prog.handle)
}

func (prog *GlProgram) Delete() {
	if !prog.linked {
		return
	}
	prog.dev.DeleteProgram(prog.handle)
	prog.handle = 0
	prog.linked = false
	prog.locations = nil
}

// Locate returns the location of an active uniform. Missing uniforms are an
// error, including ones the linker dropped as unused.
func (prog *GlProgram) Locate(name string) (int32, error) {

	if loc, ok := prog.locations[name]; ok {
		return loc, nil
	}

	loc := prog.dev.GetUniformLocation(prog.handle, name)
	if loc < 0 {
		return -1, &UniformNotFoundError{Name: name}
	}

	prog.locations[name] = loc

	return loc, nil
}

// Declares reports whether the linked program has an active uniform name.
func (prog *GlProgram) Declares(name string) bool {
	_, xErr := prog.Locate(name)
	return xErr == nil
}

func (prog *GlProgram) SetMat2(name string, m mgl32.Mat2) error {
	return prog.set(name, uniformValue{kind: uniformMat2, floats: [4]float32(m)})
}

func (prog *GlProgram) SetVec2(name string, v mgl32.Vec2) error {
	return prog.set(name, uniformValue{kind: uniformVec2, floats: [4]float32{v[0], v[1]}})
}

func (prog *GlProgram) SetVec4(name string, v mgl32.Vec4) error {
	return prog.set(name, uniformValue{kind: uniformVec4, floats: [4]float32(v)})
}

// SetSampler points a sampler uniform at texture unit index unit.
func (prog *GlProgram) SetSampler(name string, unit int32) error {
	return prog.set(name, uniformValue{kind: uniformSampler, sampler: unit})
}

func (prog *GlProgram) set(name string, value uniformValue) error {

	loc, xErr := prog.Locate(name)
	if xErr != nil {
		return xErr
	}

	prog.Use()
	prog.upload(loc, value)

	if _, ok := prog.bindings[name]; !ok {
		prog.order = append(prog.order, name)
	}
	prog.bindings[name] = value

	return nil
}

func (prog *GlProgram) replay() error {

	prog.Use()

	for _, name := range prog.order {
		loc, xErr := prog.Locate(name)
		if xErr != nil {
			return xErr
		}
		prog.upload(loc, prog.bindings[name])
	}

	return nil
}

func (prog *GlProgram) upload(loc int32, value uniformValue) {
	f := value.floats
	switch value.kind {
	case uniformMat2:
		prog.dev.UniformMatrix2fv(loc, f)
	case uniformVec2:
		prog.dev.Uniform2f(loc, f[0], f[1])
	case uniformVec4:
		prog.dev.Uniform4f(loc, f[0], f[1], f[2], f[3])
	case uniformSampler:
		prog.dev.Uniform1i(loc, value.sampler)
	}
}
