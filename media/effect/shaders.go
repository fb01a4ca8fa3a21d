package effect

import (
	"embed"
	"fmt"
	"path"

	"github.com/chwjbn/vector-hub/glib"
	"github.com/cockroachdb/errors"
)

const (
	ShaderMain    = "main"
	ShaderOverlay = "overlay"
	ShaderPost    = "post"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFiles embed.FS

type ShaderSource struct {
	Name     string
	Vertex   string
	Fragment string
}

// EmbeddedShader returns the built-in source pair for name.
func EmbeddedShader(name string) (ShaderSource, error) {

	vertexCode, xErr := shaderFiles.ReadFile(fmt.Sprintf("shaders/%s.vert", name))
	if xErr != nil {
		return ShaderSource{}, errors.Wrapf(xErr, "missing vertex code in shader=[%v]", name)
	}

	fragmentCode, xErr := shaderFiles.ReadFile(fmt.Sprintf("shaders/%s.frag", name))
	if xErr != nil {
		return ShaderSource{}, errors.Wrapf(xErr, "missing fragment code in shader=[%v]", name)
	}

	return ShaderSource{Name: name, Vertex: string(vertexCode), Fragment: string(fragmentCode)}, nil
}

// DirShader reads <dir>/<name>.vert and <dir>/<name>.frag. ok is false when
// either file is missing or empty.
func DirShader(dir string, name string) (ShaderSource, bool) {

	if !glib.DirExists(dir) {
		return ShaderSource{}, false
	}

	vertexCode := readShaderCode(dir, name, "vert")
	if len(vertexCode) < 1 {
		return ShaderSource{}, false
	}

	fragmentCode := readShaderCode(dir, name, "frag")
	if len(fragmentCode) < 1 {
		return ShaderSource{}, false
	}

	return ShaderSource{Name: name, Vertex: vertexCode, Fragment: fragmentCode}, true
}

// LoadShader prefers an override in dir and falls back to the embedded copy.
func LoadShader(dir string, name string) (ShaderSource, error) {
	if len(dir) > 0 {
		if src, ok := DirShader(dir, name); ok {
			return src, nil
		}
	}
	return EmbeddedShader(name)
}

func readShaderCode(dir string, name string, shaderType string) string {

	codeFilePath := path.Join(dir, fmt.Sprintf("%s.%s", name, shaderType))
	if !glib.FileExists(codeFilePath) {
		return ""
	}

	return glib.FileReadAllText(codeFilePath)
}
