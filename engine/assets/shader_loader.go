package assets

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

// LoadShader returns the GLSL source of an embedded shader.
func LoadShader(name string) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}
