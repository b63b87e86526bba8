package shader

import (
	"fmt"
	"os"

	gst "github.com/richinsley/goshadertranslator"
	xlate "github.com/richinsley/rtreflect/translator"
)

// Source is a vertex/fragment pair ready to compile, plus how the uniform names
// written in the shader source map onto the compiled program.
type Source struct {
	Vertex   string
	Fragment string

	// Names maps source uniform names to the names in Fragment. A nil map means
	// names are used as written. When non-nil, a name missing from the map was
	// removed by translation.
	Names map[string]string
}

// Plain wraps sources that are compiled exactly as written.
func Plain(vertex, fragment string) *Source {
	return &Source{Vertex: vertex, Fragment: fragment}
}

// Lookup returns the compiled name for a source uniform name.
func (s *Source) Lookup(name string) (string, bool) {
	if s.Names == nil {
		return name, true
	}
	mapped, ok := s.Names[name]
	return mapped, ok
}

// Translate converts a WebGL2 fragment shader into the dialect of the running
// context and pairs it with the matching quad vertex shader.
func Translate(fragment string, isGLES bool) (*Source, error) {
	translator, err := xlate.GetTranslator()
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	fsShader, err := translator.TranslateShader(fragment, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	names := make(map[string]string, len(fsShader.Variables))
	for name, v := range fsShader.Variables {
		names[name] = v.MappedName
	}

	return &Source{
		Vertex:   GenerateVertexShader(isGLES),
		Fragment: fsShader.Code,
		Names:    names,
	}, nil
}

// Load reads a shader pair from disk. An empty path selects the built in source
// for that stage; the fragment stage is then translated.
func Load(vertexPath, fragmentPath string, isGLES bool) (*Source, error) {
	fragment := GetReflectionFragmentShader()
	if fragmentPath != "" {
		b, err := os.ReadFile(fragmentPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment shader: %w", err)
		}
		fragment = string(b)
	}

	src, err := Translate(fragment, isGLES)
	if err != nil {
		return nil, err
	}

	if vertexPath != "" {
		b, err := os.ReadFile(vertexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read vertex shader: %w", err)
		}
		src.Vertex = string(b)
	}
	return src, nil
}
