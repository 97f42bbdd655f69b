package renderer

import (
	"embed"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/*
var shaderFS embed.FS

// loadShader compiles an embedded program. An empty vertex name uses raylib's default.
func loadShader(vsName, fsName string) (rl.Shader, error) {
	var vs, fs string
	if vsName != "" {
		b, err := shaderFS.ReadFile("shaders/" + vsName)
		if err != nil {
			return rl.Shader{}, fmt.Errorf("reading %s: %w", vsName, err)
		}
		vs = string(b)
	}
	b, err := shaderFS.ReadFile("shaders/" + fsName)
	if err != nil {
		return rl.Shader{}, fmt.Errorf("reading %s: %w", fsName, err)
	}
	fs = string(b)

	shader := rl.LoadShaderFromMemory(vs, fs)
	if shader.ID == 0 {
		return rl.Shader{}, fmt.Errorf("compiling %s/%s", vsName, fsName)
	}
	return shader, nil
}

func setFloat(s rl.Shader, loc int32, v float32) {
	rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
}

func setVec3(s rl.Shader, loc int32, v [3]float32) {
	rl.SetShaderValue(s, loc, v[:], rl.ShaderUniformVec3)
}
