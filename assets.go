package main

import (
	_ "embed"
	"os"

	eb "github.com/hajimehoshi/ebiten/v2"
)

var (
	//go:embed assets/note_shader.go
	noteShaderSrc []byte

	//go:embed assets/background_shader.go
	backgroundShaderSrc []byte
)

var (
	NoteShader       *eb.Shader
	BackgroundShader *eb.Shader
)

func LoadAssets() {
	var err error

	NoteShader, err = eb.NewShader(noteShaderSrc)
	if err != nil {
		// renderer falls back to the CPU path when a shader is nil
		ErrorLogger.Printf("failed to compile note shader : %v", err)
		NoteShader = nil
	}

	BackgroundShader, err = eb.NewShader(backgroundShaderSrc)
	if err != nil {
		ErrorLogger.Printf("failed to compile background shader : %v", err)
		BackgroundShader = nil
	}
}

// ReloadAssets re-reads the shader sources from disk. Only useful with the
// -hot flag during development.
func ReloadAssets() {
	load := func(path string, dst **eb.Shader) {
		src, err := os.ReadFile(path)
		if err != nil {
			ErrorLogger.Printf("failed to read %s : %v", path, err)
			return
		}

		shader, err := eb.NewShader(src)
		if err != nil {
			ErrorLogger.Printf("failed to compile %s : %v", path, err)
			return
		}

		if *dst != nil {
			(*dst).Deallocate()
		}
		*dst = shader
		InfoLogger.Printf("reloaded %s", path)
	}

	load("assets/note_shader.go", &NoteShader)
	load("assets/background_shader.go", &BackgroundShader)
}
