package scene

import (
	"fmt"
	"sort"
)

type builtin struct {
	description string
	build       func() *Scene
}

// builtins maps scene names to their constructors
var builtins = map[string]builtin{
	"default":     {"Ground, diffuse center sphere, hollow glass and gold metal", NewDefaultScene},
	"random":      {"Random field of small spheres around three large ones", func() *Scene { return NewRandomScene(DefaultRandomSeed) }},
	"single":      {"One diffuse sphere on a large ground sphere", NewSingleSphereScene},
	"sphere-grid": {"Grid of colored metal spheres with varying fuzz", func() *Scene { return NewSphereGridScene(DefaultGridSize) }},
}

// Names returns the sorted names of the built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds a fresh copy of the named built-in scene
func ByName(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return b.build(), nil
}
