package options

import (
	"fmt"
	"os"

	"github.com/richinsley/rtreflect/texel"
	"gopkg.in/yaml.v3"
)

// SceneConfig holds the per-frame scene values a reflection pass is fed.
type SceneConfig struct {
	Camera   CameraConfig `yaml:"camera"`
	Light    [4]float32   `yaml:"light"`
	RayDepth int          `yaml:"ray_depth"`
	UseBVH   *bool        `yaml:"use_bvh"`
	// TextureUnitOffset is the first texture unit the pass binds to.
	TextureUnitOffset int `yaml:"texture_unit_offset"`

	Triangles []TriangleConfig `yaml:"triangles"`
}

// TriangleConfig is one reflective triangle of the scene.
type TriangleConfig struct {
	Vertices     [3][3]float32 `yaml:"vertices"`
	Albedo       [3]float32    `yaml:"albedo"`
	Reflectivity float32       `yaml:"reflectivity"`
	Floor        bool          `yaml:"floor"`
}

type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	FovY   float32    `yaml:"fov"`
	Near   float32    `yaml:"near"`
	Far    float32    `yaml:"far"`
}

// DefaultScene returns the scene used when no file is given.
func DefaultScene() *SceneConfig {
	useBVH := true
	return &SceneConfig{
		Camera: CameraConfig{
			Eye:    [3]float32{0, 2, 8},
			Target: [3]float32{0, 0, 0},
			FovY:   45,
			Near:   0.1,
			Far:    1000,
		},
		Light:    [4]float32{5, 10, 5, 1},
		RayDepth: 3,
		UseBVH:   &useBVH,
		Triangles: []TriangleConfig{
			{Vertices: [3][3]float32{{-20, 0, -20}, {-20, 0, 20}, {20, 0, 20}}, Reflectivity: 0.25, Floor: true},
			{Vertices: [3][3]float32{{-20, 0, -20}, {20, 0, 20}, {20, 0, -20}}, Reflectivity: 0.25, Floor: true},
			{Vertices: [3][3]float32{{-2, 0, -3}, {2, 0, -3}, {2, 3, -3}}, Albedo: [3]float32{0.9, 0.9, 0.95}, Reflectivity: 0.9},
			{Vertices: [3][3]float32{{-2, 0, -3}, {2, 3, -3}, {-2, 3, -3}}, Albedo: [3]float32{0.9, 0.9, 0.95}, Reflectivity: 0.9},
		},
	}
}

// LoadScene reads a YAML scene file over the defaults. An empty path returns the defaults.
func LoadScene(path string) (*SceneConfig, error) {
	cfg := DefaultScene()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	if err := ParseScene(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseScene decodes data into cfg and validates the result.
func ParseScene(data []byte, cfg *SceneConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *SceneConfig) Validate() error {
	if c.RayDepth < 0 {
		return fmt.Errorf("ray_depth must not be negative, got %d", c.RayDepth)
	}
	if c.TextureUnitOffset < 0 {
		return fmt.Errorf("texture_unit_offset must not be negative, got %d", c.TextureUnitOffset)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera planes must satisfy 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %g", c.Camera.FovY)
	}
	if c.Camera.Eye == c.Camera.Target {
		return fmt.Errorf("camera eye and target must differ")
	}
	for i, t := range c.Triangles {
		if t.Reflectivity < 0 || t.Reflectivity > 1 {
			return fmt.Errorf("triangle %d: reflectivity must be in [0, 1], got %g", i, t.Reflectivity)
		}
	}
	return nil
}

// Apply overrides scene values with the command line flags that were set.
func (c *SceneConfig) Apply(opts *RenderOptions, setFlags map[string]bool) {
	if opts.RayDepth != nil && *opts.RayDepth > 0 {
		c.RayDepth = *opts.RayDepth
	}
	if opts.UseBVH != nil && (setFlags["bvh"] || c.UseBVH == nil) {
		v := *opts.UseBVH
		c.UseBVH = &v
	}
}

// SceneTriangles converts the configured triangles for packing.
func (c *SceneConfig) SceneTriangles() []texel.Triangle {
	tris := make([]texel.Triangle, len(c.Triangles))
	for i, t := range c.Triangles {
		tris[i] = texel.Triangle{
			Vertices:     t.Vertices,
			Albedo:       t.Albedo,
			Reflectivity: t.Reflectivity,
			Floor:        t.Floor,
		}
	}
	return tris
}

// BVHEnabled reports the effective BVH toggle; it defaults to on.
func (c *SceneConfig) BVHEnabled() bool {
	return c.UseBVH == nil || *c.UseBVH
}
