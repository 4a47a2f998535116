// Package scenefile reads YAML scene descriptions and replays them into a
// viewport controller, the way a host would announce maps and tokens.
package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/mapview/internal/engine/camera"
	"github.com/Faultbox/mapview/internal/engine/texture"
	"github.com/Faultbox/mapview/internal/engine/token"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// ErrInvalid marks a scene that cannot be applied.
var ErrInvalid = errors.New("invalid scene")

// Scene is one replayable viewport setup.
type Scene struct {
	Maps   []Map              `yaml:"maps"`
	Active string             `yaml:"active"` // defaults to the last map
	Group  *Group             `yaml:"group,omitempty"`
	Tokens []Token            `yaml:"tokens,omitempty"`
	Camera map[string]float64 `yaml:"camera,omitempty"` // axis name -> [0,100]

	dir string
}

// Map points at the images of one map. Relative paths resolve against the
// scene file's directory.
type Map struct {
	ID              string  `yaml:"id"`
	Texture         string  `yaml:"texture"`
	Heightfield     string  `yaml:"heightfield,omitempty"`
	PixelsPerLeague float64 `yaml:"pixels_per_league"`
	HeightUnits     int     `yaml:"height_units,omitempty"`
}

// Group is the character group position.
type Group struct {
	Map string  `yaml:"map"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
}

// Token is one token announcement. Hidden tokens are announced invalid.
type Token struct {
	Name   string  `yaml:"name"`
	Map    string  `yaml:"map"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Facing float64 `yaml:"facing"` // radians
	Hidden bool    `yaml:"hidden,omitempty"`
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates scene YAML.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks map references and camera axis names.
func (s *Scene) Validate() error {
	ids := make(map[string]bool, len(s.Maps))
	for i, m := range s.Maps {
		if m.ID == "" {
			return fmt.Errorf("%w: map %d has no id", ErrInvalid, i)
		}
		if m.Texture == "" {
			return fmt.Errorf("%w: map %s has no texture", ErrInvalid, m.ID)
		}
		if ids[m.ID] {
			return fmt.Errorf("%w: duplicate map %s", ErrInvalid, m.ID)
		}
		ids[m.ID] = true
	}
	if s.Active != "" && !ids[s.Active] {
		return fmt.Errorf("%w: active map %s not listed", ErrInvalid, s.Active)
	}
	for name := range s.Camera {
		if _, err := camera.ParseAxis(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}

// ActiveID returns the map the scene activates last.
func (s *Scene) ActiveID() string {
	if s.Active != "" || len(s.Maps) == 0 {
		return s.Active
	}
	return s.Maps[len(s.Maps)-1].ID
}

func (s *Scene) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

// LoadMap decodes the images of one map.
func (s *Scene) LoadMap(m Map) (viewport.MapInfo, error) {
	tex, err := texture.Load(s.resolve(m.Texture))
	if err != nil {
		return viewport.MapInfo{}, fmt.Errorf("map %s texture: %w", m.ID, err)
	}
	info := viewport.MapInfo{
		ID:              m.ID,
		Texture:         tex,
		PixelsPerLeague: m.PixelsPerLeague,
		HeightUnits:     m.HeightUnits,
	}
	if m.Heightfield != "" {
		hf, err := texture.Load(s.resolve(m.Heightfield))
		if err != nil {
			return viewport.MapInfo{}, fmt.Errorf("map %s heightfield: %w", m.ID, err)
		}
		info.Heightfield = hf
	}
	return info, nil
}

// Apply announces the scene to a controller: every map (active one last),
// then the group, tokens and camera values. Nothing is announced when a map
// fails to load.
func (s *Scene) Apply(c *viewport.Controller) error {
	active := s.ActiveID()

	// Load every map before announcing any, so a bad file leaves c untouched.
	infos := make([]viewport.MapInfo, 0, len(s.Maps))
	for _, m := range s.Maps {
		info, err := s.LoadMap(m)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	var last *viewport.MapInfo
	for i := range infos {
		if infos[i].ID == active {
			last = &infos[i]
			continue
		}
		c.MapActivated(infos[i])
	}
	if last != nil {
		c.MapActivated(*last)
	}

	if g := s.Group; g != nil {
		c.GroupMoved(g.Map, g.X, g.Y)
	}
	for _, t := range s.Tokens {
		c.TokenChanged(token.Token{
			Name:  t.Name,
			Map:   t.Map,
			X:     t.X,
			Y:     t.Y,
			Z:     t.Facing,
			Valid: !t.Hidden,
		})
	}
	for name, v := range s.Camera {
		axis, _ := camera.ParseAxis(name)
		c.SetCameraAxis(axis, v)
	}

	logger.Debug("scene applied",
		zap.Int("maps", len(s.Maps)),
		zap.String("active", active),
		zap.Int("tokens", len(s.Tokens)),
	)
	return nil
}

// Save writes the scene as YAML.
func (s *Scene) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}
