package viewport

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/engine/camera"
	"github.com/Faultbox/mapview/internal/engine/raster"
	"github.com/Faultbox/mapview/internal/engine/renderer"
	"github.com/Faultbox/mapview/internal/engine/terrain"
	"github.com/Faultbox/mapview/internal/engine/token"
	"github.com/Faultbox/mapview/internal/logger"
)

type groupPos struct {
	mapID string
	x, y  float64
}

// Controller is the single owner of all viewport state.
// It is not safe for concurrent use; callers serialise every call.
type Controller struct {
	host     Host
	render   *renderer.Renderer
	rig      *camera.Rig
	tokens   *token.Set
	maps     map[string]MapInfo
	active   string
	settings Settings
	redraw   Redraw

	mesh  *terrain.Mesh
	batch *renderer.Batch
	group *groupPos
	last  *image.RGBA

	rebuilds int
	log      *zap.Logger
}

// New creates a controller drawing through r. A nil host is replaced by NopHost.
func New(r *renderer.Renderer, s Settings, host Host) *Controller {
	if host == nil {
		host = NopHost{}
	}
	s.MaxTerrainSize = max(s.MaxTerrainSize, 1)
	s.MaxHeight = max(s.MaxHeight, 0)
	s.Distortion = clampUnit(s.Distortion)

	return &Controller{
		host:     host,
		render:   r,
		rig:      camera.NewRig(s.MaxTerrainSize),
		tokens:   token.NewSet(),
		maps:     make(map[string]MapInfo),
		settings: s,
		redraw:   RedrawFull,
		log:      logger.Named("viewport"),
	}
}

func clampUnit(f float64) float64 {
	return min(max(f, 0), 1)
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	switch {
	case !c.hasMap():
		return StateEmpty
	case c.redraw == RedrawFull:
		return StateDirty
	default:
		return StateReady
	}
}

// Redraw reports the pending redraw kind.
func (c *Controller) Redraw() Redraw {
	return c.redraw
}

func (c *Controller) hasMap() bool {
	info, ok := c.maps[c.active]
	return ok && info.Texture != nil
}

// ActiveMap returns the active map, if any.
func (c *Controller) ActiveMap() (MapInfo, bool) {
	info, ok := c.maps[c.active]
	return info, ok
}

// Settings returns the current terrain settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// Rig exposes the camera rig for reading slider positions.
func (c *Controller) Rig() *camera.Rig {
	return c.rig
}

// Tokens exposes the live token set for reading.
func (c *Controller) Tokens() *token.Set {
	return c.tokens
}

// Batch returns the current precompiled terrain batch. Its identity only
// changes on rebuild.
func (c *Controller) Batch() *renderer.Batch {
	return c.batch
}

// Mesh returns the mesh the current batch was compiled from.
func (c *Controller) Mesh() *terrain.Mesh {
	return c.mesh
}

// Rebuilds counts terrain rebuilds since creation.
func (c *Controller) Rebuilds() int {
	return c.rebuilds
}

// invalidate marks the terrain stale and asks for a redraw.
func (c *Controller) invalidate(reason string) {
	if c.redraw != RedrawFull {
		c.log.Debug("terrain invalidated", zap.String("reason", reason))
	}
	c.redraw = RedrawFull
	c.host.RequestRedraw()
}

// MapActivated catalogues a map and makes it the active one.
func (c *Controller) MapActivated(info MapInfo) {
	old, known := c.maps[info.ID]
	c.maps[info.ID] = info

	sameSource := known && old.Texture == info.Texture &&
		old.Heightfield == info.Heightfield && old.HeightUnits == info.HeightUnits
	if c.active == info.ID && sameSource {
		if old.PixelsPerLeague != info.PixelsPerLeague {
			c.host.RequestRedraw()
		}
		return
	}

	c.log.Info("map activated",
		zap.String("map", info.ID),
		zap.Bool("heightfield", info.Heightfield != nil),
		zap.Float64("pixelsPerLeague", info.PixelsPerLeague),
	)
	c.active = info.ID
	c.invalidate("map")
}

// GroupMoved records the character group position and follows it to
// another catalogued map.
func (c *Controller) GroupMoved(mapID string, x, y float64) {
	pos := &groupPos{mapID: mapID, x: x, y: y}
	if c.group != nil && *c.group == *pos {
		return
	}
	c.group = pos

	if _, ok := c.maps[mapID]; ok && mapID != c.active {
		c.log.Info("following group to map", zap.String("map", mapID))
		c.active = mapID
		c.invalidate("group map")
		return
	}
	c.host.RequestRedraw()
}

// TokenChanged applies a token announcement to the live set.
func (c *Controller) TokenChanged(t token.Token) {
	if !c.tokens.Apply(t) {
		return
	}
	c.log.Debug("token changed",
		zap.String("map", t.Map),
		zap.String("name", t.Name),
		zap.Bool("valid", t.Valid),
	)
	// Tokens on other maps are kept but cannot change the frame.
	if t.Map == c.active {
		c.host.RequestRedraw()
	}
}

// SetMaxTerrainSize changes the grid size limit.
func (c *Controller) SetMaxTerrainSize(px int) {
	px = max(px, 1)
	if px == c.settings.MaxTerrainSize {
		return
	}
	c.settings.MaxTerrainSize = px
	c.rig.SetMaxSize(px)
	c.invalidate("terrain size")
}

// SetMaxHeight changes the terrain height amplitude.
func (c *Controller) SetMaxHeight(units int) {
	units = max(units, 0)
	if units == c.settings.MaxHeight {
		return
	}
	c.settings.MaxHeight = units
	c.invalidate("max height")
}

// SetDistortion changes the height curve blend, clamped to [0,1].
func (c *Controller) SetDistortion(f float64) {
	f = clampUnit(f)
	if f == c.settings.Distortion {
		return
	}
	c.settings.Distortion = f
	c.invalidate("distortion")
}

// SetAutoDetectHeight toggles texture-derived height against flat terrain.
func (c *Controller) SetAutoDetectHeight(on bool) {
	if on == c.settings.AutoDetectHeight {
		return
	}
	c.settings.AutoDetectHeight = on
	c.invalidate("height mode")
}

// SetFilter selects the raster sampling filter.
func (c *Controller) SetFilter(f raster.Filter) {
	if f == c.settings.Filter {
		return
	}
	c.settings.Filter = f
	c.invalidate("filter")
}

// SetShowTokens toggles the token overlay. The terrain stays cached.
func (c *Controller) SetShowTokens(on bool) {
	if on == c.settings.ShowTokens {
		return
	}
	c.settings.ShowTokens = on
	c.host.RequestRedraw()
}

// SetCameraAxis moves one camera axis. Camera changes never dirty the terrain.
func (c *Controller) SetCameraAxis(axis camera.Axis, v float64) {
	if c.rig.Set(axis, v) {
		c.host.RequestRedraw()
	}
}

// ResetCamera centres all five axes and requests a single redraw.
func (c *Controller) ResetCamera() {
	c.rig.Reset()
	c.host.RequestRedraw()
}

// Shown re-draws the cached batch when the viewport becomes visible.
func (c *Controller) Shown() {
	c.host.RequestRedraw()
}

// Resize changes the output size.
func (c *Controller) Resize(width, height int) {
	w, h := c.render.Size()
	if w == width && h == height {
		return
	}
	c.render.Resize(width, height)
	c.host.RequestRedraw()
}

// effectiveMaxHeight applies the per-map height override.
func (c *Controller) effectiveMaxHeight(info MapInfo) float64 {
	if info.HeightUnits > 0 {
		return float64(info.HeightUnits)
	}
	return float64(c.settings.MaxHeight)
}
