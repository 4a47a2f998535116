package viewport

import (
	"cmp"
	"image"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/engine/renderer"
	"github.com/Faultbox/mapview/internal/engine/terrain"
	"github.com/Faultbox/mapview/internal/engine/token"
)

// RequestFrame renders one frame: it rebuilds the terrain first when it is
// stale, then draws the cached batch and the token overlay from the current
// camera and keeps the result for ExportImage.
func (c *Controller) RequestFrame() {
	if c.redraw == RedrawFull {
		c.rebuild()
	}

	vp := c.rig.ViewProjection(c.render.Aspect())
	c.render.Begin()
	c.render.DrawBatch(c.batch, vp)
	if c.settings.ShowTokens {
		c.render.DrawMarkers(c.placements(), vp)
	}
	c.last = c.render.Capture()

	st := c.render.Stats()
	c.log.Debug("frame rendered",
		zap.Stringer("state", c.State()),
		zap.Int("triangles", st.Triangles),
		zap.Int("glyphs", st.Glyphs),
	)
}

// rebuild regenerates the terrain batch. It always runs to completion and is
// bracketed by busy reports.
func (c *Controller) rebuild() {
	info, ok := c.ActiveMap()
	if !ok || info.Texture == nil {
		c.mesh, c.batch = nil, nil
		c.redraw = RedrawCamera
		return
	}

	c.host.ReportBusy(true)
	defer c.host.ReportBusy(false)

	start := time.Now()
	c.mesh = terrain.Build(terrain.Params{
		Texture:     info.Texture,
		Heightfield: info.Heightfield,
		Distort:     c.settings.Distortion,
		MaxSize:     c.settings.MaxTerrainSize,
		MaxHeight:   c.effectiveMaxHeight(info),
		AutoDetect:  c.settings.AutoDetectHeight,
		Filter:      c.settings.Filter,
	})
	c.batch = renderer.Compile(c.mesh)
	c.redraw = RedrawCamera
	c.rebuilds++

	if c.mesh != nil {
		c.log.Info("terrain rebuilt",
			zap.String("map", info.ID),
			zap.Int("gridW", c.mesh.GridW),
			zap.Int("gridH", c.mesh.GridH),
			zap.Stringer("mode", c.mesh.Mode),
			zap.Int("vertices", c.mesh.VertexCount()),
			zap.Int("triangles", c.batch.Len()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// placements lays out the visible tokens on the active map, in name order.
func (c *Controller) placements() []token.Placement {
	info, ok := c.ActiveMap()
	if !ok || c.mesh == nil {
		return nil
	}

	live := c.tokens.OnMap(info.ID)
	if g := c.group; g != nil && g.mapID == info.ID {
		live = append(live, token.Token{Name: token.GroupName, Map: g.mapID, X: g.x, Y: g.y, Valid: true})
		slices.SortFunc(live, func(a, b token.Token) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}

	layout := token.Layout{
		Scale:           c.mesh.Scale,
		GridW:           c.mesh.GridW,
		GridH:           c.mesh.GridH,
		PixelsPerLeague: info.PixelsPerLeague,
		MaxHeight:       c.effectiveMaxHeight(info),
	}
	out := make([]token.Placement, 0, len(live))
	for _, t := range live {
		p, ok := layout.Place(t)
		if !ok {
			c.log.Debug("token off map", zap.String("name", t.Name))
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExportImage returns a copy of the last captured frame, or false when no
// frame has been rendered yet.
func (c *Controller) ExportImage() (*image.RGBA, bool) {
	if c.last == nil {
		return nil, false
	}
	out := image.NewRGBA(c.last.Rect)
	copy(out.Pix, c.last.Pix)
	return out, true
}
