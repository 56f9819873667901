//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"paperfold/internal/crash"
	"paperfold/internal/export"
	applog "paperfold/internal/log"
	"paperfold/internal/script"
	"paperfold/internal/sketch"
	"paperfold/internal/vector"
	"paperfold/internal/version"
)

// Run opens the sketch window. Pointer moves snap to the nearest shape and
// clicks place segment endpoints.
func Run(cfg Config) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	canvasWidget := NewSketchCanvas(cfg.Session.Canvas)
	sess := sketch.New(cfg.Session, canvasWidget)
	canvasWidget.Bind(sess)
	defer crash.Recover(sess)

	if cfg.Journal != "" {
		b, err := os.ReadFile(cfg.Journal)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		events, errs := script.Parse(string(b))
		for _, e := range errs {
			l.Warn("journal line skipped", slog.Int("line", e.Line), slog.String("err", e.Message))
		}
		sess.Replay(events)
		l.Info("journal replayed", slog.String("path", cfg.Journal), slog.Int("events", len(events)))
	}

	fyneApp := app.NewWithID("paperfold")
	w := fyneApp.NewWindow("Paperfold")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", int(cfg.Session.Canvas.W)+40)
	winH := prefs.IntWithFallback("window.height", int(cfg.Session.Canvas.H)+80)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("")
	updateStatus := func() {
		st := sess.State()
		status.SetText(fmt.Sprintf("%s  |  shapes: %d  |  snapped: %t", st.Phase(), len(sess.Shapes()), st.HasNearest()))
	}
	canvasWidget.OnChange = updateStatus
	updateStatus()

	saveTo := func(title, ext string, write func(io.Writer) error) {
		d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer func() { _ = uc.Close() }()
			if err := write(uc); err != nil {
				l.Error("save failed", slog.String("what", title), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			l.Info("saved", slog.String("what", title), slog.String("path", uc.URI().Path()))
		}, w)
		d.SetFileName("sketch" + ext)
		d.Show()
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save Journal…", func() {
			saveTo("journal", ".journal", func(wr io.Writer) error {
				_, err := io.WriteString(wr, script.Format(sess.Journal()))
				return err
			})
		}),
	)
	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("SVG…", func() {
			saveTo("svg", ".svg", func(wr io.Writer) error { return export.WriteSVG(wr, sess, cfg.Export) })
		}),
		fyne.NewMenuItem("PNG…", func() {
			saveTo("png", ".png", func(wr io.Writer) error { return export.WritePNG(wr, sess, cfg.Export) })
		}),
		fyne.NewMenuItem("PDF…", func() {
			saveTo("pdf", ".pdf", func(wr io.Writer) error { return export.WritePDF(wr, sess, cfg.Export) })
		}),
	)
	aboutMenu := fyne.NewMenu("About",
		fyne.NewMenuItem("Version", func() {
			dialog.ShowInformation("Version", version.String(), w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, exportMenu, aboutMenu))

	w.SetContent(container.NewBorder(nil, status, nil, nil, canvasWidget))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if dir, err := os.UserCacheDir(); err == nil {
			path := filepath.Join(dir, "paperfold", "last.journal")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
				if err := os.WriteFile(path, []byte(script.Format(sess.Journal())), 0o644); err != nil {
					l.Warn("journal autosave failed", slog.Any("err", err))
				}
			}
		}
		w.Close()
	})

	w.ShowAndRun()
	l.Info("UI closed", slog.Int("shapes", len(sess.Shapes())))
	return nil
}

// session is the part of *sketch.Session the canvas drives.
type session interface {
	Move(p vector.Pt) sketch.Indicator
	Click() sketch.Indicator
}

// SketchCanvas draws the shape collection and the pointer indicator. It is
// the sketch.View of the session it is bound to.
type SketchCanvas struct {
	widget.BaseWidget

	size   vector.Size
	shapes []sketch.Shape
	ind    sketch.Indicator
	inside bool // pointer over the widget

	sess session
	// OnChange runs after every pointer event handled by the session.
	OnChange func()
}

var (
	_ sketch.View       = (*SketchCanvas)(nil)
	_ desktop.Hoverable = (*SketchCanvas)(nil)
	_ fyne.Tappable     = (*SketchCanvas)(nil)
)

func NewSketchCanvas(size vector.Size) *SketchCanvas {
	if size.W <= 0 || size.H <= 0 {
		size = sketch.DefaultOptions().Canvas
	}
	c := &SketchCanvas{size: size}
	c.ExtendBaseWidget(c)
	return c
}

// Bind routes pointer events to s.
func (c *SketchCanvas) Bind(s session) { c.sess = s }

// AddShape implements sketch.View.
func (c *SketchCanvas) AddShape(sh sketch.Shape) {
	c.shapes = append(c.shapes, sh)
	c.Refresh()
}

// ShowIndicator implements sketch.View.
func (c *SketchCanvas) ShowIndicator(ind sketch.Indicator) {
	c.ind = ind
	c.Refresh()
}

func (c *SketchCanvas) MouseIn(e *desktop.MouseEvent) {
	c.inside = true
	c.MouseMoved(e)
}

func (c *SketchCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.sess == nil {
		return
	}
	c.sess.Move(c.toCanvas(e.Position))
	c.changed()
}

func (c *SketchCanvas) MouseOut() {
	c.inside = false
	c.Refresh()
}

// Tapped selects the snapped point. Taps on the margin around the paper are
// ignored. Touch input has no hover, so the pointer position is fed to the
// session first when it differs from the last move.
func (c *SketchCanvas) Tapped(e *fyne.PointEvent) {
	if c.sess == nil {
		return
	}
	p := c.toCanvas(e.Position)
	if !vector.R(0, 0, c.size.W, c.size.H).Contains(p) {
		return
	}
	if !p.Eq(c.ind.Cursor, 1e-6) {
		c.sess.Move(p)
	}
	c.sess.Click()
	c.changed()
}

func (c *SketchCanvas) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *SketchCanvas) MinSize() fyne.Size {
	return fyne.NewSize(float32(c.size.W), float32(c.size.H))
}

// origin is the top-left of the drawing area; the canvas is centered in the widget.
func (c *SketchCanvas) origin() fyne.Position {
	sz := c.Size()
	return fyne.NewPos((sz.Width-float32(c.size.W))/2, (sz.Height-float32(c.size.H))/2)
}

func (c *SketchCanvas) toScreen(p vector.Pt) fyne.Position {
	o := c.origin()
	return fyne.NewPos(o.X+float32(p.X), o.Y+float32(p.Y))
}

func (c *SketchCanvas) toCanvas(pos fyne.Position) vector.Pt {
	o := c.origin()
	return vector.Pt{X: float64(pos.X - o.X), Y: float64(pos.Y - o.Y)}
}

func (c *SketchCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	paper := canvas.NewRectangle(color.White)

	snap := canvas.NewCircle(color.Transparent)
	snap.StrokeColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	snap.StrokeWidth = 1.5
	source := canvas.NewCircle(color.Transparent)
	source.StrokeColor = color.RGBA{R: 40, G: 90, B: 220, A: 255}
	source.StrokeWidth = 1.5
	rubber := canvas.NewLine(color.RGBA{R: 40, G: 90, B: 220, A: 200})
	rubber.StrokeWidth = 1

	r := &sketchCanvasRenderer{c: c, bg: bg, paper: paper, snap: snap, source: source, rubber: rubber}
	r.Refresh()
	return r
}

// sketchCanvasRenderer keeps one canvas.Line per shape edge. Shapes are
// append-only so edges are only ever added.
type sketchCanvasRenderer struct {
	c         *SketchCanvas
	bg, paper *canvas.Rectangle
	edges     []*canvas.Line
	edgePts   [][2]vector.Pt
	shapesN   int

	snap, source *canvas.Circle
	rubber       *canvas.Line
}

const indicatorRadius = 4

func (r *sketchCanvasRenderer) Destroy()           {}
func (r *sketchCanvasRenderer) MinSize() fyne.Size { return r.c.MinSize() }

func (r *sketchCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.edges)+5)
	objs = append(objs, r.bg, r.paper)
	for _, e := range r.edges {
		objs = append(objs, e)
	}
	return append(objs, r.rubber, r.source, r.snap)
}

func (r *sketchCanvasRenderer) Refresh() {
	for _, sh := range r.c.shapes[r.shapesN:] {
		st := color.RGBA{A: 255}
		width := float32(1.5)
		if sh.Kind == sketch.KindBoundary {
			st = color.RGBA{R: 90, G: 90, B: 90, A: 255}
			width = 1
		}
		pts := sh.Geometry.Vertices()
		for i := 1; i < len(pts); i++ {
			ln := canvas.NewLine(st)
			ln.StrokeWidth = width
			r.edges = append(r.edges, ln)
			r.edgePts = append(r.edgePts, [2]vector.Pt{pts[i-1], pts[i]})
		}
	}
	r.shapesN = len(r.c.shapes)
	r.Layout(r.c.Size())
	canvas.Refresh(r.c)
}

func (r *sketchCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.paper.Move(r.c.toScreen(vector.Pt{}))
	r.paper.Resize(fyne.NewSize(float32(r.c.size.W), float32(r.c.size.H)))

	for i, ln := range r.edges {
		ln.Position1 = r.c.toScreen(r.edgePts[i][0])
		ln.Position2 = r.c.toScreen(r.edgePts[i][1])
	}

	ind := r.c.ind
	placeCircle(r.snap, r.c.toScreen(ind.Snap), ind.HasSnap && r.c.inside)
	placeCircle(r.source, r.c.toScreen(ind.Source), ind.HasSource)
	if ind.HasSource && r.c.inside {
		r.rubber.Position1 = r.c.toScreen(ind.Source)
		r.rubber.Position2 = r.c.toScreen(ind.LineEnd)
		r.rubber.Show()
	} else {
		r.rubber.Hide()
	}
}

func placeCircle(c *canvas.Circle, center fyne.Position, visible bool) {
	if !visible {
		c.Hide()
		return
	}
	c.Position1 = fyne.NewPos(center.X-indicatorRadius, center.Y-indicatorRadius)
	c.Position2 = fyne.NewPos(center.X+indicatorRadius, center.Y+indicatorRadius)
	c.Show()
}
