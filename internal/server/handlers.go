package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/apply"
	"github.com/matzehuels/panegrid/pkg/cache"
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/merge"
	"github.com/matzehuels/panegrid/pkg/observability"
	"github.com/matzehuels/panegrid/pkg/render"
	"github.com/matzehuels/panegrid/pkg/session"
)

type layoutRequest struct {
	Layout  json.RawMessage `json:"layout"`
	FigSize [2]float64      `json:"figsize"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid request body")
	}
	return nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, err := s.buildState(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.store.Create(state)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	svg, err := s.renderFull(r.Context(), &sess.State)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respond(w, sess, svg, nil)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tree, err := layout.UnmarshalElement(req.Layout)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	// Unchanged tree and size: just re-serialize the live surface.
	if layout.AlmostEqualElements(tree, sess.State.Layout) && sameSize(req.FigSize, sess.State.FigSize) {
		charmlog.Debug("fast-track render", "token", sess.Token())
		s.respond(w, sess, render.RenderSVG(sess.State.Figure, sess.State.Post), nil)
		return
	}

	state, err := s.buildState(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.State = state
	svg, err := s.renderFull(r.Context(), &sess.State)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respond(w, sess, svg, nil)
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Names())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path   layout.Path   `json:"path"`
		Orient layout.Orient `json:"orient"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{Op: layout.OpSplit, Path: req.Path, Orient: req.Orient}})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path layout.Path `json:"path"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{Op: layout.OpDelete, Path: req.Path}})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path   layout.Path     `json:"path"`
		Orient layout.Orient   `json:"orient"`
		Ratios layout.Ratios   `json:"ratios"`
		Value  json.RawMessage `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	value, err := layout.UnmarshalElement(req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{
		Op: layout.OpInsert, Path: req.Path, Orient: req.Orient, Ratios: req.Ratios, Value: value,
	}})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path  layout.Path     `json:"path"`
		Value json.RawMessage `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	value, err := layout.UnmarshalElement(req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{Op: layout.OpReplace, Path: req.Path, Value: value}})
}

type restructureEntry struct {
	Path   layout.Path   `json:"path"`
	Ratios layout.Ratios `json:"ratios"`
}

func (s *Server) handleRestructure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row    *restructureEntry `json:"row"`
		Column *restructureEntry `json:"column"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var changes []layout.Change
	for _, entry := range []*restructureEntry{req.Row, req.Column} {
		if entry != nil {
			changes = append(changes, layout.Change{
				Op: layout.OpRestructure, Path: entry.Path, Ratios: entry.Ratios,
			})
		}
	}
	if len(changes) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidEdit, "restructure needs a row or column entry"))
		return
	}
	s.applyEdit(w, r, changes)
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path layout.Path `json:"path"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{Op: layout.OpRotate, Path: req.Path}})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path1 layout.Path `json:"path1"`
		Path2 layout.Path `json:"path2"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.applyEdit(w, r, []layout.Change{{Op: layout.OpSwap, Path: req.Path1, Path2: req.Path2}})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FigSize [2]float64 `json:"figsize"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	if err := sess.State.Figure.Resize(req.FigSize[0], req.FigSize[1]); err != nil {
		writeError(w, err)
		return
	}
	sess.State.FigSize = req.FigSize
	s.respond(w, sess, render.RenderSVG(sess.State.Figure, sess.State.Post), nil)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path1 layout.Path `json:"path1"`
		Path2 layout.Path `json:"path2"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	st := &sess.State

	tree, post, inverse, err := merge.Merge(st.Layout, st.Figure, s.registry, st.Cache, st.Post, req.Path1, req.Path2, s.touchRatio)
	if err != nil {
		writeError(w, err)
		return
	}
	st.Layout = tree
	st.Post = post
	s.respond(w, sess, render.RenderSVG(st.Figure, st.Post), inverse)
}

func (s *Server) handleUnmerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Inverse []layout.Change `json:"inverse"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Inverse) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidEdit, "unmerge needs the inverse script from a merge"))
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	st := &sess.State

	tree, post, err := merge.Unmerge(st.Layout, st.Figure, s.registry, st.Cache, st.Post, req.Inverse)
	if err != nil {
		writeError(w, err)
		return
	}
	st.Layout = tree
	st.Post = post
	s.respond(w, sess, render.RenderSVG(st.Figure, st.Post), nil)
}

// applyEdit folds the changes through both trees under the session lock
// and responds with the re-serialized surface. The layout is committed
// only after the surface succeeds; a mid-script surface failure can
// leave the surface partially mutated.
func (s *Server) applyEdit(w http.ResponseWriter, r *http.Request, changes []layout.Change) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	st := &sess.State

	tree, _, _, err := apply.ToLayout(st.Layout, changes)
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := apply.ToFigure(st.Figure, s.registry, st.Cache, st.Post, changes)
	if err != nil {
		charmlog.Warn("surface edit failed after layout edit succeeded; surface may be partially mutated",
			"token", sess.Token(), "err", err)
		writeError(w, err)
		return
	}
	st.Layout = tree
	st.Post = post
	s.respond(w, sess, render.RenderSVG(st.Figure, st.Post), nil)
}

// buildState runs a full render for the requested layout.
func (s *Server) buildState(ctx context.Context, req layoutRequest) (session.State, error) {
	tree, err := layout.UnmarshalElement(req.Layout)
	if err != nil {
		return session.State{}, err
	}
	leaves := len(layout.Leaves(tree))
	observability.Render().OnRenderStart(ctx, leaves)
	start := time.Now()
	fig, post, err := render.RenderLayout(s.registry, tree, req.FigSize[0], req.FigSize[1])
	observability.Render().OnRenderComplete(ctx, leaves, time.Since(start), err)
	if err != nil {
		return session.State{}, err
	}
	return session.State{
		Layout:  tree,
		FigSize: req.FigSize,
		Figure:  fig,
		Cache:   figure.NewCache(),
		Post:    post,
	}, nil
}

// renderFull serializes a freshly built state, going through the SVG
// response cache. Only full renders are cached; edited surfaces are
// serialized directly.
func (s *Server) renderFull(ctx context.Context, st *session.State) (string, error) {
	raw, err := layout.MarshalElement(st.Layout)
	if err != nil {
		return "", err
	}
	key := cache.SVGKey(raw, st.FigSize)

	if data, ok, err := s.svgCache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnHit(ctx, key)
		return string(data), nil
	} else if err != nil {
		observability.Cache().OnError(ctx, "get", err)
		charmlog.Warn("svg cache get failed", "err", err)
	} else {
		observability.Cache().OnMiss(ctx, key)
	}

	svg := render.RenderSVG(st.Figure, st.Post)
	if err := s.svgCache.Set(ctx, key, []byte(svg), s.svgTTL); err != nil {
		observability.Cache().OnError(ctx, "set", err)
		charmlog.Warn("svg cache set failed", "err", err)
	} else {
		observability.Cache().OnSet(ctx, key, len(svg))
	}
	return svg, nil
}

func (s *Server) respond(w http.ResponseWriter, sess *session.Session, svg string, inverse []layout.Change) {
	resp, err := newRenderResponse(sess, svg)
	if err != nil {
		writeError(w, err)
		return
	}
	resp.Inverse = inverse
	writeJSON(w, http.StatusOK, resp)
}

func sameSize(a, b [2]float64) bool {
	return layout.AlmostEqual(a[0], b[0]) && layout.AlmostEqual(a[1], b[1])
}
