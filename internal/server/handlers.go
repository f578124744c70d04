package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/navigation"
	"github.com/samdwyer/gridpath/internal/pathfind"
)

// Point is a cell index on the wire.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPoint(idx grid.Index) Point { return Point{X: idx.X, Y: idx.Y} }

// GridResponse describes the current grid. Row i holds y=i, '.' walkable
// and '#' blocked.
type GridResponse struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Fingerprint string   `json:"fingerprint"`
	Rows        []string `json:"rows"`
}

// PathResponse is the outcome of a path query. Search failures are not
// HTTP errors: Found is false, Path is empty and Reason says why.
type PathResponse struct {
	Found     bool    `json:"found"`
	Path      []Point `json:"path"`
	Cost      int     `json:"cost"`
	Inspected int     `json:"inspected"`
	Explored  int     `json:"explored"`
	Reason    string  `json:"reason,omitempty"`
	RunID     string  `json:"run_id"`
}

// TileResponse is one debug board tile.
type TileResponse struct {
	Index    Point  `json:"index"`
	Label    bool   `json:"label"`
	Walkable bool   `json:"walkable"`
	State    string `json:"state"`
	Caption  string `json:"caption"`
}

// TilesResponse is the whole debug board.
type TilesResponse struct {
	Mode  string         `json:"mode"`
	Tiles []TileResponse `json:"tiles"`
}

// GetGrid handles GET /api/grid.
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	g := h.nav.Grid()
	if g == nil {
		respondError(w, http.StatusServiceUnavailable, navigation.ErrNotBuilt.Error())
		return
	}
	respondJSON(w, http.StatusOK, gridResponse(g))
}

func gridResponse(g *grid.Grid) GridResponse {
	rows := make([]strings.Builder, g.Height())
	for idx, cell := range g.All() {
		if cell.Walkable {
			rows[idx.Y].WriteByte('.')
		} else {
			rows[idx.Y].WriteByte('#')
		}
	}
	resp := GridResponse{
		Width:       g.Width(),
		Height:      g.Height(),
		Fingerprint: fmt.Sprintf("%016x", g.Fingerprint()),
		Rows:        make([]string, len(rows)),
	}
	for i := range rows {
		resp.Rows[i] = rows[i].String()
	}
	return resp
}

// RebuildGrid handles POST /api/grid/rebuild.
func (h *Handler) RebuildGrid(w http.ResponseWriter, r *http.Request) {
	if err := h.nav.BuildPathGrid(r.Context()); err != nil {
		h.logger.Error(err, "rebuild failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, gridResponse(h.nav.Grid()))
}

// FindPath handles GET /api/path?sx=&sy=&dx=&dy=.
func (h *Handler) FindPath(w http.ResponseWriter, r *http.Request) {
	var coords [4]int
	for i, name := range []string{"sx", "sy", "dx", "dy"} {
		v, err := parseIntParam(r, name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		coords[i] = v
	}
	start := grid.Index{X: coords[0], Y: coords[1]}
	dest := grid.Index{X: coords[2], Y: coords[3]}

	res, err := h.nav.CreatePath(r.Context(), start, dest)
	if errors.Is(err, navigation.ErrNotBuilt) {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	resp := PathResponse{
		Found:     res.Found(),
		Path:      make([]Point, 0, len(res.Path)),
		Cost:      res.Cost,
		Inspected: res.Inspected,
		Explored:  res.Explored,
		RunID:     res.RunID,
	}
	for _, idx := range res.Path {
		resp.Path = append(resp.Path, toPoint(idx))
	}
	if err != nil {
		resp.Reason = pathfind.Reason(err)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetTiles handles GET /api/debug/tiles.
func (h *Handler) GetTiles(w http.ResponseWriter, r *http.Request) {
	var resp TilesResponse
	err := h.nav.VisitBoard(func(b *debuggrid.Board) {
		resp.Mode = b.Mode().String()
		for _, t := range b.Tiles() {
			resp.Tiles = append(resp.Tiles, TileResponse{
				Index:    toPoint(t.Index),
				Label:    t.Label,
				Walkable: t.Walkable,
				State:    t.State.String(),
				Caption:  b.Caption(t.Index),
			})
		}
	})
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ClearDebug handles POST /api/debug/clear.
func (h *Handler) ClearDebug(w http.ResponseWriter, r *http.Request) {
	h.nav.ClearDebugPathingGrid()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// SetMode handles POST /api/debug/mode/{mode}.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := debuggrid.ParseDisplayMode(chi.URLParam(r, "mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.nav.VisitBoard(func(b *debuggrid.Board) { b.SetDisplayMode(mode) })
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mode": mode.String()})
}

// parseIntParam parses a required integer query parameter.
func parseIntParam(r *http.Request, name string) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, fmt.Errorf("missing query parameter %s", name)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid query parameter %s=%q", name, val)
	}
	return n, nil
}
