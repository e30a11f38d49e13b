package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tiletree/pkg/buildinfo"
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/render/ascii"
	"github.com/matzehuels/tiletree/pkg/render/nodelink"
	"github.com/matzehuels/tiletree/pkg/sim"
	"github.com/matzehuels/tiletree/pkg/tree"
)

const maxBodyBytes = 1 << 16

// =============================================================================
// Response types
// =============================================================================

type workspaceView struct {
	ID      int `json:"id"`
	Nodes   int `json:"nodes"`
	Windows int `json:"windows"`
}

type windowView struct {
	Handle     string     `json:"handle"`
	Workspace  int        `json:"workspace"`
	Floating   bool       `json:"floating"`
	Fullscreen bool       `json:"fullscreen"`
	Tiled      bool       `json:"tiled"`
	Placed     bool       `json:"placed"`
	Logical    graph.Rect `json:"logical"`
	Rendered   graph.Rect `json:"rendered"`
}

type mapRequest struct {
	Handle    string `json:"handle"`
	Workspace int    `json:"workspace"`
	Floating  bool   `json:"floating"`
}

type messageRequest struct {
	Command string `json:"command"`
}

type messageResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := graph.FromStore(s.sim.Engine.Store())
	s.mu.Unlock()

	out := make([]workspaceView, len(snap.Workspaces))
	for i, ws := range snap.Workspaces {
		out[i] = workspaceView{ID: ws.ID, Nodes: ws.Nodes, Windows: ws.Windows}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := graph.FromStore(s.sim.Engine.Store())
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleWorkspaceTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.workspaceSnapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleWorkspaceASCII(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.workspaceSnapshot(w, r)
	if !ok {
		return
	}
	opts := ascii.Options{
		Width:  queryInt(r, "width", ascii.DefaultWidth),
		Height: queryInt(r, "height", ascii.DefaultHeight),
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, ascii.Workspace(snap, snap.Workspaces[0].ID, opts)+"\n")
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := graph.FromStore(s.sim.Engine.Store())
	s.mu.Unlock()

	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, nodelink.ToDOT(snap, nodelink.Options{Detailed: detailed}))
}

func (s *Server) handleListWindows(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wins := s.sim.Host.All()
	out := make([]windowView, len(wins))
	for i, win := range wins {
		out[i] = s.windowView(win)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMapWindow(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Handle == "" {
		req.Handle = s.newHandle()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := tree.WindowHandle(req.Handle)
	if err := s.sim.Map(h, tree.WorkspaceID(req.Workspace), sim.MapOptions{Floating: req.Floating}); err != nil {
		s.writeError(w, err)
		return
	}
	win, _ := s.sim.Host.Lookup(h)
	s.writeJSON(w, http.StatusCreated, s.windowView(win))
}

func (s *Server) handleUnmapWindow(w http.ResponseWriter, r *http.Request) {
	h := tree.WindowHandle(chi.URLParam(r, "handle"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sim.Unmap(h); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFocusWindow(w http.ResponseWriter, r *http.Request) {
	h := tree.WindowHandle(chi.URLParam(r, "handle"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sim.Focus(h); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	h := tree.WindowHandle(chi.URLParam(r, "handle"))
	var req messageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sim.Host.Lookup(h); !ok {
		s.writeError(w, terrors.New(terrors.ErrCodeUnknownWindow, "window %s is not mapped", h))
		return
	}
	result, err := s.sim.Message(h, req.Command)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Result: result})
}

func (s *Server) handleListMonitors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mons := s.sim.Host.Monitors()
	out := make([]sim.MonitorSpec, len(mons))
	for i, m := range mons {
		out[i] = monitorSpec(m)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddMonitor(w http.ResponseWriter, r *http.Request) {
	var req sim.MonitorSpec
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, terrors.New(terrors.ErrCodeInvalidInput, "monitor name is required"))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.writeError(w, terrors.New(terrors.ErrCodeInvalidInput, "monitor %q: width and height must be positive", req.Name))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sim.Host.MonitorByName(req.Name); ok {
		s.writeError(w, terrors.New(terrors.ErrCodeInvalidInput, "monitor %q already exists", req.Name))
		return
	}
	m := s.sim.AddMonitor(req.Monitor())
	s.writeJSON(w, http.StatusCreated, monitorSpec(m))
}

// =============================================================================
// Helpers
// =============================================================================

// workspaceSnapshot parses {ws} and snapshots it, writing a 400 or 404
// when that fails.
func (s *Server) workspaceSnapshot(w http.ResponseWriter, r *http.Request) (graph.Snapshot, bool) {
	ws, err := strconv.Atoi(chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, terrors.New(terrors.ErrCodeInvalidInput, "workspace must be an integer"))
		return graph.Snapshot{}, false
	}

	s.mu.Lock()
	store := s.sim.Engine.Store()
	_, ok := store.WorkspaceRoot(tree.WorkspaceID(ws))
	snap := graph.FromStore(store, tree.WorkspaceID(ws))
	s.mu.Unlock()

	if !ok {
		s.writeError(w, terrors.New(terrors.ErrCodeNotFound, "workspace %d has no tiled windows", ws))
		return graph.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) windowView(win *sim.Window) windowView {
	return windowView{
		Handle:     string(win.Handle),
		Workspace:  int(win.Workspace),
		Floating:   win.Floating,
		Fullscreen: win.Fullscreen,
		Tiled:      s.sim.Engine.IsTiled(win.Handle),
		Placed:     win.Placed,
		Logical:    rectView(win.Geometry.Logical),
		Rendered:   rectView(win.Geometry.Rendered),
	}
}

func rectView(r tree.Rect) graph.Rect {
	return graph.Rect{X: r.Pos.X, Y: r.Pos.Y, W: r.Size.X, H: r.Size.Y}
}

func monitorSpec(m *sim.Monitor) sim.MonitorSpec {
	return sim.MonitorSpec{
		Name:             m.Name,
		Workspace:        int(m.Workspace),
		SpecialWorkspace: int(m.Special),
		X:                m.Position.X,
		Y:                m.Position.Y,
		Width:            m.Size.X,
		Height:           m.Size.Y,
		ReservedTop:      m.ReservedTopLeft.Y,
		ReservedLeft:     m.ReservedTopLeft.X,
		ReservedBottom:   m.ReservedBottomRight.Y,
		ReservedRight:    m.ReservedBottomRight.X,
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case terrors.IsInvalid(err):
		return http.StatusBadRequest
	case terrors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := terrors.GetCode(err)
	if code == "" {
		code = terrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: terrors.UserMessage(err), Code: string(code)})
}
