package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/upgradetree/pkg/buildinfo"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/pipeline"
	"github.com/matzehuels/upgradetree/pkg/render/svg"
)

const maxBodySize = 1 << 20

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

type purchaseResponse struct {
	Upgrade string       `json:"upgrade"`
	Balance int          `json:"balance"`
	Layout  graph.Layout `json:"layout"`
}

type goldRequest struct {
	Amount int `json:"amount"`
}

type slotRequest struct {
	Slot string `json:"slot"`
}

type rebuildResponse struct {
	BuildID         string             `json:"build_id"`
	Layers          int                `json:"layers"`
	Degraded        bool               `json:"degraded,omitempty"`
	CrossingsBefore int                `json:"crossings_before"`
	CrossingsAfter  int                `json:"crossings_after"`
	Diagnostics     []graph.Diagnostic `json:"diagnostics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

// currentLayout projects the economy onto the panel. The caller must not
// hold s.mu.
func (s *Server) currentLayout() graph.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.FromView(s.panel.Refresh())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentLayout())
}

func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.panel.Refresh()
	s.mu.Unlock()

	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	w.WriteHeader(http.StatusOK)
	detailed := r.URL.Query().Get("detailed") != ""
	_, _ = w.Write(svg.Render(v, svg.Options{ShowCost: detailed, Arrows: detailed}))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Formats:  []string{format},
		Detailed: r.URL.Query().Get("detailed") != "",
	}
	artifacts, err := s.runner.Render(r.Context(), s.currentLayout(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := upgradeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.panel.Activate(id)
	resp := purchaseResponse{
		Upgrade: id,
		Balance: s.econ.Balance(),
		Layout:  graph.FromView(s.panel.Refresh()),
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("purchase rejected", "upgrade", id, "code", errors.GetCode(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// upgradeParam returns the {id} path segment. chi routes on the raw path
// when the request carries escapes, so IDs such as "Fire%20Duck" or "a%2Fb"
// arrive escaped and are decoded here.
func upgradeParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed upgrade id %q", id)
	}
	return decoded, nil
}

func (s *Server) handleGold(w http.ResponseWriter, r *http.Request) {
	var req goldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err := s.econ.Earn(req.Amount)
	balance := s.econ.Balance()
	s.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": balance})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	b := s.panel.Show(s.catalog)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rebuildResponse{
		BuildID:         b.ID,
		Layers:          b.Layers(),
		Degraded:        b.Degraded,
		CrossingsBefore: b.CrossingsBefore,
		CrossingsAfter:  b.CrossingsAfter,
		Diagnostics:     b.Report.Diagnostics,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no save store configured"))
		return
	}
	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	snap, err := s.econ.Save(req.Slot)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.Save(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("Saved game", "slot", snap.Slot, "gold", snap.Gold, "purchased", len(snap.Purchased))
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no save store configured"))
		return
	}
	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateSlotName(req.Slot); err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.store.Load(r.Context(), req.Slot)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.econ.Restore(snap)
	l := graph.FromView(s.panel.Refresh())
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{Error: errors.UserMessage(err), Code: code})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeUpgradeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case errors.ErrCodeAlreadyPurchased, errors.ErrCodePrerequisitesUnmet:
		return http.StatusConflict
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidID,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
