package http

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/websocket"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/pipeline"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

const (
	streamWriteWait = 5 * time.Second
	maxViewportBody = 1 << 10
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

type feedResponse struct {
	FetchDate string             `json:"fetch_date"`
	Count     int                `json:"count"`
	Neos      []domain.NeoRecord `json:"neos"`
}

type reloadResponse struct {
	FetchDate string `json:"fetch_date"`
	Count     int    `json:"count"`
	Scenes    int    `json:"scenes"`
}

// current returns the live session or writes a 503.
func (s *Server) current(w http.ResponseWriter) (*pipeline.Session, bool) {
	cur := s.backend.Current()
	if cur == nil {
		writeError(w, http.StatusServiceUnavailable, "no NEO page loaded")
		return nil, false
	}
	return cur, true
}

// entry resolves the {id} path value or writes a 404.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*session.Entry, bool) {
	cur, ok := s.current(w)
	if !ok {
		return nil, false
	}
	id := r.PathValue("id")
	e, ok := cur.Registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no scene for NEO "+id)
		return nil, false
	}
	return e, true
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	cur, ok := s.current(w)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := cur.Page.WriteHTML(&buf); err != nil {
		s.logger.Error("render page failed", "error", err)
		writeError(w, http.StatusInternalServerError, "render page failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleFeed(w http.ResponseWriter, _ *http.Request) {
	cur, ok := s.current(w)
	if !ok {
		return
	}
	neos := cur.Feed.Neos
	if neos == nil {
		neos = []domain.NeoRecord{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, feedResponse{FetchDate: cur.Feed.FetchDate, Count: len(neos), Neos: neos})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, e.Descriptor())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	frame := e.Frame()
	if frame == nil {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, frame); err != nil {
		s.logger.Error("encode frame failed", "neo_id", e.NeoID, "error", err)
		writeError(w, http.StatusInternalServerError, "encode frame failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// handleStream pushes every new frame of a scene as a binary PNG message
// until the client disconnects or the scene is disposed.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "neo_id", e.NeoID, "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := e.Subscribe()
	defer cancel()

	// Drain client messages so close frames are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	var buf bytes.Buffer
	for {
		select {
		case <-closed:
			return
		case frame, ok := <-frames:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "scene disposed"),
					time.Now().Add(streamWriteWait))
				return
			}
			buf.Reset()
			if err := pngEncoder.Encode(&buf, frame); err != nil {
				s.logger.Error("encode frame failed", "neo_id", e.NeoID, "error", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
				s.logger.Debug("frame stream closed", "neo_id", e.NeoID, "error", err)
				return
			}
		}
	}
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var vp page.Viewport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxViewportBody)).Decode(&vp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewport: "+err.Error())
		return
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		writeError(w, http.StatusBadRequest, "viewport width and height must be positive")
		return
	}
	if vp.PixelRatio <= 0 || math.IsNaN(vp.PixelRatio) || math.IsInf(vp.PixelRatio, 0) {
		vp.PixelRatio = 1
	}

	n := s.backend.Resize(vp)
	sharedobs.WriteJSON(w, http.StatusOK, map[string]int{"scenes": n})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.backend.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, reloadResponse{
		FetchDate: sess.Page.FetchDate(),
		Count:     sess.Page.Len(),
		Scenes:    sess.Registry.Len(),
	})
}
