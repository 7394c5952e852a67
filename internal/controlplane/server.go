// Package controlplane exposes the speculative-edit core over HTTP,
// mirroring the teacher's unified server (server/unified/unified_server.go):
// a gin router wrapping a small set of JSON routes plus a websocket feed
// for live events, with CORS enabled for local tooling.
package controlplane

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/echocog/specedit/internal/specedit"
)

// Server wraps a *specedit.Core with the HTTP routes SPEC_FULL.md §6
// describes.
type Server struct {
	core   *specedit.Core
	router *gin.Engine
	upgrader websocket.Upgrader
}

// New builds a Server bound to core. It does not start listening; call
// Run or use Router() with your own http.Server.
func New(core *specedit.Core) *Server {
	s := &Server{
		core:   core,
		router: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST"},
		AllowHeaders:    []string{"*"},
	}))

	s.routes()
	return s
}

// Router returns the underlying gin engine, so callers can embed it in a
// larger mux or test it directly with httptest.
func (s *Server) Router() http.Handler { return s.router }

// Run starts listening on addr. It blocks until the server stops or
// errors.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/v1/gates", s.handleGetGates)
	s.router.POST("/v1/gates/spec-edit", s.handleSetSpecEditGate)
	s.router.POST("/v1/gates/ngram", s.handleSetNgramGate)
	s.router.GET("/v1/stats", s.handleStats)
	s.router.GET("/v1/watch", s.handleWatch)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type gatesResponse struct {
	SpecEdit bool   `json:"spec_edit"`
	Ngram    bool   `json:"ngram"`
	Active   string `json:"active_path"`
}

func (s *Server) handleGetGates(c *gin.Context) {
	c.JSON(http.StatusOK, s.gatesResponse())
}

func (s *Server) gatesResponse() gatesResponse {
	g := s.core.Gates
	active := "none"
	switch g.ActivePath() {
	case specedit.PathSpecEdit:
		active = "spec-edit"
	case specedit.PathNgram:
		active = "ngram"
	}
	return gatesResponse{SpecEdit: g.SpecEditEnabled(), Ngram: g.NgramEnabled(), Active: active}
}

type gateRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetSpecEditGate(c *gin.Context) {
	var req gateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.core.Gates.SetSpecEdit(req.Enabled)
	c.JSON(http.StatusOK, s.gatesResponse())
}

func (s *Server) handleSetNgramGate(c *gin.Context) {
	var req gateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.core.Gates.SetNgram(req.Enabled)
	c.JSON(http.StatusOK, s.gatesResponse())
}

type statsResponse struct {
	Proposals       int64                  `json:"proposals"`
	Delegations     int64                  `json:"delegations"`
	PanicsRecovered int64                  `json:"panics_recovered"`
	Registry        specedit.RegistryStats `json:"registry"`
	EngineInstalled bool                   `json:"engine_installed"`
	EngineVersion   string                 `json:"engine_version,omitempty"`
}

func (s *Server) handleStats(c *gin.Context) {
	st := s.core.Proposer.Stats()
	c.JSON(http.StatusOK, statsResponse{
		Proposals:       st.Proposals,
		Delegations:     st.Delegations,
		PanicsRecovered: st.PanicsRecovered,
		Registry:        st.Registry,
		EngineInstalled: s.core.Patch.Installed(),
		EngineVersion:   s.core.Patch.Version(),
	})
}

// handleWatch upgrades to a websocket connection and streams AlignerEvents
// as they are published, best-effort, for as long as the client stays
// connected.
func (s *Server) handleWatch(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events := s.core.Events.Subscribe()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}
