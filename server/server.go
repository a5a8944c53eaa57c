package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/config"
	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	log      *log.Entry

	mu  sync.RWMutex
	cfg config.Config
	asm *result.Assembler
}

func NewServer(cfg config.Config) *Server {
	s := &Server{
		addr: cfg.Server.Addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.Server.ReadBuffer,
			WriteBufferSize: cfg.Server.WriteBuffer,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log.WithField("component", "server"),
	}
	s.SetConfig(cfg)
	return s
}

// SetConfig swaps the sweep and domain settings used by later requests.
// Address and buffer sizes are fixed at start.
func (s *Server) SetConfig(cfg config.Config) {
	asm := result.NewAssembler(sweep.NewEngine(cfg.Sweep.Workers), cfg.SweepDefaults(), cfg.DomainPolicy())
	s.mu.Lock()
	s.cfg = cfg
	s.asm = asm
	s.mu.Unlock()
	s.log.WithFields(log.Fields{
		"workers": cfg.Sweep.Workers,
		"domain":  cfg.Domain.Mode.String(),
	}).Info("config applied")
}

func (s *Server) current() (config.Config, *result.Assembler) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.asm
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	hub := NewHub(s, conn)
	hub.log.WithField("remote", r.RemoteAddr).Info("connected")
	go hub.handleRequest()
	hub.readLoop()
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWs)
	mux.HandleFunc("GET /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/defaults", s.handleDefaults)
	mux.HandleFunc("GET /export/result.csv", s.handleRecordCSV)
	mux.HandleFunc("GET /export/curve.csv", s.handleCurveCSV)
	mux.HandleFunc("GET /export/grid.csv", s.handleGridCSV)
	mux.HandleFunc("GET /export/result.xlsx", s.handleXLSX)
	mux.HandleFunc("GET /chart/curve.png", s.handleCurvePNG)
	return mux
}

func (s *Server) Serve() error {
	s.log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, s.Handler())
}
