package relay

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server routes frames between connected nicks.
type Server struct {
	log logrus.FieldLogger

	mu    sync.RWMutex
	conns map[string]*conn
}

// conn serialises writes; gorilla connections allow one writer at a time.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(f)
}

// NewServer returns an empty relay.
func NewServer(log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{log: log, conns: make(map[string]*conn)}
}

// Handler returns the relay's routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws/{nick}", s.handleJoin).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

// Online reports whether nick is connected.
func (s *Server) Online(nick string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conns[nick]
	return ok
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	nick := mux.Vars(r)["nick"]
	if nick == "" || nick == ServerNick {
		http.Error(w, "invalid nick", http.StatusBadRequest)
		return
	}
	if s.Online(nick) {
		http.Error(w, "nick in use", http.StatusConflict)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Info("websocket upgrade failed")
		return
	}
	c := &conn{ws: ws}

	s.mu.Lock()
	if _, taken := s.conns[nick]; taken {
		s.mu.Unlock()
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "nick in use"))
		_ = ws.Close()
		return
	}
	s.conns[nick] = c
	s.mu.Unlock()

	log := s.log.WithField("nick", nick)
	log.Info("joined")
	defer func() {
		s.mu.Lock()
		delete(s.conns, nick)
		s.mu.Unlock()
		_ = ws.Close()
		log.Info("left")
	}()

	for {
		var f Frame
		if err := ws.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("read failed")
			}
			return
		}
		f.From = nick
		s.route(c, f)
	}
}

func (s *Server) route(from *conn, f Frame) {
	s.mu.RLock()
	to, ok := s.conns[f.To]
	s.mu.RUnlock()

	if !ok {
		_ = from.write(Frame{From: ServerNick, To: f.From, Error: "no such nick: " + f.To})
		return
	}
	if err := to.write(f); err != nil {
		s.log.WithFields(logrus.Fields{"from": f.From, "to": f.To}).WithError(err).Info("forward failed")
	}
}
