package httpstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

// Commands es la parte del registro que expone el server.
type Commands interface {
	Names() []string
	Has(name string) bool
}

type Server struct {
	ids  *componentid.Codec
	cmds Commands
	log  *slog.Logger
	mux  *http.ServeMux
}

func New(ids *componentid.Codec, cmds Commands, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{ids: ids, cmds: cmds, log: log, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /commands", s.handleCommands)
	s.mux.HandleFunc("GET /components/decode", s.handleDecode)
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCommands(w http.ResponseWriter, _ *http.Request) {
	names := s.cmds.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": names})
}

type decodedComponent struct {
	Disambiguator string   `json:"disambiguator"`
	Command       string   `json:"command"`
	Elements      []string `json:"elements"`
	Registered    bool     `json:"registered"`
}

// handleDecode muestra qué hay adentro de un custom_id (útil con componentes viejos).
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	wire := r.URL.Query().Get("id")
	id, err := s.ids.Parse(wire)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	elems := id.Elements()
	if elems == nil {
		elems = []string{}
	}
	writeJSON(w, http.StatusOK, decodedComponent{
		// como string: un uint64 no entra en un number de JSON sin perder precisión
		Disambiguator: strconv.FormatUint(id.Disambiguator(), 10),
		Command:       id.Command(),
		Elements:      elems,
		Registered:    s.cmds.Has(id.Command()),
	})
}

// Run sirve en addr hasta que ctx se cancela.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	s.log.Info("🌐 HTTP listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
