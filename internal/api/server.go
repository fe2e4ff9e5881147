package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"podctl/internal/domain"
	"podctl/internal/usecase"
)

type scheduleReq struct {
	Target string `json:"target"`
	At     string `json:"at,omitempty"`
	In     string `json:"in,omitempty"`
}

type taskResp struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	Action    string    `json:"action"`
	DueAt     time.Time `json:"due_at"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	Result    string    `json:"result,omitempty"`
}

func NewServer(scheduler usecase.Scheduler, executor usecase.Executor) *Server {
	r := chi.NewRouter()

	r.Get("/schedule", func(w http.ResponseWriter, r *http.Request) {
		tasks, err := scheduler.List()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		out := make([]taskResp, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, toResp(t))
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Post("/schedule", func(w http.ResponseWriter, r *http.Request) {
		var req scheduleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		task, err := scheduler.ScheduleStop(req.Target, req.At, req.In, time.Now())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toResp(task))
	})

	r.Delete("/schedule/{id}", func(w http.ResponseWriter, r *http.Request) {
		task, err := scheduler.Cancel(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		_ = json.NewEncoder(w).Encode(toResp(task))
	})

	r.Post("/schedule/clean", func(w http.ResponseWriter, r *http.Request) {
		removed, err := scheduler.Clean()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"removed": removed})
	})

	r.Post("/tick", func(w http.ResponseWriter, r *http.Request) {
		report, err := executor.RunTick(r.Context(), time.Now())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(report)
	})

	return &Server{router: r}
}

func toResp(t domain.Task) taskResp {
	return taskResp{
		ID:        t.ID,
		Target:    t.Target,
		Action:    string(t.Action),
		DueAt:     t.DueAt,
		State:     string(t.State),
		CreatedAt: t.CreatedAt,
		Result:    t.Result,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTimeSpec):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Server struct {
	router *chi.Mux
}

// Handler returns the fully wrapped HTTP handler; exposed for tests.
func (s *Server) Handler() http.Handler {
	return chainMiddleware(
		s.router,
		recoverHandler,
		loggerHandler(func(w http.ResponseWriter, r *http.Request) bool { return r.URL.Path == "/" }),
		realIPHandler,
		requestIDHandler,
		corsHandler,
	)
}

// Run method of the Server struct runs the HTTP server on the specified port. It initializes
// a new HTTP server instance with the specified port and the server's router.
func (s *Server) Run(port int) {
	addr := fmt.Sprintf(":%d", port)

	httpServer := http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Fatal().Err(err).Msg("Server forced to shutdown")
		}

		close(done)
	}()

	log.Info().Msgf("server serving on port %d", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to listen and serve")
	}

	<-done
	log.Info().Msg("Server stopped")
}
