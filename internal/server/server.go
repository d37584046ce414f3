//go:generate mockgen -source ./server.go -destination=./mocks/service.go -package=server_mocks
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/audit"
	"github.com/rfagundes/quality-control/internal/auth"
	"github.com/rfagundes/quality-control/internal/report"
	"github.com/rfagundes/quality-control/internal/service"
	"github.com/rfagundes/quality-control/internal/storage"
)

// Service is the slice of the core API the HTTP surface needs.
type Service interface {
	SubmitPart(id string, weight float64, color string, length float64, operator string) (*service.InspectionResult, error)
	RemovePart(id, actor string) error
	EditPart(id string, weight float64, color string, length float64, actor string) (*service.InspectionResult, error)
	Report(from, to *time.Time, operator string) report.Report
	Containers() ([]storage.Container, storage.Container)
	Login(username, password string) (*auth.User, error)
	CreateUser(caller *auth.User, req service.UserRequest) error
	EditUser(caller *auth.User, req service.UserRequest) error
	DeleteUser(caller *auth.User, username string) error
	ResetPassword(caller *auth.User, username, newPassword string) error
	ListUsers(caller *auth.User) ([]auth.User, error)
	UpdateCriteria(caller *auth.User, settings storage.Settings) error
	Settings() storage.Settings
}

// Server is the HTTP translation layer between a UI client and the
// core service. It owns no business state.
type Server struct {
	service Service
	audit   *audit.Manager
	log     *zap.Logger
	server  *http.Server
}

func New(svc Service, auditManager *audit.Manager, log *zap.Logger) *Server {
	return &Server{
		service: svc,
		audit:   auditManager,
		log:     log,
	}
}

// Run starts the audit pipeline and serves until the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.audit.Start(ctx)

	s.log.Info("server starting", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener and flushes the audit pipeline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.audit.Shutdown(ctx)
	return nil
}

func (s *Server) setupRouter() http.Handler {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.auditMiddleware, s.basicAuthMiddleware)

	api.HandleFunc("/parts", s.handleSubmitPart).Methods(http.MethodPost)
	api.HandleFunc("/parts/{id}", s.handleEditPart).Methods(http.MethodPut)
	api.HandleFunc("/parts/{id}", s.handleRemovePart).Methods(http.MethodDelete)
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/containers", s.handleContainers).Methods(http.MethodGet)

	api.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", s.handleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{username}", s.handleEditUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{username}", s.handleDeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/{username}/password", s.handleResetPassword).Methods(http.MethodPost)

	api.HandleFunc("/criteria", s.handleGetCriteria).Methods(http.MethodGet)
	api.HandleFunc("/criteria", s.handleUpdateCriteria).Methods(http.MethodPut)

	return r
}
