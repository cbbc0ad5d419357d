package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/prodiny/collegehub/internal/chat"
	"github.com/prodiny/collegehub/internal/config"
	"github.com/prodiny/collegehub/internal/database"
	"github.com/prodiny/collegehub/internal/stats"
)

type CollegeHubApp struct {
	log            *log.Logger
	db             database.CollegeHubRepository
	srv            *http.Server
	gateway        *chat.Gateway
	stats          stats.StatsProvider
	validate       *validator.Validate
	signingKey     []byte
	allowedOrigins []string
}

func NewCollegeHubApp(mux *http.ServeMux, logger *log.Logger, gateway *chat.Gateway,
	db database.CollegeHubRepository, su stats.StatsProvider, cfg *config.Config) *CollegeHubApp {
	s := &CollegeHubApp{
		log:            logger,
		db:             db,
		gateway:        gateway,
		stats:          su,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /healthz", s.healthz)

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("POST /api/auth/profile-setup", s.authMiddleware(s.profileSetup))

	mux.HandleFunc("GET /api/posts", s.optionalAuthMiddleware(s.listPosts))
	mux.HandleFunc("POST /api/posts", s.authMiddleware(s.createPost))
	mux.HandleFunc("PUT /api/posts/{id}/vote", s.authMiddleware(s.votePost))
	mux.HandleFunc("GET /api/posts/{id}/comments", s.listComments)
	mux.HandleFunc("POST /api/posts/{id}/comments", s.authMiddleware(s.createComment))

	mux.HandleFunc("GET /api/subgroups", s.optionalAuthMiddleware(s.listSubgroups))
	mux.HandleFunc("POST /api/subgroups/{id}/join", s.authMiddleware(s.joinSubgroup))

	mux.HandleFunc("GET /api/projects", s.authMiddleware(s.listProjects))
	mux.HandleFunc("POST /api/projects", s.authMiddleware(s.createProject))
	mux.HandleFunc("GET /api/projects/{id}", s.authMiddleware(s.getProject))
	mux.HandleFunc("GET /api/projects/{id}/tasks", s.authMiddleware(s.listTasks))
	mux.HandleFunc("POST /api/tasks", s.authMiddleware(s.createTask))
	mux.HandleFunc("PUT /api/tasks/{id}/status", s.authMiddleware(s.updateTaskStatus))

	mux.HandleFunc("GET /api/projects/{id}/messages", s.authMiddleware(s.listProjectMessages))
	mux.HandleFunc("POST /api/projects/{id}/messages", s.authMiddleware(s.createProjectMessage))

	mux.HandleFunc("GET /api/colleges", s.listColleges)
	mux.HandleFunc("POST /api/colleges", s.authMiddleware(s.createCollege))
	mux.HandleFunc("GET /api/colleges/{name}/posts", s.collegePosts)
	mux.HandleFunc("GET /api/colleges/{name}/projects", s.collegeProjects)

	mux.HandleFunc("GET /api/admin/stats", s.authMiddleware(s.adminStats))

	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.recoveryMiddleware(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.srv = srv
	return s
}

func (s *CollegeHubApp) Start() error {
	s.log.Printf("starting server on %s\n", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *CollegeHubApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
