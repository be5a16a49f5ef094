// Package server assembles the HTTP surface: middleware, routes and the
// guards in front of each of them.
package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/writerhub/internal/article"
	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/company"
	"github.com/SergeyParamoshkin/writerhub/internal/config"
	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/metrics"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
	"github.com/SergeyParamoshkin/writerhub/internal/storage/sqldb"
	"github.com/SergeyParamoshkin/writerhub/internal/upload"
	"github.com/SergeyParamoshkin/writerhub/internal/user"
)

type App struct {
	sugarLogger *zap.SugaredLogger
	uploads     config.UploadsConfig
	tokens      *auth.Tokens
	metrics     *metrics.Metrics

	auth      *auth.API
	users     *user.API
	companies *company.API
	articles  *article.API
}

// New wires stores, services and handlers over db.
func New(cfg *config.Config, db *sqlx.DB, tokens *auth.Tokens, m *metrics.Metrics, logger *zap.SugaredLogger) *App {
	users := sqldb.NewUserStore(db)
	companies := sqldb.NewCompanyStore(db)
	articles := sqldb.NewArticleStore(db)
	images := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix, cfg.Uploads.MaxSize)

	return &App{
		sugarLogger: logger,
		uploads:     cfg.Uploads,
		tokens:      tokens,
		metrics:     m,

		auth:      auth.NewAPI(auth.NewService(users, tokens)),
		users:     user.NewAPI(user.NewService(users)),
		companies: company.NewAPI(company.NewService(companies)),
		articles:  article.NewAPI(article.NewService(articles, companies, images, m), cfg.Uploads.MaxSize),
	}
}

// Router builds the API router.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.Logger)
	r.Use(a.AccessLog)
	r.Use(a.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.render(w, r, errresponse.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.render(w, r, errresponse.ErrMethodNotAllowed)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			reqlog.From(r.Context()).Errorw(err.Error())
		}
	})

	authenticated := auth.Authenticate(a.tokens)
	signedIn := auth.Chain(authenticated)
	editorOnly := auth.Chain(authenticated, auth.RequireRole(model.RoleEditor))
	writerOnly := auth.Chain(authenticated, auth.RequireRole(model.RoleWriter))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", a.auth.Login)     // POST /auth/login
		r.Post("/refresh", a.auth.Refresh) // POST /auth/refresh
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(editorOnly)
		r.Get("/", a.users.ListUsers)   // GET /users
		r.Post("/", a.users.CreateUser) // POST /users

		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", a.users.GetUser)       // GET /users/123
			r.Put("/", a.users.UpdateUser)    // PUT /users/123
			r.Delete("/", a.users.DeleteUser) // DELETE /users/123
		})
	})

	r.Route("/companies", func(r chi.Router) {
		r.Get("/", a.companies.ListCompanies)
		r.With(editorOnly).Post("/", a.companies.CreateCompany)

		r.Route("/{companyID}", func(r chi.Router) {
			r.Get("/", a.companies.GetCompany)
			r.With(editorOnly).Put("/", a.companies.UpdateCompany)
			r.With(editorOnly).Delete("/", a.companies.DeleteCompany)
		})
	})

	// Guards run before ArticleCtx so an anonymous caller learns nothing
	// about which ids exist.
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", a.articles.ListArticles)
		r.With(writerOnly).Post("/", a.articles.CreateArticle)

		r.Route("/{articleID}", func(r chi.Router) {
			r.With(article.ArticleCtx).Get("/", a.articles.GetArticle)
			r.With(signedIn, article.ArticleCtx).Put("/", a.articles.UpdateArticle)
			r.With(editorOnly, article.ArticleCtx).Patch("/publish", a.articles.PublishArticle)
			r.With(editorOnly, article.ArticleCtx).Delete("/", a.articles.DeleteArticle)
		})
	})

	FileServer(r, a.uploads.URLPrefix, http.Dir(a.uploads.Dir))

	return r
}

// DiagRouter serves the Prometheus scrape endpoint.
func DiagRouter(exporter http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", exporter.ServeHTTP)

	return r
}

// RoutesDoc renders the route table as markdown for the -routes flag.
func RoutesDoc(r chi.Router) string {
	return docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/SergeyParamoshkin/writerhub",
		Intro:       "Routes of the writerhub API.",
	})
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (a *App) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		reqlog.From(r.Context()).Errorw("render response", "error", err)
	}
}
