// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	archivefeature "github.com/sranand/allochub/internal/app/features/archive"
	courseworkfeature "github.com/sranand/allochub/internal/app/features/coursework"
	errorsfeature "github.com/sranand/allochub/internal/app/features/errors"
	exportfeature "github.com/sranand/allochub/internal/app/features/export"
	filesfeature "github.com/sranand/allochub/internal/app/features/files"
	groupsfeature "github.com/sranand/allochub/internal/app/features/groups"
	healthfeature "github.com/sranand/allochub/internal/app/features/health"
	homefeature "github.com/sranand/allochub/internal/app/features/home"
	loginfeature "github.com/sranand/allochub/internal/app/features/login"
	logoutfeature "github.com/sranand/allochub/internal/app/features/logout"
	projectsfeature "github.com/sranand/allochub/internal/app/features/projects"
	settingsfeature "github.com/sranand/allochub/internal/app/features/settings"
	shorturlsfeature "github.com/sranand/allochub/internal/app/features/shorturls"
	submitfeature "github.com/sranand/allochub/internal/app/features/submit"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	courseworkstore "github.com/sranand/allochub/internal/app/store/coursework"
	credentialstore "github.com/sranand/allochub/internal/app/store/credentials"
	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	formcontentstore "github.com/sranand/allochub/internal/app/store/formcontent"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	shortstore "github.com/sranand/allochub/internal/app/store/shortlinks"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/app/system/deadline"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, the store, and Startup have
// completed. The student surface is open; everything under /admin sits
// behind the session middleware.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr := auth.NewSessionManager([]byte(appCfg.SessionKey), appCfg.SessionName, appCfg.SessionDomain, secure, logger)

	// Typed stores over the shared file store.
	settings := settingsstore.New(deps.Store)
	projects := projectstore.New(deps.Store)
	groups := groupstore.New(deps.Store)
	deadlines := deadlinestore.New(deps.Store)
	formContent := formcontentstore.New(deps.Store)
	submissions := submissionstore.New(deps.Store)
	coursework := courseworkstore.New(deps.Store)
	shortLinks := shortstore.New(deps.Store)
	credentials := credentialstore.New(deps.Store)
	archive := archivestore.New(deps.Store)

	gate := deadline.NewGate(settings, deadlines)
	controller := allocation.NewController(deps.Store, archive, gate, logger)
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the admin into context if signed in.
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Student surface
	homeHandler := homefeature.NewHandler(settings, projects, formContent, shortLinks, submissions, gate, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	submitHandler := submitfeature.NewHandler(controller, groups, projects, errLog, logger)
	r.Mount("/submit", submitfeature.Routes(submitHandler))
	r.Mount("/allocations", submitfeature.BoardRoutes(submitHandler))

	filesHandler := filesfeature.NewHandler(groups, submissions, deadlines, errLog, logger)
	r.Mount("/files", filesfeature.Routes(filesHandler))

	courseworkHandler := courseworkfeature.NewHandler(coursework, gate, errLog, logger)
	r.Mount("/coursework", courseworkfeature.Routes(courseworkHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(credentials, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, errLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Admin surface
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(sessionMgr.RequireAdmin)

		projectsHandler := projectsfeature.NewHandler(projects, controller, errLog, logger)
		admin.Mount("/projects", projectsfeature.Routes(projectsHandler))

		groupsHandler := groupsfeature.NewHandler(groups, controller, errLog, logger)
		admin.Mount("/groups", groupsfeature.Routes(groupsHandler))

		settingsHandler := settingsfeature.NewHandler(settings, deadlines, formContent, submissions, credentials, errLog, logger)
		admin.Mount("/settings", settingsfeature.Routes(settingsHandler))

		shortURLsHandler := shorturlsfeature.NewHandler(shortLinks, settings, archive, errLog, logger)
		admin.Mount("/shorturls", shorturlsfeature.Routes(shortURLsHandler))

		archiveHandler := archivefeature.NewHandler(archive, errLog, logger)
		admin.Mount("/archive", archivefeature.Routes(archiveHandler))

		exportHandler := exportfeature.NewHandler(groups, projects, errLog, logger)
		admin.Mount("/export", exportfeature.Routes(exportHandler))
	})

	return r, nil
}
