package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/httpx"
	"github.com/accredhub/accredhub/pkg/jwtx"
	"github.com/accredhub/accredhub/pkg/slogx"

	_ "github.com/accredhub/accredhub/api/invites" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	InviteService   *service.InviteService
	CampaignService *service.CampaignService
}

func NewRouter(
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitesPublic()
	r.registerInvitesAdmin()
	r.registerCampaigns()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AccredHub Invite Service API
//	@version		0.1.0
//	@description	Invite lifecycle management for the accreditation platform: single invites
//	@description	from creation through validation, viewing, acceptance, decline and expiry,
//	@description	plus bulk campaigns with per-recipient delivery and engagement tracking.
//
//	@contact.name				AccredHub Team
//	@contact.url				https://github.com/accredhub/accredhub
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitesPublic() {
	h := &InvitePublicHandler{InviteService: r.InviteService}

	// GET /invites/validate - pages poll this while rendering; lenient by IP
	r.Mux.Handle("GET /v1/invites/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /invites/track/view - fire-and-forget analytics; lenient by IP
	r.Mux.Handle("POST /v1/invites/track/view",
		httpx.Chain(http.HandlerFunc(h.HandleTrackView),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /invites/accept - public signup endpoint; strict by IP
	r.Mux.Handle("POST /v1/invites/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /invites/decline - terminal transition; moderate by IP
	r.Mux.Handle("POST /v1/invites/decline",
		httpx.Chain(http.HandlerFunc(h.HandleDecline),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInvitesAdmin() {
	h := &InviteAdminHandler{InviteService: r.InviteService}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier, r.issuer),
		httpx.RequireAnyScope("admin:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier, r.issuer),
		httpx.RequireAnyScope("admin:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier, r.issuer),
		httpx.RequireAnyScope("admin:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedEdit := httpx.Chain(http.HandlerFunc(h.HandleEdit),
		httpx.AuthnMiddleware(r.verifier, r.issuer),
		httpx.RequireAnyScope("admin:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/invites", securedCreate)
	r.Mux.Handle("GET /v1/invites", securedList)
	r.Mux.Handle("GET /v1/invites/{id}", securedGet)
	r.Mux.Handle("PATCH /v1/invites/{id}", securedEdit)
}

func (r *Router) registerCampaigns() {
	h := &CampaignHandler{CampaignService: r.CampaignService}

	secured := func(fn http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier, r.issuer),
			httpx.RequireAnyScope(scope),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/campaigns", secured(h.HandleCreate, "admin:write", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/campaigns", secured(h.HandleList, "admin:read", httpx.LenientLimit))
	r.Mux.Handle("GET /v1/campaigns/{id}", secured(h.HandleGet, "admin:read", httpx.LenientLimit))
	r.Mux.Handle("GET /v1/campaigns/{id}/recipients", secured(h.HandleRecipients, "admin:read", httpx.LenientLimit))
	r.Mux.Handle("GET /v1/campaigns/{id}/stats", secured(h.HandleStats, "admin:read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/campaigns/{id}/start", secured(h.HandleStart, "admin:write", httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/campaigns/{id}/pause", secured(h.HandlePause, "admin:write", httpx.ModerateLimit))

	// GET /campaigns/track/open/{id} - email tracking pixel; public, lenient by IP
	r.Mux.Handle("GET /v1/campaigns/track/open/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleTrackOpen),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
