package policy

import (
	"net/http"
	"strings"

	"github.com/formlytics/formlytics-api/internal/api/apierrors"
	"github.com/formlytics/formlytics-api/internal/api/session"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/auth"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

// UserResolver finds the user behind a request, or nil for an
// anonymous one.
type UserResolver interface {
	Resolve(r *http.Request) (*models.User, error)
}

type SessionUserResolver struct {
	log        logutil.Log
	authorizer *auth.Authorizer
}

func NewSessionUserResolver(log logutil.Log, authorizer *auth.Authorizer) *SessionUserResolver {
	return &SessionUserResolver{
		log:        log,
		authorizer: authorizer,
	}
}

func (res SessionUserResolver) Resolve(r *http.Request) (*models.User, error) {
	sctx := &session.RequestContext{
		Saver:    session.NewSaver(res.log),
		Registry: sessions.GetRegistry(r),
	}

	au, err := res.authorizer.Authorize(sctx)
	if err != nil {
		if errors.Cause(err) == apierrors.ErrNotAuthorized {
			return nil, nil
		}
		return nil, err
	}

	return au.User, nil
}

type pathClass struct {
	protected          bool
	needsEntitlement   bool
	rejectsEntitlement bool
	authOnly           bool
}

// AccessGate decides whether a request may reach its route handler.
// It runs on every request and evaluates entitlement fresh each time:
// webhook processing changes billing state between requests, so a
// cached answer would let a canceled user keep their access.
type AccessGate struct {
	log         logutil.Log
	users       UserResolver
	entitlement *Entitlement

	signInPath string
	plansPath  string
	homePath   string

	protectedPrefixes []string
	entitledPrefixes  []string
	authOnlyPaths     map[string]bool
}

func NewAccessGate(log logutil.Log, users UserResolver, entitlement *Entitlement, cfg config.Config) *AccessGate {
	g := &AccessGate{
		log:         log,
		users:       users,
		entitlement: entitlement,

		signInPath: cfg.GetString("WEB_SIGNIN_PATH"),
		plansPath:  cfg.GetString("WEB_PLANS_PATH"),
		homePath:   cfg.GetString("WEB_HOME_PATH"),
	}

	if g.signInPath == "" {
		g.signInPath = "/signin"
	}
	if g.plansPath == "" {
		g.plansPath = "/plans"
	}
	if g.homePath == "" {
		g.homePath = "/dashboard"
	}

	g.protectedPrefixes = []string{g.homePath, g.plansPath, "/v1/checkout", "/v1/subscription"}
	g.entitledPrefixes = []string{g.homePath}
	g.authOnlyPaths = map[string]bool{
		g.signInPath: true,
		"/signup":    true,
	}

	return g
}

func (g AccessGate) classify(path string) pathClass {
	var class pathClass

	if g.authOnlyPaths[path] {
		class.authOnly = true
		return class
	}

	for _, p := range g.protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			class.protected = true
			break
		}
	}
	for _, p := range g.entitledPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			class.needsEntitlement = true
			break
		}
	}
	if path == g.plansPath {
		class.rejectsEntitlement = true
	}

	return class
}

func (g AccessGate) hasEntitlement(user *models.User) bool {
	tier, err := g.entitlement.ActiveTier(user)
	if err != nil {
		g.log.Errorf("Failed to resolve entitlement of user %d: %s", user.ID, err)
		return false
	}

	return tier != nil
}

func (g AccessGate) redirect(w http.ResponseWriter, r *http.Request, to string) {
	g.log.Infof("Redirecting %s %s to %s", r.Method, r.URL.Path, to)
	http.Redirect(w, r, to, http.StatusTemporaryRedirect)
}

// ServeHTTP is a negroni middleware. Rules run in order: unauthorized
// access to a protected path goes to sign-in, unsubscribed access to a
// subscription-only path goes to plan selection, a subscribed user is
// bounced off the plan page and off the auth pages.
func (g AccessGate) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	class := g.classify(r.URL.Path)
	if !class.protected && !class.authOnly {
		next(w, r)
		return
	}

	user, err := g.users.Resolve(r)
	if err != nil {
		g.log.Errorf("Failed to resolve user for %s %s: %s", r.Method, r.URL.Path, err)
		user = nil
	}

	if user == nil {
		if class.protected {
			g.redirect(w, r, g.signInPath)
			return
		}

		next(w, r) // anonymous user on an auth page
		return
	}

	if class.authOnly {
		if g.hasEntitlement(user) {
			g.redirect(w, r, g.homePath)
		} else {
			g.redirect(w, r, g.plansPath)
		}
		return
	}

	if class.needsEntitlement && !g.hasEntitlement(user) {
		g.redirect(w, r, g.plansPath)
		return
	}

	if class.rejectsEntitlement && g.hasEntitlement(user) {
		g.redirect(w, r, g.homePath)
		return
	}

	next(w, r)
}
