// Package guard redirects page requests based on the session cookie before any page is served.
package guard

import (
	"context"
	"net/http"
	"path"
	"strings"

	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier checks a cookie value when the guard runs in verifying mode.
type TokenVerifier interface {
	Resolve(ctx context.Context, token string) (*session.User, error)
}

var excludedPrefixes = []string{"/api", "/health", "/_next/static", "/_next/image"}

var excludedExact = map[string]bool{"/favicon.ico": true}

var staticExtensions = map[string]bool{
	".css": true,
	".js":  true,
	".png": true,
	".jpg": true,
	".svg": true,
}

// Rules holds the page paths and cookie the guard decides on.
type Rules struct {
	CookieName    string
	LandingPath   string
	LoginPath     string
	DashboardPath string
	VerifyToken   bool
}

func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		CookieName:    cfg.SessionCookieName,
		LandingPath:   normalize(cfg.LandingPath),
		LoginPath:     normalize(cfg.LoginPath),
		DashboardPath: normalize(cfg.DashboardPath),
		VerifyToken:   cfg.RouteGuardVerifyToken,
	}
}

// Decision is the outcome for one request: Location is empty when the request passes.
type Decision struct {
	Location string
}

func (d Decision) Redirects() bool { return d.Location != "" }

// Guard evaluates the ordered redirect rules.
type Guard struct {
	rules    Rules
	verifier TokenVerifier
	logger   *zap.Logger
}

func New(rules Rules, verifier TokenVerifier, logger *zap.Logger) *Guard {
	return &Guard{rules: rules, verifier: verifier, logger: logger.Named("route_guard")}
}

// NewFromConfig builds the guard wired to the session manager.
func NewFromConfig(cfg *config.Config, manager *session.Manager, logger *zap.Logger) *Guard {
	return New(RulesFromConfig(cfg), manager, logger)
}

// Excluded reports whether a path bypasses the guard entirely.
func Excluded(p string) bool {
	for _, prefix := range excludedPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	if excludedExact[p] {
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func (g *Guard) isEntryPage(p string) bool {
	p = normalize(p)
	return p == g.rules.LandingPath || p == g.rules.LoginPath
}

// Decide applies the rules in order. hasSession is true when the cookie counts as a session.
func (g *Guard) Decide(p string, hasSession bool) Decision {
	if Excluded(p) {
		return Decision{}
	}
	entry := g.isEntryPage(p)
	switch {
	case hasSession && entry:
		return Decision{Location: g.rules.DashboardPath}
	case !hasSession && !entry:
		return Decision{Location: g.rules.LoginPath}
	default:
		return Decision{}
	}
}

func (g *Guard) hasSession(r *http.Request) bool {
	cookie, err := r.Cookie(g.rules.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	if !g.rules.VerifyToken || g.verifier == nil {
		return true
	}
	if _, err := g.verifier.Resolve(r.Context(), cookie.Value); err != nil {
		g.logger.Debug("Session cookie failed verification; treating as absent", zap.Error(err))
		return false
	}
	return true
}

// Middleware redirects with 307 when a rule fires and otherwise continues the chain.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if Excluded(p) {
			c.Next()
			return
		}
		d := g.Decide(p, g.hasSession(c.Request))
		if d.Redirects() {
			g.logger.Debug("Redirecting", zap.String("path", p), zap.String("location", d.Location))
			c.Redirect(http.StatusTemporaryRedirect, d.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}
