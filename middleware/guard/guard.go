// Package guard gates protected route subtrees on session state. While the
// session is uninitialized it runs the first restore instead of redirecting;
// once initialized it admits role-permitted sessions and redirects everyone
// else to the portal's login path, carrying the originally requested URL for
// post-login redirect.
package guard

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/serenoa/go-session"
)

// Sessioner is the slice of session.Manager the guard consumes
type Sessioner interface {
	Snapshot() session.Snapshot
	Restore(ctx context.Context) error
}

type Config struct {
	// Session supplies the state the guard gates on. Required.
	Session Sessioner

	// AllowedRoles admitted by this route group. Empty admits any
	// authenticated session. Each guard instance carries its own set, the
	// same session can sit behind differently scoped groups.
	AllowedRoles []session.UserRole

	// LoginPath is the role-appropriate login page to redirect to
	LoginPath string

	// RedirectCookie names the cookie carrying the originally requested URL
	RedirectCookie string

	// ContextKey is the Locals key the admitted user is stored under
	ContextKey string

	// Placeholder renders while the first restore is still in flight
	Placeholder router.HandlerFunc

	Logger session.Logger
}

// New returns the route guard middleware
func New(config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			snap := cfg.Session.Snapshot()

			// Suspend navigation until the first restore completes: run it
			// here rather than redirecting an uninitialized session.
			if !snap.Initialized && !snap.Loading {
				if err := cfg.Session.Restore(ctx.Context()); err != nil {
					cfg.Logger.Debug("guard restore failed", "error", err)
				}
				snap = cfg.Session.Snapshot()
			}

			if !snap.Initialized {
				return cfg.Placeholder(ctx)
			}

			if !snap.Authenticated {
				return deny(ctx, cfg, "unauthenticated")
			}

			if !roleAllowed(snap.User.Role, cfg.AllowedRoles) {
				return deny(ctx, cfg, "role not allowed")
			}

			ctx.Locals(cfg.ContextKey, snap.User)
			ctx.SetContext(session.WithUserContext(ctx.Context(), snap.User))

			return ctx.Next()
		}
	}
}

// SetRedirect stores the originally requested URL so the login flow can send
// the user back after authenticating.
func SetRedirect(ctx router.Context, cookieName string) {
	ctx.Cookie(&router.Cookie{
		Name:     cookieName,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirectOrDefault consumes the redirect cookie, falling back to the
// referer header and then the given default path.
func GetRedirectOrDefault(ctx router.Context, cookieName, def string) string {
	r := ctx.Cookies(cookieName, string(ctx.Referer()))
	if r == "" {
		r = def
	}
	clearCookie(ctx, cookieName)
	return r
}

func deny(ctx router.Context, cfg Config, reason string) error {
	cfg.Logger.Info(
		"route guard redirecting to login",
		"reason", reason,
		"path", ctx.OriginalURL(),
		"allowed", print.MaybePrettyJSON(cfg.AllowedRoles),
	)

	SetRedirect(ctx, cfg.RedirectCookie)

	statusCode := http.StatusSeeOther
	if ctx.Method() == string(router.GET) {
		statusCode = http.StatusFound
	}
	return ctx.Redirect(cfg.LoginPath, statusCode)
}

func roleAllowed(role session.UserRole, allowed []session.UserRole) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func clearCookie(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Session == nil {
		panic("GUARD: route guard configuration: Session is required.")
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	if cfg.RedirectCookie == "" {
		cfg.RedirectCookie = "rejected_route"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	if cfg.Placeholder == nil {
		cfg.Placeholder = func(ctx router.Context) error {
			return ctx.Status(http.StatusServiceUnavailable).
				SendString("Restoring your session, try again in a moment")
		}
	}

	return cfg
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any) {}
func (noopLogger) Error(string, ...any) {}
