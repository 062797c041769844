package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-router"
	"github.com/serenoa/go-session"
	"github.com/serenoa/go-session/client"
	"github.com/serenoa/go-session/middleware/guard"
	"github.com/serenoa/go-session/store"
)

// App wires a role-gated portal over the marketplace backend. The same
// binary serves the admin and the provider portal depending on PORTAL_ROLES.
type App struct {
	config  *Config
	tokens  session.TokenStore
	session *session.Manager
	api     *client.Client
	srv     router.Server[*fiber.App]
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	tokens, err := newTokenStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	app := &App{
		config: cfg,
		tokens: tokens,
		session: session.NewManager(
			tokens,
			session.NewAuthClient(cfg.APIBaseURL),
			cfg.AllowedRoles...,
		),
		api: client.New(cfg.APIBaseURL, tokens),
	}

	if err := WithHTTPServer(app); err != nil {
		log.Fatal(err)
	}

	Routes(app)

	app.srv.Serve(cfg.Address)

	WaitExitSignal()
}

// newTokenStore selects the persistence backend for the credential slot
func newTokenStore(ctx context.Context, cfg *Config) (session.TokenStore, error) {
	switch cfg.TokenStore {
	case "memory":
		return session.NewMemoryTokenStore(), nil
	case "sqlite":
		db, err := store.OpenSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return store.NewBunStore(ctx, db, cfg.TokenSlot)
	case "redis":
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(rdb, cfg.TokenSlot), nil
	default:
		return store.NewFileStore(cfg.TokenFile), nil
	}
}

func WithHTTPServer(app *App) error {
	engine := django.New(app.config.ViewsDir, ".html")

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	app.srv = srv
	return nil
}

func Routes(app *App) {
	p := app.srv.Router()
	cfg := app.config

	protected := guard.New(guard.Config{
		Session:        app.session,
		AllowedRoles:   cfg.AllowedRoles,
		LoginPath:      cfg.LoginPath,
		RedirectCookie: cfg.RedirectCookie,
	})

	p.Get("/", func(ctx router.Context) error {
		return ctx.Redirect("/dashboard", http.StatusFound)
	})

	p.Get(cfg.LoginPath, LoginShow(app))
	p.Post(cfg.LoginPath, LoginSubmit(app))
	p.Post("/logout", Logout(app))

	p.Get("/dashboard", Dashboard(app), protected)
	p.Get("/categories", ListPage(app, "categories", listCategories), protected)
	p.Get("/services", ListPage(app, "services", listServices), protected)
	p.Get("/users", ListPage(app, "users", listUsers), protected)
	p.Get("/promotions", ListPage(app, "promotions", listPromotions), protected)
	p.Get("/branches", ListPage(app, "branches", listBranches), protected)
}

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func LoginShow(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		snap := app.session.Snapshot()
		if snap.Authenticated {
			return ctx.Redirect("/dashboard", http.StatusFound)
		}
		return ctx.Render("login", router.ViewContext{
			"title": "Sign In",
		})
	}
}

func LoginSubmit(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		payload := new(loginForm)
		if err := ctx.Bind(payload); err != nil {
			return ctx.Status(http.StatusBadRequest).SendString("invalid form payload")
		}

		if err := app.session.Login(ctx.Context(), payload.Email, payload.Password); err != nil {
			return ctx.Render("login", router.ViewContext{
				"title":         "Sign In",
				"error_message": session.UserMessage(err),
				"email":         payload.Email,
			})
		}

		target := guard.GetRedirectOrDefault(ctx, app.config.RedirectCookie, "/dashboard")
		return ctx.Redirect(target, http.StatusSeeOther)
	}
}

func Logout(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		app.session.Logout(ctx.Context())
		return ctx.Redirect(app.config.LoginPath, http.StatusSeeOther)
	}
}

func Dashboard(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		stats, err := app.api.Statistics().Get(ctx.Context())
		if err != nil {
			return renderError(ctx, err)
		}
		return ctx.Render("dashboard", router.ViewContext{
			"title": "Dashboard",
			"user":  app.session.User(),
			"stats": stats,
		})
	}
}

// pageFetch loads one resource page. The concrete list functions below adapt
// the typed client services to a template-friendly shape.
type pageFetch func(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error)

func listCategories(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error) {
	return api.Categories().List(ctx, opts)
}

func listServices(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error) {
	return api.Services().List(ctx, opts)
}

func listUsers(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error) {
	return api.Users().List(ctx, opts)
}

func listPromotions(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error) {
	return api.Promotions().List(ctx, opts)
}

func listBranches(ctx context.Context, api *client.Client, opts client.ListOptions) (any, error) {
	return api.Branches().List(ctx, opts)
}

func ListPage(app *App, view string, fetch pageFetch) router.HandlerFunc {
	return func(ctx router.Context) error {
		opts := client.ListOptions{
			PageNumber: queryInt(ctx, "pageNumber", 1),
			PageSize:   queryInt(ctx, "pageSize", 20),
			Search:     ctx.Query("search", ""),
		}

		page, err := fetch(ctx.Context(), app.api, opts)
		if err != nil {
			return renderError(ctx, err)
		}

		return ctx.Render(view, router.ViewContext{
			"title":  view,
			"user":   app.session.User(),
			"page":   page,
			"search": opts.Search,
		})
	}
}

func renderError(ctx router.Context, err error) error {
	status := http.StatusInternalServerError
	if session.IsNetworkError(err) {
		status = http.StatusBadGateway
	}
	return ctx.Status(status).Render("error", router.ViewContext{
		"title":   "Something went wrong",
		"message": session.UserMessage(err),
	})
}

func queryInt(ctx router.Context, key string, def int) int {
	raw := ctx.Query(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
