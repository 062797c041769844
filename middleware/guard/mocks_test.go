package guard_test

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/goliatone/go-router"
	"github.com/serenoa/go-session"
	"github.com/serenoa/go-session/middleware/guard"
)

// fakeSession scripts the state the guard observes
type fakeSession struct {
	snapshot    session.Snapshot
	restoreErr  error
	restored    bool
	onRestore   func()
	restoreCall int
}

func (f *fakeSession) Snapshot() session.Snapshot {
	return f.snapshot
}

func (f *fakeSession) Restore(ctx context.Context) error {
	f.restored = true
	f.restoreCall++
	if f.onRestore != nil {
		f.onRestore()
	}
	return f.restoreErr
}

var _ guard.Sessioner = (*fakeSession)(nil)

// fakeContext records what the guard does with the request
type fakeContext struct {
	ctx         context.Context
	method      string
	originalURL string
	referer     string

	nextCalled   bool
	statusCode   int
	sentBody     string
	redirectedTo string
	redirectCode int
	cookies      map[string]string
	setCookies   []*router.Cookie
	locals       map[any]any
}

func newFakeContext(method, url string) *fakeContext {
	return &fakeContext{
		ctx:         context.Background(),
		method:      method,
		originalURL: url,
		cookies:     map[string]string{},
		locals:      map[any]any{},
	}
}

func (f *fakeContext) Next() error {
	f.nextCalled = true
	return nil
}

func (f *fakeContext) Context() context.Context { return f.ctx }
func (f *fakeContext) SetContext(c context.Context) { f.ctx = c }
func (f *fakeContext) Path() string { return f.originalURL }
func (f *fakeContext) Method() string { return f.method }
func (f *fakeContext) Body() []byte { return nil }

func (f *fakeContext) Status(code int) router.Context {
	f.statusCode = code
	return f
}

func (f *fakeContext) SendString(s string) error {
	f.sentBody = s
	return nil
}

func (f *fakeContext) Send([]byte) error { return nil }
func (f *fakeContext) JSON(int, any) error { return nil }
func (f *fakeContext) NoContent(code int) error { f.statusCode = code; return nil }
func (f *fakeContext) Render(string, any, ...string) error { return nil }
func (f *fakeContext) RedirectToRoute(string, router.ViewContext, ...int) error { return nil }
func (f *fakeContext) RedirectBack(string, ...int) error { return nil }

func (f *fakeContext) Redirect(path string, status ...int) error {
	f.redirectedTo = path
	f.redirectCode = http.StatusFound
	if len(status) > 0 {
		f.redirectCode = status[0]
	}
	return nil
}

func (f *fakeContext) SetHeader(string, string) router.Context { return f }
func (f *fakeContext) Header(string) string { return "" }
func (f *fakeContext) Get(_ string, def any) any { return def }
func (f *fakeContext) GetBool(_ string, def bool) bool { return def }
func (f *fakeContext) GetInt(_ string, def int) int { return def }
func (f *fakeContext) Set(string, any) {}
func (f *fakeContext) Bind(any) error { return nil }
func (f *fakeContext) BindJSON(any) error { return nil }
func (f *fakeContext) BindXML(any) error { return nil }
func (f *fakeContext) BindQuery(any) error { return nil }
func (f *fakeContext) CookieParser(any) error { return nil }

func (f *fakeContext) Cookie(cookie *router.Cookie) {
	f.setCookies = append(f.setCookies, cookie)
	f.cookies[cookie.Name] = cookie.Value
}

func (f *fakeContext) Cookies(key string, def ...string) string {
	if v, ok := f.cookies[key]; ok {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func (f *fakeContext) Param(key string, def ...string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(_ string, def int) int { return def }

func (f *fakeContext) Query(_ string, def ...string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func (f *fakeContext) QueryValues(string) []string { return nil }
func (f *fakeContext) QueryInt(_ string, def int) int { return def }
func (f *fakeContext) Queries() map[string]string { return nil }
func (f *fakeContext) GetString(_ string, def string) string { return def }
func (f *fakeContext) OriginalURL() string { return f.originalURL }
func (f *fakeContext) OnNext(func() error) {}
func (f *fakeContext) Referer() string { return f.referer }

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
		return nil
	}
	return f.locals[key]
}

func (f *fakeContext) LocalsMerge(key any, value map[string]any) map[string]any { return value }
func (f *fakeContext) FormFile(string) (*multipart.FileHeader, error) { return nil, nil }

func (f *fakeContext) FormValue(_ string, def ...string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func (f *fakeContext) IP() string { return "" }
func (f *fakeContext) SendStatus(code int) error { f.statusCode = code; return nil }
func (f *fakeContext) SendStream(io.Reader) error { return nil }
func (f *fakeContext) RouteName() string { return "" }
func (f *fakeContext) RouteParams() map[string]string { return nil }

var _ router.Context = (*fakeContext)(nil)
