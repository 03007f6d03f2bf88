package photoengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func textComponent(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

// stubViews renders a one-line summary of what each view was given.
func stubViews() ViewFuncs {
	feed := func(kind string) func(HomePage) templ.Component {
		return func(p HomePage) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				if _, err := fmt.Fprintf(w, "%s photos=%d cameras=%d|", kind, len(p.Photos), len(p.Cameras)); err != nil {
					return err
				}
				if p.More == nil {
					return nil
				}
				return p.More.Render(ctx, w)
			})
		}
	}
	return ViewFuncs{
		Home:   feed("home"),
		Camera: feed("camera"),
		Photo: func(d PhotoPageData) templ.Component {
			return textComponent("photo=%s grid=%d neighbors=%d title=%s", d.Photo.ID, len(d.Grid), len(d.Neighbors), d.Meta.Title)
		},
		PhotoGrid: func(p GridProps) templ.Component {
			return textComponent("grid photos=%d next=%s", len(p.Photos), p.OnLastPhotoVisible)
		},
		AdminLogin: func(showError bool, _ string) templ.Component {
			return textComponent("login error=%v", showError)
		},
		AdminDashboard: func(photos []Photo, msg, _ string) templ.Component {
			return textComponent("dashboard photos=%d msg=%s", len(photos), msg)
		},
		AdminPhotoForm: func(p Photo, _ string) templ.Component {
			return textComponent("form=%s", p.ID)
		},
		NotFound:    func() templ.Component { return textComponent("not found") },
		ServerError: func() templ.Component { return textComponent("server error") },
	}
}

func newTestServer(t *testing.T, photos int) *App {
	t.Helper()
	a := newTestApp(t, stubViews())
	seedStore(t, a.Store, makeFeed(photos)...)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return serve(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{}, stubViews(), WithStore(newTestSQLiteStore(t)))
	if err := a.Init(context.Background()); err == nil {
		t.Fatalf("expected Init to fail without AdminPassword")
	}
}

func TestPhotoPage(t *testing.T) {
	a := newTestServer(t, 20)
	rec := get(a, "/p/p03/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "photo=photo-03 grid=12 neighbors=14 title=Photo 3"
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestPhotoPageMissingRedirectsHome(t *testing.T) {
	a := newTestServer(t, 3)

	rec := get(a, "/p/missing/")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q, want 303 to /", rec.Code, rec.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/p/missing/", nil)
	req.Header.Set("HX-Request", "true")
	rec = serve(a, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("HX-Redirect") != "/" {
		t.Fatalf("htmx: status = %d HX-Redirect = %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestPhotoMetadataEndpoint(t *testing.T) {
	a := newTestServer(t, 3)

	rec := get(a, "/api/photos/missing/metadata")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Fatalf("missing: status = %d body = %q", rec.Code, rec.Body.String())
	}

	rec = get(a, "/api/photos/p01/metadata")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"url":"https://photos.example.com/p/p01"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHomeRendersFirstPageAndInfiniteGrid(t *testing.T) {
	a := newTestServer(t, 30)
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "home photos=24 cameras=0|grid photos=6 next="
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestHomeWithoutSecondPage(t *testing.T) {
	a := newTestServer(t, 5)
	rec := get(a, "/")
	if rec.Body.String() != "home photos=5 cameras=0|" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestGridFragment(t *testing.T) {
	a := newTestServer(t, 60)
	rec := get(a, "/grid/?cacheKey=grid&offset=24")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	want := "grid photos=24 next=/grid/?cacheKey=grid&offset=48"
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestGridRejectsBadParams(t *testing.T) {
	a := newTestServer(t, 3)
	for _, target := range []string{
		"/grid/?offset=0",
		"/grid/?cacheKey=grid",
		"/grid/?cacheKey=grid&offset=-1",
		"/grid/?cacheKey=grid&offset=abc",
		"/grid/?cacheKey=grid&offset=0&camera=nope",
		"/grid/?cacheKey=other&offset=0",
		"/grid/?cacheKey=camera-nope&offset=0",
		"/grid/?cacheKey=grid&offset=0&camera=leica-q2",
		"/grid/?cacheKey=camera-nope&offset=0&camera=nope",
	} {
		if rec := get(a, target); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", target, rec.Code)
		}
	}
}

func TestGridAcceptsCameraCacheKey(t *testing.T) {
	a := newTestServer(t, 0)
	seedStore(t, a.Store, Photo{ID: "c1", IDShort: "c1", Make: "Leica", Model: "Q2", TakenAt: feedEpoch})
	rec := get(a, "/grid/?cacheKey=camera-leica-q2&camera=leica-q2&offset=0")
	if rec.Code != http.StatusOK || rec.Body.String() != "grid photos=1 next=" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestScrollErrorIsServerError(t *testing.T) {
	a := newTestServer(t, 30)
	a.Scroller = &recordingScroller{err: errors.New("store down")}

	for _, target := range []string{"/", "/grid/?cacheKey=grid&offset=24"} {
		rec := get(a, target)
		if rec.Code != http.StatusInternalServerError || rec.Body.String() != "server error" {
			t.Errorf("GET %s = %d %q, want 500 server error", target, rec.Code, rec.Body.String())
		}
	}
}

func TestGridRateLimit(t *testing.T) {
	a := newTestApp(t, stubViews())
	a.Config.GridRate = 0.001
	a.Config.GridBurst = 2
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < 2; i++ {
		if rec := get(a, "/grid/?cacheKey=grid&offset=0"); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i+1, rec.Code)
		}
	}
	if rec := get(a, "/grid/?cacheKey=grid&offset=0"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestCameraPage(t *testing.T) {
	a := newTestServer(t, 0)
	seedStore(t, a.Store,
		Photo{ID: "c1", IDShort: "c1", Make: "Leica", Model: "Q2", TakenAt: feedEpoch},
		Photo{ID: "c2", IDShort: "c2", Make: "Ricoh", Model: "GR III", TakenAt: feedEpoch},
	)

	rec := get(a, "/shot-on/leica-q2/")
	if rec.Code != http.StatusOK || rec.Body.String() != "camera photos=1 cameras=2|" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}

	rec = get(a, "/shot-on/nikon-f3/")
	if rec.Code != http.StatusNotFound || rec.Body.String() != "not found" {
		t.Fatalf("unknown camera: status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	a := newTestServer(t, 0)
	rec := get(a, "/nothing-here/")
	if rec.Code != http.StatusNotFound || rec.Body.String() != "not found" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestFeedSitemapRobots(t *testing.T) {
	a := newTestServer(t, 3)

	rec := get(a, "/feed.xml")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://photos.example.com/p/p00/") {
		t.Fatalf("feed: status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = get(a, "/sitemap.xml")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://photos.example.com/p/p02/") {
		t.Fatalf("sitemap: status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = get(a, "/robots.txt")
	if !strings.Contains(rec.Body.String(), "Sitemap: https://photos.example.com/sitemap.xml") {
		t.Fatalf("robots = %q", rec.Body.String())
	}
}

func TestEmbeddedAssets(t *testing.T) {
	a := newTestServer(t, 0)
	for _, target := range []string{"/public/photoengine.js", "/public/photoengine.css", "/favicon.svg"} {
		if rec := get(a, target); rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Errorf("GET %s = %d (%d bytes)", target, rec.Code, rec.Body.Len())
		}
	}
}

// adminClient carries the CSRF and session cookies between requests.
type adminClient struct {
	t       *testing.T
	a       *App
	cookies map[string]*http.Cookie
}

func newAdminClient(t *testing.T, a *App) *adminClient {
	c := &adminClient{t: t, a: a, cookies: map[string]*http.Cookie{}}
	c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if c.cookies["_csrf"] == nil {
		t.Fatalf("no csrf cookie issued")
	}
	return c
}

func (c *adminClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if ck := c.cookies["_csrf"]; ck != nil {
		req.Header.Set("X-CSRF-Token", ck.Value)
	}
	rec := serve(c.a, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *adminClient) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestAdminLoginAndEdit(t *testing.T) {
	a := newTestServer(t, 3)
	c := newAdminClient(t, a)

	rec := c.post("/admin/login/", url.Values{"password": {"wrong"}})
	if rec.Body.String() != "login error=true" {
		t.Fatalf("wrong password: %q", rec.Body.String())
	}

	rec = c.post("/admin/login/", url.Values{"password": {"secret"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d body = %q", rec.Code, rec.Body.String())
	}

	rec = c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if rec.Body.String() != "dashboard photos=3 msg=" {
		t.Fatalf("dashboard = %q", rec.Body.String())
	}

	// Hiding a photo drops it from the public feed.
	if body := get(a, "/").Body.String(); body != "home photos=3 cameras=0|" {
		t.Fatalf("home = %q", body)
	}
	rec = c.post("/admin/photo/photo-01/hidden/", url.Values{})
	if rec.Body.String() != "dashboard photos=3 msg=hidden" {
		t.Fatalf("toggle = %q", rec.Body.String())
	}
	if body := get(a, "/").Body.String(); body != "home photos=2 cameras=0|" {
		t.Fatalf("home after hide = %q", body)
	}

	rec = c.post("/admin/save/", url.Values{
		"id":       {"photo-02"},
		"title":    {"Renamed"},
		"make":     {"Leica"},
		"model":    {"Q2"},
		"iso":      {"200"},
		"taken_at": {"2023-01-02T03:04"},
	})
	if rec.Body.String() != "dashboard photos=3 msg=saved" {
		t.Fatalf("save = %q", rec.Body.String())
	}
	saved, _ := a.Store.GetPhoto(context.Background(), "photo-02")
	if saved.Title != "Renamed" || saved.ISO != 200 || saved.Camera().Key() != "leica-q2" || saved.TakenAt.Year() != 2023 {
		t.Fatalf("saved = %+v", saved)
	}

	rec = c.post("/admin/save/", url.Values{"id": {"photo-02"}, "iso": {"lots"}})
	if rec.Body.String() != "dashboard photos=3 msg=Invalid ISO." {
		t.Fatalf("invalid save = %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/photo/photo-00/", nil)
	req.Header.Set("HX-Request", "true")
	rec = c.do(req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("HX-Redirect") != "/admin/?msg=deleted" {
		t.Fatalf("delete: status = %d HX-Redirect = %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
	if rec := get(a, "/p/photo-00/"); rec.Code != http.StatusSeeOther {
		t.Fatalf("deleted photo still served: %d", rec.Code)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	a := newTestServer(t, 1)
	c := newAdminClient(t, a)
	rec := c.post("/admin/photo/photo-00/hidden/", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	p, _ := a.Store.GetPhoto(context.Background(), "photo-00")
	if p.Hidden {
		t.Fatalf("photo hidden without a session")
	}
}

func TestAdminPostWithoutCSRFIsForbidden(t *testing.T) {
	a := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader("password=secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := serve(a, req); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func (c *adminClient) upload(name string, body []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", name)
	if err != nil {
		c.t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(body)
	mw.WriteField("title", "Upload")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func TestAdminUploadErrors(t *testing.T) {
	a := newTestServer(t, 0)
	c := newAdminClient(t, a)
	c.post("/admin/login/", url.Values{"password": {"secret"}})

	rec := c.upload("ok.png", testPNG(t, 40, 30).Bytes())
	if rec.Code != http.StatusOK || rec.Body.String() != "dashboard photos=1 msg=uploaded" {
		t.Fatalf("upload: %d %q", rec.Code, rec.Body.String())
	}

	rec = c.upload("junk.png", []byte("not an image"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("undecodable upload = %d, want 400", rec.Code)
	}

	// A store failure is a server error, not a bad image.
	a.Store.Close()
	rec = c.upload("ok.png", testPNG(t, 40, 30).Bytes())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("upload with closed store = %d %q, want 500", rec.Code, rec.Body.String())
	}
}
