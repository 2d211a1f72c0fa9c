package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dirmem "paw-connect/internal/adapters/directory/memory"
	objmem "paw-connect/internal/adapters/objectstore/memory"
	searchmem "paw-connect/internal/adapters/search/memory"
	"paw-connect/internal/platform/retry"
	"paw-connect/internal/ports/directory"
	"paw-connect/internal/router"
)

func TestHTTP_EndToEnd_ProfileSyncAndSearch(t *testing.T) {
	index := searchmem.New()
	ts := httptest.NewServer(router.NewRouter(router.Options{Index: index, Retry: retry.None()}))
	defer ts.Close()

	// 1) Primer acceso crea el perfil vacío
	{
		st, body := doReq(t, ts.URL, "GET", "/api/users/users/current", "U1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get current, got %d body=%s", st, string(body))
		}
		p := decodeProfile(t, body)
		if p.ID != "U1" || p.AboutMe != "" || len(p.Specializations) != 0 {
			t.Fatalf("expected bare profile, got %+v", p)
		}
	}

	// 2) PATCH con una especialización desconocida
	{
		st, body := doReq(t, ts.URL, "PATCH", "/api/users/users/U1", "U1", map[string]any{
			"about_me":        "loves dogs",
			"specializations": []string{"aggression", "unknown_id"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
		var resp struct {
			Specializations []string          `json:"specializations"`
			Sync            map[string]string `json:"sync"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Sync["search"] != "ok" || resp.Sync["directory"] != "skipped" {
			t.Fatalf("unexpected sync report %v", resp.Sync)
		}
	}

	// 3) GET refleja el commit; la desconocida se descartó
	{
		st, body := doReq(t, ts.URL, "GET", "/api/users/users/U1", "U1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get profile, got %d body=%s", st, string(body))
		}
		p := decodeProfile(t, body)
		if p.AboutMe != "loves dogs" {
			t.Fatalf("expected about_me persisted, got %q", p.AboutMe)
		}
		if len(p.Specializations) != 1 || p.Specializations[0] != "aggression" {
			t.Fatalf("expected [aggression], got %v", p.Specializations)
		}
	}

	// 4) La búsqueda encuentra a U1
	{
		st, body := doReq(t, ts.URL, "GET", "/api/users/search?query=dogs", "U2", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var hits []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
			Type        string `json:"type"`
		}
		_ = json.Unmarshal(body, &hits)
		if len(hits) != 1 || hits[0].ID != "U1" || hits[0].Type != "user" || hits[0].Description != "loves dogs" {
			t.Fatalf("expected one hit for U1, got %s", string(body))
		}
	}
}

func TestHTTP_UpdateOtherUsersProfileIsNotFound(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	doReq(t, ts.URL, "GET", "/api/users/users/current", "U2", nil)

	st, _ := doReq(t, ts.URL, "PATCH", "/api/users/users/U2", "U1", map[string]any{"about_me": "hijack"})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 editing foreign profile, got %d", st)
	}
}

func TestHTTP_ProtectedRoutesRequireIdentity(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	for _, path := range []string{"/api/users/users/current", "/api/users/pets", "/api/services", "/api/users/search"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without identity, got %d", path, st)
		}
	}

	// el vocabulario es público
	st, _ := doReq(t, ts.URL, "GET", "/api/users/specializations", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing specializations, got %d", st)
	}
}

func TestHTTP_DirectoryFailureIsDegradedSuccess(t *testing.T) {
	dir := dirmem.New()
	dir.FailWith(func(int) error { return directory.ErrUpstream })

	ts := httptest.NewServer(router.NewRouter(router.Options{Directory: dir, Retry: retry.None()}))
	defer ts.Close()

	doReq(t, ts.URL, "GET", "/api/users/users/current", "U1", nil)

	st, body := doReq(t, ts.URL, "PUT", "/api/users/users/U1", "U1", map[string]any{
		"email":    "new@example.com",
		"about_me": "kept",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 degraded success, got %d body=%s", st, string(body))
	}
	var resp struct {
		Email   string            `json:"email"`
		AboutMe string            `json:"about_me"`
		Sync    map[string]string `json:"sync"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Sync["directory"] != "failed" || resp.AboutMe != "kept" || resp.Email != "new@example.com" {
		t.Fatalf("unexpected response %s", string(body))
	}
}

func TestHTTP_DevNamePatchKeepsClaimsIdentity(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Retry: retry.None()}))
	defer ts.Close()

	send := func(method, path string, body any) (int, []byte) {
		t.Helper()
		var rdr io.Reader
		if body != nil {
			b, _ := json.Marshal(body)
			rdr = bytes.NewReader(b)
		}
		req, _ := http.NewRequest(method, ts.URL+path, rdr)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Debug-User-ID", "U7")
		req.Header.Set("X-Debug-Email", "u7@example.com")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer res.Body.Close()
		out, _ := io.ReadAll(res.Body)
		return res.StatusCode, out
	}

	if st, body := send("GET", "/api/users/users/current", nil); st != http.StatusOK {
		t.Fatalf("expected 200 first access, got %d body=%s", st, string(body))
	}

	st, body := send("PATCH", "/api/users/users/U7", map[string]any{"firstName": "Ana"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
	}
	var resp struct {
		Sync map[string]string `json:"sync"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Sync["directory"] != "ok" {
		t.Fatalf("expected directory ok, got %v", resp.Sync)
	}

	st, body = send("GET", "/api/users/users/current", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get current, got %d body=%s", st, string(body))
	}
	var got struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		Username  string `json:"username"`
	}
	_ = json.Unmarshal(body, &got)
	if got.Email != "u7@example.com" || got.Username != "U7" || got.FirstName != "Ana" {
		t.Fatalf("identity lost claims data: %s", string(body))
	}
}

func TestHTTP_PetLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/api/users/pets", "U1", map[string]any{
		"name":          "Luna",
		"species":       "dog",
		"date_of_birth": "2020-05-01",
		"weight":        12.5,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	petID := decodeID(t, body)

	// Otro usuario puede listarla por user_id pero no abrirla
	{
		st, body := doReq(t, ts.URL, "GET", "/api/users/pets?user_id=U1", "U2", nil)
		if st != http.StatusOK || !strings.Contains(string(body), petID) {
			t.Fatalf("expected listing by user_id, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/users/pets/"+petID, "U2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign pet, got %d", st)
		}
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/api/users/pets/"+petID, "U1", nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 delete pet, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/users/pets/"+petID, "U1", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
}

func TestHTTP_ServiceLifecycleWithMedia(t *testing.T) {
	store := objmem.New("user-media", "http://localhost:9000")
	ts := httptest.NewServer(router.NewRouter(router.Options{ObjectStore: store}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/api/services/current", "U1", map[string]any{
		"name":  "Spacer",
		"price": 49.99,
		"times": []int{1, 2},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create service, got %d body=%s", st, string(body))
	}
	if !strings.Contains(string(body), `"price":49.99`) {
		t.Fatalf("expected exact price in body=%s", string(body))
	}
	serviceID := decodeID(t, body)

	// precio con más de 2 decimales o fuera de NUMERIC(12,2): 422, sin redondear
	if st, body := doReq(t, ts.URL, "PUT", "/api/services/"+serviceID, "U1", map[string]any{"price": 12.345}); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for 3 decimals, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "POST", "/api/services/current", "U1", map[string]any{"name": "Spacer", "price": 1e10}); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for out of range price, got %d body=%s", st, string(body))
	}

	// .exe se rechaza sin tocar el object store
	{
		st, _ := upload(t, ts.URL, "/api/services/"+serviceID+"/media", "U1", "virus.exe", []byte("MZ"))
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for .exe, got %d", st)
		}
		if store.Puts() != 0 {
			t.Fatalf("expected no store calls, got %d", store.Puts())
		}
	}

	// video permitido para servicios
	{
		st, body := upload(t, ts.URL, "/api/services/"+serviceID+"/media", "U1", "walk.MP4", []byte("....ftypmp42"))
		if st != http.StatusCreated || !strings.Contains(string(body), `"media_type":"video"`) {
			t.Fatalf("expected 201 video upload, got %d body=%s", st, string(body))
		}
	}

	// media de un servicio ajeno: 404
	if st, _ := upload(t, ts.URL, "/api/services/"+serviceID+"/media", "U2", "a.png", []byte("png")); st != http.StatusNotFound {
		t.Fatalf("expected 404 uploading to foreign service, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/api/services/"+serviceID, "U2", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign service, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/api/services/"+serviceID, "U1", nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 delete service, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/services/"+serviceID, "U1", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
}

func TestHTTP_ProfilePictureUpload(t *testing.T) {
	store := objmem.New("user-media", "http://localhost:9000")
	ts := httptest.NewServer(router.NewRouter(router.Options{ObjectStore: store}))
	defer ts.Close()

	// los videos no valen como foto de perfil
	if st, _ := upload(t, ts.URL, "/api/users/users/current/picture", "U1", "clip.mp4", []byte("x")); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for video picture, got %d", st)
	}

	st, body := upload(t, ts.URL, "/api/users/users/current/picture", "U1", "me.PNG", []byte("\x89PNG\r\n\x1a\n"))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 picture upload, got %d body=%s", st, string(body))
	}
	var resp struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(body, &resp)
	if !strings.HasPrefix(resp.URL, "http://localhost:9000/user-media/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Fatalf("unexpected url %q", resp.URL)
	}

	_, body = doReq(t, ts.URL, "GET", "/api/users/users/current", "U1", nil)
	if p := decodeProfile(t, body); p.Picture != resp.URL {
		t.Fatalf("expected picture %q on profile, got %q", resp.URL, p.Picture)
	}
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func TestHTTP_UploadRateLimited(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{UploadLimiter: denyAll{}}))
	defer ts.Close()

	st, _ := upload(t, ts.URL, "/api/users/users/current/picture", "U1", "me.png", []byte("png"))
	if st != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", st)
	}
}

func TestHTTP_SocialLinks(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/api/users/users/current/social-links", "U1", map[string]any{
		"platform": "instagram",
		"url":      "https://instagram.com/u1",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 add link, got %d body=%s", st, string(body))
	}
	var link struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &link)

	st, body = doReq(t, ts.URL, "GET", "/api/users/users/U1/social-links", "U2", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "instagram") {
		t.Fatalf("expected U1 links, got %d body=%s", st, string(body))
	}

	path := "/api/users/users/current/social-links/" + jsonNumber(link.ID)
	if st, _ := doReq(t, ts.URL, "DELETE", path, "U2", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign link, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", path, "U1", nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 deleting own link, got %d", st)
	}
}

func TestHTTP_AdminProfileRequiresToken(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AdminToken: "s3cret"}))
	defer ts.Close()

	doReq(t, ts.URL, "GET", "/api/users/users/current", "U1", nil)

	req, _ := http.NewRequest("GET", ts.URL+"/admin/api/users/users/U1", nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	req, _ = http.NewRequest("GET", ts.URL+"/admin/api/users/users/U1", nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", res.StatusCode)
	}
}

// -------------------------
// Helpers
// -------------------------

type profileBody struct {
	ID              string   `json:"id"`
	AboutMe         string   `json:"about_me"`
	Picture         string   `json:"picture"`
	Specializations []string `json:"specializations"`
}

func decodeProfile(t *testing.T, body []byte) profileBody {
	t.Helper()
	var p profileBody
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode profile: %v body=%s", err, string(body))
	}
	return p
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("missing id body=%s", string(body))
	}
	return resp.ID
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func upload(t *testing.T, baseURL, path, debugUserID, filename string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", debugUserID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
