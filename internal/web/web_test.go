package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/style"
)

func newTestServer(t *testing.T, doc document.Document) (*Server, *httptest.Server) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	store := document.NewStore()
	store.Seed(doc)
	srv := NewServer(config.Default(), style.Default(), store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func sampleDoc() document.Document {
	return document.Normalize(document.Document{
		{ID: "a", Title: "first", Date: "1991-04-01", Category: document.CategoryTechnique, XOffset: 50},
		{ID: "b", Title: "second", Date: "1992-06-15", Category: document.CategoryTechnique, XOffset: 25,
			Links: []document.Link{{TargetID: "a", Color: "#ff0000"}}},
	})
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPageRendersCards(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())
	resp, err := http.Get(ts.URL + "/?category=technique")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	body := buf.String()
	for _, want := range []string{"<svg", `data-id="a"`, `data-id="b"`, "first", "second"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCreateAndListEvents(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/events", map[string]string{
		"title": "new card", "category": "author", "date": "2001-09-09",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decode[document.Event](t, resp)
	if created.ID == "" {
		t.Fatal("created event has empty id")
	}
	if created.XOffset != document.DefaultXOffset {
		t.Errorf("XOffset = %v, want %v", created.XOffset, document.DefaultXOffset)
	}

	listResp, err := http.Get(ts.URL + "/api/document")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	doc := decode[document.Document](t, listResp)
	if len(doc) != 1 || doc[0].Title != "new card" {
		t.Fatalf("document = %+v, want the one created event", doc)
	}
}

func TestUpdateOmittedFieldsKeepTheirValues(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	body, _ := json.Marshal(map[string]string{"title": "renamed"})
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/events/a", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	ev, _ := srv.store.Find("a")
	if ev.Title != "renamed" {
		t.Errorf("Title = %q, want %q", ev.Title, "renamed")
	}
	if ev.XOffset != 50 {
		t.Errorf("XOffset = %v, want 50 when the payload omits it", ev.XOffset)
	}
	if ev.Date != "1991-04-01" {
		t.Errorf("Date = %q, want unchanged", ev.Date)
	}
}

func TestUpdateClampsExplicitOffset(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	body, _ := json.Marshal(map[string]any{"xOffset": 180.0})
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/events/a", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	ev, _ := srv.store.Find("a")
	if ev.XOffset != 100 {
		t.Errorf("XOffset = %v, want clamped 100", ev.XOffset)
	}
}

func TestDeleteLeavesLinksAlone(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/events/a", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	remaining := srv.store.Events()
	if len(remaining) != 1 || remaining[0].ID != "b" {
		t.Fatalf("events after delete = %+v", remaining)
	}
	if len(remaining[0].Links) != 1 || remaining[0].Links[0].TargetID != "a" {
		t.Errorf("link to deleted event was removed: %+v", remaining[0].Links)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	resp, err := http.Post(ts.URL+"/api/import", "application/json", strings.NewReader(`{"not":"an array"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if len(srv.store.Events()) != 2 {
		t.Error("bad import modified the document")
	}
}

func TestGestureDragCommitsOffset(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	// Container 840 wide, card 240: travel is 600px.
	resp := postJSON(t, ts.URL+"/api/measure", map[string]any{
		"category": "technique", "containerWidth": 840.0,
		"heights": map[string]float64{"a": 90, "b": 110},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("measure status = %d", resp.StatusCode)
	}

	gesture := func(typ string, x float64) gestureResponse {
		r := postJSON(t, ts.URL+"/api/gesture", map[string]any{"type": typ, "id": "a", "x": x})
		if r.StatusCode != http.StatusOK {
			t.Fatalf("gesture %s status = %d", typ, r.StatusCode)
		}
		return decode[gestureResponse](t, r)
	}

	if got := gesture("lock", 0); got.State != "unlocked" {
		t.Fatalf("after toggle state = %q, want unlocked", got.State)
	}
	if got := gesture("down", 100); got.State != "dragging" {
		t.Fatalf("after down state = %q, want dragging", got.State)
	}
	// +300px over a 600px travel moves the offset by 50 points.
	moved := gesture("move", 400)
	if ev, _ := srv.store.Find("a"); ev.XOffset != 50 {
		t.Errorf("offset committed mid-drag: %v", ev.XOffset)
	}
	if moved.State != "dragging" {
		t.Errorf("mid-drag state = %q", moved.State)
	}

	up := gesture("up", 400)
	if up.State != "unlocked" {
		t.Errorf("after up state = %q, want unlocked", up.State)
	}
	ev, _ := srv.store.Find("a")
	if ev.XOffset != 100 {
		t.Errorf("committed offset = %v, want 100", ev.XOffset)
	}
}

func TestGestureIgnoredWhileLocked(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	postJSON(t, ts.URL+"/api/measure", map[string]any{
		"category": "technique", "containerWidth": 840.0, "heights": map[string]float64{},
	})
	for _, typ := range []string{"down", "move", "up"} {
		resp := postJSON(t, ts.URL+"/api/gesture", map[string]any{"type": typ, "id": "a", "x": 300})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("gesture %s status = %d", typ, resp.StatusCode)
		}
	}
	if ev, _ := srv.store.Find("a"); ev.XOffset != 50 {
		t.Errorf("locked card moved: offset = %v", ev.XOffset)
	}
}

func TestGestureUnknownEvent(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())
	resp := postJSON(t, ts.URL+"/api/gesture", map[string]any{"type": "down", "id": "missing", "x": 0})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHoverCardReturnsPopoverContent(t *testing.T) {
	_, ts := newTestServer(t, document.Normalize(document.Document{
		{ID: "a", Title: "hovered", Description: "details here", Date: "1991-04-01",
			Category: document.CategoryTechnique},
	}))

	resp := postJSON(t, ts.URL+"/api/hover", map[string]string{"type": "card-enter", "id": "a"})
	got := decode[map[string]string](t, resp)
	if got["title"] != "hovered" || got["description"] != "details here" {
		t.Fatalf("popover payload = %v", got)
	}

	resp = postJSON(t, ts.URL+"/api/hover", map[string]string{"type": "card-leave"})
	got = decode[map[string]string](t, resp)
	if got["title"] != "" {
		t.Errorf("popover still populated after leave: %v", got)
	}
}

func TestHoverConnectionHighlight(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())

	resp := postJSON(t, ts.URL+"/api/hover", map[string]string{
		"type": "conn-enter", "source": "b", "target": "a",
	})
	got := decode[map[string]string](t, resp)
	if got["source"] != "b" || got["target"] != "a" {
		t.Fatalf("highlight payload = %v", got)
	}
}

func TestHoverQueryReportsWithoutMutation(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())

	resp := postJSON(t, ts.URL+"/api/hover", map[string]string{"type": "query"})
	if got := decode[map[string]string](t, resp); len(got) != 0 {
		t.Fatalf("query on idle coordinator = %v, want empty", got)
	}

	postJSON(t, ts.URL+"/api/hover", map[string]string{
		"type": "conn-enter", "source": "b", "target": "a",
	})
	resp = postJSON(t, ts.URL+"/api/hover", map[string]string{"type": "query"})
	got := decode[map[string]string](t, resp)
	if got["source"] != "b" || got["target"] != "a" {
		t.Errorf("query after highlight = %v, want the b->a pair", got)
	}

	// A second query must still see it: query reads, never clears.
	resp = postJSON(t, ts.URL+"/api/hover", map[string]string{"type": "query"})
	if got := decode[map[string]string](t, resp); got["source"] != "b" {
		t.Errorf("repeat query = %v", got)
	}
}

func TestLinkEndpoints(t *testing.T) {
	srv, ts := newTestServer(t, sampleDoc())

	resp := postJSON(t, ts.URL+"/api/events/a/links", map[string]string{
		"targetId": "b", "color": "#0000ff",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("link status = %d", resp.StatusCode)
	}
	ev, _ := srv.store.Find("a")
	if len(ev.Links) != 1 || ev.Links[0].TargetID != "b" {
		t.Fatalf("links after add = %+v", ev.Links)
	}

	selfResp := postJSON(t, ts.URL+"/api/events/a/links", map[string]string{"targetId": "a"})
	if selfResp.StatusCode != http.StatusBadRequest {
		t.Errorf("self link status = %d, want 400", selfResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/events/a/links/b", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer delResp.Body.Close()
	ev, _ = srv.store.Find("a")
	if len(ev.Links) != 0 {
		t.Errorf("links after remove = %+v", ev.Links)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())

	postJSON(t, ts.URL+"/api/measure", map[string]any{
		"category": "technique", "containerWidth": 840.0,
		"heights": map[string]float64{"a": 90, "b": 110},
	})

	resp, err := http.Get(ts.URL + "/api/layout?category=technique")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got struct {
		Cards []struct {
			ID     string  `json:"id"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"cards"`
		Curves []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"curves"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Cards) != 2 {
		t.Fatalf("cards = %+v, want 2", got.Cards)
	}
	if got.Cards[0].Width != 240 || got.Cards[0].Height != 90 {
		t.Errorf("card a geometry = %+v", got.Cards[0])
	}
	if len(got.Curves) != 1 || got.Curves[0].Source != "b" || got.Curves[0].Target != "a" {
		t.Errorf("curves = %+v, want one b->a", got.Curves)
	}
}

func TestRenderSVGEndpoint(t *testing.T) {
	_, ts := newTestServer(t, sampleDoc())
	resp, err := http.Get(ts.URL + "/render.svg?category=technique&zoom=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("response is not an SVG document")
	}
}
