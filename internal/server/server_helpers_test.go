package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testImageData = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMBAp4pWZkAAAAASUVORK5CYII="

func createBoard(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/boards", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["board_id"].(string)
}

func fetchSnapshot(t *testing.T, ts *httptest.Server, boardID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/boards/"+boardID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return boardOf(t, decodeBody(t, resp))
}

// post sends a board action and returns the decoded body after checking the
// status.
func post(t *testing.T, ts *httptest.Server, boardID, action string, payload any, status int) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/boards/"+boardID+action, payload)
	if resp.StatusCode != status {
		t.Fatalf("%s: expected status %d, got %d", action, status, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

// addNamedCharacters feeds one image per name through the intake queue.
func addNamedCharacters(t *testing.T, ts *httptest.Server, boardID string, names ...string) {
	t.Helper()
	images := make([]string, len(names))
	for i := range names {
		images[i] = testImageData
	}
	post(t, ts, boardID, "/intake", map[string]any{"source": "picker", "images": images}, http.StatusOK)
	for _, name := range names {
		post(t, ts, boardID, "/intake/name", map[string]string{"name": name}, http.StatusOK)
	}
}

func boardOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	snap, ok := body["board"].(map[string]any)
	if !ok {
		t.Fatalf("expected board snapshot, got %#v", body)
	}
	return snap
}

func characterList(t *testing.T, snap map[string]any) []map[string]any {
	t.Helper()
	raw, ok := snap["characters"].([]any)
	if !ok {
		t.Fatalf("expected characters array, got %#v", snap["characters"])
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		out = append(out, item.(map[string]any))
	}
	return out
}

func number(t *testing.T, value any) int {
	t.Helper()
	f, ok := value.(float64)
	if !ok {
		t.Fatalf("expected number, got %T", value)
	}
	return int(f)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	return sendRequest(t, http.DefaultClient, ts, method, path, payload)
}

func doRequestNoRedirect(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return sendRequest(t, client, ts, method, path, payload)
}

func sendRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func assertString(t *testing.T, value any) {
	t.Helper()
	if _, ok := value.(string); !ok {
		t.Fatalf("expected string, got %T", value)
	}
}
