package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type backendCall struct {
	method string
	path   string
	live   string
	file   string
	body   string
}

func newBackend(t *testing.T, body string) (*httptest.Server, *backendCall) {
	t.Helper()
	call := &backendCall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.method = r.Method
		call.path = r.URL.Path
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			call.live = r.FormValue("live")
			if f, _, err := r.FormFile("file"); err == nil {
				content, _ := io.ReadAll(f)
				call.file = string(content)
				f.Close()
			}
		} else {
			content, _ := io.ReadAll(r.Body)
			call.body = string(content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, call
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		backendRoot = ""
		detectLive = false
		individualFlags.id = ""
		individualFlags.nombre = ""
		individualFlags.apellido1 = ""
		individualFlags.apellido2 = ""
		individualFlags.photo = ""
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestDetectVideoCommand(t *testing.T) {
	srv, call := newBackend(t, `{
		"individuos_detectados": [{"_id": "1", "nombre": "Ana"}],
		"frames_deteccion": [
			{"frame_path": "/frames/0.jpg", "individuo": {"_id": "1"}},
			{"frame_path": "https://cdn/1.jpg", "individuo": {"_id": "2"}}
		]
	}`)

	clip := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(clip, []byte("mp4 bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := runCLI(t, "--backend", srv.URL, "detectar", "video", "--live", clip)

	if call.method != http.MethodPost || call.path != "/api/detectar_video" {
		t.Errorf("Unexpected request %s %s", call.method, call.path)
	}
	if call.live != "true" || call.file != "mp4 bytes" {
		t.Errorf("Expected live=true and the clip, got live=%q file=%q", call.live, call.file)
	}

	projection := jsoniter.Get([]byte(out))
	if got := projection.Get("individuals", 0, "frames", 0, "frame_path").ToString(); got != srv.URL+"/frames/0.jpg" {
		t.Errorf("Unexpected frame path %q in %s", got, out)
	}
	if got := projection.Get("individuals", 0, "frames").Size(); got != 1 {
		t.Errorf("Expected 1 frame for Ana, got %d", got)
	}
	if got := projection.Get("frames", 1, "frame_path").ToString(); got != "https://cdn/1.jpg" {
		t.Errorf("Expected absolute frame path kept, got %q", got)
	}
}

func TestUpdateIndividualCommandWithoutPhotoSendsJSON(t *testing.T) {
	srv, call := newBackend(t, `{"ok": true}`)

	out := runCLI(t, "--backend", srv.URL, "individuos", "modificar", "--id", "7", "--nombre", "Ana")

	if call.method != http.MethodPut || call.path != "/api/modificar_individuo" {
		t.Errorf("Unexpected request %s %s", call.method, call.path)
	}
	sent := jsoniter.Get([]byte(call.body))
	if sent.Get("_id").ToString() != "7" || sent.Get("nombre").ToString() != "Ana" {
		t.Errorf("Unexpected JSON body %s", call.body)
	}
	if jsoniter.Get([]byte(out), "ok").ToBool() != true {
		t.Errorf("Expected the backend answer to be printed, got %s", out)
	}
}
