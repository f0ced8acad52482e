package webserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfigEndpoint(t *testing.T) {
	app, err := NewApp("http://localhost:8080")
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/config", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var cfg Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("unexpected apiUrl %q", cfg.APIURL)
	}
	if cfg.BoardSize != 8 || cfg.PollRetryMS != 2000 {
		t.Errorf("unexpected board settings %+v", cfg)
	}
}

func TestAssetsEmbedded(t *testing.T) {
	assets, err := loadAssets()
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}
	for name := range pageAssets {
		if len(assets[name].data) == 0 {
			t.Errorf("asset %s is empty", name)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	app, err := NewApp("")
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", "<div id=\"board\""},
		{"/app.js", "application/javascript", "/clicks"},
		{"/style.css", "text/css", ".board"},
		{"/some/client/route", "text/html", "<title>Checkers</title>"},
		{"/../go.mod", "text/html", "<title>Checkers</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("expected %s, got %s", tt.contentType, ct)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body of %s does not contain %q", tt.path, tt.contains)
			}
		})
	}
}
