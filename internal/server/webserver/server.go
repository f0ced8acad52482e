package webserver

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"checkers/internal/server/core"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

//go:embed web
var webFS embed.FS

// PollRetryInterval is how long the page backs off after a failed long poll
const PollRetryInterval = 2 * time.Second

// Config is served at /config and tells the board page where and how to reach the API
type Config struct {
	APIURL      string `json:"apiUrl"`
	BoardSize   int    `json:"boardSize"`
	PollRetryMS int64  `json:"pollRetryMs"`
}

// pageAssets are the files the board page is made of; all must be embedded
var pageAssets = map[string]string{
	"index.html": "text/html; charset=utf-8",
	"app.js":     "application/javascript; charset=utf-8",
	"style.css":  "text/css; charset=utf-8",
}

type asset struct {
	data        []byte
	contentType string
}

// Start initializes and starts the web UI server
func Start(host string, port int, apiURL string) error {
	app, err := NewApp(apiURL)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	return app.Listen(addr)
}

// NewApp builds the web UI app serving the embedded board page and its API config
func NewApp(apiURL string) (*fiber.App, error) {
	assets, err := loadAssets()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} WEB ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	cfg := Config{
		APIURL:      apiURL,
		BoardSize:   core.BoardSize,
		PollRetryMS: PollRetryInterval.Milliseconds(),
	}
	app.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(cfg)
	})

	// Any other path is the board page itself, so a #gameId link always opens it
	app.Get("*", func(c *fiber.Ctx) error {
		name := strings.TrimPrefix(path.Clean(c.Path()), "/")
		a, ok := assets[name]
		if !ok {
			a = assets["index.html"]
		}
		c.Set(fiber.HeaderContentType, a.contentType)
		return c.Send(a.data)
	})

	return app, nil
}

func loadAssets() (map[string]asset, error) {
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("failed to create web sub-filesystem: %w", err)
	}

	assets := make(map[string]asset, len(pageAssets))
	for name, contentType := range pageAssets {
		data, err := fs.ReadFile(webContent, name)
		if err != nil {
			return nil, fmt.Errorf("missing web asset %s: %w", name, err)
		}
		assets[name] = asset{data: data, contentType: contentType}
	}
	return assets, nil
}
