// Package api exposes the conversion flow over HTTP with Fiber.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/project"
)

const (
	BasePath = "/api/v1"
	DocsPath = "/docs"
)

var (
	apiErrors = errx.NewRegistry("API")

	ErrMissingFile = apiErrors.Register("MISSING_FILE", errx.TypeBadRequest, http.StatusBadRequest, "Multipart field 'file' is required")
	ErrReadUpload  = apiErrors.Register("READ_UPLOAD", errx.TypeBadRequest, http.StatusBadRequest, "Uploaded file could not be opened")
)

type Config struct {
	// BodyLimit caps request bodies in bytes; uploads are read fully into memory
	BodyLimit int
}

// New builds the Fiber app with every route registered
func New(svc *project.Service, cfg Config) *fiber.App {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 32 << 20
	}

	app := fiber.New(fiber.Config{
		AppName:               "mockup2html",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errx.FiberErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(requestLogger)

	h := &handler{svc: svc}
	app.Get("/health", h.health)

	v1 := app.Group(BasePath)
	v1.Post("/project/image", h.uploadImage)
	v1.Get("/project", h.getProject)
	v1.Get("/project/download", h.download)
	v1.Delete("/project", h.teardown)
	v1.Get("/classes", h.classes)

	Docs().RegisterWithFiber(app, DocsPath)
	return app
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		status = xerr.Status()
	}
	logx.Debug("%s %s -> %d (%s)", c.Method(), c.Path(), status, time.Since(start))
	return err
}
