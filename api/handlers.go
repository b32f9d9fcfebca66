package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/mockup2html/project"
)

type handler struct {
	svc *project.Service
}

type ClassMapping struct {
	Class string `json:"class"`
	Tag   string `json:"tag"`
}

type DownloadResponse struct {
	SessionID string         `json:"session_id"`
	Files     []project.File `json:"files"`
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handler) uploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apiErrors.NewWithCause(ErrMissingFile, err)
	}
	f, err := fh.Open()
	if err != nil {
		return apiErrors.NewWithCause(ErrReadUpload, err).WithDetail("filename", fh.Filename)
	}
	defer f.Close()

	res, err := h.svc.Upload(c.UserContext(), fh.Filename, f)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *handler) getProject(c *fiber.Ctx) error {
	if _, err := h.svc.Restore(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(h.svc.Session().Snapshot())
}

// download with ?format answers with that file as an attachment and keeps
// the session, so every format can be fetched. Without it the full
// download runs and the list of offered files is returned.
func (h *handler) download(c *fiber.Ctx) error {
	if raw := c.Query("format"); raw != "" {
		format, err := project.ParseFormat(raw)
		if err != nil {
			return err
		}
		file, err := h.svc.File(format)
		if err != nil {
			return err
		}
		c.Attachment(file.Name)
		c.Set(fiber.HeaderContentType, format.ContentType())
		return c.SendString(file.Content)
	}

	res, err := h.svc.Download(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(DownloadResponse{SessionID: res.SessionID, Files: res.Files})
}

func (h *handler) teardown(c *fiber.Ctx) error {
	if err := h.svc.Teardown(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handler) classes(c *fiber.Ctx) error {
	m := h.svc.Synthesizer().Mapping()
	out := make([]ClassMapping, 0, m.Len())
	for _, class := range m.Classes() {
		el, _ := m.Lookup(class)
		out = append(out, ClassMapping{Class: class, Tag: el.Tag})
	}
	return c.JSON(out)
}
