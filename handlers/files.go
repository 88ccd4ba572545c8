package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/services"
)

// FileHandler serves the per-case file endpoints on the office share.
// Every handler dials a fresh share connection and closes it on all exit
// paths; the path traversal check runs before any dial.
type FileHandler struct {
	Cases  *services.CaseService
	Dialer services.ShareDialer
}

func NewFileHandler(cases *services.CaseService, dialer services.ShareDialer) *FileHandler {
	return &FileHandler{Cases: cases, Dialer: dialer}
}

// EnsureFolder handles POST /api/cases/:id/files/ensure-folder
func (h *FileHandler) EnsureFolder(c echo.Context) error {
	rel, err := h.caseFolder(c)
	if err != nil {
		return err
	}

	share, err := h.Dialer.Dial()
	if err != nil {
		return apperrors.Storage("failed to connect to share", err)
	}
	defer share.Close()

	if err := share.Mkdir(c.Request().Context(), rel); err != nil {
		return apperrors.Storage(err.Error(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "folder": rel})
}

// List handles GET /api/cases/:id/files
func (h *FileHandler) List(c echo.Context) error {
	rel, err := h.caseFolder(c)
	if err != nil {
		return err
	}

	share, err := h.Dialer.Dial()
	if err != nil {
		return apperrors.Storage("failed to connect to share", err)
	}
	defer share.Close()

	names, err := share.List(c.Request().Context(), rel)
	if err != nil {
		return apperrors.Storage(err.Error(), err)
	}

	items := make([]echo.Map, 0, len(names))
	for _, name := range names {
		items = append(items, echo.Map{"name": name})
	}
	return c.JSON(http.StatusOK, echo.Map{"folder": rel, "items": items})
}

// Upload handles POST /api/cases/:id/files/upload (multipart)
func (h *FileHandler) Upload(c echo.Context) error {
	rel, err := h.caseFolder(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.Validation("No file uploaded")
	}

	fileName := services.SanitizeName(fileHeader.Filename)
	if fileName == "" {
		fileName = "upload.bin"
	}
	target := services.JoinSharePath(rel, fileName)

	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.Storage("failed to read upload", err)
	}
	defer src.Close()

	share, err := h.Dialer.Dial()
	if err != nil {
		return apperrors.Storage("failed to connect to share", err)
	}
	defer share.Close()

	if err := share.Put(c.Request().Context(), target, src, fileHeader.Size); err != nil {
		return apperrors.Storage(err.Error(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "savedAs": fileName})
}

// Download handles GET /api/cases/:id/files/download?name=
func (h *FileHandler) Download(c echo.Context) error {
	rel, err := h.caseFolder(c)
	if err != nil {
		return err
	}

	name := c.QueryParam("name")
	if name == "" {
		return apperrors.Validation("Missing name")
	}

	fileName := services.SanitizeName(name)
	target := services.JoinSharePath(rel, fileName)

	share, err := h.Dialer.Dial()
	if err != nil {
		return apperrors.Storage("failed to connect to share", err)
	}
	defer share.Close()

	data, err := share.Get(c.Request().Context(), target)
	if err != nil {
		return apperrors.Storage(err.Error(), err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

// caseFolder resolves the case's share folder and rejects traversal
// before any share connection is opened.
func (h *FileHandler) caseFolder(c echo.Context) (string, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return "", err
	}

	caseRow, err := h.Cases.Get(id)
	if err != nil {
		return "", err
	}

	return services.EnsureInsideBase(caseRow.NasFolderPath)
}
