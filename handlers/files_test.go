package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"tech_office_cms_go/models"
)

func seedCaseWithFolder(t *testing.T, env *testEnv, folder string) *models.Case {
	caseRow := &models.Case{
		CaseNumber:    "C-FILES",
		ClientName:    "Acme",
		NasFolderPath: folder,
	}
	assert.NoError(t, env.db.Create(caseRow).Error)
	return caseRow
}

func TestEnsureCaseFolder(t *testing.T) {
	env := setupEnv(t)
	seedCaseWithFolder(t, env, "cases/C-FILES - Acme")

	_, c, rec := setupEcho(http.MethodPost, "/api/cases/1/files/ensure-folder", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	invoke(c, rec, env.handlers.Files.EnsureFolder)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.dialer.share.folders["cases/C-FILES - Acme"])
	assert.True(t, env.dialer.share.closed)
}

func TestFileTraversalGuard(t *testing.T) {
	env := setupEnv(t)
	seedCaseWithFolder(t, env, "cases/../../etc")

	endpoints := map[string]echo.HandlerFunc{
		"ensure":   env.handlers.Files.EnsureFolder,
		"list":     env.handlers.Files.List,
		"download": env.handlers.Files.Download,
	}

	for name, handler := range endpoints {
		t.Run(name, func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodGet, "/api/cases/1/files?name=x", nil)
			c.SetParamNames("id")
			c.SetParamValues("1")
			invoke(c, rec, handler)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid path"}`, rec.Body.String())
		})
	}

	// The guard must fire before any connection is opened.
	assert.Equal(t, 0, env.dialer.dials)
}

func TestUploadFile(t *testing.T) {
	env := setupEnv(t)
	seedCaseWithFolder(t, env, "cases/C-FILES - Acme")

	multipartRequest := func(t *testing.T, field, filename string) (echo.Context, *httptest.ResponseRecorder) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		if field != "" {
			part, err := writer.CreateFormFile(field, filename)
			assert.NoError(t, err)
			_, err = part.Write([]byte("file contents"))
			assert.NoError(t, err)
		}
		assert.NoError(t, writer.Close())

		e := echo.New()
		e.HTTPErrorHandler = HTTPErrorHandler
		req := httptest.NewRequest(http.MethodPost, "/api/cases/1/files/upload", &buf)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")
		return c, rec
	}

	t.Run("Success", func(t *testing.T) {
		c, rec := multipartRequest(t, "file", "contract.pdf")
		invoke(c, rec, env.handlers.Files.Upload)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true,"savedAs":"contract.pdf"}`, rec.Body.String())
		assert.Equal(t, []byte("file contents"), env.dialer.share.files["cases/C-FILES - Acme/contract.pdf"])
	})

	t.Run("Filename is sanitized", func(t *testing.T) {
		c, rec := multipartRequest(t, "file", `inv<oi>ce:3.pdf`)
		invoke(c, rec, env.handlers.Files.Upload)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "invoice3.pdf", resp["savedAs"])
	})

	t.Run("Missing file part", func(t *testing.T) {
		c, rec := multipartRequest(t, "", "")
		invoke(c, rec, env.handlers.Files.Upload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())
	})

	t.Run("Unknown case", func(t *testing.T) {
		c, rec := multipartRequest(t, "file", "x.txt")
		c.SetParamValues("42")
		invoke(c, rec, env.handlers.Files.Upload)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
	})
}

func TestListFiles(t *testing.T) {
	env := setupEnv(t)
	seedCaseWithFolder(t, env, "cases/C-FILES - Acme")
	env.dialer.share.files["cases/C-FILES - Acme/a.pdf"] = []byte("a")
	env.dialer.share.files["cases/C-FILES - Acme/b.docx"] = []byte("b")

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/1/files", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	invoke(c, rec, env.handlers.Files.List)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Folder string              `json:"folder"`
		Items  []map[string]string `json:"items"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cases/C-FILES - Acme", resp.Folder)
	assert.Len(t, resp.Items, 2)
}

func TestDownloadFile(t *testing.T) {
	env := setupEnv(t)
	seedCaseWithFolder(t, env, "cases/C-FILES - Acme")
	env.dialer.share.files["cases/C-FILES - Acme/report.pdf"] = []byte("%PDF-1.4")

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/1/files/download?name=report.pdf", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Files.Download)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="report.pdf"`)
	})

	t.Run("Missing name", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/1/files/download", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Files.Download)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing name"}`, rec.Body.String())
	})
}
