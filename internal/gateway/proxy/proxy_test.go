package proxy

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"map-extractor/internal/common/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method    string
	path      string
	query     string
	requestID string
	svg       string
	filename  string
}

func upstream(t *testing.T, got *seen) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.requestID = r.Header.Get(middleware.HeaderRequestID)

		if file, header, err := r.FormFile("svg"); err == nil {
			data, _ := io.ReadAll(file)
			file.Close()
			got.svg = string(data)
			got.filename = header.Filename
		}

		w.Header().Set(middleware.HeaderMapID, "map-1")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestForwardMultipart(t *testing.T) {
	var got seen
	srv := upstream(t, &got)

	app := fiber.New()
	app.Post("/convert", New(srv.Client(), nil).To(srv.URL+"/convert"))

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("svg", "board.svg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("<svg/>"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/convert?format=yaml", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.HeaderRequestID, "req-42")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(data))
	assert.Equal(t, "map-1", resp.Header.Get(middleware.HeaderMapID))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/convert", got.path)
	assert.Equal(t, "format=yaml", got.query)
	assert.Equal(t, "req-42", got.requestID)
	assert.Equal(t, "<svg/>", got.svg)
	assert.Equal(t, "board.svg", got.filename)
}

func TestForwardDynamicPath(t *testing.T) {
	var got seen
	srv := upstream(t, &got)
	p := New(srv.Client(), nil)

	app := fiber.New()
	app.Delete("/maps/:id", func(c fiber.Ctx) error {
		return p.Forward(c, srv.URL+"/maps/"+c.Params("id"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/maps/abc", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/maps/abc", got.path)
	assert.Empty(t, got.query)
}

func TestForwardUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	app := fiber.New()
	app.Get("/maps", New(nil, nil).To(url+"/maps"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/maps", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
