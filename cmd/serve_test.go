package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRequest(t *testing.T, method, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	NewHandler().ServeHTTP(w, req)
	return w.Result()
}

func fixture(t *testing.T, path string) io.Reader {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func decode(t *testing.T, resp *http.Response, v any) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandleName(t *testing.T) {
	resp := serveRequest(t, http.MethodGet, "/names/31", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.NameResponse
	decode(t, resp, &res)
	assert.Equal(t, model.NameResponse{TPC: 31, Name: "F#"}, res)
}

func TestHandleNameRejectsText(t *testing.T) {
	resp := serveRequest(t, http.MethodGet, "/names/sharp", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var res model.ErrorResponse
	decode(t, resp, &res)
	assert.Contains(t, res.Error, "sharp")
}

func TestHandleExtract(t *testing.T) {
	resp := serveRequest(t, http.MethodPost, "/extract?type=musicxml", fixture(t, simpleMusicXML))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.ExtractResponse
	decode(t, resp, &res)

	assert := assert.New(t)
	_, err := uuid.Parse(res.Id)
	assert.NoError(err)
	assert.Equal(3, res.Total)
	assert.Equal([]model.LabeledPitch{
		{Name: "C", Pitch: 60, Measure: 1, Tick: 0, Track: 0},
		{Name: "E", Pitch: 52, Measure: 1, Tick: 0, Track: 1},
		{Name: "D", Pitch: 62, Measure: 2, Tick: 1920, Track: 0},
	}, res.Pitches)
}

func TestHandleExtractRange(t *testing.T) {
	resp := serveRequest(t, http.MethodPost, "/extract?type=mscx&from=2&to=2", fixture(t, simpleScore))

	var res model.ExtractResponse
	decode(t, resp, &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "D", res.Pitches[0].Name)
}

func TestHandleExtractEmpty(t *testing.T) {
	resp := serveRequest(t, http.MethodPost, "/extract?type=mscx", fixture(t, emptyScore))

	var res model.ExtractResponse
	decode(t, resp, &res)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Pitches)
}

func TestHandleExtractBadInput(t *testing.T) {
	targets := []string{
		"/extract",
		"/extract?type=pdf",
		"/extract?type=mscx&from=one",
		"/extract?type=mxl",
	}
	for _, target := range targets {
		resp := serveRequest(t, http.MethodPost, target, fixture(t, simpleScore))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)

		var res model.ErrorResponse
		decode(t, resp, &res)
		assert.NotEmpty(t, res.Error, target)
	}
}

func TestHandleReport(t *testing.T) {
	resp := serveRequest(t, http.MethodPost, "/report?type=mscx&name=scores/simple.mscx", fixture(t, simpleScore))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Source: simple.mscx\n")
	assert.Contains(t, string(body), "C, E, D\n")
}

func TestCorsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/extract", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	NewHandler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Result().Header.Get("Access-Control-Allow-Origin"))
}
