package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-extractor/core/extraction"
	"github.com/trezcool/masomo-extractor/tests"
)

func Test_extractionApi_extract(t *testing.T) {
	body := func(url string) []byte {
		return marchallObj(t, extraction.Request{URL: url})
	}

	lecture := extraction.Result{
		Pages: []string{
			"Lecture 1 Photosynthesis converts light energy into chemical energy.",
			"",
			"Summary Chlorophyll absorbs mostly blue and red light.",
		},
		PageCount: 3,
		NeedsOCR:  []int{1},
	}
	empty := extraction.Result{Pages: []string{}, PageCount: 0, NeedsOCR: []int{}}

	tests := []httpTest{
		{name: "extracts every page", body: body(remote.URL + "/lecture.pdf"), wantCode: http.StatusOK, wantData: marchallObj(t, lecture)},
		{name: "url with surrounding spaces", body: body("  " + remote.URL + "/lecture.pdf\n"), wantCode: http.StatusOK, wantData: marchallObj(t, lecture)},
		{name: "document without pages", body: body(remote.URL + "/empty.pdf"), wantCode: http.StatusOK, wantData: marchallObj(t, empty)},
		{name: "empty object", body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)},
		{name: "empty body", wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)},
		{name: "null url", body: []byte(`{"url": null}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)},
		{name: "blank url", body: body("   "), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)},
		{name: "not found", body: body(remote.URL + "/missing.pdf"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errFetchFailed)},
		{name: "unreachable host", body: body("http://127.0.0.1:1/lecture.pdf"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errFetchFailed)},
		{name: "malformed url", body: body("://nope"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errFetchFailed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/extract", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_extractionApi_extract_notPDF(t *testing.T) {
	req, rec := newRequest(http.MethodPost, "/extract", marchallObj(t, extraction.Request{URL: remote.URL + "/page.html"}))
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp httpErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Error, "parsing pdf: "), "error = %q", resp.Error)
}

func Test_extractionApi_extract_badJSON(t *testing.T) {
	req, rec := newRequest(http.MethodPost, "/extract", []byte(`{"url": `))
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httpErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func Test_extractionApi_extract_plainText(t *testing.T) {
	req, rec := newRequest(http.MethodPost, "/extract", []byte("hello"))
	req.Header.Set("Content-Type", "text/plain")
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)}, rec)
}

func Test_extractionApi_extract_idempotent(t *testing.T) {
	data := marchallObj(t, extraction.Request{URL: remote.URL + "/lecture.pdf"})

	req, first := newRequest(http.MethodPost, "/extract", data)
	app.ServeHTTP(first, req)
	req, second := newRequest(http.MethodPost, "/extract", data)
	app.ServeHTTP(second, req)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	var res extraction.Result
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &res))
	testutil.AssertPages(t, res.Pages, []string{
		"Lecture 1 Photosynthesis converts light energy into chemical energy.",
		"",
		"Summary Chlorophyll absorbs mostly blue and red light.",
	})
}

func Test_extractionApi_extract_noFetchOnInvalidInput(t *testing.T) {
	var calls int32
	fetcher := extraction.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	})
	srv := newServer(testConfig(""), fetcher)

	for _, data := range [][]byte{[]byte(`{}`), []byte(`{"url": ""}`), []byte(`{"url": " \t"}`), nil} {
		req, rec := newRequest(http.MethodPost, "/extract", data)
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func Test_extractionApi_extract_bodyLimit(t *testing.T) {
	big := `{"url": "` + strings.Repeat("a", 2<<20) + `"}`
	req, rec := newRequest(http.MethodPost, "/extract", []byte(big))
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func Test_extractionApi_extract_cors(t *testing.T) {
	req, rec := newRequest(http.MethodOptions, "/extract")
	req.Header.Set("Origin", "https://masomo.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req, rec = newRequest(http.MethodPost, "/extract", []byte(`{}`))
	req.Header.Set("Origin", "https://masomo.test")
	app.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func Test_extractionApi_extract_auth(t *testing.T) {
	srv := newServer(testConfig(jwtSecret), nil)
	data := marchallObj(t, extraction.Request{URL: remote.URL + "/lecture.pdf"})

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "missing token", wantCode: http.StatusUnauthorized},
		{name: "wrong secret", token: getToken(t, "not-the-secret", "u-1", "tutor@masomo.test"), wantCode: http.StatusUnauthorized},
		{name: "valid token", token: getToken(t, jwtSecret, "u-1", "tutor@masomo.test"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/extract", tt.token, data)
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	req, rec := newRequest(http.MethodPost, "/extract", data)
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
}

func Test_extractionApi_extract_debugMode(t *testing.T) {
	conf := testConfig("")
	conf.Debug = true
	var logs bytes.Buffer
	srv := newServerWithLog(conf, nil, &logs)

	tests := []httpTest{
		{name: "fetch failure", body: marchallObj(t, extraction.Request{URL: remote.URL + "/missing.pdf"}), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errFetchFailed)},
		{name: "missing url", body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, errURLRequired)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/extract", tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	assert.Contains(t, logs.String(), "extracting text: fetching document: failed to fetch pdf")
}
