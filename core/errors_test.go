package core

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantFetch bool
		wantParse bool
	}{
		{name: "validation", err: NewValidationError(ErrURLRequired), wantMsg: "url required"},
		{name: "fetch", err: NewFetchError("https://cdn.test/a.pdf", 0, cause), wantMsg: "failed to fetch pdf", wantFetch: true},
		{
			name:      "wrapped fetch",
			err:       errors.Wrap(NewFetchError("https://cdn.test/a.pdf", http.StatusNotFound, nil), "fetching document"),
			wantMsg:   "fetching document: failed to fetch pdf",
			wantFetch: true,
		},
		{name: "parse", err: NewParseError(errors.New("invalid header")), wantMsg: "parsing pdf: invalid header", wantParse: true},
		{name: "parse without cause", err: NewParseError(nil), wantMsg: "parsing pdf: failed to parse pdf", wantParse: true},
		{name: "internal", err: NewInternalError(errors.New("boom")), wantMsg: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantFetch, IsFetchError(tt.err))
			assert.Equal(t, tt.wantParse, IsParseError(tt.err))
		})
	}
}

func TestFetchError_keepsCause(t *testing.T) {
	cause := errors.New("unexpected status: 404 Not Found")
	err := errors.Wrap(NewFetchError("https://cdn.test/a.pdf", http.StatusNotFound, cause), "fetching document")

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "https://cdn.test/a.pdf", fe.URL)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, fe, errors.Cause(err))
}
