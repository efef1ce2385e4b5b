package logsvc

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-extractor/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", Build: "test"}
	logger := NewRollbarLogger(log.New(&buf, "API : ", 0), conf)
	logger.Enable(false)

	tests := []struct {
		name    string
		log     func(msg string, args ...interface{})
		msg     string
		args    []interface{}
		want    []string
		notWant []string
	}{
		{name: "info", log: logger.Info, msg: "Application initializing", want: []string{"API : Application initializing"}},
		{name: "debug", log: logger.Debug, msg: "fetching", args: []interface{}{map[string]interface{}{"url": "https://cdn.test/a.pdf"}}, want: []string{"fetching", "https://cdn.test/a.pdf"}},
		{name: "warn", log: logger.Warn, msg: "slow fetch", want: []string{"slow fetch"}},
		{
			name: "error with person", log: logger.Error, msg: "extraction failed",
			args:    []interface{}{errors.New("parsing pdf: invalid header"), core.Person{ID: "u-42", Email: "tutor@school.test"}},
			want:    []string{"extraction failed", "parsing pdf: invalid header"},
			notWant: []string{"tutor@school.test"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log(tt.msg, tt.args...)
			out := buf.String()
			for _, w := range tt.want {
				assert.True(t, strings.Contains(out, w), "output %q should contain %q", out, w)
			}
			for _, nw := range tt.notWant {
				assert.False(t, strings.Contains(out, nw), "output %q should not contain %q", out, nw)
			}
		})
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{std: log.New(&bytes.Buffer{}, "", 0)}
	err := errors.New("boom")
	extras := map[string]interface{}{"requestId": "abc"}

	got := logger.prepare("msg", []interface{}{err, core.Person{ID: "1"}, extras, core.Person{ID: "2"}})
	assert.Equal(t, []interface{}{"msg", err, extras}, got)
}

func TestRollbarLogger_reportsPerson(t *testing.T) {
	var (
		mu    sync.Mutex
		items []map[string]interface{}
	)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Data map[string]interface{} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			mu.Lock()
			items = append(items, payload.Data)
			mu.Unlock()
		}
		_, _ = w.Write([]byte(`{"err":0}`))
	}))
	defer collector.Close()

	conf := &core.Config{Env: "TEST", Build: "test", RollbarToken: "test-token"}
	logger := NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	rollbar.SetEndpoint(collector.URL)
	logger.Enable(true)
	t.Cleanup(func() {
		logger.Enable(false)
		rollbar.SetEndpoint("https://api.rollbar.com/api/1/item/")
		rollbar.SetToken("")
	})

	logger.Error("extraction failed", errors.New("parsing pdf: invalid header"), core.Person{ID: "u-42", Email: "tutor@school.test"})
	logger.Warn("slow fetch")
	logger.Info("anonymous caller", core.Person{Email: "no-id@school.test"})
	rollbar.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, items, 3)

	person, ok := items[0]["person"].(map[string]interface{})
	require.True(t, ok, "first item has no person: %v", items[0])
	assert.Equal(t, "u-42", person["id"])
	assert.Equal(t, "tutor@school.test", person["email"])
	assert.Equal(t, "error", items[0]["level"])
	assert.Equal(t, "TEST", items[0]["environment"])

	for _, item := range items[1:] {
		_, hasPerson := item["person"]
		assert.False(t, hasPerson, "person not cleared: %v", item)
	}
}
