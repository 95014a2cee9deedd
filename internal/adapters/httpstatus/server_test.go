package httpstatus

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

type staticCommands []string

func (c staticCommands) Names() []string      { return c }
func (c staticCommands) Has(name string) bool { return slices.Contains(c, name) }

func newTestServer(ids *componentid.Codec) *Server {
	return New(ids, staticCommands{"ping", "role-select"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(componentid.NewCodec(nil)).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCommands(t *testing.T) {
	rec := get(t, newTestServer(componentid.NewCodec(nil)).Handler(), "/commands")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct{ Commands []string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"ping", "role-select"}, body.Commands)
}

func TestDecode(t *testing.T) {
	ids := componentid.NewCodec(nil)
	h := newTestServer(ids).Handler()

	wire := ids.MustMint("role-select", "42", "a|b").String()
	rec := get(t, h, "/components/decode?id="+url.QueryEscape(wire))
	require.Equal(t, http.StatusOK, rec.Code)

	var got decodedComponent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, decodedComponent{
		Disambiguator: "0",
		Command:       "role-select",
		Elements:      []string{"42", "a|b"},
		Registered:    true,
	}, got)

	rec = get(t, h, "/components/decode?id="+url.QueryEscape("18446744073709551615|queue"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "18446744073709551615", got.Disambiguator)
	assert.False(t, got.Registered)
	assert.Empty(t, got.Elements)
}

func TestDecode_BadInput(t *testing.T) {
	h := newTestServer(componentid.NewCodec(nil)).Handler()
	for _, wire := range []string{"", "nope", "x|ping"} {
		rec := get(t, h, "/components/decode?id="+url.QueryEscape(wire))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "wire %q", wire)
		assert.Contains(t, rec.Body.String(), "error")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(componentid.NewCodec(nil)).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
