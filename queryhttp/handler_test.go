package queryhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriyfree/oscqueryd/hostinfo"
	"github.com/dmitriyfree/oscqueryd/tree"
)

func ptr[T any](v T) *T { return &v }

func newTestHandler() (*Handler, *tree.Tree) {
	tr := tree.New("test root")
	tr.AddMethod("/chatbox/input", tree.MethodSpec{
		Access:    ptr(tree.AccessWriteOnly),
		Arguments: []tree.Argument{{Type: tree.TypeSpec{Code: "s"}}, {Type: tree.TypeSpec{Code: "T"}}},
	})
	tr.AddMethod("/a/b/c", tree.MethodSpec{
		Access: ptr(tree.AccessReadWrite),
		Arguments: []tree.Argument{
			{Type: tree.TypeSpec{Code: "f"}, Range: &tree.Range{Min: ptr(0.0), Max: ptr(1.0)}},
		},
	})
	_ = tr.SetValue("/a/b/c", 0, 0.5)

	hi := func() hostinfo.HostInfo {
		return hostinfo.HostInfo{
			Name:         "TestNode",
			Extensions:   hostinfo.FullExtensions,
			OSCIP:        "0.0.0.0",
			OSCPort:      9000,
			OSCTransport: "UDP",
		}
	}
	return New(tr, hi), tr
}

func doGet(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFullNodeResponse(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/chatbox/input")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/chatbox/input", body["FULL_PATH"])
	assert.Equal(t, "sT", body["TYPE"])
	assert.Equal(t, float64(tree.AccessWriteOnly), body["ACCESS"])
	assert.NotContains(t, body, "VALUE")
}

func TestUnreadableValueReturns204(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/chatbox/input?VALUE")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestReadableValueWithRange(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/a/b/c")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "f", body["TYPE"])
	assert.Equal(t, float64(tree.AccessReadWrite), body["ACCESS"])
	assert.Equal(t, []any{0.5}, body["VALUE"])

	ranges := body["RANGE"].([]any)
	entry := ranges[0].(map[string]any)
	assert.Equal(t, 0.0, entry["MIN"])
	assert.Equal(t, 1.0, entry["MAX"])
}

func TestUnknownPathReturns404(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestNonGetReturns400(t *testing.T) {
	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/anything", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSelectorReturns400(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/?HELLO")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHostInfoSelector(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/?HOST_INFO")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TestNode", body["NAME"])
	assert.Equal(t, "UDP", body["OSC_TRANSPORT"])

	ext := body["EXTENSIONS"].(map[string]any)
	for _, key := range []string{"ACCESS", "VALUE", "RANGE", "DESCRIPTION", "TAGS", "CRITICAL", "CLIPMODE"} {
		assert.Equal(t, true, ext[key], key)
	}
}

func TestHostInfoIgnoresPath(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/does/not/exist?HOST_INFO")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSelectorOnMissingAttributeIsNull(t *testing.T) {
	h, _ := newTestHandler()
	rec := doGet(h, "/chatbox/input?RANGE")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "RANGE")
	assert.Nil(t, body["RANGE"])
}
