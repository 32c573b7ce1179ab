package server

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enstruman/enstruman/pkg/analysis"
	"github.com/enstruman/enstruman/pkg/classifier"
	"github.com/enstruman/enstruman/pkg/labels"
)

func loudTestWAV(t *testing.T) []byte {
	t.Helper()
	samples := make([]int16, 16000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 16384
		} else {
			samples[i] = -16384
		}
	}
	payload := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(s))
	}

	buf := make([]byte, 44+len(payload))
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+len(payload)))
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)
	binary.LittleEndian.PutUint16(buf[22:], 1)
	binary.LittleEndian.PutUint32(buf[24:], 16000)
	binary.LittleEndian.PutUint32(buf[28:], 32000)
	binary.LittleEndian.PutUint16(buf[32:], 2)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(len(payload)))
	copy(buf[44:], payload)
	return buf
}

func newTestServer(t *testing.T, cls classifier.Classifier) *Server {
	t.Helper()
	a, err := analysis.NewAnalyzer(cls, labels.Table{"Gitar", "Davul"}, analysis.CustomProfile())
	require.NoError(t, err)
	return NewServer(DefaultConfig(), a)
}

func TestHandleAnalyze(t *testing.T) {
	mock := classifier.NewMockClassifierWithScores(1600, []float32{0.6, 0.2})
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(loudTestWAV(t)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.True(t, resp.Detected)
	assert.Equal(t, []string{"Gitar", "Davul"}, resp.Labels)
}

func TestHandleAnalyze_UndecodableBody(t *testing.T) {
	mock := classifier.NewMockClassifierWithScores(1600, []float32{0.6, 0.2})
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("not audio"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	// Undecodable input is "nothing detected", not a server error.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Detected)
	assert.Empty(t, resp.Labels)
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	mock := classifier.NewMockClassifierWithScores(1600, []float32{0.6, 0.2})
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyze_ClassifierFailure(t *testing.T) {
	mock := classifier.NewMockClassifier(1600, 2)
	mock.InferFunc = func(samples []float32) ([]float32, error) {
		return nil, errors.New("session lost")
	}
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(loudTestWAV(t)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	// Classifier failure is distinguishable from an empty verdict.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleStream(t *testing.T) {
	mock := classifier.NewMockClassifierWithScores(1600, []float32{0.6, 0.2})
	srv := newTestServer(t, mock)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Upload the recording in two chunks, then trigger analysis.
	wav := loudTestWAV(t)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, wav[:1000]))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, wav[1000:]))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("analyze")))

	var resp AnalyzeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.True(t, resp.Detected)
	assert.Equal(t, []string{"Gitar", "Davul"}, resp.Labels)
}
