package reports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconsole/reconsole/pkg/apiclient"
	"github.com/reconsole/reconsole/pkg/notify"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *notify.Bus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	transport, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	bus := notify.NewBus()
	return NewClient(transport, bus, nil), bus
}

func TestList(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"scan_id":7,"filename":"S1C0N_Report_example.com_7.pdf","format":"pdf","file_size":2048,"created_at":"2026-08-29T10:00:00"}]`))
	})
	c, _ := newTestClient(t, mux)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ScanID)
	assert.Equal(t, int64(2048), got[0].FileSize)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestGenerate_ScanNotCompleted(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/generate/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Scan is not completed yet"}`))
	})
	c, bus := newTestClient(t, mux)

	_, err := c.Generate(context.Background(), 7, false)
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Scan is not completed yet", apiErr.Detail)

	notifs := bus.List()
	require.Len(t, notifs, 1)
	assert.Equal(t, notify.KindError, notifs[0].Kind)
	assert.Equal(t, "Scan is not completed yet", notifs[0].Message)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/generate/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"id":3,"scan_id":7,"filename":"report.pdf","file_size":4096,"message":"Report generated successfully"}`))
	})
	c, bus := newTestClient(t, mux)

	rep, err := c.Generate(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Equal(t, "use_ai=true", gotQuery)
	assert.Equal(t, 3, rep.ID)
	require.Len(t, bus.List(), 1)
	assert.Equal(t, notify.KindSuccess, bus.List()[0].Kind)
}

func TestDownloadToFile(t *testing.T) {
	t.Parallel()
	payload := []byte("%PDF-1.7\nreal report body")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/download/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})
	c, _ := newTestClient(t, mux)

	dst := filepath.Join(t.TempDir(), "out.pdf")
	n, err := c.DownloadToFile(context.Background(), 7, false, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadToFile_RejectsNonPDF(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/download/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login page</html>"))
	})
	c, _ := newTestClient(t, mux)

	dst := filepath.Join(t.TempDir(), "out.pdf")
	_, err := c.DownloadToFile(context.Background(), 7, false, dst)
	require.ErrorIs(t, err, ErrNotPDF)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "partial download left behind")
}

func TestDelete(t *testing.T) {
	t.Parallel()
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newTestClient(t, mux)

	require.NoError(t, c.Delete(context.Background(), 12))
	assert.Equal(t, "12", deleted)
}
