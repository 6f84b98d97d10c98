// Package reports is the client for the backend's report lifecycle:
// listing generated reports, triggering PDF generation for a completed
// scan, downloading the rendered document, and deleting old reports.
// Rendering itself is server-side; this package only moves bytes.
package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/reconsole/reconsole/pkg/apiclient"
	"github.com/reconsole/reconsole/pkg/jsonutil"
	"github.com/reconsole/reconsole/pkg/notify"
)

// ErrNotPDF indicates a downloaded report did not start with a PDF
// header, usually an HTML error page saved by mistake.
var ErrNotPDF = errors.New("reports: downloaded file is not a PDF")

// Report is one generated report record.
type Report struct {
	ID        int           `json:"id"`
	ScanID    int           `json:"scan_id"`
	Filename  string        `json:"filename"`
	Format    string        `json:"format"`
	FileSize  int64         `json:"file_size"`
	CreatedAt jsonutil.Time `json:"created_at"`
}

// generateResponse is the POST /api/reports/generate/{id} envelope.
type generateResponse struct {
	ID       int    `json:"id"`
	ScanID   int    `json:"scan_id"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

// Transport is the slice of the API client this package needs.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
}

// Client drives the report endpoints.
type Client struct {
	transport Transport
	bus       notify.Publisher
	logger    *slog.Logger
}

// NewClient creates a report client. bus may be nil; logger nil means
// slog.Default().
func NewClient(transport Transport, bus notify.Publisher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{transport: transport, bus: bus, logger: logger}
}

// List fetches all generated reports, newest first (server order).
func (c *Client) List(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.transport.Do(ctx, http.MethodGet, "/api/reports/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate asks the server to render a PDF for scanID. The scan must be
// completed; otherwise the server rejects with a 400 and a detail
// message, which propagates as *apiclient.APIError.
func (c *Client) Generate(ctx context.Context, scanID int, useAI bool) (*Report, error) {
	path := fmt.Sprintf("/api/reports/generate/%d?use_ai=%t", scanID, useAI)
	var resp generateResponse
	if err := c.transport.Do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		c.publish(notify.KindError, "Report Generation Failed",
			apiclient.ErrorMessage(err, fmt.Sprintf("Could not generate report for scan #%d", scanID)))
		return nil, err
	}
	c.publish(notify.KindSuccess, "Report Generated", resp.Filename)
	return &Report{
		ID:       resp.ID,
		ScanID:   resp.ScanID,
		Filename: resp.Filename,
		Format:   "pdf",
		FileSize: resp.FileSize,
	}, nil
}

// DownloadToFile streams the rendered PDF for scanID into path. The
// destination is written atomically: a partial download never leaves a
// truncated file behind. The header is sanity-checked so an error page
// is not saved as a .pdf.
func (c *Client) DownloadToFile(ctx context.Context, scanID int, useAI bool, path string) (int64, error) {
	tmp, err := os.CreateTemp("", "reconsole-report-*.pdf")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	apiPath := fmt.Sprintf("/api/reports/download/%d?use_ai=%t", scanID, useAI)
	n, err := c.transport.Download(ctx, apiPath, tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := checkPDFHeader(tmp); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		// Cross-device rename fallback: copy the temp file over.
		if copyErr := copyFile(tmp.Name(), path); copyErr != nil {
			return 0, err
		}
	}
	c.logger.Info("report downloaded", "scan_id", scanID, "path", path, "bytes", n)
	return n, nil
}

// Delete removes a generated report record.
func (c *Client) Delete(ctx context.Context, reportID int) error {
	path := fmt.Sprintf("/api/reports/%d", reportID)
	return c.transport.Do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) publish(kind notify.Kind, title, message string) {
	if c.bus != nil {
		c.bus.Publish(kind, title, message)
	}
}

// checkPDFHeader verifies the magic bytes at the start of f.
func checkPDFHeader(f *os.File) error {
	var header [5]byte
	if _, err := f.ReadAt(header[:], 0); err != nil {
		return ErrNotPDF
	}
	if string(header[:]) != "%PDF-" {
		return ErrNotPDF
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
