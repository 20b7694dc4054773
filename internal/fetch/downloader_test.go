package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("file bytes"))
	}))
	defer srv.Close()

	d := NewDownloader()

	t.Run("Success", func(t *testing.T) {
		data, err := d.Download(context.Background(), srv.URL+"/resume.pdf")
		if err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if string(data) != "file bytes" {
			t.Errorf("Download = %q; want the served bytes", data)
		}
	})

	t.Run("Non_2xx_Is_An_Error", func(t *testing.T) {
		if _, err := d.Download(context.Background(), srv.URL+"/missing"); err == nil {
			t.Error("Expected an error for a 404 response")
		}
	})

	t.Run("Cancelled_Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := d.Download(ctx, srv.URL+"/resume.pdf"); err == nil {
			t.Error("Expected an error for a cancelled context")
		}
	})
}
