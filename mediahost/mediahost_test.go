package mediahost

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"savoro/models"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessRejectsNonImage(t *testing.T) {
	if _, err := Process(strings.NewReader("definitely not an image")); err == nil {
		t.Fatal("expected decode error for non-image input")
	}
}

func TestProcessReencodesAsJPEG(t *testing.T) {
	out, err := Process(bytes.NewReader(testPNG(t)))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	// JPEG SOI marker
	if len(out) < 2 || out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatalf("expected JPEG output, got leading bytes %x", out[:2])
	}
}

func TestUploadAndDelete(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "sekrit" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/assets":
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if _, _, err := r.FormFile("file"); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"url":"http://cdn.example/abc.jpg","deleteRef":"ref-abc"}`))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/assets/"):
			deleted = strings.TrimPrefix(r.URL.Path, "/assets/")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "sekrit")

	ref, err := client.Upload(context.Background(), []byte("jpegbytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ref.URL != "http://cdn.example/abc.jpg" || ref.DeleteRef != "ref-abc" {
		t.Fatalf("unexpected ref: %+v", ref)
	}

	if err := client.Delete(context.Background(), ref.DeleteRef); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != "ref-abc" {
		t.Fatalf("expected delete of ref-abc, got %q", deleted)
	}
}

// stepServer is a fake asset host that records the order of upload and
// delete calls it sees.
func stepServer(record func(string)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/assets":
			record("upload")
			w.Write([]byte(`{"url":"http://cdn.example/new.jpg","deleteRef":"ref-new"}`))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/assets/"):
			record("delete " + strings.TrimPrefix(r.URL.Path, "/assets/"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestReplaceOrdersUploadBeforeDelete(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	record := func(s string) {
		mu.Lock()
		steps = append(steps, s)
		mu.Unlock()
	}

	srv := stepServer(record)
	defer srv.Close()

	client := New(srv.URL, "sekrit")
	ref, err := client.Replace(context.Background(), []byte("x"), "ref-old", func(models.ImageRef) error {
		record("swap")
		return nil
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if ref.DeleteRef != "ref-new" {
		t.Fatalf("unexpected ref: %+v", ref)
	}

	// the old asset may only go away after the record points at the new one
	want := []string{"upload", "swap", "delete ref-old"}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("steps = %v, want %v", steps, want)
		}
	}
}

func TestReplaceFailedSwapDeletesNewAsset(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	record := func(s string) {
		mu.Lock()
		steps = append(steps, s)
		mu.Unlock()
	}

	srv := stepServer(record)
	defer srv.Close()

	client := New(srv.URL, "sekrit")
	_, err := client.Replace(context.Background(), []byte("x"), "ref-old", func(models.ImageRef) error {
		return errors.New("record update failed")
	})
	if err == nil {
		t.Fatal("expected swap failure to surface")
	}

	// the new asset is cleaned up; the old one stays referenced and alive
	want := []string{"upload", "delete ref-new"}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("steps = %v, want %v", steps, want)
		}
	}
}

func TestUploadSurfacesHostFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "sekrit")
	if _, err := client.Upload(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error on host failure")
	}
}
