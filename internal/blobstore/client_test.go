package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBlobServer — in-memory blob store over httptest.
type fakeBlobServer struct {
	mu      sync.Mutex
	objects map[string][]byte // key: bucket/path
	wantKey string
}

func (s *fakeBlobServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.wantKey != "" && r.Header.Get("Authorization") != "Bearer "+s.wantKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/object/"):
			key := strings.TrimPrefix(r.URL.Path, "/object/")
			data, _ := io.ReadAll(r.Body)
			_, existed := s.objects[key]
			s.objects[key] = data
			if existed {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusCreated)
			}

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/object/list/"):
			bucket := strings.TrimPrefix(r.URL.Path, "/object/list/")
			prefix := r.URL.Query().Get("prefix")
			resp := listResponse{Objects: []ObjectInfo{}}
			for key := range s.objects {
				if path, ok := strings.CutPrefix(key, bucket+"/"); ok && strings.HasPrefix(path, prefix) {
					resp.Objects = append(resp.Objects, ObjectInfo{Name: path, Size: int64(len(s.objects[key]))})
				}
			}
			json.NewEncoder(w).Encode(resp)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/object/"):
			key := strings.TrimPrefix(r.URL.Path, "/object/")
			if _, ok := s.objects[key]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(s.objects, key)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func newTestClient(t *testing.T, wantKey string) (*Client, *fakeBlobServer) {
	t.Helper()
	fake := &fakeBlobServer{objects: map[string][]byte{}, wantKey: wantKey}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", wantKey, "handbooks", testLogger()), fake
}

func TestUploadUpsert(t *testing.T) {
	client, fake := newTestClient(t, "anon-key")
	ctx := context.Background()

	path, publicURL, err := client.Upload(ctx, []byte("png-bytes-v1"), "image/png", "logos/1_logo.png")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if path != "logos/1_logo.png" {
		t.Errorf("path = %q, want logos/1_logo.png", path)
	}
	if !strings.HasSuffix(publicURL, "/object/public/handbooks/logos/1_logo.png") {
		t.Errorf("publicURL = %q, want public object URL", publicURL)
	}

	// A second upload to the same path replaces, never errors.
	if _, _, err := client.Upload(ctx, []byte("png-bytes-v2"), "image/png", "logos/1_logo.png"); err != nil {
		t.Fatalf("Upload() second write error: %v", err)
	}
	if got := string(fake.objects["handbooks/logos/1_logo.png"]); got != "png-bytes-v2" {
		t.Errorf("stored object = %q, want the replaced content", got)
	}
}

func TestListPrefix(t *testing.T) {
	client, _ := newTestClient(t, "")
	ctx := context.Background()

	for _, p := range []string{"logos/1_a.png", "logos/2_b.png", "exports/x.pdf"} {
		if _, _, err := client.Upload(ctx, []byte("data"), "application/octet-stream", p); err != nil {
			t.Fatalf("Upload(%s) error: %v", p, err)
		}
	}

	objects, err := client.List(ctx, "logos/")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(objects) != 2 {
		t.Errorf("List() returned %d objects, want 2", len(objects))
	}
}

func TestDeleteIdempotent(t *testing.T) {
	client, _ := newTestClient(t, "")
	ctx := context.Background()

	if _, _, err := client.Upload(ctx, []byte("data"), "image/png", "logos/del.png"); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if err := client.Delete(ctx, "logos/del.png"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	// Deleting again is a no-op, not an error.
	if err := client.Delete(ctx, "logos/del.png"); err != nil {
		t.Errorf("Delete() on absent object: %v, want nil", err)
	}
}

func TestErrStorageClassification(t *testing.T) {
	client, _ := newTestClient(t, "secret")
	// Wrong credential → non-2xx → ErrStorage.
	badClient := New(client.BaseURL(), "wrong", "handbooks", testLogger())

	_, _, err := badClient.Upload(context.Background(), []byte("x"), "image/png", "logos/x.png")
	if !errors.Is(err, ErrStorage) {
		t.Errorf("Upload() with bad credential: got %v, want ErrStorage", err)
	}
}

func TestPublicURLEscaping(t *testing.T) {
	client := New("https://blob.example.com", "", "handbooks", testLogger())

	got := client.PublicURL("logos/17000_min logga.png")
	want := "https://blob.example.com/object/public/handbooks/logos/17000_min%20logga.png"
	if got != want {
		t.Errorf("PublicURL() = %q, want %q", got, want)
	}
}
