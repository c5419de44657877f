package publish

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutesapi/internal/config"
	"minutesapi/internal/logger"
)

func testDriveConfig(base string) config.DriveConfig {
	return config.DriveConfig{
		BaseURL:     base,
		UploadURL:   base,
		AccessToken: "test-token",
		FolderID:    "folder-1",
	}
}

func TestDriveClientPublish(t *testing.T) {
	t.Run("uploads, grants access, returns share link", func(t *testing.T) {
		var uploadedMeta fileMetadata
		var uploadedMedia []byte
		var permissionBody map[string]string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/drive/v3/files":
				assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

				mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				require.NoError(t, err)
				assert.Equal(t, "multipart/related", mediaType)

				mr := multipart.NewReader(r.Body, params["boundary"])

				metaPart, err := mr.NextPart()
				require.NoError(t, err)
				require.NoError(t, json.NewDecoder(metaPart).Decode(&uploadedMeta))

				mediaPart, err := mr.NextPart()
				require.NoError(t, err)
				assert.Equal(t, docxMimeType, mediaPart.Header.Get("Content-Type"))
				uploadedMedia, err = io.ReadAll(mediaPart)
				require.NoError(t, err)

				json.NewEncoder(w).Encode(fileResponse{ID: "file-abc"})

			case r.Method == http.MethodPost && r.URL.Path == "/drive/v3/files/file-abc/permissions":
				require.NoError(t, json.NewDecoder(r.Body).Decode(&permissionBody))
				json.NewEncoder(w).Encode(map[string]string{"id": "perm-1"})

			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())

		link, err := d.Publish(context.Background(), "meeting-Template-Formal-1700000000000.docx", []byte("docxbytes"))
		require.NoError(t, err)

		assert.Equal(t, "https://drive.google.com/file/d/file-abc/view?usp=sharing", link)
		assert.Equal(t, "meeting-Template-Formal-1700000000000.docx", uploadedMeta.Name)
		assert.Equal(t, docxMimeType, uploadedMeta.MimeType)
		assert.Equal(t, []string{"folder-1"}, uploadedMeta.Parents)
		assert.Equal(t, []byte("docxbytes"), uploadedMedia)
		assert.Equal(t, map[string]string{"role": "reader", "type": "anyone"}, permissionBody)
	})

	t.Run("permission failure deletes the upload", func(t *testing.T) {
		var deleted bool

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/drive/v3/files":
				json.NewEncoder(w).Encode(fileResponse{ID: "file-bad"})
			case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/permissions"):
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			case r.Method == http.MethodDelete && r.URL.Path == "/drive/v3/files/file-bad":
				deleted = true
				w.WriteHeader(http.StatusNoContent)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())

		_, err := d.Publish(context.Background(), "doc.docx", []byte("docxbytes"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grant permission")
		assert.True(t, deleted, "compensating delete not issued")
	})

	t.Run("upload failure returns error without permission call", func(t *testing.T) {
		var permissionCalled bool

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/permissions") {
				permissionCalled = true
			}
			http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())

		_, err := d.Publish(context.Background(), "doc.docx", []byte("docxbytes"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload document")
		assert.False(t, permissionCalled)
	})

	t.Run("missing file id is an upload failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())

		_, err := d.Publish(context.Background(), "doc.docx", []byte("docxbytes"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no file id")
	})
}

func TestDriveClientCheckAccess(t *testing.T) {
	t.Run("folder reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "'folder-1' in parents", r.URL.Query().Get("q"))
			json.NewEncoder(w).Encode(map[string]any{
				"files": []map[string]string{{"id": "f1", "name": "old.docx"}},
			})
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())
		assert.NoError(t, d.CheckAccess(context.Background()))
	})

	t.Run("folder unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"notFound"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		d := NewDriveClient(testDriveConfig(srv.URL), logger.New())
		err := d.CheckAccess(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list destination folder")
	})
}
