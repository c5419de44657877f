package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"minutesapi/internal/config"
	"minutesapi/internal/logger"
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DriveClient publishes documents to a Drive-v3-compatible file host: upload
// the artifact under the configured parent folder, then grant anyone-with-link
// read access. Upload and permissioning are made transactionally equivalent by
// deleting the upload when the permission grant fails.
type DriveClient struct {
	cfg        config.DriveConfig
	httpClient *http.Client
	log        *logger.Logger
}

var _ Publisher = (*DriveClient)(nil)

// NewDriveClient builds a publisher from configuration.
func NewDriveClient(cfg config.DriveConfig, log *logger.Logger) *DriveClient {
	return &DriveClient{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   60 * time.Second,
		},
		log: log,
	}
}

type fileMetadata struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Parents  []string `json:"parents"`
}

type fileResponse struct {
	ID string `json:"id"`
}

// Publish uploads the artifact and returns its share link.
func (d *DriveClient) Publish(ctx context.Context, filename string, content []byte) (string, error) {
	fileID, err := d.upload(ctx, filename, content)
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}

	if err := d.grantPublicRead(ctx, fileID); err != nil {
		// Compensate: an uploaded but unreadable file must not linger.
		if delErr := d.delete(ctx, fileID); delErr != nil {
			d.log.WithField("file_id", fileID).WithError(delErr).
				Error("orphaned upload: compensating delete failed after permission error")
			return "", fmt.Errorf("grant permission failed: %v; compensating delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("grant permission: %w", err)
	}

	return fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID), nil
}

// upload performs a multipart/related upload (metadata JSON + media bytes).
func (d *DriveClient) upload(ctx context.Context, filename string, content []byte) (string, error) {
	meta := fileMetadata{
		Name:     filename,
		MimeType: docxMimeType,
		Parents:  []string{d.cfg.FolderID},
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return "", err
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", docxMimeType)
	mediaPart, err := w.CreatePart(mediaHeader)
	if err != nil {
		return "", err
	}
	if _, err := mediaPart.Write(content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	endpoint := d.cfg.UploadURL + "/drive/v3/files?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())
	req.Header.Set("Authorization", "Bearer "+d.cfg.AccessToken)

	var created fileResponse
	if err := d.doJSON(req, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("upload accepted but no file id returned")
	}
	return created.ID, nil
}

// grantPublicRead makes the file readable by anyone holding the link.
func (d *DriveClient) grantPublicRead(ctx context.Context, fileID string) error {
	payload, err := json.Marshal(map[string]string{
		"role": "reader",
		"type": "anyone",
	})
	if err != nil {
		return err
	}

	endpoint := d.cfg.BaseURL + "/drive/v3/files/" + fileID + "/permissions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.cfg.AccessToken)

	var out map[string]any
	return d.doJSON(req, &out)
}

func (d *DriveClient) delete(ctx context.Context, fileID string) error {
	endpoint := d.cfg.BaseURL + "/drive/v3/files/" + fileID
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.AccessToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// CheckAccess lists the parent folder to confirm the service account can see it.
func (d *DriveClient) CheckAccess(ctx context.Context) error {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("'%s' in parents", d.cfg.FolderID))
	q.Set("fields", "files(id, name)")

	endpoint := d.cfg.BaseURL + "/drive/v3/files?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.AccessToken)

	var out struct {
		Files []fileResponse `json:"files"`
	}
	if err := d.doJSON(req, &out); err != nil {
		return fmt.Errorf("list destination folder: %w", err)
	}
	d.log.WithField("files", len(out.Files)).Info("destination folder accessible")
	return nil
}

func (d *DriveClient) doJSON(req *http.Request, target any) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("drive api status %d: %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
