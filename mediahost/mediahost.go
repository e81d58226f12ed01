package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"savoro/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// maxImageWidth caps what we push to the asset host; larger uploads are
// resized down, preserving aspect ratio.
const maxImageWidth = 1600

// Client talks to the external image host. Uploads hand back a public URL
// plus an opaque reference used for deletion.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Process decodes the uploaded image, shrinks oversized ones, and re-encodes
// as JPEG. Re-encoding also drops EXIF metadata. A reader that is not a real
// image fails here, before anything reaches the host.
func Process(src io.Reader) ([]byte, error) {
	img, err := imaging.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

type uploadResponse struct {
	URL       string `json:"url"`
	DeleteRef string `json:"deleteRef"`
}

// Upload pushes image bytes to the host and returns the stored reference.
func (c *Client) Upload(ctx context.Context, data []byte) (models.ImageRef, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", uuid.New().String()+".jpg")
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return models.ImageRef{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.ImageRef{}, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/assets", body)
	if err != nil {
		return models.ImageRef{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("media host upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return models.ImageRef{}, fmt.Errorf("media host upload: status %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ImageRef{}, fmt.Errorf("media host upload: decode response: %w", err)
	}
	if out.URL == "" || out.DeleteRef == "" {
		return models.ImageRef{}, fmt.Errorf("media host upload: incomplete response")
	}

	return models.ImageRef{URL: out.URL, DeleteRef: out.DeleteRef}, nil
}

// Delete removes an asset by its delete reference.
func (c *Client) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.BaseURL+"/assets/"+ref, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("media host delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("media host delete: status %d", resp.StatusCode)
	}
	return nil
}

// Replace is the two-phase image swap: upload the new asset, run swap to
// repoint the owning record, then best-effort delete the old asset. The old
// asset is only deleted after the record swap succeeds, so a failure part-way
// can strand an unused asset but never leaves the record pointing at a
// deleted one. A failed swap deletes the just-uploaded asset instead.
func (c *Client) Replace(ctx context.Context, data []byte, oldRef string, swap func(models.ImageRef) error) (models.ImageRef, error) {
	ref, err := c.Upload(ctx, data)
	if err != nil {
		return models.ImageRef{}, err
	}
	if err := swap(ref); err != nil {
		c.DeleteQuietly(ctx, ref.DeleteRef)
		return models.ImageRef{}, err
	}
	c.DeleteQuietly(ctx, oldRef)
	return ref, nil
}

// DeleteQuietly is the cleanup path for replaced images: the new asset is
// already live and referenced, so a failed delete only strands the old one.
// Logged and swallowed, never surfaced.
func (c *Client) DeleteQuietly(ctx context.Context, ref string) {
	if err := c.Delete(ctx, ref); err != nil {
		log.Printf("media host: orphaned asset %s: %v", ref, err)
	}
}
