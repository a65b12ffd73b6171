package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/anonto42/ecobite/web/internal/models"
)

// PostService defines the post operations the view controllers depend on.
type PostService interface {
	ListPosts(ctx context.Context, filter ListFilter) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id models.ID) (*models.Post, error)
	CreatePost(ctx context.Context, payload PostPayload) (*models.Post, error)
	DeletePost(ctx context.Context, id models.ID) (map[string]any, error)
}

// ListFilter carries the feed filters. Empty fields are left to the
// backend's defaults.
type ListFilter struct {
	Status  string
	Search  string
	Type    string
	Sort    string
	Dietary string
}

// Query encodes the filter as listing query parameters.
func (f ListFilter) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q.Set(key, value)
		}
	}
	set("status", f.Status)
	set("search", f.Search)
	if !strings.EqualFold(strings.TrimSpace(f.Type), "all") {
		set("type", f.Type)
	}
	set("sort", f.Sort)
	set("dietary", f.Dietary)
	return q
}

// ListPosts returns the posts matching filter, in server order.
func (c *Client) ListPosts(ctx context.Context, filter ListFilter) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{
		op:       "list posts",
		method:   http.MethodGet,
		path:     "/food-posts",
		query:    filter.Query(),
		fallback: "failed to fetch posts",
	}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// MyPosts returns the viewer's own posts with their claim summaries.
func (c *Client) MyPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{
		op:       "list my posts",
		method:   http.MethodGet,
		path:     "/food-posts/mine",
		fallback: "failed to fetch your posts",
	}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id models.ID) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, call{
		op:       "get post",
		method:   http.MethodGet,
		path:     "/food-posts/" + url.PathEscape(id.String()),
		fallback: "failed to fetch post",
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// PostPayload is a post-creation body, either JSONPost or MultipartPost.
type PostPayload interface {
	encode() (body io.Reader, contentType string, err error)
}

type jsonPost struct {
	req models.CreatePostRequest
}

// JSONPost wraps a structured request so it is sent as application/json.
func JSONPost(req models.CreatePostRequest) PostPayload {
	return jsonPost{req: req}
}

func (p jsonPost) encode() (io.Reader, string, error) {
	body, err := jsonBody("create post", p.req)
	if err != nil {
		return nil, "", err
	}
	return body, "application/json", nil
}

// ImagePart is an uploaded photo forwarded to the backend.
type ImagePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     io.Reader
}

// MultipartPost is a form payload that may carry an image. Its content type,
// including the boundary, comes from the multipart writer.
type MultipartPost struct {
	Fields url.Values
	Image  *ImagePart
}

func (p MultipartPost) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, values := range p.Fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", fmt.Errorf("create post: writing field %s: %w", key, err)
			}
		}
	}

	if p.Image != nil && p.Image.Content != nil {
		field := p.Image.FieldName
		if field == "" {
			field = "photo"
		}
		contentType := p.Image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, p.Image.Filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create post: creating image part: %w", err)
		}
		if _, err := io.Copy(part, p.Image.Content); err != nil {
			return nil, "", fmt.Errorf("create post: copying image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("create post: closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// CreatePost creates a post from a JSON or multipart payload.
func (c *Client) CreatePost(ctx context.Context, payload PostPayload) (*models.Post, error) {
	body, contentType, err := payload.encode()
	if err != nil {
		return nil, err
	}
	var post models.Post
	err = c.do(ctx, call{
		op:          "create post",
		method:      http.MethodPost,
		path:        "/food-posts",
		body:        body,
		contentType: contentType,
		fallback:    "failed to create post",
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post and returns the backend's confirmation.
func (c *Client) DeletePost(ctx context.Context, id models.ID) (map[string]any, error) {
	confirmation := map[string]any{}
	err := c.do(ctx, call{
		op:       "delete post",
		method:   http.MethodDelete,
		path:     "/food-posts/" + url.PathEscape(id.String()),
		fallback: "failed to delete post",
	}, &confirmation)
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}
