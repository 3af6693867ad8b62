package client

// http_client.go = talks to the YaMDb REST API on behalf of the CLI commands.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"yamdb/cmd/cli/dto"
)

// APIError is a non-success answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.StatusCode, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken makes every following request carry the bearer token.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes the answer into out when the status is want.
func (c *HTTPClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Auth

func (c *HTTPClient) Signup(request *dto.SignupRequest) (*dto.SignupResponse, error) {
	var result dto.SignupResponse
	if err := c.do(http.MethodPost, "/auth/signup/", request, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ObtainToken(request *dto.TokenRequest) (string, error) {
	var result dto.TokenResponse
	if err := c.do(http.MethodPost, "/auth/token/", request, http.StatusOK, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func (c *HTTPClient) Me() (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodGet, "/users/me/", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog

func (c *HTTPClient) ListCategories() ([]dto.CategoryResponse, error) {
	var result []dto.CategoryResponse
	err := c.do(http.MethodGet, "/categories/", nil, http.StatusOK, &result)
	return result, err
}

func (c *HTTPClient) ListGenres() ([]dto.GenreResponse, error) {
	var result []dto.GenreResponse
	err := c.do(http.MethodGet, "/genres/", nil, http.StatusOK, &result)
	return result, err
}

func (c *HTTPClient) ListTitles() ([]dto.TitleResponse, error) {
	var result []dto.TitleResponse
	err := c.do(http.MethodGet, "/titles/", nil, http.StatusOK, &result)
	return result, err
}

func (c *HTTPClient) GetTitle(id int64) (*dto.TitleResponse, error) {
	var result dto.TitleResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d/", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reviews

func (c *HTTPClient) ListReviews(titleID int64) ([]dto.ReviewResponse, error) {
	var result []dto.ReviewResponse
	err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d/reviews/", titleID), nil, http.StatusOK, &result)
	return result, err
}

func (c *HTTPClient) CreateReview(titleID int64, request *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	path := fmt.Sprintf("/titles/%d/reviews/", titleID)
	if err := c.do(http.MethodPost, path, request, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(titleID, reviewID int64) error {
	path := fmt.Sprintf("/titles/%d/reviews/%d/", titleID, reviewID)
	return c.do(http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// Comments

func (c *HTTPClient) ListComments(titleID, reviewID int64) ([]dto.CommentResponse, error) {
	var result []dto.CommentResponse
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments/", titleID, reviewID)
	err := c.do(http.MethodGet, path, nil, http.StatusOK, &result)
	return result, err
}

func (c *HTTPClient) CreateComment(titleID, reviewID int64, text string) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments/", titleID, reviewID)
	if err := c.do(http.MethodPost, path, &dto.CreateCommentRequest{Text: text}, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteComment(titleID, reviewID, commentID int64) error {
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments/%d/", titleID, reviewID, commentID)
	return c.do(http.MethodDelete, path, nil, http.StatusNoContent, nil)
}
