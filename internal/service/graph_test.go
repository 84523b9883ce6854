package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateGraphError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "code 190 means reauthorize",
			body: `{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`,
			want: ErrReauthorizeRequired,
		},
		{
			name: "code 200 means missing scope",
			body: `{"error":{"message":"Requires instagram_content_publish","type":"OAuthException","code":200}}`,
			want: ErrInsufficientScope,
		},
		{
			name: "code 10 means missing scope",
			body: `{"error":{"message":"Application does not have permission for this action","code":10}}`,
			want: ErrInsufficientScope,
		},
		{
			name: "code 9004 means unreachable image",
			body: `{"error":{"message":"The media could not be fetched","code":9004}}`,
			want: ErrImageUnreachable,
		},
		{
			name: "subcode 2207052 means unreachable image",
			body: `{"error":{"message":"Media upload has failed","code":1,"error_subcode":2207052}}`,
			want: ErrImageUnreachable,
		},
		{
			name: "message fallback for invalid token",
			body: `{"error":{"message":"Invalid OAuth access token - Cannot parse access token","code":1}}`,
			want: ErrReauthorizeRequired,
		},
		{
			name: "message fallback for permission",
			body: `{"error":{"message":"The user has not granted the required permission","code":1}}`,
			want: ErrInsufficientScope,
		},
		{
			name: "message fallback for download failure",
			body: `{"error":{"message":"The image at the url could not be downloaded","code":1}}`,
			want: ErrImageUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateGraphError([]byte(tt.body), http.StatusBadRequest)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTranslateGraphErrorUnclassified(t *testing.T) {
	body := `{"error":{"message":"An unknown error occurred","type":"OAuthException","code":2,"error_subcode":460}}`
	err := translateGraphError([]byte(body), http.StatusInternalServerError)

	var ge *GraphError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 2, ge.Code)
	assert.Equal(t, 460, ge.Subcode)
	assert.Contains(t, ge.Message, "unknown error")
}

func TestTranslateGraphErrorNonJSONBody(t *testing.T) {
	err := translateGraphError([]byte("Bad Gateway"), http.StatusBadGateway)

	var ge *GraphError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusBadGateway, ge.Code)
	assert.Equal(t, "Bad Gateway", ge.Message)
}

func TestCreateMediaContainer(t *testing.T) {
	var gotMethod, gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"id":"17900000000000001"}`)
	}))
	defer server.Close()

	graph := NewGraphClient(server.URL)
	creationID, err := graph.CreateMediaContainer(context.Background(), "17800000000000000", "https://cdn.example.com/img.jpg", "hello\n\n#go", "EAAGtoken")

	require.NoError(t, err)
	assert.Equal(t, "17900000000000001", creationID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v20.0/17800000000000000/media", gotPath)
	assert.Equal(t, "https://cdn.example.com/img.jpg", gotQuery["image_url"][0])
	assert.Equal(t, "hello\n\n#go", gotQuery["caption"][0])
	assert.Equal(t, "EAAGtoken", gotQuery["access_token"][0])
}

func TestCreateMediaContainerMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	graph := NewGraphClient(server.URL)
	_, err := graph.CreateMediaContainer(context.Background(), "ig", "https://cdn.example.com/img.jpg", "c", "t")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no container ID")
}

func TestPublishMediaContainer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/17800000000000000/media_publish", r.URL.Path)
		assert.Equal(t, "container1", r.URL.Query().Get("creation_id"))
		fmt.Fprint(w, `{"id":"18000000000000002"}`)
	}))
	defer server.Close()

	graph := NewGraphClient(server.URL)
	mediaID, err := graph.PublishMediaContainer(context.Background(), "17800000000000000", "container1", "EAAGtoken")

	require.NoError(t, err)
	assert.Equal(t, "18000000000000002", mediaID)
}

func TestGraphErrorPropagation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer server.Close()

	graph := NewGraphClient(server.URL)
	_, err := graph.ListPages(context.Background(), "expired")

	assert.True(t, errors.Is(err, ErrReauthorizeRequired))
}

func TestBuildCaption(t *testing.T) {
	assert.Equal(t, "just text", BuildCaption("just text", nil))
	assert.Equal(t, "hello\n\n#go #golang", BuildCaption("hello", []string{"#go", "#golang"}))
}
