package spotly

import (
	"bytes"
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotly/spotly-go/testutil"
)

func parseMultipart(t *testing.T, req testutil.Request) (map[string][]string, map[string][]byte) {
	t.Helper()
	_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)

	reader := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)

	files := make(map[string][]byte)
	for name, headers := range form.File {
		f, err := headers[0].Open()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(f)
		require.NoError(t, err)
		f.Close()
		files[name] = buf.Bytes()
	}
	return form.Value, files
}

func TestPosts_CreateSendsMultipartForm(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("POST /posts", http.StatusCreated, Post{ID: 1})
	client := newTestClient(t, ts)

	form := PostForm{
		Title:     "Hidden waterfall",
		Content:   "a quiet spot",
		Status:    StatusNatura,
		TagID:     "3",
		Latitude:  ptr(38.71667),
		Longitude: ptr(-9.13333),
	}
	image := &PostImage{Filename: "falls.jpg", Reader: strings.NewReader("jpeg-bytes")}
	require.NoError(t, client.Posts().Create(context.Background(), form, image))

	reqs := ts.Requests()
	require.Len(t, reqs, 1)
	values, files := parseMultipart(t, reqs[0])

	assert.Equal(t, []string{"Hidden waterfall"}, values["title"])
	assert.Equal(t, []string{"a quiet spot"}, values["content"])
	assert.Equal(t, []string{"NATURA"}, values["status"])
	assert.Equal(t, []string{"3"}, values["tagId"])
	assert.Equal(t, []string{"38.71667"}, values["latitude"])
	assert.Equal(t, []string{"-9.13333"}, values["longitude"])
	assert.Equal(t, []byte("jpeg-bytes"), files["image"])
}

func TestPosts_CreateOmitsUnsetCoordinates(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("POST /posts", http.StatusCreated, Post{ID: 1})
	client := newTestClient(t, ts)

	form := PostForm{
		Title:   "Rooftop bar",
		Content: "city views",
		Status:  StatusUrban,
		TagID:   "2",
	}
	require.NoError(t, client.Posts().Create(context.Background(), form, nil))

	values, files := parseMultipart(t, ts.Requests()[0])
	assert.NotContains(t, values, "latitude")
	assert.NotContains(t, values, "longitude")
	assert.Empty(t, files)
}

func TestPosts_CreateRejectsInvalidStatusLocally(t *testing.T) {
	ts := testutil.NewServer()
	client := newTestClient(t, ts)

	form := PostForm{
		Title:   "Rooftop bar",
		Content: "city views",
		Status:  Status("COASTAL"),
		TagID:   "2",
	}
	err := client.Posts().Create(context.Background(), form, nil)
	require.Error(t, err)

	sdkErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, sdkErr.Code)
	assert.Empty(t, ts.Requests())
}

func TestPosts_CreateInvalidatesBothListKeys(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts", http.StatusOK, []Post{}).
		HandleJSON("GET /posts/user", http.StatusOK, []Post{}).
		HandleJSON("POST /posts", http.StatusCreated, Post{ID: 1})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Posts().List(ctx)
	require.NoError(t, err)
	_, err = client.Posts().ListMine(ctx)
	require.NoError(t, err)

	form := PostForm{Title: "t", Content: "c", Status: StatusRural, TagID: "1"}
	require.NoError(t, client.Posts().Create(ctx, form, nil))

	assert.False(t, client.Cache().Fresh(KeyPostsAll))
	assert.False(t, client.Cache().Fresh(KeyPostsUser))
}

func TestPosts_DeleteInvalidatesLists(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts", http.StatusOK, []Post{{ID: 1}}).
		HandleJSON("DELETE /posts/1", http.StatusOK, map[string]string{"message": "deleted"})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Posts().List(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Posts().Delete(ctx, 1))
	assert.False(t, client.Cache().Fresh(KeyPostsAll))
}

func TestPosts_ListDecodesLegacyStatusPrefix(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts", http.StatusOK, []map[string]any{
			{"id": 1, "title": "Old windmill", "status": "PostStatus.RURAL"},
		})
	client := newTestClient(t, ts)

	posts, err := client.Posts().List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, StatusRural, posts[0].Status)
}
