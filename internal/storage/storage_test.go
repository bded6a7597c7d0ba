package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	t.Parallel()

	k, ct, err := NewKey("contacts", "Photo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(k, "contacts/"))
	assert.True(t, strings.HasSuffix(k, ".png"))
	assert.Equal(t, "image/png", ct)

	k2, _, err := NewKey("contacts", "Photo.PNG")
	require.NoError(t, err)
	assert.NotEqual(t, k, k2)
}

func TestNewKey_RejectsNonImages(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"page.html", "x.svg", "script.js", "noext", "photo.png.htm"} {
		_, _, err := NewKey("contacts", name)
		assert.ErrorIs(t, err, ErrUnsupportedType, name)
	}
}

func TestLocalPut(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewLocal(root, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "services/a.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/services/a.png", url)

	data, err := os.ReadFile(filepath.Join(root, "services", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalPut_StaysInsideRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewLocal(root, "/uploads")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.txt", url)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Put(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	d := &S3{client: fake, bucket: "art", baseURL: "https://cdn.example.com"}

	url, err := d.Put(context.Background(), "/services/a.png", strings.NewReader("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/services/a.png", url)
	assert.Equal(t, "art", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "services/a.png", aws.ToString(fake.in.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "img", fake.body)

	fake.err = errors.New("denied")
	_, err = d.Put(context.Background(), "x", strings.NewReader(""), "")
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
