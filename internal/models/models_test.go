package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessage_ImagesRenderAsURLs(t *testing.T) {
	t.Parallel()

	msg := ContactMessage{
		ID:   3,
		Name: "Ann",
		Images: []ContactImage{
			{ID: 1, ContactID: 3, ImagePath: "/uploads/a.png"},
			{ID: 2, ContactID: 3, ImagePath: "/uploads/b.png"},
		},
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var out struct {
		Images []string `json:"images"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, out.Images)
	assert.Equal(t, out.Images, msg.ImagePaths())
}

func TestTags_ValueScan(t *testing.T) {
	t.Parallel()

	v, err := Tags{"madhubani", "folk art"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"madhubani","folk art"}`, v)

	var back Tags
	require.NoError(t, back.Scan(v))
	assert.Equal(t, Tags{"madhubani", "folk art"}, back)
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(User{ID: 1, Email: "a@x.com", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}
