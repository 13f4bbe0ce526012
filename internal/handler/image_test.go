package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/configs"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "http://localhost:9000/dmchat/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestParseImageDataURL(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	contentType, data, err := parseImageDataURL(dataURL)
	require.NoError(t, err)

	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, raw, data)
}

func TestObjectKeyFromURL(t *testing.T) {
	cfg := &configs.AppConfig{S3Endpoint: "http://localhost:9000/", S3BucketName: "dmchat"}

	key, ok := objectKeyFromURL(cfg, "http://localhost:9000/dmchat/user-1/abc.png")
	require.True(t, ok)
	assert.Equal(t, "user-1/abc.png", key)

	for name, url := range map[string]string{
		"foreign host":   "https://elsewhere.example.com/dmchat/cat.png",
		"foreign bucket": "http://localhost:9000/other/cat.png",
		"empty key":      "http://localhost:9000/dmchat/",
		"empty url":      "",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := objectKeyFromURL(cfg, url)
			assert.False(t, ok)
		})
	}
}

func TestDeleteStoredImageOnlyTouchesOwnBucket(t *testing.T) {
	fs := &fakeStorage{}
	deps := &AppDeps{
		Config:         &configs.AppConfig{S3Endpoint: "http://localhost:9000", S3BucketName: "dmchat"},
		StorageService: fs,
	}
	r := httptest.NewRequest(http.MethodPut, "/api/auth/update-profile", nil)

	deleteStoredImage(r, deps, "http://localhost:9000/dmchat/user-1/abc.png")
	assert.Equal(t, []string{"user-1/abc.png"}, fs.deleted)

	deleteStoredImage(r, deps, "https://elsewhere.example.com/cat.png")
	assert.Equal(t, []string{"user-1/abc.png"}, fs.deleted)
}

func TestParseImageDataURLRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not a data url":        "http://example.com/cat.png",
		"missing payload":       "data:image/png;base64",
		"unsupported encoding":  "data:image/png;base32,NBSWY3DP",
		"unsupported mime type": "data:application/pdf;base64,aGk=",
		"invalid base64":        "data:image/png;base64,???",
		"empty payload":         "data:image/png;base64,",
	}

	for name, dataURL := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseImageDataURL(dataURL)
			assert.Error(t, err)
		})
	}
}
