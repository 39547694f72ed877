package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, contentType string, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	return c
}

func TestParseBannerUploadMissingFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "no banner here"))
	require.NoError(t, mw.Close())

	c := testContext(t, mw.FormDataContentType(), buf.String())

	upload, err := parseBannerUpload(c)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestParseBannerUploadNonMultipartForm(t *testing.T) {
	c := testContext(t, "application/x-www-form-urlencoded", "title=plain+form")

	upload, err := parseBannerUpload(c)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestParseBannerUploadMalformedMultipart(t *testing.T) {
	c := testContext(t, "multipart/form-data; boundary=xyz", "this is not a multipart body")

	upload, err := parseBannerUpload(c)
	require.Error(t, err, "a broken multipart body must not pass as an absent file")
	assert.Nil(t, upload)
}

func TestParseBannerUploadReadsAttachedFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("banner", "banner.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("imagedata"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	c := testContext(t, mw.FormDataContentType(), buf.String())

	upload, err := parseBannerUpload(c)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, "banner.png", upload.Filename)
	assert.Equal(t, []byte("imagedata"), upload.Data)
}
