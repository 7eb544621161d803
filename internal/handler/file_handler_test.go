package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/pkg/storage"
)

func newFileFixture(t *testing.T) (*FileHandler, *storage.SignedURLSigner) {
	t.Helper()
	uploads, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = uploads.Save("screenshots/proof.png", []byte("fake image bytes"))
	require.NoError(t, err)

	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	return NewFileHandler(uploads, signer, nil), signer
}

func performDownload(t *testing.T, handler *FileHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	target := "/files"
	if token != "" {
		target += "?token=" + token
	}
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	handler.Download(c)
	return rec
}

func TestFileDownloadWithValidToken(t *testing.T) {
	handler, signer := newFileFixture(t)
	token, _, err := signer.Generate("payment-1", "screenshots/proof.png")
	require.NoError(t, err)

	rec := performDownload(t, handler, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake image bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "proof.png")
}

func TestFileDownloadRejectsTamperedToken(t *testing.T) {
	handler, signer := newFileFixture(t)
	token, _, err := signer.Generate("payment-1", "screenshots/proof.png")
	require.NoError(t, err)

	rec := performDownload(t, handler, token+"x")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFileDownloadRequiresToken(t *testing.T) {
	handler, _ := newFileFixture(t)

	rec := performDownload(t, handler, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileDownloadMissingBlob(t *testing.T) {
	handler, signer := newFileFixture(t)
	token, _, err := signer.Generate("payment-1", "screenshots/gone.png")
	require.NoError(t, err)

	rec := performDownload(t, handler, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
