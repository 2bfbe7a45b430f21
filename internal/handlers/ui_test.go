package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	r := newTestServer(t, &stubGenerator{}, 1<<20)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `type="password"`)
	assert.Contains(t, body, `<option value="models/gemini-2.5-flash" selected>`)
	assert.Contains(t, body, `<option value="models/gemini-2.5-pro">`)
	assert.Contains(t, body, uploadPrompt)
}

func TestSubmitFormParsed(t *testing.T) {
	r := newTestServer(t, &stubGenerator{reply: suiteReply}, 1<<20)

	rec := serve(r, newUploadRequest(t, "/generate", upload{
		apiKey:   "k",
		model:    "models/gemini-2.5-pro",
		filename: "login.txt",
		content:  []byte("Kullanıcı <giriş> yapabilmeli."),
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "2 test cases generated")
	assert.Contains(t, body, "<th>expected_result</th>")
	assert.Contains(t, body, "<td>Geçerli giriş</td>")
	assert.Contains(t, body, "Kullanıcı &lt;giriş&gt; yapabilmeli.")
	assert.Contains(t, body, `<option value="models/gemini-2.5-pro" selected>`)
	assert.Regexp(t, `href="/runs/[0-9a-f-]{36}/download"`, body)
}

func TestSubmitFormRawFallback(t *testing.T) {
	r := newTestServer(t, &stubGenerator{reply: "**Sorry**, <script>alert(1)</script>"}, 1<<20)

	rec := serve(r, newUploadRequest(t, "/generate", upload{apiKey: "k", filename: "req.txt", content: []byte("x")}))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, rawFallbackMsg)
	assert.Contains(t, body, "<strong>Sorry</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.NotContains(t, body, "/download\"")
}

func TestSubmitFormMessages(t *testing.T) {
	t.Run("missing key comes first", func(t *testing.T) {
		r := newTestServer(t, &stubGenerator{}, 1<<20)
		rec := serve(r, newUploadRequest(t, "/generate", upload{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please provide your API key")
	})

	t.Run("missing file", func(t *testing.T) {
		r := newTestServer(t, &stubGenerator{}, 1<<20)
		rec := serve(r, newUploadRequest(t, "/generate", upload{apiKey: "k"}))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), uploadPrompt)
	})

	t.Run("model error inline", func(t *testing.T) {
		r := newTestServer(t, &stubGenerator{err: errors.New("quota exceeded")}, 1<<20)
		rec := serve(r, newUploadRequest(t, "/generate", upload{apiKey: "k", filename: "req.txt", content: []byte("x")}))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "An error occurred: quota exceeded")
		assert.Contains(t, rec.Body.String(), "<textarea readonly>x</textarea>")
	})
}

func TestRenderMarkdown(t *testing.T) {
	assert.Equal(t, "<p><em>hi</em></p>\n", string(renderMarkdown("*hi*")))
}
