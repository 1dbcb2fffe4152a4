package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

func TestRichTextsSplitsLongContent(t *testing.T) {
	long := strings.Repeat("é", MaxRichTextLength*2+5)
	parts := RichTexts(long)

	require.Len(t, parts, 3)
	assert.Len(t, []rune(parts[0].Text.Content), MaxRichTextLength)
	assert.Len(t, []rune(parts[1].Text.Content), MaxRichTextLength)
	assert.Len(t, []rune(parts[2].Text.Content), 5)

	assert.Len(t, RichTexts("short"), 1)
	assert.Equal(t, "", RichTexts("")[0].Text.Content)
}

func TestCreatePageAppendsOverflowBlocks(t *testing.T) {
	var created createPageRequest
	var appended [][]Block

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Write([]byte(`{"id":"page-1","url":"https://notion.so/page-1"}`))
	})
	mux.HandleFunc("/v1/blocks/page-1/children", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var req appendChildrenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		appended = append(appended, req.Children)
		w.Write([]byte(`{}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(config.NotionConfig{BaseURL: server.URL, Version: "2022-06-28"}, httpclient.New("notion"))

	blocks := make([]Block, 0, 230)
	for i := 0; i < 230; i++ {
		blocks = append(blocks, Paragraph(fmt.Sprintf("line %d", i)))
	}

	page, err := c.CreatePage(context.Background(), "tok", "parent-1", "Weekly Sync", blocks)
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)

	assert.Equal(t, "parent-1", created.Parent["page_id"])
	assert.Len(t, created.Children, 100)
	require.Len(t, appended, 2)
	assert.Len(t, appended[0], 100)
	assert.Len(t, appended[1], 30)
	assert.Equal(t, "line 229", appended[1][29].Text())
}

func TestVerifyTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users/me", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"object":"error","code":"unauthorized"}`))
	}))
	defer server.Close()

	c := NewClient(config.NotionConfig{BaseURL: server.URL, Version: "2022-06-28"}, httpclient.New("notion"))
	err := c.VerifyToken(context.Background(), "bad")

	require.Error(t, err)
	assert.True(t, httpclient.IsUnauthorized(err))
}
