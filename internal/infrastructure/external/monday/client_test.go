package monday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/graphql"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
)

func TestFindColumn(t *testing.T) {
	columns := []Column{
		{ID: "name", Title: "Name", Type: "name"},
		{ID: "status", Title: "Status", Type: ColumnTypeStatus},
		{ID: "text1", Title: "Owner", Type: ColumnTypeText},
		{ID: "notes", Title: "Meeting Notes", Type: ColumnTypeLongText},
	}

	desc := FindColumn(columns, []string{ColumnTypeText, ColumnTypeLongText}, []string{"description", "notes", "details"})
	require.NotNil(t, desc)
	assert.Equal(t, "notes", desc.ID)

	status := FindColumn(columns, []string{ColumnTypeStatus, ColumnTypeColor}, []string{"status", "state"})
	require.NotNil(t, status)
	assert.Equal(t, "status", status.ID)

	assert.Nil(t, FindColumn(columns, []string{ColumnTypeText}, []string{"details"}))
}

func TestItemLifecycle(t *testing.T) {
	var changed map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "monday-token", r.Header.Get("Authorization"))
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch {
		case strings.Contains(body.Query, "create_item"):
			assert.Equal(t, `Fix "quotes" in titles`, body.Variables["itemName"])
			w.Write([]byte(`{"data":{"create_item":{"id":"9001"}}}`))
		case strings.Contains(body.Query, "boards"):
			w.Write([]byte(`{"data":{"boards":[{"columns":[{"id":"long","title":"Details","type":"long_text"}]}]}}`))
		case strings.Contains(body.Query, "change_multiple_column_values"):
			raw, ok := body.Variables["values"].(string)
			require.True(t, ok)
			require.NoError(t, json.Unmarshal([]byte(raw), &changed))
			w.Write([]byte(`{"data":{"change_multiple_column_values":{"id":"9001"}}}`))
		}
	}))
	defer server.Close()

	c := NewClient(graphql.New(server.URL, httpclient.New("monday"), graphql.WithRawAuthorization()))
	ctx := context.Background()

	id, err := c.CreateItem(ctx, "monday-token", "board-1", "topics", `Fix "quotes" in titles`)
	require.NoError(t, err)
	assert.Equal(t, "9001", id)

	cols, err := c.BoardColumns(ctx, "monday-token", "board-1")
	require.NoError(t, err)
	require.Len(t, cols, 1)

	err = c.ChangeColumnValues(ctx, "monday-token", "board-1", id, map[string]any{
		"long": ColumnValue(ColumnTypeLongText, "see notes"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"long": map[string]any{"text": "see notes"}}, changed)
}
