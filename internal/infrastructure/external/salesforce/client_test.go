package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

func TestEscapeSOQL(t *testing.T) {
	assert.Equal(t, `o\'brien@example.com`, EscapeSOQL(`o'brien@example.com`))
	assert.Equal(t, `a\\b`, EscapeSOQL(`a\b`))
	assert.Equal(t, `x\' OR Name != \'`, EscapeSOQL(`x' OR Name != '`))
}

func TestContactAndTask(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/services/data/v59.0/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sf-token", r.Header.Get("Authorization"))
		assert.Equal(t, `SELECT Id FROM Contact WHERE Email = 'o\'neil@example.com' LIMIT 1`, r.URL.Query().Get("q"))
		w.Write([]byte(`{"totalSize":0,"done":true,"records":[]}`))
	})
	mux.HandleFunc("/services/data/v59.0/sobjects/Contact", func(w http.ResponseWriter, r *http.Request) {
		var c Contact
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		assert.Equal(t, "(no last name)", c.LastName)
		w.Write([]byte(`{"id":"003xx","success":true,"errors":[]}`))
	})
	mux.HandleFunc("/services/data/v59.0/sobjects/Task", func(w http.ResponseWriter, r *http.Request) {
		var task Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		assert.Equal(t, "Completed", task.Status)
		w.Write([]byte(`{"id":"00Txx","success":true,"errors":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(config.SalesforceConfig{APIVersion: "v59.0"}, httpclient.New("salesforce"))
	s := Session{InstanceURL: server.URL + "/", AccessToken: "sf-token"}
	ctx := context.Background()

	id, err := c.FindContactByEmail(ctx, s, "o'neil@example.com")
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = c.CreateContact(ctx, s, Contact{FirstName: "Neil", LastName: "(no last name)", Email: "o'neil@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "003xx", id)

	id, err = c.CreateTask(ctx, s, Task{Subject: "Meeting: Sync", Status: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, "00Txx", id)
}
