package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aegiscyber/portal-services/internal/comms"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommsRouter() (*gin.Engine, *comms.Service) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	svc := comms.NewService(comms.NewMemoryRepository())
	NewCommsHandler(svc).Register(g.Group("/api"))
	return g, svc
}

func TestSendAndListMessages(t *testing.T) {
	g, _ := newCommsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/clients/client-1/messages", `{"to":"operator-1","body":"Hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var m comms.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.False(t, m.Read)
	assert.Equal(t, comms.MessageTypeInApp, m.Type)

	w = doJSON(t, g, http.MethodGet, "/api/clients/client-1/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []comms.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Hello", list[0].Body)

	// body is required
	w = doJSON(t, g, http.MethodPost, "/api/clients/client-1/messages", `{"to":"operator-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	g, _ := newCommsRouter()

	var ids []string
	for _, body := range []string{"one", "two", "three"} {
		w := doJSON(t, g, http.MethodPost, "/api/clients/client-1/messages", `{"to":"op","body":"`+body+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		var m comms.Message
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
		ids = append(ids, m.ID)
	}

	w := doJSON(t, g, http.MethodPost, "/api/messages/"+ids[0]+"/read", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/clients/client-1/messages/unread-count", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp["count"])

	w = doJSON(t, g, http.MethodPost, "/api/messages/missing/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	g, _ := newCommsRouter()

	w := doJSON(t, g, http.MethodPost, "/api/clients/client-1/notifications/email",
		`{"subject":"Report ready","body":"Your Q3 report is available."}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var n comms.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &n))
	assert.Equal(t, comms.KindEmail, n.Kind)
	assert.Equal(t, comms.StatusPending, n.Status)

	w = doJSON(t, g, http.MethodPost, "/api/clients/client-1/notifications/sms", `{"body":"Critical finding"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, g, http.MethodPost, "/api/clients/client-1/notifications/system",
		`{"title":"Welcome","body":"Your account is live."}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var sys comms.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sys))

	// only the system notification appears in the in-app feed
	w = doJSON(t, g, http.MethodGet, "/api/clients/client-1/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	var feed []comms.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Welcome", feed[0].Subject)

	w = doJSON(t, g, http.MethodPost, "/api/notifications/"+sys.ID+"/read", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/clients/client-1/notifications", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.True(t, feed[0].Read)
	assert.NotNil(t, feed[0].ReadAt)
}

// readSSEEvent scans the stream until one complete SSE data payload arrives.
func readSSEEvent(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	t.Fatal("stream ended before an SSE data line arrived")
	return ""
}

func TestStreamMessagesDeliversSnapshots(t *testing.T) {
	g, svc := newCommsRouter()
	srv := httptest.NewServer(g)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/clients/client-1/messages/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	// initial snapshot: empty set
	var snap []comms.Message
	require.NoError(t, json.Unmarshal([]byte(readSSEEvent(t, scanner)), &snap))
	assert.Empty(t, snap)

	m, err := svc.SendMessage(context.Background(), "client-1", "operator-1", "Hello")
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal([]byte(readSSEEvent(t, scanner)), &snap))
	require.Len(t, snap, 1)
	assert.Equal(t, "Hello", snap[0].Body)
	assert.False(t, snap[0].Read)

	require.NoError(t, svc.MarkMessageRead(context.Background(), m.ID))

	require.NoError(t, json.Unmarshal([]byte(readSSEEvent(t, scanner)), &snap))
	require.Len(t, snap, 1)
	assert.True(t, snap[0].Read)
	assert.NotNil(t, snap[0].ReadAt)
}
