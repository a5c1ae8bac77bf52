package live

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/index"
	"github.com/pfassina/lore/internal/palette"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func testBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	root := t.TempDir()
	writeDoc(t, root, "index.md", "---\ntitle: Home\ntags: [intro]\n---\n# Welcome\n\nStart with [setup](guides/setup.md#install).\n")
	writeDoc(t, root, "guides/setup.md", "# Setup\n\n## Install\n\nRun the bootstrapper.\n")

	db, err := index.OpenMemory()
	require.NoError(t, err)
	b := NewBackend(docs.New(root, nil), db, 20, log.New(io.Discard))
	t.Cleanup(func() { _ = b.Close() })

	n, err := b.Index()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return b, root
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func next(t *testing.T, ch <-chan *Update) *Update {
	t.Helper()
	select {
	case upd := <-ch:
		return upd
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return nil
	}
}

func flashKind(upd *Update) string {
	for _, ev := range upd.Events {
		if ev.Name == "flash" {
			kind, _ := ev.Payload["kind"].(string)
			return kind
		}
	}
	return ""
}

func TestSessionStartListsEverything(t *testing.T) {
	b, _ := testBackend(t)
	sess := b.NewSession()

	upd, err := sess.Start()
	require.NoError(t, err)
	assert.Equal(t, sess.ID, upd.SessionID)
	require.NotNil(t, upd.Results)
	assert.Len(t, *upd.Results, 2)
	require.NotEmpty(t, upd.Tree)
	assert.True(t, upd.Tree[0].IsDir, "directories list first")
}

func TestSessionSearch(t *testing.T) {
	b, _ := testBackend(t)
	sess := b.NewSession()

	upd, err := sess.HandleEvent("search", raw(t, palette.SearchPayload{Search: palette.SearchInput{Input: "bootstrap"}}))
	require.NoError(t, err)
	require.NotNil(t, upd.Query)
	assert.Equal(t, "bootstrap", *upd.Query)
	require.NotNil(t, upd.Results)
	require.NotEmpty(t, *upd.Results)
	assert.Equal(t, "guides/setup.md", (*upd.Results)[0].Path)

	upd, err = sess.HandleEvent("search", raw(t, palette.SearchPayload{Search: palette.SearchInput{Input: "install"}}))
	require.NoError(t, err)
	var anchors []string
	for _, r := range *upd.Results {
		anchors = append(anchors, r.Anchor)
	}
	assert.Contains(t, anchors, "install", "heading hits carry their anchor")

	upd, err = sess.HandleEvent("search", raw(t, palette.SearchPayload{Search: palette.SearchInput{Input: "zzzz"}}))
	require.NoError(t, err)
	require.NotNil(t, upd.Results, "empty results are still sent")
	assert.Empty(t, *upd.Results)
}

func TestSessionNavigate(t *testing.T) {
	b, _ := testBackend(t)
	sess := b.NewSession()

	upd, err := sess.HandleEvent("navigate", raw(t, palette.NavigatePayload{Path: "/guides/setup.md#install"}))
	require.NoError(t, err)
	assert.Equal(t, "guides/setup.md#install", upd.Route)
	assert.Equal(t, "guides/setup.md#install", sess.Route())
	require.NotNil(t, upd.Document)
	assert.Equal(t, "Setup", upd.Document.Title)
	require.Len(t, upd.Document.Backlinks, 1)
	assert.Equal(t, "index.md", upd.Document.Backlinks[0].Path)

	upd, err = sess.HandleEvent("navigate", raw(t, palette.NavigatePayload{Path: "/missing.md"}))
	require.NoError(t, err)
	assert.Equal(t, "error", flashKind(upd))
	assert.Equal(t, "guides/setup.md#install", sess.Route(), "failed navigation keeps the route")
}

func TestSessionOtherEvents(t *testing.T) {
	b, _ := testBackend(t)
	sess := b.NewSession()

	_, err := sess.HandleEvent("set-color-mode", raw(t, map[string]string{"selected_mode": "system", "mode": "light"}))
	require.NoError(t, err)
	assert.Equal(t, "light", sess.ColorMode())

	upd, err := sess.HandleEvent("toggle-sidebar", raw(t, map[string]bool{"open": true}))
	require.NoError(t, err)
	require.Len(t, upd.Events, 1)
	assert.Equal(t, "open-sidebar", upd.Events[0].Name)

	_, err = sess.HandleEvent("explode", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = sess.HandleEvent("search", json.RawMessage(`{"search":`))
	assert.Error(t, err)
}

func TestSessionRefreshAfterRemoval(t *testing.T) {
	b, root := testBackend(t)
	sess := b.NewSession()
	_, err := sess.HandleEvent("navigate", raw(t, palette.NavigatePayload{Path: "/guides/setup.md"}))
	require.NoError(t, err)

	upd, err := sess.Refresh()
	require.NoError(t, err)
	require.NotNil(t, upd.Document)

	require.NoError(t, os.Remove(filepath.Join(root, "guides", "setup.md")))
	_, err = b.Index()
	require.NoError(t, err)

	upd, err = sess.Refresh()
	require.NoError(t, err)
	assert.Nil(t, upd.Document)
	assert.Equal(t, "warn", flashKind(upd))
	require.NotNil(t, upd.Results)
	assert.Len(t, *upd.Results, 1)
}

func TestHubBroadcastAndUnsubscribe(t *testing.T) {
	h := NewHub()
	var a, b int
	unA := h.Subscribe("a", func() { a++ })
	h.Subscribe("b", func() { b++ })
	assert.Equal(t, 2, h.Len())

	h.Broadcast()
	unA()
	h.Broadcast()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, h.Len())
}

func TestLocalChannel(t *testing.T) {
	b, _ := testBackend(t)
	updates := make(chan *Update, 16)
	ch := NewLocalChannel(b, func(u *Update) { updates <- u }, log.New(io.Discard))

	first := next(t, updates)
	assert.Equal(t, ch.Session().ID, first.SessionID)

	require.NoError(t, ch.PushEventTo("search-container", palette.EventSearch, palette.SearchPayload{Search: palette.SearchInput{Input: "welcome"}}))
	upd := next(t, updates)
	require.NotNil(t, upd.Query)
	assert.Equal(t, "welcome", *upd.Query)

	require.NoError(t, ch.PushEventTo("search-container", "explode", nil))
	assert.Equal(t, "error", flashKind(next(t, updates)))

	_, err := b.Index()
	require.NoError(t, err)
	upd = next(t, updates)
	assert.NotEmpty(t, upd.Tree, "library changes refresh the session")

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	assert.ErrorIs(t, ch.PushEventTo("search-container", palette.EventSearch, nil), ErrClosed)
	assert.Equal(t, 0, b.Hub().Len())
}

func TestServerRoundTrip(t *testing.T) {
	b, _ := testBackend(t)
	srv := httptest.NewServer(NewServer(b, log.New(io.Discard)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	updates := make(chan *Update, 16)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	client, err := Dial(context.Background(), url, func(u *Update) { updates <- u }, nil, log.New(io.Discard))
	require.NoError(t, err)

	first := next(t, updates)
	assert.NotEmpty(t, first.SessionID)
	require.NotNil(t, first.Results)
	assert.Len(t, *first.Results, 2)

	require.NoError(t, client.PushEventTo("search-container", palette.EventNavigate, palette.NavigatePayload{Path: "/index.md"}))
	upd := next(t, updates)
	assert.Equal(t, "index.md", upd.Route)
	require.NotNil(t, upd.Document)
	assert.Equal(t, []string{"intro"}, upd.Document.Tags)

	require.NoError(t, client.PushEventTo("search-container", "explode", nil))
	assert.Equal(t, "error", flashKind(next(t, updates)))

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.PushEventTo("search-container", palette.EventSearch, nil), ErrClosed)
}
