// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/pkg/types"
)

func newClient(t *testing.T) *convert.Client {
	t.Helper()
	ts := httptest.NewServer(New(zerolog.Nop()))
	t.Cleanup(ts.Close)
	return convert.NewClient(types.ServiceConfig{BaseURL: ts.URL}, ts.Client())
}

func file(name, content string) types.SelectedFile {
	return types.SelectedFile{Name: name, Content: []byte(content), Size: int64(len(content))}
}

func TestConvert_TextIsReturnedVerbatim(t *testing.T) {
	c := newClient(t)
	md, err := c.Convert(context.Background(), file("notes.md", "# Title\n\nBody <em>x</em>\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody <em>x</em>\n", md)
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	c := newClient(t)
	_, err := c.Convert(context.Background(), file("x.docx", "PK"))

	var se *convert.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, UnsupportedFormat, se.Message)
}

func TestConvert_CSV(t *testing.T) {
	c := newClient(t)
	md, err := c.Convert(context.Background(), file("data.csv", "name,score\nada,10\nbob\n"))
	require.NoError(t, err)
	assert.Equal(t, "| name | score |\n| --- | --- |\n| ada | 10 |\n| bob |  |\n", md)
}

func TestConvert_MissingFilePart(t *testing.T) {
	ts := httptest.NewServer(New(zerolog.Nop()))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/convert", "application/x-www-form-urlencoded", strings.NewReader("a=b"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "no file provided", body["error"])
	_, hasMarkdown := body["markdown"]
	assert.False(t, hasMarkdown)
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(New(zerolog.Nop()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCSVTable(t *testing.T) {
	got, err := csvTable([]byte("a|b,c\n"))
	require.NoError(t, err)
	assert.Equal(t, "| a\\|b | c |\n| --- | --- |\n", got)

	got, err = csvTable(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = csvTable([]byte("\"unterminated\n"))
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(zerolog.Nop())
	done := make(chan error)
	go func() { done <- Run(ctx, e, "127.0.0.1:0") }()
	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
