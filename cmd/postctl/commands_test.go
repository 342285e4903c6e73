package main

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/gateway/gatewaytest"
	"github.com/debemdeboas/postdeck/internal/pagination"
)

func run(t *testing.T, upstream *gatewaytest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", upstream.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	upstream := gatewaytest.NewServer(t, gatewaytest.Seed(15))

	out, err := run(t, upstream, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "title 1")
	assert.Contains(t, out, "title 10")
	assert.NotContains(t, out, "title 11")
	assert.Contains(t, out, "page 1 of 2 (15 posts)")

	out, err = run(t, upstream, "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "title 15")
	assert.Contains(t, out, "page 2 of 2 (15 posts)")

	out, err = run(t, upstream, "ls", "-p", "40", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "page 3 of 3 (15 posts)")
}

func TestListInvalidPageSize(t *testing.T) {
	upstream := gatewaytest.NewServer(t, nil)
	_, err := run(t, upstream, "list", "--page-size", "0")
	assert.ErrorIs(t, err, pagination.ErrInvalidPageSize)
	assert.Equal(t, 0, upstream.Hits(http.MethodGet))
}

func TestCreate(t *testing.T) {
	upstream := gatewaytest.NewServer(t, gatewaytest.Seed(100))

	out, err := run(t, upstream, "create", "--title", "A", "--body", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "Created post 101")
	assert.Len(t, upstream.Posts(), 101)
}

func TestUpdate(t *testing.T) {
	upstream := gatewaytest.NewServer(t, gatewaytest.Seed(10))

	out, err := run(t, upstream, "update", "5", "--title", "X", "--body", "Y", "--user-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated post 5")
	assert.Equal(t, "X", upstream.Posts()[4].Title)
}

func TestUpdateUnknownID(t *testing.T) {
	upstream := gatewaytest.NewServer(t, gatewaytest.Seed(10))

	_, err := run(t, upstream, "update", "500", "--title", "X")
	require.Error(t, err)
	assert.True(t, gateway.IsTransportError(err))
}

func TestDelete(t *testing.T) {
	upstream := gatewaytest.NewServer(t, gatewaytest.Seed(3))

	out, err := run(t, upstream, "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted post 2")
	assert.Len(t, upstream.Posts(), 2)
}

func TestInvalidID(t *testing.T) {
	upstream := gatewaytest.NewServer(t, nil)

	_, err := run(t, upstream, "delete", "abc")
	assert.Error(t, err)
	assert.Equal(t, 0, upstream.Hits(http.MethodDelete))
}

func TestServerError(t *testing.T) {
	upstream := gatewaytest.NewServer(t, nil)
	upstream.Fail(http.MethodGet, http.StatusBadGateway)

	_, err := run(t, upstream, "list")
	require.Error(t, err)
	var te *gateway.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, te.Status)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	assert.Equal(t, "a b", truncate("a\nb"))
	long := truncate(string(bytes.Repeat([]byte("x"), 100)))
	assert.Equal(t, maxCell, len([]rune(long)))
}
