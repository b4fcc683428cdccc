package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/vialsort/internal/logging"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMCP_UnknownTransport(t *testing.T) {
	err := RunMCP(context.Background(), MCPOptions{Transport: "carrier-pigeon"}, io.Discard)
	assert.ErrorContains(t, err, "unknown transport")
}

func TestRunMCP_Stdio(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	defer inW.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- RunMCP(ctx, MCPOptions{
			Transport: TransportStdio,
			Input:     inR,
			Output:    outW,
		}, io.Discard)
	}()

	_, err := fmt.Fprintln(inW, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	require.NoError(t, err)

	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"id":1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio server did not stop after cancel")
	}
}

func TestNewMCPServer_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	srv, closeFn := NewMCPServer(StoreOptions{RedisAddr: mr.Addr()}, logging.NewNop())
	defer closeFn()

	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "vialsort-test", Version: "1.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = "new_game"
	req.Params.Arguments = map[string]any{"description": `{"vial_size": 1, "vials": [[0], []]}`}
	res, err := c.CallTool(ctx, req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	games, err := mr.ZMembers("vialsort:game:index")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.True(t, mr.Exists("vialsort:game:"+games[0]))
}
