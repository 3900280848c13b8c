package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	defer func() {
		os.Stdout = orig
	}()
	fn()
	_ = w.Close()
	return <-outputCh
}

// runJSON runs the root command with --json and decodes the envelope.
func runJSON(t *testing.T, args ...string) (Response, error) {
	t.Helper()
	prevJSON, prevConfig, prevVerbose := jsonOutput, configPath, verbose
	t.Cleanup(func() {
		jsonOutput, configPath, verbose = prevJSON, prevConfig, prevVerbose
		rootCmd.SetArgs(nil)
	})

	var runErr error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(append([]string{"--json"}, args...))
		runErr = ExecuteContext(context.Background())
	})

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, runErr
}

// dataMap re-decodes the envelope data as a generic map.
func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}
