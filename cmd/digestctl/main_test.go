package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildSendRequest(t *testing.T) {
	req, err := buildSendRequest(" me@example.com ", nil, false)
	require.NoError(t, err)
	assert.True(t, req.IsTestMode)
	assert.Equal(t, "me@example.com", req.TestEmail)

	req, err = buildSendRequest("", []string{"a", " ", "b"}, false)
	require.NoError(t, err)
	assert.False(t, req.IsTestMode)
	assert.Equal(t, []string{"a", "b"}, req.SelectedSubscribers)

	req, err = buildSendRequest("", nil, true)
	require.NoError(t, err)
	assert.Empty(t, req.SelectedSubscribers)

	_, err = buildSendRequest("", nil, false)
	assert.Error(t, err)
	_, err = buildSendRequest("me@example.com", nil, true)
	assert.Error(t, err)
	_, err = buildSendRequest("", []string{"a"}, true)
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Sent"}, [][]string{{"run-1", "12"}, {"run-2"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "12")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestSendRejectsFlagsBeforeConnecting(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"send"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "--test-email"))
}

func TestRootHelp(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	for _, sub := range []string{"send", "recipients", "runs", "subscribe"} {
		assert.Contains(t, out.String(), sub)
	}
}

func TestLoggerLevelFollowsVerbose(t *testing.T) {
	quiet := false
	c := newCommandContext(nil, &quiet)
	assert.True(t, c.logger().Core().Enabled(zap.WarnLevel))
	assert.False(t, c.logger().Core().Enabled(zap.InfoLevel))

	loud := true
	c = newCommandContext(nil, &loud)
	assert.True(t, c.logger().Core().Enabled(zap.DebugLevel))
}
