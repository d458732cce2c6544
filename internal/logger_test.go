package internal

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeveledLogrusFields(t *testing.T) {
	l := NewLeveledLogrus(logrus.New())

	fields := l.fields("method", "GET", "url", "http://example", 42, "ignored", "dangling")

	assert.Equal(t, logrus.Fields{"method": "GET", "url": "http://example"}, fields)
}

func TestLeveledLogrusRedactsKeys(t *testing.T) {
	l := NewLeveledLogrus(logrus.New())
	u, err := url.Parse("http://example/luis/v2.0/apps/1?q=hello&subscription-key=secret")
	require.NoError(t, err)

	fields := l.fields("url", u)

	logged, ok := fields["url"].(string)
	require.True(t, ok)
	assert.NotContains(t, logged, "secret")
	assert.Contains(t, logged, "subscription-key=REDACTED")
	assert.Contains(t, logged, "q=hello")
}

func TestRedactURL(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"no query", "http://example/apps", "http://example/apps"},
		{"no secret", "http://example/apps?skip=0&take=100", "http://example/apps?skip=0&take=100"},
		{"secret", "http://example/apps/1?subscription-key=abc", "http://example/apps/1?subscription-key=REDACTED"},
		{"unparseable", "http://[::1", "http://[::1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RedactURL(tc.in))
		})
	}
}

func TestLeveledLogrusWritesFields(t *testing.T) {
	base := logrus.New()
	buf := &bytes.Buffer{}
	base.Out = buf
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	base.SetLevel(logrus.InfoLevel)

	l := NewLeveledLogrus(base)
	l.Warn("retrying request", "attempt", 2)
	l.Debug("performing request", "method", "POST")

	out := buf.String()
	assert.Contains(t, out, "retrying request")
	assert.Contains(t, out, "attempt=2")
	assert.NotContains(t, out, "performing request")
}

func TestNewFormatter(t *testing.T) {
	_, isJSON := newFormatter("JSON").(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	_, isText := newFormatter("").(*logrus.TextFormatter)
	assert.True(t, isText)
}
