package mail

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBuildsHTMLMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s := New(Config{Host: "smtp.local", User: "bot@leadforge.io", Pass: "x"})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.Send(Message{To: []string{"sales@leadforge.io"}, Subject: "New lead", HTML: "<p>hi</p>", ReplyTo: "jane@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local:587", gotAddr)
	assert.Equal(t, "bot@leadforge.io", gotFrom)
	assert.Equal(t, []string{"sales@leadforge.io"}, gotTo)

	raw := string(gotMsg)
	assert.Contains(t, raw, "Subject: New lead\r\n")
	assert.Contains(t, raw, "Reply-To: jane@acme.com\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>"))
}

func TestSendRequiresRecipientsAndWrapsErrors(t *testing.T) {
	s := New(Config{Host: "smtp.local", Port: 25})
	assert.Error(t, s.Send(Message{Subject: "x"}))

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }
	err := s.Send(Message{To: []string{"a@b.c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "421 busy")
}
