package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSender_BuildsRFC822Message(t *testing.T) {
	var gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewSender(Config{Host: "smtp.local", Port: 25, From: "noreply@x.com"}, zap.NewNop())
	s.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := s.Send(context.Background(), []string{"gh@x.com", "vp@x.com"}, "Requisición REQ-1", "cuerpo")
	require.NoError(t, err)

	assert.Equal(t, "noreply@x.com", gotFrom)
	assert.Equal(t, []string{"gh@x.com", "vp@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Requisición REQ-1")
	assert.Contains(t, string(gotMsg), "To: gh@x.com, vp@x.com")
	assert.Contains(t, string(gotMsg), "\r\n\r\ncuerpo")
}

func TestSender_EmptyRecipientsIsNoOp(t *testing.T) {
	called := false
	s := NewSender(Config{Host: "smtp.local", Port: 25}, zap.NewNop())
	s.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	require.NoError(t, s.Send(context.Background(), nil, "s", "b"))
	assert.False(t, called)
}

func TestSender_WrapsRelayError(t *testing.T) {
	s := NewSender(Config{Host: "smtp.local", Port: 25}, zap.NewNop())
	s.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err := s.Send(context.Background(), []string{"gh@x.com"}, "s", "b")
	assert.Error(t, err)
}

func TestSender_HonorsContextCancellation(t *testing.T) {
	s := NewSender(Config{Host: "smtp.local", Port: 25}, zap.NewNop())
	s.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		time.Sleep(5 * time.Second)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, []string{"gh@x.com"}, "s", "b")
	assert.ErrorIs(t, err, context.Canceled)
}
