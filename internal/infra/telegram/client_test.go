package telegram

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type recordingSender struct {
	to    []string
	texts []string
	err   error
}

func (s *recordingSender) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.to = append(s.to, to.Recipient())
	s.texts = append(s.texts, what.(string))
	return &telebot.Message{}, nil
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
	assert.Equal(t, []string{"line1\n", "line2\n", "end"}, splitMessage("line1\nline2\nend", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, splitMessage("abcdefghij", 4))
	assert.Equal(t, []string{"денден\n", "ден"}, splitMessage("денден\nден", 8))
}

func TestTelebotAdapter_SendMessage(t *testing.T) {
	s := &recordingSender{}
	a := &TelebotAdapter{bot: s}

	long := strings.Repeat("Matched: 1\n", 500)
	require.NoError(t, a.SendMessage(99, long))

	require.Len(t, s.texts, 2)
	assert.Equal(t, long, strings.Join(s.texts, ""))
	assert.Equal(t, []string{"99", "99"}, s.to)

	s.err = errors.New("Forbidden: bot was blocked by the user")
	assert.Error(t, a.SendMessage(99, "hi"))
}
