package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewUpload, "upload"},
		{ViewVerify, "verify"},
		{ViewHistory, "history"},
		{ViewWallet, "wallet"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestPassphraseRequested_Reply(t *testing.T) {
	reply := make(chan string, 1)
	msg := PassphraseRequested{Account: "0x1111111111111111111111111111111111111111", Reply: reply}

	msg.Reply <- "secret"

	assert.Equal(t, "secret", <-reply)
}
