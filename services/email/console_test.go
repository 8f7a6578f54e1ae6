package emailsvc

import (
	"bytes"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/testutil"
)

func TestConsoleService(t *testing.T) {
	logger := new(testutil.Logger)
	svc := NewConsoleServiceMock(testutil.Config(), logger)
	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "John Smith", Address: "john.smith@school.edu"}},
			Subject: "plain",
			BodyStr: "hello",
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "no content"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "unknown template", TemplateName: "nope"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "plain", sent[0].Subject)
	assert.Equal(t, "hello", sent[0].TextContent)
	assert.Len(t, logger.Entries("error"), 1)
}

func TestConsoleService_output(t *testing.T) {
	buf := new(bytes.Buffer)
	svc := NewConsoleService(buf, testutil.Config(), new(testutil.Logger))
	svc.sync = true
	svc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: "John Smith", Address: "john.smith@school.edu"}},
		Subject: "Marked absent",
		BodyStr: "see you tomorrow",
	})

	out := buf.String()
	assert.Contains(t, out, "From: \"Mahudhurio\" <noreply@localhost>\r\n")
	assert.Contains(t, out, "Subject: [Mahudhurio] Marked absent\r\n")
	assert.Contains(t, out, "To: \"John Smith\" <john.smith@school.edu>\r\n")
	assert.Contains(t, out, "see you tomorrow")
	assert.NotContains(t, out, "text/html")
}
