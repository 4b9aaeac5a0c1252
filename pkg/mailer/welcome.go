package mailer

import (
	"context"
	"fmt"
)

const welcomeSubject = "Welcome to Tautan"

const welcomeText = `Hi %s,

Your account is ready. Jump back in, find people you know, and share your first post.

The Tautan Team`

const welcomeHTML = `<div style="font-family:Arial,sans-serif;max-width:520px;margin:0 auto">
  <h2>Welcome to Tautan, %s!</h2>
  <p>Your account is ready. Jump back in, find people you know, and share your first post.</p>
  <p style="color:#888">The Tautan Team</p>
</div>`

// SendWelcome sends the post-registration welcome email.
func (m *Mailgun) SendWelcome(ctx context.Context, to, username string) error {
	if username == "" {
		username = "there"
	}
	return m.Send(ctx, to, welcomeSubject,
		fmt.Sprintf(welcomeText, username),
		fmt.Sprintf(welcomeHTML, username))
}
