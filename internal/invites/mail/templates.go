package mail

import (
	"bytes"
	"html/template"
	texttemplate "text/template"
)

type inviteEmailData struct {
	Message    string
	AcceptLink string
}

var inviteHTMLTemplate = template.Must(template.New("invite_html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <p>{{.Message}}</p>
  <p>
    <a href="{{.AcceptLink}}" style="display: inline-block; padding: 10px 20px; background: #14532d; color: #ffffff; text-decoration: none; border-radius: 4px;">
      Review your invitation
    </a>
  </p>
  <p style="color: #6b7280; font-size: 12px;">
    This invitation link is personal and expires seven days after it was issued.
    If you were not expecting it, you can safely ignore this email.
  </p>
</body>
</html>
`))

var inviteTextTemplate = texttemplate.Must(texttemplate.New("invite_text").Parse(`{{.Message}}

Review your invitation: {{.AcceptLink}}

This invitation link is personal and expires seven days after it was issued.
If you were not expecting it, you can safely ignore this email.
`))

func renderInviteEmail(data inviteEmailData) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := inviteHTMLTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if err := inviteTextTemplate.Execute(&textBuf, data); err != nil {
		return "", "", err
	}

	return htmlBuf.String(), textBuf.String(), nil
}
