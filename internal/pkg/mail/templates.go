package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const verifyTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Confirm your subscription</h2>
  <p>Hi {{.Name}}, thanks for subscribing to {{.SiteName}}. Please confirm your email address:</p>
  <p style="margin-top:24px">
    <a href="{{.VerifyURL}}" style="background:#4f46e5;color:#fff;padding:8px 16px;text-decoration:none;border-radius:4px">Verify email</a>
  </p>
  <p style="color:#999;font-size:12px">This link expires on {{.ExpiresAt.Format "Jan 2, 2006 15:04 MST"}}. If you did not sign up, ignore this email.</p>
</div>
</body>
</html>`

const digestTpl = `<!DOCTYPE html>
<html>
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /></head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
<table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:550px;margin:40px auto;padding:20px;border:1px solid rgb(14,165,233);border-radius:.25rem">
  <tbody><tr><td>
    <h1 style="font-size:20px;text-align:center">{{.SiteName}} weekly digest</h1>
    <p style="font-size:14px;line-height:24px">Hi {{.Name}}, here are the quotes published between {{.Start.Format "Jan 2"}} and {{.End.Format "Jan 2, 2006"}}.</p>
    {{range .Items}}
    <table width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem;margin:12px 0">
      <tbody><tr><td>
        <div style="font-size:14px;line-height:24px;color:rgb(51,51,51)">{{.HTML}}</div>
        <p style="font-size:12px;color:rgb(107,114,128)">&mdash; {{.Author}}{{if .Category}} · {{.Category}}{{end}}</p>
      </td></tr></tbody>
    </table>
    {{end}}
    <hr style="width:100%;border:none;border-top:1px solid #eaeaea" />
    <p style="font-size:10px;line-height:24px;text-align:center;color:rgb(156,163,175)">This email was sent automatically, please do not reply.<br />©{{year}} {{.SiteName}}</p>
  </td></tr></tbody>
</table>
</body>
</html>`

// VerifyData is the data for subscription verification emails.
type VerifyData struct {
	Name      string
	SiteName  string
	VerifyURL string
	ExpiresAt time.Time
}

// DigestItem is one pre-rendered quote in a digest email.
type DigestItem struct {
	HTML     template.HTML
	Author   string
	Category string
}

// DigestData is the data for digest emails.
type DigestData struct {
	Name     string
	SiteName string
	Start    time.Time
	End      time.Time
	Items    []DigestItem
}

var (
	verifyTemplate = mustParse("verify", verifyTpl)
	digestTemplate = mustParse("digest", digestTpl)
)

func mustParse(name, tpl string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}).Parse(tpl))
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// VerifyMessage builds the verification email for a new or pending subscriber.
func VerifyMessage(to string, data VerifyData) (Message, error) {
	html, err := render(verifyTemplate, data)
	if err != nil {
		return Message{}, fmt.Errorf("render verify email: %w", err)
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Please verify your email", data.SiteName),
		HTML:    html,
		Text:    fmt.Sprintf("Verify your subscription: %s", data.VerifyURL),
	}, nil
}

// DigestMessage builds the digest email for one recipient.
func DigestMessage(to string, data DigestData) (Message, error) {
	if data.Name == "" {
		data.Name = "there"
	}
	html, err := render(digestTemplate, data)
	if err != nil {
		return Message{}, fmt.Errorf("render digest email: %w", err)
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your weekly quote digest", data.SiteName),
		HTML:    html,
	}, nil
}
