package mail

import (
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// sendMailjet sends via the Mailjet v3.1 send API. The SDK takes no context;
// the sender's http client bounds each call.
func (s *Sender) sendMailjet(msg Message) error {
	to := make(mailjet.RecipientsV31, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, mailjet.RecipientV31{Email: addr})
	}
	info := mailjet.InfoMessagesV31{
		From:     &mailjet.RecipientV31{Email: s.from()},
		To:       &to,
		Subject:  msg.Subject,
		TextPart: msg.Text,
		HTMLPart: msg.HTML,
	}
	if s.cfg.ReplyTo != "" {
		info.ReplyTo = &mailjet.RecipientV31{Email: s.cfg.ReplyTo}
	}

	var clt *mailjet.Client
	if s.cfg.MailjetBaseURL != "" {
		clt = mailjet.NewMailjetClient(s.cfg.MailjetPublicKey, s.cfg.MailjetPrivateKey, s.cfg.MailjetBaseURL)
	} else {
		clt = mailjet.NewMailjetClient(s.cfg.MailjetPublicKey, s.cfg.MailjetPrivateKey)
	}
	clt.SetClient(s.client)
	if _, err := clt.SendMailV31(&mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}}); err != nil {
		return &DeliveryError{
			Provider: ProviderMailjet,
			Category: classifyMessage(err.Error()),
			Message:  fmt.Sprintf("could not send mail: %v", err),
		}
	}
	return nil
}
