package commission

import (
	"context"

	"firebase.google.com/go/messaging"
)

// FCMPusher sends operator notifications to a messaging topic.
type FCMPusher struct {
	Client *messaging.Client
	Topic  string
}

func (p *FCMPusher) Push(ctx context.Context, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: p.Topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}
	_, err := p.Client.Send(ctx, message)
	return err
}
