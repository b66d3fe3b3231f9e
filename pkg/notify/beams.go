package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/umputun/anime-notifier/pkg/counter"
	"github.com/umputun/anime-notifier/pkg/domain"
)

const beamsURLFmt = "https://%s.pushnotifications.pusher.com/publish_api/v1/instances/%s/publishes/interests"

// BeamsParams defines parameters for Beams notifier
type BeamsParams struct {
	InstanceID string
	SecretKey  string
	Interests  []string        // defaults to anime.new
	Counter    counter.Counter // source of notification ids
	Client     *http.Client
	Endpoint   string // publish url, derived from InstanceID if empty
}

// Beams publishes mobile push notifications with Pusher Beams
type Beams struct {
	BeamsParams
	client *resty.Client
}

type beamsRequest struct {
	Interests []string `json:"interests"`
	FCM       beamsFCM `json:"fcm"`
}

type beamsFCM struct {
	Notification beamsNotification `json:"notification"`
	Data         beamsData         `json:"data"`
}

type beamsNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type beamsData struct {
	NotificationID int64 `json:"notificationId"`
}

// NewBeams makes Beams notifier
func NewBeams(params BeamsParams) *Beams {
	if len(params.Interests) == 0 {
		params.Interests = []string{"anime.new"}
	}
	if params.Client == nil {
		params.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if params.Endpoint == "" {
		params.Endpoint = fmt.Sprintf(beamsURLFmt, params.InstanceID, params.InstanceID)
	}
	if params.Counter == nil {
		params.Counter = counter.NewMemory(0)
	}
	client := resty.NewWithClient(params.Client).
		SetAuthToken(params.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Beams{BeamsParams: params, client: client}
}

// Name of the notifier
func (b *Beams) Name() string { return "beams" }

// Notify publishes push notification for the match. Every call takes a new notification id.
func (b *Beams) Notify(ctx context.Context, m domain.Match) error {
	id, err := b.Counter.Next(ctx)
	if err != nil {
		return fmt.Errorf("next notification id: %w", err)
	}

	payload := beamsRequest{Interests: b.Interests}
	payload.FCM.Notification = beamsNotification{Title: PushTitle(m), Body: PushBody(m)}
	payload.FCM.Data = beamsData{NotificationID: id}

	resp, err := b.client.R().SetContext(ctx).SetBody(payload).Post(b.Endpoint)
	if err != nil {
		return fmt.Errorf("send beams request: %w", err)
	}
	if !resp.IsSuccess() {
		msg := resp.Body()
		if len(msg) > 1024 {
			msg = msg[:1024]
		}
		return fmt.Errorf("beams responded with %d: %s", resp.StatusCode(), bytes.TrimSpace(msg))
	}
	return nil
}

// PushTitle makes push notification title, "<show> - <episode>"
func PushTitle(m domain.Match) string {
	return fmt.Sprintf("%s - %s", m.Entry.Title, m.Episode)
}

// PushBody makes push notification body
func PushBody(m domain.Match) string {
	return fmt.Sprintf("Episode #%s just got uploaded", m.Episode)
}
