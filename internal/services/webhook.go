package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/monocle-dev/house/internal/config"
	"github.com/monocle-dev/house/internal/events"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Fields    []SlackField `json:"fields"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen = 65280 // #00FF00

	Username = "House Listings"
)

// ListingNotifier announces new listings on the configured Slack and Discord
// webhooks. Deliveries run in the background; failures are logged.
type ListingNotifier struct {
	slackURL   string
	discordURL string
	client     *http.Client
	wg         sync.WaitGroup
}

func NewListingNotifier(cfg config.NotifyConfig) *ListingNotifier {
	return &ListingNotifier{
		slackURL:   cfg.SlackWebhook,
		discordURL: cfg.DiscordWebhook,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether any webhook is configured.
func (n *ListingNotifier) Enabled() bool {
	return n.slackURL != "" || n.discordURL != ""
}

func (n *ListingNotifier) Publish(e events.Event) {
	if e.Type != events.PropertyCreated || !n.Enabled() {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := n.SendListingCreated(ctx, e); err != nil {
			log.Printf("Failed to announce listing %d: %v", e.PropertyID, err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (n *ListingNotifier) Wait() {
	n.wg.Wait()
}

func (n *ListingNotifier) SendListingCreated(ctx context.Context, e events.Event) error {
	price := "n/a"
	if e.Price != nil {
		price = e.Price.StringFixed(2)
	}
	now := time.Now()

	if n.discordURL != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{{
				Title:       "New listing",
				Description: fmt.Sprintf("**%s** is now on the market.", e.Title),
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Listing", Value: fmt.Sprintf("#%d", e.PropertyID), Inline: true},
					{Name: "Price", Value: price, Inline: true},
				},
				Timestamp: now.Format(time.RFC3339),
			}},
		}
		if err := n.post(ctx, n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		payload := SlackWebhookRequest{
			Username: Username,
			Text:     "*New listing*",
			Attachments: []SlackAttachment{{
				Color: "good",
				Title: e.Title,
				Fields: []SlackField{
					{Title: "Listing", Value: fmt.Sprintf("#%d", e.PropertyID), Short: true},
					{Title: "Price", Value: price, Short: true},
				},
				Timestamp: now.Unix(),
			}},
		}
		if err := n.post(ctx, n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func (n *ListingNotifier) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
