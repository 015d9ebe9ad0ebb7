package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// TwitterNotifier posts community events to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Announce posts one tweet per event
func (n *TwitterNotifier) Announce(events []*event.Event) error {
	for i, evt := range events {
		post := formatAnnouncement(evt)

		_, _, err := n.client.Statuses.Update(post, nil)
		if err != nil {
			return fmt.Errorf("failed to post announcement for event %s: %w", evt.ID, err)
		}

		// Rate limiting: wait between posts
		if i < len(events)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatAnnouncement formats a community event as a tweet
func formatAnnouncement(evt *event.Event) string {
	post := "🎉 Community event in Perdido!\n\n"
	post += fmt.Sprintf("📌 %s\n", evt.Title)

	if !evt.Start.IsZero() {
		post += fmt.Sprintf("📅 %s\n", evt.Start.Format("Mon Jan 2, 3:04pm"))
	}

	if evt.Location != "" {
		post += fmt.Sprintf("📍 %s\n", evt.Location)
	}

	if evt.URL != "" {
		post += fmt.Sprintf("\n🔗 %s\n", evt.URL)
	}

	post += "\n#PerdidoKey #CommunityEvents"

	// Twitter limit is 280 characters
	if len(post) > 280 {
		post = post[:277] + "..."
	}

	return post
}
