// Package chat keeps the discord bot session used for status and webhook identity.
package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/go-pkgz/lgr"
)

// ReadyStatus is the game status set once the bot is connected
const ReadyStatus = "waiting for anime to release"

type statusUpdater interface {
	UpdateGameStatus(idle int, name string) error
}

// Client wraps discordgo session
type Client struct {
	session *discordgo.Session

	mu   sync.RWMutex
	user *discordgo.User
}

// New makes bot client, the session is not opened
func New(token string) (*Client, error) {
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("make discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	res := &Client{session: session}
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		res.ready(s, r.User)
	})
	return res, nil
}

// Open connects to the gateway
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (c *Client) Close() error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	lgr.Printf("[INFO] discord session closed")
	return nil
}

// Session returns underlying discordgo session, used to execute webhooks
func (c *Client) Session() *discordgo.Session {
	return c.session
}

// Identity returns bot username and avatar, ok is false until the session is ready
func (c *Client) Identity() (username, avatarURL string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return "", "", false
	}
	return c.user.Username, c.user.AvatarURL("512"), true
}

func (c *Client) ready(s statusUpdater, user *discordgo.User) {
	if user == nil {
		return
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	lgr.Printf("[INFO] logged in to discord as %s (%s)", user.Username, user.ID)
	if err := s.UpdateGameStatus(0, ReadyStatus); err != nil {
		lgr.Printf("[WARN] can't update discord status: %v", err)
	}
}
