package gemini

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/auth/oauth2adapt"
	"github.com/calendarplan/calendarplan/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client calls the Gemini generateContent endpoint.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient talks to the Gemini API with the configured API key. Without a key
// it goes through Vertex AI in the configured project, authenticated with
// Google application-default credentials.
func NewClient(ctx context.Context, cfg config.Assistant) (*Client, error) {
	cc := &genai.ClientConfig{}
	if cfg.ApiKey != "" {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.ApiKey
	} else {
		if cfg.Project == "" {
			err := fmt.Errorf("no API key configured and no project set for Vertex AI")
			log.Error(err)
			return nil, err
		}
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			err := fmt.Errorf("no API key configured and no default credentials found: %w", err)
			log.Error(err)
			return nil, err
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Credentials = oauth2adapt.AuthCredentialsFromOauth2Credentials(creds)
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions.BaseURL = cfg.Endpoint
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		err := fmt.Errorf("unable to create generative language client: %w", err)
		log.Error(err)
		return nil, err
	}
	return &Client{client: client, model: cfg.Model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", c.model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	log.Debugf("Model %s returned %d characters", c.model, sb.Len())
	return sb.String(), nil
}
