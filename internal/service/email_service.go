package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lehuyba/InterviewAce/config"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/rs/zerolog/log"
)

// EmailService sends the interview invitation containing a time-boxed join
// link. Delivery goes through a hosted provider's HTTP API; failure is logged
// and reported but never blocks the interview workflow.
type EmailService interface {
	SendInvitation(ctx context.Context, interview *model.Interview) error
}

type emailService struct {
	endpoint      string
	apiKey        string
	from          string
	clientBaseURL string
	client        *http.Client
}

func NewEmailService(cfg *config.Config) EmailService {
	if cfg.Email.Endpoint == "" {
		log.Warn().Msg("EMAIL_ENDPOINT is not set. Invitation emails will fail until it is configured.")
	}
	return &emailService{
		endpoint:      cfg.Email.Endpoint,
		apiKey:        cfg.Email.APIKey,
		from:          cfg.Email.From,
		clientBaseURL: cfg.ClientBaseURL,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *emailService) SendInvitation(ctx context.Context, interview *model.Interview) error {
	if s.endpoint == "" {
		return fmt.Errorf("email service is not configured")
	}
	if interview.Candidate.Email == "" {
		return fmt.Errorf("interview %d has no candidate email loaded", interview.ID)
	}

	start := interview.ScheduledAt
	end := start.Add(time.Duration(interview.DurationMinutes) * time.Minute)
	joinLink := fmt.Sprintf("%s/interviews/%d", s.clientBaseURL, interview.ID)

	payload := sendEmailRequest{
		From:    s.from,
		To:      interview.Candidate.Email,
		Subject: "Your interview invitation",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your interview is scheduled for <b>%s</b> and can be joined until <b>%s</b>.</p><p><a href=%q>Join your interview</a></p><p>The join link only works inside the scheduled window.</p>",
			interview.Candidate.Name,
			start.Format(time.RFC1123),
			end.Format(time.RFC1123),
			joinLink,
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode invitation email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", interview.ID).Msg("Invitation email request failed")
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Email provider returned non-OK status")
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	log.Info().Uint("interviewID", interview.ID).Str("to", interview.Candidate.Email).Msg("Invitation email sent")
	return nil
}
