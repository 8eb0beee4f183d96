package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/challengeme/client/internal/models"
)

// ListParticipations fetches every participation link for a user.
func (c *Client) ListParticipations(ctx context.Context, userID string) ([]models.Participation, error) {
	var out []models.Participation
	if err := c.get(ctx, "/challenge-users/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	return out, nil
}

// ListParticipationsByStatus fetches a user's participations filtered by status.
func (c *Client) ListParticipationsByStatus(ctx context.Context, userID string, status models.Status) ([]models.Participation, error) {
	var out []models.Participation
	path := "/challenge-users/user/" + url.PathEscape(userID) + "/status/" + url.PathEscape(string(status))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("list %s participations: %w", status, err)
	}
	return out, nil
}

// AcceptChallenge signs the contract for a challenge, creating (or promoting)
// the caller's participation into ACCEPTED.
func (c *Client) AcceptChallenge(ctx context.Context, challengeID string, req models.AcceptRequest) (models.Participation, error) {
	var out models.Participation
	path := "/challenge-users/" + url.PathEscape(challengeID) + "/accept"
	if err := c.post(ctx, path, req, &out); err != nil {
		return models.Participation{}, fmt.Errorf("accept challenge %s: %w", challengeID, err)
	}
	return out, nil
}

// UpdateParticipationStatus drives the COMPLETED and restart transitions.
func (c *Client) UpdateParticipationStatus(ctx context.Context, participationID string, status models.Status) (models.Participation, error) {
	var out models.Participation
	path := "/challenges/" + url.PathEscape(participationID) + "/status"
	if err := c.put(ctx, path, models.StatusUpdateRequest{Status: status}, &out); err != nil {
		return models.Participation{}, fmt.Errorf("set participation %s to %s: %w", participationID, status, err)
	}
	return out, nil
}

// DeleteParticipation removes a participation link (decline or abandon).
func (c *Client) DeleteParticipation(ctx context.Context, participationID string) error {
	if err := c.delete(ctx, "/challenge-users/"+url.PathEscape(participationID)); err != nil {
		return fmt.Errorf("delete participation %s: %w", participationID, err)
	}
	return nil
}

// AssignChallenge invites another user to a challenge. The created link
// belongs to the target user and starts PENDING.
func (c *Client) AssignChallenge(ctx context.Context, req models.AssignRequest) (models.Participation, error) {
	var out models.Participation
	if err := c.post(ctx, "/challenge-users/assign", req, &out); err != nil {
		return models.Participation{}, fmt.Errorf("assign challenge %s to user %s: %w", req.ChallengeID, req.UserID, err)
	}
	return out, nil
}
