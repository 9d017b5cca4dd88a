package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// PickupAssignedMessage builds the push sent to a driver's devices when a
// pickup is dispatched to them.
func PickupAssignedMessage(tokens []string, n PickupAssigned) *messaging.MulticastMessage {
	body := fmt.Sprintf("Collect the bin at %s, %s.", n.LocationName, n.City)
	if n.Critical {
		body = fmt.Sprintf("Critical fill (%d%%) at %s, %s.", n.FillLevel, n.LocationName, n.City)
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: "New Pickup Assigned",
			Body:  body,
		},
		Data: map[string]string{
			"type":       "pickup_assigned",
			"pickup_id":  n.PickupID,
			"bin_id":     n.BinID,
			"fill_level": strconv.Itoa(n.FillLevel),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}

// SendPickupAssigned pushes a dispatch notification to every token.
func (s *FCMService) SendPickupAssigned(ctx context.Context, tokens []string, n PickupAssigned) error {
	if len(tokens) == 0 {
		return nil
	}

	response, err := s.client.SendEachForMulticast(ctx, PickupAssignedMessage(tokens, n))
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}
