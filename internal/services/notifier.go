package services

import (
	"context"
	"fmt"
	"log"

	json "github.com/goccy/go-json"

	"wms-backend/internal/store"
)

// PickupAssigned describes a dispatch for the driver who received it.
type PickupAssigned struct {
	PickupID     string `json:"pickup_id"`
	BinID        string `json:"bin_id"`
	DriverID     string `json:"driver_id"`
	LocationName string `json:"location_name"`
	City         string `json:"city"`
	FillLevel    int    `json:"fill_level"`
	Critical     bool   `json:"critical"`
}

// Pusher delivers push notifications to device tokens.
type Pusher interface {
	SendPickupAssigned(ctx context.Context, tokens []string, n PickupAssigned) error
}

// UserBroadcaster delivers a socket frame to every connection of one user.
type UserBroadcaster interface {
	BroadcastToUser(userID string, message []byte)
	IsUserConnected(userID string) bool
}

// DispatchNotifier tells a driver about a new pickup: a socket frame to any
// open page and a push to registered devices. Either channel may be absent.
type DispatchNotifier struct {
	tokens store.DeviceTokenStore
	push   Pusher
	hub    UserBroadcaster
}

func NewDispatchNotifier(tokens store.DeviceTokenStore, push Pusher, hub UserBroadcaster) *DispatchNotifier {
	return &DispatchNotifier{tokens: tokens, push: push, hub: hub}
}

func (n *DispatchNotifier) PickupAssigned(ctx context.Context, a PickupAssigned) error {
	switch {
	case n.hub == nil:
	case !n.hub.IsUserConnected(a.DriverID):
		log.Printf("📴 Driver %s has no open page, relying on push", a.DriverID)
	default:
		frame, err := json.Marshal(map[string]interface{}{
			"type": "pickup_assigned",
			"data": a,
		})
		if err == nil {
			n.hub.BroadcastToUser(a.DriverID, frame)
		}
	}

	if n.push == nil {
		return nil
	}

	devices, err := n.tokens.ListDeviceTokens(ctx, a.DriverID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(devices) == 0 {
		log.Printf("⚠️  Driver %s has no registered devices, skipping push", a.DriverID)
		return nil
	}

	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}
	return n.push.SendPickupAssigned(ctx, tokens, a)
}
