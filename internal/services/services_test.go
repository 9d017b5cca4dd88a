package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"wms-backend/internal/models"
	"wms-backend/internal/store/memstore"
)

type fakePusher struct {
	tokens []string
	last   PickupAssigned
	calls  int
}

func (f *fakePusher) SendPickupAssigned(ctx context.Context, tokens []string, n PickupAssigned) error {
	f.calls++
	f.tokens = tokens
	f.last = n
	return nil
}

type fakeHub struct {
	online map[string]bool
	userID string
	frame  []byte
}

func (f *fakeHub) IsUserConnected(userID string) bool {
	return f.online[userID]
}

func (f *fakeHub) BroadcastToUser(userID string, message []byte) {
	f.userID = userID
	f.frame = message
}

func TestDispatchNotifierPushesToDriverDevices(t *testing.T) {
	ctx := context.Background()
	st := memstore.New(nil)
	if err := st.CreateProfile(ctx, &models.Profile{ID: "d1", Email: "d@example.com", Name: "D", Role: models.RoleDriver}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, tok := range []string{"tok-a", "tok-b"} {
		if err := st.SaveDeviceToken(ctx, &models.DeviceToken{ProfileID: "d1", Token: tok, DeviceType: "android"}); err != nil {
			t.Fatalf("save token: %v", err)
		}
	}

	push := &fakePusher{}
	hub := &fakeHub{online: map[string]bool{"d1": true}}
	n := NewDispatchNotifier(st, push, hub)

	a := PickupAssigned{PickupID: "p1", BinID: "b1", DriverID: "d1", LocationName: "Makola", City: "Accra", FillLevel: 90, Critical: true}
	if err := n.PickupAssigned(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if push.calls != 1 || len(push.tokens) != 2 {
		t.Fatalf("expected one push to 2 tokens, got %d calls / %v", push.calls, push.tokens)
	}
	if hub.userID != "d1" {
		t.Fatalf("expected socket frame for d1, got %q", hub.userID)
	}

	var frame struct {
		Type string         `json:"type"`
		Data PickupAssigned `json:"data"`
	}
	if err := json.Unmarshal(hub.frame, &frame); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if frame.Type != "pickup_assigned" || frame.Data.PickupID != "p1" {
		t.Fatalf("unexpected frame %+v", frame)
	}
}

func TestDispatchNotifierSkipsFrameForOfflineDriver(t *testing.T) {
	hub := &fakeHub{online: map[string]bool{}}
	n := NewDispatchNotifier(memstore.New(nil), nil, hub)

	if err := n.PickupAssigned(context.Background(), PickupAssigned{DriverID: "d1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hub.frame != nil {
		t.Fatalf("expected no frame for an offline driver, got %s", hub.frame)
	}
}

func TestDispatchNotifierSkipsPushWithoutDevices(t *testing.T) {
	push := &fakePusher{}
	n := NewDispatchNotifier(memstore.New(nil), push, nil)

	if err := n.PickupAssigned(context.Background(), PickupAssigned{DriverID: "nobody"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if push.calls != 0 {
		t.Fatalf("expected no push, got %d", push.calls)
	}
}

func TestPickupAssignedMessage(t *testing.T) {
	msg := PickupAssignedMessage([]string{"t"}, PickupAssigned{PickupID: "p1", LocationName: "Osu", City: "Accra", FillLevel: 85, Critical: true})
	if !strings.Contains(msg.Notification.Body, "Critical fill (85%)") {
		t.Fatalf("unexpected body %q", msg.Notification.Body)
	}
	if msg.Data["pickup_id"] != "p1" || msg.Data["fill_level"] != "85" {
		t.Fatalf("unexpected data %v", msg.Data)
	}

	msg = PickupAssignedMessage([]string{"t"}, PickupAssigned{LocationName: "Osu", City: "Accra", FillLevel: 20})
	if msg.Notification.Body != "Collect the bin at Osu, Accra." {
		t.Fatalf("unexpected body %q", msg.Notification.Body)
	}
}

func TestSendStaffInvite(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"m-1"}`))
	}))
	defer srv.Close()

	m := NewMailer("server-token", "ops@wms.local", "https://wms.example/")
	m.client.BaseURL = srv.URL

	p := &models.Profile{Name: "Kofi <Driver>", Email: "kofi@example.com", Role: models.RoleDriver}
	if err := m.SendStaffInvite(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["To"] != "kofi@example.com" || got["From"] != "ops@wms.local" {
		t.Fatalf("unexpected envelope %v", got)
	}
	htmlBody, _ := got["HtmlBody"].(string)
	if !strings.Contains(htmlBody, "Kofi &lt;Driver&gt;") || !strings.Contains(htmlBody, "https://wms.example/") {
		t.Fatalf("unexpected html body %q", htmlBody)
	}
}
