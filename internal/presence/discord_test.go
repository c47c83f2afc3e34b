package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugolgst/rich-go/client"
	"github.com/nsrpc/nsrpc/internal/adapter"
	"github.com/nsrpc/nsrpc/internal/catalog"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/session"
	"github.com/nsrpc/nsrpc/internal/store"
)

type fakeRPC struct {
	loginErr    error
	activityErr error
	refuse      string // client ID whose login fails

	logins     []string
	logouts    int
	activities []client.Activity
}

func (f *fakeRPC) Login(clientID string) error {
	f.logins = append(f.logins, clientID)
	if f.refuse != "" && clientID == f.refuse {
		return errors.New("application not authorized")
	}
	return f.loginErr
}

func (f *fakeRPC) Logout() { f.logouts++ }

func (f *fakeRPC) SetActivity(a client.Activity) error {
	if f.activityErr != nil {
		return f.activityErr
	}
	f.activities = append(f.activities, a)
	return nil
}

func (f *fakeRPC) last() client.Activity {
	return f.activities[len(f.activities)-1]
}

func newTestSink(rpc *fakeRPC) *DiscordSink {
	cfg := adapter.DefaultConfig()
	return newDiscordSink(rpc, cfg.ClientID, adapter.NullLogger())
}

func TestConnect_LogsInAndShowsIdle(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)

	if err := sink.Connect(context.Background(), domain.ConsoleSwitch1); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if len(rpc.logins) != 1 || rpc.logins[0] != adapter.DefaultSwitch1ClientID {
		t.Errorf("logins = %v, want [%s]", rpc.logins, adapter.DefaultSwitch1ClientID)
	}
	idle := rpc.last()
	if idle.Details != "Home" || idle.State != "Idle" || idle.LargeImage != "home" {
		t.Errorf("idle activity = %+v", idle)
	}
	if sink.HasError(context.Background()) {
		t.Error("HasError() = true after successful connect")
	}
}

func TestConnect_LoginFailure(t *testing.T) {
	rpc := &fakeRPC{loginErr: errors.New("discord not running")}
	sink := newTestSink(rpc)

	err := sink.Connect(context.Background(), domain.ConsoleSwitch1)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("Connect() error = %v, want ErrUnavailable", err)
	}
	if !sink.HasError(context.Background()) {
		t.Error("HasError() = false after failed login")
	}
	if sink.Publish(context.Background(), domain.Presence{Title: "Home"}) {
		t.Error("Publish() succeeded while disconnected")
	}
}

func TestReconnect(t *testing.T) {
	rpc := &fakeRPC{loginErr: errors.New("down")}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch2)

	if sink.Reconnect(context.Background()) {
		t.Fatal("Reconnect() = true while Discord is down")
	}

	rpc.loginErr = nil
	if !sink.Reconnect(context.Background()) {
		t.Fatal("Reconnect() = false after Discord came back")
	}
	if got := rpc.logins[len(rpc.logins)-1]; got != adapter.DefaultSwitch2ClientID {
		t.Errorf("reconnected with %s, want the switch2 client ID", got)
	}
	if sink.HasError(context.Background()) {
		t.Error("HasError() = true after reconnect")
	}
}

func TestSwitchTarget_UsesOtherClientID(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	if !sink.SwitchTarget(context.Background(), domain.ConsoleSwitch2) {
		t.Fatal("SwitchTarget() = false")
	}
	if rpc.logouts != 1 {
		t.Errorf("logouts = %d, want 1", rpc.logouts)
	}
	if got := rpc.logins[len(rpc.logins)-1]; got != adapter.DefaultSwitch2ClientID {
		t.Errorf("logged in with %s, want switch2 client ID", got)
	}
}

func TestPublish_FormatsActivity(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	start := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return start }
	sink.Connect(context.Background(), domain.ConsoleSwitch2)

	ok := sink.Publish(context.Background(), domain.Presence{Title: "Mario Kart World", Status: "racing online", Artwork: "mkw"})
	if !ok {
		t.Fatal("Publish() = false")
	}

	a := rpc.last()
	if a.Details != "Mario Kart World" {
		t.Errorf("Details = %q", a.Details)
	}
	if a.State != "Racing Online" {
		t.Errorf("State = %q, want title-cased status", a.State)
	}
	if a.LargeImage != "mkw" {
		t.Errorf("LargeImage = %q, want mkw", a.LargeImage)
	}
	if a.LargeText != "Nintendo Switch 2" {
		t.Errorf("LargeText = %q", a.LargeText)
	}
	if a.Timestamps == nil || a.Timestamps.Start == nil || !a.Timestamps.Start.Equal(start) {
		t.Errorf("Timestamps = %+v, want start %v", a.Timestamps, start)
	}
}

func TestPublish_KeepsStartTimeForSameTitle(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return clock }
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	sink.Publish(context.Background(), domain.Presence{Title: "Zelda", Status: "Online", Artwork: "botw"})
	first := *rpc.last().Timestamps.Start

	clock = clock.Add(time.Hour)
	sink.Publish(context.Background(), domain.Presence{Title: "Zelda", Status: "Exploring", Artwork: "botw"})
	if got := *rpc.last().Timestamps.Start; !got.Equal(first) {
		t.Errorf("start time changed to %v on status edit, want %v", got, first)
	}

	sink.Publish(context.Background(), domain.Presence{Title: "Splatoon 3", Status: "Online", Artwork: "spl3"})
	if got := *rpc.last().Timestamps.Start; !got.Equal(clock) {
		t.Errorf("start time = %v for a new title, want %v", got, clock)
	}
}

func TestPublish_FailureSetsError(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	rpc.activityErr = errors.New("pipe closed")
	if sink.Publish(context.Background(), domain.Presence{Title: "Home", Status: "Online", Artwork: "home"}) {
		t.Fatal("Publish() = true on SetActivity failure")
	}
	if !sink.HasError(context.Background()) {
		t.Error("HasError() = false after a failed publish")
	}
}

func TestDisconnect(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	sink.Disconnect()
	sink.Disconnect()
	if rpc.logouts != 1 {
		t.Errorf("logouts = %d, want 1", rpc.logouts)
	}
}

func TestSwitchTarget_FailureKeepsPreviousTarget(t *testing.T) {
	rpc := &fakeRPC{refuse: adapter.DefaultSwitch2ClientID}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	if sink.SwitchTarget(context.Background(), domain.ConsoleSwitch2) {
		t.Fatal("SwitchTarget() = true for a refused login")
	}
	if !sink.Reconnect(context.Background()) {
		t.Fatal("Reconnect() = false")
	}
	if got := rpc.logins[len(rpc.logins)-1]; got != adapter.DefaultSwitch1ClientID {
		t.Errorf("reconnected with %s, want the switch1 client ID", got)
	}

	if !sink.Publish(context.Background(), domain.Presence{Title: "Splatoon 3", Status: "Online", Artwork: "spl3"}) {
		t.Fatal("Publish() = false")
	}
	if got := rpc.last().LargeText; got != "Nintendo Switch" {
		t.Errorf("LargeText = %q, want Nintendo Switch", got)
	}
}

func TestSwitchTarget_IdleFailureDisconnects(t *testing.T) {
	rpc := &fakeRPC{}
	sink := newTestSink(rpc)
	sink.Connect(context.Background(), domain.ConsoleSwitch1)

	rpc.activityErr = errors.New("pipe closed")
	if sink.SwitchTarget(context.Background(), domain.ConsoleSwitch2) {
		t.Fatal("SwitchTarget() = true when the idle activity failed")
	}
	if sink.Publish(context.Background(), domain.Presence{Title: "Home"}) {
		t.Error("Publish() succeeded on a half-switched connection")
	}

	rpc.activityErr = nil
	sink.Reconnect(context.Background())
	if got := rpc.logins[len(rpc.logins)-1]; got != adapter.DefaultSwitch1ClientID {
		t.Errorf("reconnected with %s, want the switch1 client ID", got)
	}
}

func TestSession_RejectedSwitchPublishesToActiveConsole(t *testing.T) {
	ctx := context.Background()
	rpc := &fakeRPC{refuse: adapter.DefaultSwitch2ClientID}
	sink := newTestSink(rpc)

	games := catalog.NewBuiltinProvider([]byte(`[{"title":"Home","img":"home"},{"title":"Splatoon 3","img":"spl3"}]`))
	st, err := store.Open("")
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(session.Deps{
		Catalogs: catalog.NewStaticSource(map[domain.ConsoleTarget]domain.CatalogProvider{
			domain.ConsoleSwitch1: games,
			domain.ConsoleSwitch2: catalog.NewBuiltinProvider(nil),
		}),
		Sink:  sink,
		Pins:  st,
		Cache: st,
	}, session.WithLogger(adapter.NullLogger()))

	if err := sess.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if err := sess.SwitchConsole(ctx, domain.ConsoleSwitch2); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("SwitchConsole() error = %v, want ErrUnavailable", err)
	}
	if err := sess.Reconnect(ctx); err != nil {
		t.Fatalf("Reconnect() error = %v", err)
	}
	if err := sess.SelectTitle("Splatoon 3"); err != nil {
		t.Fatalf("SelectTitle() error = %v", err)
	}
	if err := sess.Publish(ctx); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if got := sess.State().Target; got != domain.ConsoleSwitch1 {
		t.Errorf("session target = %s, want switch1", got)
	}
	if got := rpc.logins[len(rpc.logins)-1]; got != adapter.DefaultSwitch1ClientID {
		t.Errorf("last login = %s, want the switch1 client ID", got)
	}
	if got := rpc.last(); got.Details != "Splatoon 3" || got.LargeText != "Nintendo Switch" {
		t.Errorf("activity = %+v, want Splatoon 3 on Nintendo Switch", got)
	}
}
