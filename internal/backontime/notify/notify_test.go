package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

var sample = Failure{
	Host:      "backup-host",
	Location:  "photos",
	Path:      "/srv/photos",
	Command:   "restic backup /srv/photos",
	Reason:    "changes",
	ExitCode:  3,
	Error:     "command exited with failure: exit status 3",
	Stderr:    "repository locked\n",
	StartedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
}

func TestWebhook_PostsJSON(t *testing.T) {
	var got Failure
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := sample
	f.Event = EventBackupFailed
	if err := NewWebhook(srv.URL).Notify(context.Background(), f); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	if !strings.HasPrefix(contentType, "application/json") {
		t.Errorf("Content-Type = %q", contentType)
	}
	if got.Event != EventBackupFailed || got.Location != "photos" || got.ExitCode != 3 {
		t.Errorf("payload = %+v", got)
	}
	if got.Stderr != "repository locked" {
		t.Errorf("Stderr = %q, want trimmed output", got.Stderr)
	}
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Notify(context.Background(), sample)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("Notify() error = %v, want 502", err)
	}
}

func TestWebhook_KeepsCookies(t *testing.T) {
	var (
		mu       sync.Mutex
		sessions []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		c, err := r.Cookie("session")
		if err != nil {
			sessions = append(sessions, "")
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		} else {
			sessions = append(sessions, c.Value)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	for i := 0; i < 2; i++ {
		if err := wh.Notify(context.Background(), sample); err != nil {
			t.Fatalf("Notify() #%d failed: %v", i+1, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sessions) != 2 || sessions[0] != "" || sessions[1] != "abc" {
		t.Errorf("sessions = %q, want the cookie sent back on the second call", sessions)
	}
}

type stubNotifier struct {
	name string
	err  error
	got  []Failure
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Notify(_ context.Context, f Failure) error {
	s.got = append(s.got, f)
	return s.err
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	bad := &stubNotifier{name: "bad", err: errors.ErrSpawnFailed}
	good := &stubNotifier{name: "good"}

	failed := Multi{bad, good}.Notify(context.Background(), Failure{Location: "x"})
	if failed != 1 {
		t.Errorf("Notify() = %d, want 1", failed)
	}
	if len(good.got) != 1 {
		t.Fatal("second notifier was not called")
	}
	if good.got[0].Event != EventBackupFailed || good.got[0].Host == "" {
		t.Errorf("defaults not filled in: %+v", good.got[0])
	}
}

func TestFromConfig(t *testing.T) {
	m, err := FromConfig(config.NotifyConfig{})
	if err != nil || len(m) != 0 {
		t.Fatalf("FromConfig(empty) = %v, %v", m, err)
	}

	m, err = FromConfig(config.NotifyConfig{
		WebhookURL: "http://127.0.0.1:1/hook",
		Email:      config.EmailConfig{Host: "smtp.local", Username: "ops@local", To: []string{"admin@local"}},
	})
	if err != nil {
		t.Fatalf("FromConfig() failed: %v", err)
	}
	var names []string
	for _, n := range m {
		names = append(names, n.Name())
	}
	if strings.Join(names, ",") != "webhook,email" {
		t.Errorf("notifiers = %v", names)
	}

	if _, err := FromConfig(config.NotifyConfig{DiscordWebhook: "not a webhook"}); err == nil {
		t.Error("FromConfig() accepted an invalid Discord webhook URL")
	}
}

func TestNewEmail_Validation(t *testing.T) {
	if _, err := NewEmail(config.EmailConfig{Host: "smtp.local", To: []string{"a@b"}}); !errors.Is(err, errors.ErrMissingRequired) {
		t.Errorf("missing sender: err = %v", err)
	}
	if _, err := NewEmail(config.EmailConfig{Host: "smtp.local", From: "a@b"}); !errors.Is(err, errors.ErrMissingRequired) {
		t.Errorf("missing recipients: err = %v", err)
	}

	e, err := NewEmail(config.EmailConfig{Host: "smtp.local", Username: "ops@local", To: []string{"a@b", "c@d"}})
	if err != nil {
		t.Fatalf("NewEmail() failed: %v", err)
	}
	if e.cfg.Port != 587 || e.cfg.From != "ops@local" {
		t.Errorf("defaults not applied: %+v", e.cfg)
	}

	m := e.message(sample)
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "[backontime] Backup of photos failed" {
		t.Errorf("Subject = %v", got)
	}
	if got := m.GetHeader("To"); len(got) != 2 {
		t.Errorf("To = %v", got)
	}
}

func TestEmail_CancelledContext(t *testing.T) {
	e, err := NewEmail(config.EmailConfig{Host: "smtp.local", From: "a@b", To: []string{"c@d"}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Notify(ctx, sample); err != context.Canceled {
		t.Errorf("Notify() = %v, want context.Canceled", err)
	}
}

func TestBuildEmbed(t *testing.T) {
	embed := buildEmbed(sample)
	if embed.Title != "❌ Backup of photos failed" {
		t.Errorf("Title = %q", embed.Title)
	}
	if !strings.Contains(embed.Description, "Exit code: 3") {
		t.Errorf("Description = %q", embed.Description)
	}
	if len(embed.Fields) != 1 || embed.Fields[0].Name != "stderr" {
		t.Errorf("Fields = %+v", embed.Fields)
	}
}

func TestTruncateKeepsTail(t *testing.T) {
	long := strings.Repeat("a", maxOutput) + "END"
	got := truncate(long)
	if len(got) != maxOutput || !strings.HasSuffix(got, "END") {
		t.Errorf("truncate() kept %d bytes, suffix %q", len(got), got[len(got)-3:])
	}
}

func TestTruncateKeepsWholeRunes(t *testing.T) {
	// Two-byte runes with an odd tail put the byte cut inside a rune.
	long := strings.Repeat("é", 600) + "x"
	got := truncate(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate() returned invalid UTF-8: %q", got[:4])
	}
	if len(got) != maxOutput-1 || !strings.HasSuffix(got, "éx") {
		t.Errorf("truncate() kept %d bytes, want %d", len(got), maxOutput-1)
	}
}
