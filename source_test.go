package videoquiz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.youtube.com/watch?v=ABC123&t=10", want: "ABC123"},
		{url: "https://youtube.com/watch?v=ABC123", want: "ABC123"},
		{url: "https://m.youtube.com/watch?v=ABC123", want: "ABC123"},
		{url: "www.youtube.com/watch?v=ABC123", want: "ABC123"},
		{url: "  https://www.youtube.com/watch?v=ABC123  ", want: "ABC123"},
		{url: "https://youtu.be/ABC123", want: "ABC123"},
		{url: "https://youtu.be/ABC123?t=42", want: "ABC123"},
		{url: "https://www.youtube.com/watch?list=PL1", wantErr: true},
		{url: "https://youtu.be/", wantErr: true},
		{url: "https://vimeo.com/12345", wantErr: true},
		{url: "https://example.com/watch?v=ABC123", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			got, err := ParseVideoID(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidReference) {
					t.Errorf("expected ErrInvalidReference, got id %q err %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseVideoID() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	if got := EmbedURL("ABC123"); got != "https://www.youtube.com/embed/ABC123" {
		t.Errorf("EmbedURL() = %q", got)
	}
}

func TestHTTPTranscriptProvider(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("video_id")
		if gotID == "missing" {
			http.Error(w, "no captions", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"text":"hello","start":0,"duration":1.5},{"text":"world","start":1.5,"duration":2}]`))
	}))
	defer srv.Close()

	provider := NewHTTPTranscriptProvider(srv.URL, time.Second)

	segments, err := provider.Transcript(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "ABC123" {
		t.Errorf("provider sent video_id %q", gotID)
	}
	if len(segments) != 2 || segments[1].Text != "world" || segments[1].Start != 1.5 {
		t.Errorf("unexpected segments: %+v", segments)
	}

	if _, err := provider.Transcript(context.Background(), "missing"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

// fakeProvider serves canned transcripts keyed by video id
type fakeProvider struct {
	segments map[string][]TranscriptSegment
	err      error
}

func (f *fakeProvider) Transcript(_ context.Context, videoID string) ([]TranscriptSegment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.segments[videoID], nil
}

func TestVideoSourceResolve(t *testing.T) {
	provider := &fakeProvider{segments: map[string][]TranscriptSegment{
		"ABC123": {{Text: "first line"}, {Text: "second line"}},
		"SILENT": {},
	}}
	source := NewVideoSource(provider, NopLogger())

	t.Run("joins segments", func(t *testing.T) {
		got, err := source.Resolve(context.Background(), "https://youtu.be/ABC123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text != "first line second line" || got.VideoID != "ABC123" || got.Mode != ModeVideo {
			t.Errorf("unexpected source: %+v", got)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		if _, err := source.Resolve(context.Background(), "https://vimeo.com/1"); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("expected ErrInvalidReference, got %v", err)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		if _, err := source.Resolve(context.Background(), "https://youtu.be/SILENT"); !errors.Is(err, ErrTranscriptUnavailable) {
			t.Errorf("expected ErrTranscriptUnavailable, got %v", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		failing := NewVideoSource(&fakeProvider{err: errors.New("captions disabled")}, NopLogger())
		_, err := failing.Resolve(context.Background(), "https://youtu.be/ABC123")
		if !errors.Is(err, ErrTranscriptUnavailable) {
			t.Errorf("expected ErrTranscriptUnavailable, got %v", err)
		}
	})
}

func TestTopicSourceResolve(t *testing.T) {
	got, err := TopicSource{}.Resolve(context.Background(), "  Photosynthesis ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Photosynthesis" || got.Mode != ModeTopic {
		t.Errorf("unexpected source: %+v", got)
	}

	if _, err := (TopicSource{}).Resolve(context.Background(), "   "); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for blank topic, got %v", err)
	}
}
