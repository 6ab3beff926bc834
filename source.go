package videoquiz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

// SourceResolver turns user input (a video URL or a topic) into the text a
// quiz is generated from.
type SourceResolver interface {
	Resolve(ctx context.Context, input string) (*Source, error)
}

// ParseVideoID extracts the video identifier from a YouTube URL. Canonical
// URLs carry it in the v query parameter, short links in the first path
// segment.
func ParseVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty video url", ErrInvalidReference)
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtube.com":
		id = u.Query().Get("v")
	case "youtu.be":
		id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	default:
		return "", fmt.Errorf("%w: %q is not a youtube url", ErrInvalidReference, u.Host)
	}

	if id == "" {
		return "", fmt.Errorf("%w: no video id in %q", ErrInvalidReference, rawURL)
	}
	return id, nil
}

// EmbedURL returns the player URL used to show the video next to its quiz
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(videoID)
}

// TranscriptSegment is one caption line returned by the transcript provider
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptProvider fetches caption segments for a video
type TranscriptProvider interface {
	Transcript(ctx context.Context, videoID string) ([]TranscriptSegment, error)
}

// HTTPTranscriptProvider calls an external transcript service that answers
// GET <BaseURL>?video_id=<id> with a JSON array of segments.
type HTTPTranscriptProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPTranscriptProvider creates a provider with the given request timeout
func NewHTTPTranscriptProvider(baseURL string, timeout time.Duration) *HTTPTranscriptProvider {
	return &HTTPTranscriptProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Transcript fetches the transcript for videoID
func (p *HTTPTranscriptProvider) Transcript(ctx context.Context, videoID string) ([]TranscriptSegment, error) {
	endpoint, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcript api url: %w", err)
	}
	q := endpoint.Query()
	q.Set("video_id", videoID)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcript request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transcript api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var segments []TranscriptSegment
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return segments, nil
}

// VideoSource resolves a video URL into its transcript
type VideoSource struct {
	provider TranscriptProvider
	log      *Logger
}

// NewVideoSource creates a video source backed by provider
func NewVideoSource(provider TranscriptProvider, log *Logger) *VideoSource {
	return &VideoSource{provider: provider, log: log.With("component", "VideoSource")}
}

// Resolve parses the video URL and returns the joined transcript. Every
// provider failure is reported as ErrTranscriptUnavailable.
func (vs *VideoSource) Resolve(ctx context.Context, videoURL string) (*Source, error) {
	videoID, err := ParseVideoID(videoURL)
	if err != nil {
		return nil, err
	}
	vs.log.Debug("Fetching transcript", "video_id", videoID)

	segments, err := vs.provider.Transcript(ctx, videoID)
	if err != nil {
		vs.log.Warn("Transcript provider failed", "video_id", videoID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}

	text := JoinTranscript(segments)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty transcript for %s", ErrTranscriptUnavailable, videoID)
	}

	vs.log.Debug("Transcript received", "video_id", videoID, "segments", len(segments), "chars", len(text))
	return &Source{Mode: ModeVideo, Text: text, VideoID: videoID}, nil
}

// JoinTranscript concatenates segment texts in order, separated by one space
func JoinTranscript(segments []TranscriptSegment) string {
	return strings.Join(lo.Map(segments, func(s TranscriptSegment, _ int) string {
		return s.Text
	}), " ")
}

// TopicSource uses free text as the generation context
type TopicSource struct{}

// Resolve returns the topic unchanged; only an empty topic is rejected
func (TopicSource) Resolve(_ context.Context, topic string) (*Source, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", ErrInvalidReference)
	}
	return &Source{Mode: ModeTopic, Text: topic}, nil
}
