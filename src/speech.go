package bookforge

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
)

// Recognizer is an optional speech-to-text capability used to dictate the
// book premise. Absence of the capability is a normal condition callers must
// branch on, never an exceptional one.
type Recognizer interface {
	// Start begins a capture session. Recognized phrases arrive on Results
	// until the session ends or ctx is cancelled.
	Start(ctx context.Context) error
	// Results yields recognized text fragments.
	Results() <-chan string
	// Err returns the terminal error of the session, nil on clean end.
	Err() error
	// Stop ends the capture session.
	Stop()
}

// DetectRecognizer feature-detects a speech backend. With no backend
// configured it returns ErrSpeechUnavailable; callers fall back to typed
// input.
func DetectRecognizer() (Recognizer, error) {
	endpoint := os.Getenv("BOOKFORGE_STT_URL")
	if endpoint == "" {
		return nil, ErrSpeechUnavailable
	}
	return newHTTPRecognizer(endpoint), nil
}

// httpRecognizer proxies to an external transcription endpoint. The endpoint
// receives no audio from this process; it is expected to stream recognized
// phrases as text lines (a thin bridge for kiosk-style deployments).
type httpRecognizer struct {
	endpoint string
	results  chan string
	cancel   context.CancelFunc
	err      error
}

func newHTTPRecognizer(endpoint string) *httpRecognizer {
	return &httpRecognizer{
		endpoint: endpoint,
		results:  make(chan string),
	}
}

func (r *httpRecognizer) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)
	go r.stream(ctx)
	return nil
}

func (r *httpRecognizer) Results() <-chan string { return r.results }

func (r *httpRecognizer) Err() error { return r.err }

func (r *httpRecognizer) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *httpRecognizer) stream(ctx context.Context) {
	defer close(r.results)
	lines, err := streamLines(ctx, r.endpoint)
	if err != nil {
		r.err = err
		return
	}
	for line := range lines {
		select {
		case r.results <- line:
		case <-ctx.Done():
			return
		}
	}
}

// streamLines connects to the endpoint and forwards each text line it sends.
func streamLines(ctx context.Context, endpoint string) (<-chan string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating transcription request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to transcription endpoint: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("transcription endpoint status %d", resp.StatusCode)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				select {
				case out <- line:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
