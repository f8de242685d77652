package horizon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DokaIzk/StellarRoute/internal/sdex"
)

// StreamItem is one element of an offer SSE stream: either a decoded
// offer or a per-message error that does not terminate the stream.
type StreamItem struct {
	Offer *sdex.WireOffer
	Err   error
}

// StreamOffers opens a single SSE connection to /offers and returns a
// channel of StreamItem. The channel closes when the connection ends or
// ctx is cancelled. Per spec.md §4.1, a malformed individual frame is
// reported as a StreamItem with Err set, without ending the stream;
// transport failures end the stream (the channel closes) and the caller
// sees that as stream termination, exactly as spec.md §4.3 expects for
// the supervising entrypoint to restart.
func (c *Client) StreamOffers(ctx context.Context) <-chan StreamItem {
	out := make(chan StreamItem)

	go func() {
		defer close(out)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/offers", nil)
		if err != nil {
			out <- StreamItem{Err: &TransportError{Err: err}}
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.http.Do(req)
		if err != nil {
			out <- StreamItem{Err: &TransportError{Err: err}}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			out <- StreamItem{Err: &HTTPStatusError{Code: resp.StatusCode}}
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(splitSSEEvent)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			data := extractDataField(scanner.Bytes())
			if len(data) == 0 {
				continue
			}
			if string(data) == `"hello"` {
				continue
			}

			var wire sdex.WireOffer
			if err := json.Unmarshal(data, &wire); err != nil {
				select {
				case out <- StreamItem{Err: &DecodeError{Err: err}}:
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case out <- StreamItem{Offer: &wire}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// splitSSEEvent is a bufio.SplitFunc that splits an SSE byte stream on
// blank-line event boundaries ("\n\n"), the framing text/event-stream
// uses between events.
func splitSSEEvent(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// extractDataField pulls the concatenated payload out of an SSE event's
// "data: " lines.
func extractDataField(event []byte) []byte {
	var buf bytes.Buffer
	for _, line := range strings.Split(string(event), "\n") {
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			buf.WriteString(strings.TrimPrefix(rest, " "))
		}
	}
	return buf.Bytes()
}
