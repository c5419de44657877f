package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutesapi/internal/config"
	"minutesapi/internal/logger"
)

func testSpeechConfig(endpoint string) config.SpeechConfig {
	return config.SpeechConfig{
		Endpoint:            endpoint,
		APIKey:              "test-key",
		LanguageCode:        "fil-PH",
		AltLanguageCodes:    []string{"en-US"},
		SampleRateHertz:     16000,
		SpeakerCount:        2,
		PollIntervalSec:     0,
		OperationTimeoutSec: 5,
	}
}

func TestClientRecognize(t *testing.T) {
	t.Run("submits job and polls until done", func(t *testing.T) {
		var polls int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/v1p1beta1/speech:longrunningrecognize":
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				cfg := req["config"].(map[string]any)
				assert.Equal(t, "MP3", cfg["encoding"])
				assert.Equal(t, float64(16000), cfg["sampleRateHertz"])
				assert.Equal(t, "fil-PH", cfg["languageCode"])
				assert.Equal(t, true, cfg["enableSpeakerDiarization"])
				assert.Equal(t, float64(2), cfg["diarizationSpeakerCount"])
				assert.Equal(t, "default", cfg["model"])
				audio := req["audio"].(map[string]any)
				assert.Equal(t, "s3://meetings/audio/1-file.mp3", audio["uri"])

				json.NewEncoder(w).Encode(map[string]any{"name": "op-123"})

			case r.Method == http.MethodGet && r.URL.Path == "/v1p1beta1/operations/op-123":
				if atomic.AddInt32(&polls, 1) < 2 {
					json.NewEncoder(w).Encode(map[string]any{"name": "op-123", "done": false})
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"name": "op-123",
					"done": true,
					"response": map[string]any{
						"results": []map[string]any{
							{"alternatives": []map[string]any{{"transcript": "partial"}}},
							{"alternatives": []map[string]any{{
								"transcript": "hello there",
								"words": []map[string]any{
									{"word": "hello", "speakerTag": 1},
									{"word": "there", "speakerTag": 2},
								},
							}}},
						},
					},
				})

			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		c := NewClient(testSpeechConfig(srv.URL), logger.New())

		words, err := c.Recognize(context.Background(), "s3://meetings/audio/1-file.mp3")
		require.NoError(t, err)
		assert.Equal(t, []Word{{"hello", 1}, {"there", 2}}, words)
		assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(2))
	})

	t.Run("operation error is a recognition failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				json.NewEncoder(w).Encode(map[string]any{"name": "op-err"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"name": "op-err",
				"done": true,
				"error": map[string]any{
					"code":    3,
					"message": "audio format not supported",
				},
			})
		}))
		defer srv.Close()

		c := NewClient(testSpeechConfig(srv.URL), logger.New())

		_, err := c.Recognize(context.Background(), "s3://meetings/audio/bad.mp3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recognition failed")
		assert.NotErrorIs(t, err, ErrNoSpeech)
	})

	t.Run("finished job with no words reports no speech", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				json.NewEncoder(w).Encode(map[string]any{"name": "op-empty"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"name":     "op-empty",
				"done":     true,
				"response": map[string]any{"results": []map[string]any{}},
			})
		}))
		defer srv.Close()

		c := NewClient(testSpeechConfig(srv.URL), logger.New())

		_, err := c.Recognize(context.Background(), "s3://meetings/audio/silence.mp3")
		assert.ErrorIs(t, err, ErrNoSpeech)
	})

	t.Run("submit rejection surfaces api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
		}))
		defer srv.Close()

		c := NewClient(testSpeechConfig(srv.URL), logger.New())

		_, err := c.Recognize(context.Background(), "s3://meetings/audio/1-file.mp3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "submit recognition job")
	})

	t.Run("context cancellation aborts the wait", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				json.NewEncoder(w).Encode(map[string]any{"name": "op-slow"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"name": "op-slow", "done": false})
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(testSpeechConfig(srv.URL), logger.New())

		_, err := c.Recognize(ctx, "s3://meetings/audio/1-file.mp3")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExtractWords(t *testing.T) {
	t.Run("nil response yields no words", func(t *testing.T) {
		assert.Nil(t, extractWords(&operationResponse{}))
	})

	t.Run("words come from the last result only", func(t *testing.T) {
		var op operationResponse
		require.NoError(t, json.Unmarshal([]byte(`{
			"done": true,
			"response": {"results": [
				{"alternatives": [{"words": [{"word":"stale","speakerTag":1}]}]},
				{"alternatives": [{"words": [{"word":"fresh","speakerTag":2}]}]}
			]}
		}`), &op))

		assert.Equal(t, []Word{{"fresh", 2}}, extractWords(&op))
	})
}
