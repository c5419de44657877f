package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"minutesapi/internal/config"
	"minutesapi/internal/logger"
)

// Client calls a Speech-to-Text v1p1beta1 compatible REST API. It submits an
// asynchronous recognition job with speaker diarization enabled and polls the
// returned operation until it is done.
type Client struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
	log        *logger.Logger
}

var _ Recognizer = (*Client)(nil)

// NewClient builds a recognition client from configuration.
func NewClient(cfg config.SpeechConfig, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		log: log,
	}
}

type recognitionConfig struct {
	Encoding                 string   `json:"encoding"`
	SampleRateHertz          int      `json:"sampleRateHertz"`
	LanguageCode             string   `json:"languageCode"`
	AlternativeLanguageCodes []string `json:"alternativeLanguageCodes,omitempty"`
	EnableSpeakerDiarization bool     `json:"enableSpeakerDiarization"`
	DiarizationSpeakerCount  int      `json:"diarizationSpeakerCount"`
	Model                    string   `json:"model"`
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  struct {
		URI string `json:"uri"`
	} `json:"audio"`
}

type wordInfo struct {
	Word       string `json:"word"`
	SpeakerTag int    `json:"speakerTag"`
}

type operationResponse struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		Results []struct {
			Alternatives []struct {
				Transcript string     `json:"transcript"`
				Words      []wordInfo `json:"words"`
			} `json:"alternatives"`
		} `json:"results"`
	} `json:"response,omitempty"`
}

// errPending signals the poll loop that the operation has not finished yet.
var errPending = fmt.Errorf("recognition operation still running")

// Recognize submits the stored audio for recognition and waits for the
// operation to finish. The overall wait is bounded by the configured
// operation timeout; ctx cancellation aborts the wait and the abandoned
// operation name is logged so it can be accounted for.
func (c *Client) Recognize(ctx context.Context, uri string) ([]Word, error) {
	opName, err := c.submit(ctx, uri)
	if err != nil {
		return nil, err
	}

	op, err := c.await(ctx, opName)
	if err != nil {
		if ctx.Err() != nil {
			c.log.WithField("operation", opName).
				Warn("recognition abandoned by caller; job left to finish server-side")
		}
		return nil, err
	}

	words := extractWords(op)
	if len(words) == 0 {
		return nil, ErrNoSpeech
	}
	return words, nil
}

// submit starts the long-running recognition job and returns the operation name.
func (c *Client) submit(ctx context.Context, uri string) (string, error) {
	reqBody := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                 "MP3",
			SampleRateHertz:          c.cfg.SampleRateHertz,
			LanguageCode:             c.cfg.LanguageCode,
			AlternativeLanguageCodes: c.cfg.AltLanguageCodes,
			EnableSpeakerDiarization: true,
			DiarizationSpeakerCount:  c.cfg.SpeakerCount,
			Model:                    "default",
		},
	}
	reqBody.Audio.URI = uri

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode recognize request: %w", err)
	}

	endpoint := c.cfg.Endpoint + "/v1p1beta1/speech:longrunningrecognize?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var op operationResponse
	if err := c.doJSON(req, &op); err != nil {
		return "", fmt.Errorf("submit recognition job: %w", err)
	}
	if op.Name == "" {
		return "", fmt.Errorf("recognition job rejected: no operation name returned")
	}

	c.log.WithField("operation", op.Name).Info("recognition job submitted")
	return op.Name, nil
}

// await polls the operation until done, failing after the configured timeout.
func (c *Client) await(ctx context.Context, opName string) (*operationResponse, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Duration(c.cfg.PollIntervalSec) * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = time.Duration(c.cfg.OperationTimeoutSec) * time.Second

	var result operationResponse
	poll := func() error {
		endpoint := c.cfg.Endpoint + "/v1p1beta1/operations/" + opName + "?key=" + c.cfg.APIKey
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		var op operationResponse
		if err := c.doJSON(req, &op); err != nil {
			return backoff.Permanent(err)
		}
		if !op.Done {
			return errPending
		}
		if op.Error != nil {
			return backoff.Permanent(fmt.Errorf("recognition failed: %s (code %d)", op.Error.Message, op.Error.Code))
		}
		result = op
		return nil
	}

	if err := backoff.Retry(poll, backoff.WithContext(bo, ctx)); err != nil {
		if err == errPending {
			return nil, fmt.Errorf("recognition timed out after %ds: operation %s", c.cfg.OperationTimeoutSec, opName)
		}
		return nil, err
	}
	return &result, nil
}

func (c *Client) doJSON(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("speech api status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractWords pulls the word sequence out of the final recognition result.
// Diarized word output accumulates on the last result element.
func extractWords(op *operationResponse) []Word {
	if op.Response == nil || len(op.Response.Results) == 0 {
		return nil
	}
	last := op.Response.Results[len(op.Response.Results)-1]
	if len(last.Alternatives) == 0 {
		return nil
	}

	raw := last.Alternatives[0].Words
	words := make([]Word, 0, len(raw))
	for _, w := range raw {
		words = append(words, Word{Text: w.Word, SpeakerTag: w.SpeakerTag})
	}
	return words
}
