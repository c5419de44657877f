package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"minutesapi/internal/model"
	"minutesapi/internal/service"
	serviceMocks "minutesapi/internal/service/mocks"
	"minutesapi/internal/summarize"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	err := json.NewDecoder(r).Decode(&body)
	assert.NoError(t, err)
	return body
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy when DB pings", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		assert.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		app := newTestApp()
		app.Get("/health", HealthCheck(db))

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unavailable when DB ping fails", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		assert.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		app := newTestApp()
		app.Get("/health", HealthCheck(db))

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["success"])
	})
}

func TestAPIDocs(t *testing.T) {
	app := newTestApp()
	app.Get("/docs", APIDocs())

	resp, err := app.Test(httptest.NewRequest("GET", "/docs", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "/openapi.yaml")
	assert.Contains(t, string(body), "swagger-ui")
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	t.Run("success returns uid", func(t *testing.T) {
		authSvc := new(serviceMocks.MockAuthService)
		authSvc.On("Login", mock.Anything, "ana@example.com", "secret").Return("u1", nil)

		app := newTestApp()
		app.Post("/login", Login(authSvc))

		payload := bytes.NewBufferString(`{"email":"ana@example.com","password":"secret"}`)
		req := httptest.NewRequest("POST", "/login", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "u1", body["uid"])
		authSvc.AssertExpectations(t)
	})

	t.Run("wrong credentials return 401", func(t *testing.T) {
		authSvc := new(serviceMocks.MockAuthService)
		authSvc.On("Login", mock.Anything, "ana@example.com", "wrong").
			Return("", service.ErrInvalidCredentials)

		app := newTestApp()
		app.Post("/login", Login(authSvc))

		payload := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`)
		req := httptest.NewRequest("POST", "/login", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["success"])
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		authSvc := new(serviceMocks.MockAuthService)
		authSvc.On("Login", mock.Anything, "", "").Return("", service.ErrInvalidInput)

		app := newTestApp()
		app.Post("/login", Login(authSvc))

		req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func newAudioUpload(t *testing.T, uid, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if uid != "" {
		assert.NoError(t, w.WriteField("uid", uid))
	}
	if filename != "" {
		part, err := w.CreateFormFile("audio", filename)
		assert.NoError(t, err)
		_, err = part.Write(content)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestTranscribeAudio(t *testing.T) {
	t.Run("success returns transcription", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Transcribe", mock.Anything, mock.Anything, "meeting.mp3", "u1", mock.Anything).
			Return(&service.TranscribeResult{
				Transcription: "Speaker 1:\nhello everyone",
				AudioFileName: "meeting.mp3",
			}, nil)

		app := newTestApp()
		app.Post("/transcribe", TranscribeAudio(minutesSvc))

		buf, contentType := newAudioUpload(t, "u1", "meeting.mp3", []byte("mp3bytes"))
		req := httptest.NewRequest("POST", "/transcribe", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Speaker 1:\nhello everyone", body["transcription"])
		assert.Equal(t, "meeting.mp3", body["audioFileName"])
		minutesSvc.AssertExpectations(t)
	})

	t.Run("missing uid returns 400", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)

		app := newTestApp()
		app.Post("/transcribe", TranscribeAudio(minutesSvc))

		buf, contentType := newAudioUpload(t, "", "meeting.mp3", []byte("mp3bytes"))
		req := httptest.NewRequest("POST", "/transcribe", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		minutesSvc.AssertNotCalled(t, "Transcribe")
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)

		app := newTestApp()
		app.Post("/transcribe", TranscribeAudio(minutesSvc))

		buf, contentType := newAudioUpload(t, "u1", "", nil)
		req := httptest.NewRequest("POST", "/transcribe", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		minutesSvc.AssertNotCalled(t, "Transcribe")
	})

	t.Run("service failure returns 500", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Transcribe", mock.Anything, mock.Anything, "meeting.mp3", "u1", mock.Anything).
			Return(nil, errors.New("transcribe audio: operation failed"))

		app := newTestApp()
		app.Post("/transcribe", TranscribeAudio(minutesSvc))

		buf, contentType := newAudioUpload(t, "u1", "meeting.mp3", []byte("mp3bytes"))
		req := httptest.NewRequest("POST", "/transcribe", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["success"])
	})
}

func TestSummarizeTranscript(t *testing.T) {
	t.Run("success returns links and record id", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Summarize", mock.Anything, "u1", "meeting.mp3").
			Return(&service.SummarizeResult{
				RecordID: "rec-1",
				Results: []service.TemplateLink{
					{Template: "Formal", Link: "https://drive.google.com/file/d/a/view?usp=sharing"},
					{Template: "Simple", Link: "https://drive.google.com/file/d/b/view?usp=sharing"},
					{Template: "Detailed", Link: "https://drive.google.com/file/d/c/view?usp=sharing"},
				},
			}, nil)

		app := newTestApp()
		app.Post("/summarize", SummarizeTranscript(minutesSvc))

		payload := bytes.NewBufferString(`{"userId":"u1","audioFileName":"meeting.mp3"}`)
		req := httptest.NewRequest("POST", "/summarize", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "rec-1", body["tableRecordId"])
		assert.Len(t, body["results"], 3)
		minutesSvc.AssertExpectations(t)
	})

	t.Run("defaults audio file name when omitted", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Summarize", mock.Anything, "u1", "Transcription").
			Return(&service.SummarizeResult{RecordID: "rec-2"}, nil)

		app := newTestApp()
		app.Post("/summarize", SummarizeTranscript(minutesSvc))

		payload := bytes.NewBufferString(`{"userId":"u1"}`)
		req := httptest.NewRequest("POST", "/summarize", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		minutesSvc.AssertExpectations(t)
	})

	t.Run("missing userId returns 400", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Summarize", mock.Anything, "", "Transcription").
			Return(nil, service.ErrInvalidInput)

		app := newTestApp()
		app.Post("/summarize", SummarizeTranscript(minutesSvc))

		req := httptest.NewRequest("POST", "/summarize", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown transcript returns 404", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Summarize", mock.Anything, "u1", "missing.mp3").
			Return(nil, service.ErrTranscriptNotFound)

		app := newTestApp()
		app.Post("/summarize", SummarizeTranscript(minutesSvc))

		payload := bytes.NewBufferString(`{"userId":"u1","audioFileName":"missing.mp3"}`)
		req := httptest.NewRequest("POST", "/summarize", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("template failure returns 502", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("Summarize", mock.Anything, "u1", "meeting.mp3").
			Return(nil, &summarize.TemplateError{Template: "Simple", Err: errors.New("model overloaded")})

		app := newTestApp()
		app.Post("/summarize", SummarizeTranscript(minutesSvc))

		payload := bytes.NewBufferString(`{"userId":"u1","audioFileName":"meeting.mp3"}`)
		req := httptest.NewRequest("POST", "/summarize", payload)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["success"])
	})
}

func TestListMinutes(t *testing.T) {
	t.Run("returns records for a user", func(t *testing.T) {
		link := "https://drive.google.com/file/d/a/view?usp=sharing"
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("ListMinutes", mock.Anything, "u1").Return([]model.MeetingRecord{
			{ID: "rec-1", AudioFileName: "meeting.mp3", FormalLink: &link},
		}, nil)

		app := newTestApp()
		app.Get("/allminutes/:id", ListMinutes(minutesSvc))

		resp, err := app.Test(httptest.NewRequest("GET", "/allminutes/u1", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["minutes"], 1)
		minutesSvc.AssertExpectations(t)
	})

	t.Run("unknown user gets empty list", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("ListMinutes", mock.Anything, "ghost").Return([]model.MeetingRecord{}, nil)

		app := newTestApp()
		app.Get("/allminutes/:id", ListMinutes(minutesSvc))

		resp, err := app.Test(httptest.NewRequest("GET", "/allminutes/ghost", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Len(t, body["minutes"], 0)
	})

	t.Run("repository failure returns 500", func(t *testing.T) {
		minutesSvc := new(serviceMocks.MockMinutesService)
		minutesSvc.On("ListMinutes", mock.Anything, "u1").Return(nil, errors.New("db down"))

		app := newTestApp()
		app.Get("/allminutes/:id", ListMinutes(minutesSvc))

		resp, err := app.Test(httptest.NewRequest("GET", "/allminutes/u1", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}
