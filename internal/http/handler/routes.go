package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"minutesapi/internal/service"
	"minutesapi/internal/summarize"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate transport concerns only; pipeline logic lives in services.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, minutesSvc service.MinutesService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", APIDocs())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/login", Login(authSvc))
	app.Post("/transcribe", TranscribeAudio(minutesSvc))
	app.Post("/summarize", SummarizeTranscript(minutesSvc))
	app.Get("/allminutes/:id", ListMinutes(minutesSvc))
}

// APIDocs serves a Swagger UI page rendering the spec at /openapi.yaml.
func APIDocs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	}
}

// HealthCheck reports readiness: checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns the user's opaque identifier.
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		uid, err := authSvc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidInput):
				return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "email and password are required")
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Login successful",
			"uid":     uid,
		})
	}
}

// TranscribeAudio ingests an uploaded audio file for the given user and runs
// the transcription stage. This call blocks for the duration of the
// recognition job.
func TranscribeAudio(minutesSvc service.MinutesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := c.FormValue("uid")
		fh, err := c.FormFile("audio")
		if err != nil || uid == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "missing file or user ID")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := minutesSvc.Transcribe(c.UserContext(), f, fh.Filename, uid, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "missing file or user ID")
			}
			return writeError(c, fiber.StatusInternalServerError, "TRANSCRIPTION_FAILED", "transcription failed")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":       true,
			"transcription": res.Transcription,
			"audioFileName": res.AudioFileName,
			"noSpeech":      res.NoSpeech,
		})
	}
}

type summarizeRequest struct {
	UserID        string `json:"userId"`
	AudioFileName string `json:"audioFileName"`
}

// SummarizeTranscript runs the full per-template fan-out for the user's latest
// transcript of the named file. One complete record is written only when every
// template link was obtained.
func SummarizeTranscript(minutesSvc service.MinutesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req summarizeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if req.AudioFileName == "" {
			req.AudioFileName = "Transcription"
		}

		res, err := minutesSvc.Summarize(c.UserContext(), req.UserID, req.AudioFileName)
		if err != nil {
			var tplErr *summarize.TemplateError
			switch {
			case errors.Is(err, service.ErrInvalidInput):
				return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "missing userId in request body")
			case errors.Is(err, service.ErrTranscriptNotFound):
				return writeError(c, fiber.StatusNotFound, "TRANSCRIPT_NOT_FOUND", "no transcript found for this user and file")
			case errors.As(err, &tplErr):
				return writeError(c, fiber.StatusBadGateway, "SUMMARIZATION_FAILED", "summarization failed for "+tplErr.Template)
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "error during summarization or file handling")
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":       true,
			"message":       "All templates processed, uploaded, and saved under user.",
			"results":       res.Results,
			"tableRecordId": res.RecordID,
		})
	}
}

// ListMinutes returns every recorded run for a user. An unknown user gets an
// empty list, not an error.
func ListMinutes(minutesSvc service.MinutesService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := c.Params("id")

		records, err := minutesSvc.ListMinutes(c.UserContext(), ownerID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "missing user ID in URL parameter")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch minutes")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Minutes fetched successfully.",
			"minutes": records,
		})
	}
}
