package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/tokenizer"
)

const defaultName = "transcript"

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for running ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) createMinutes(c *fiber.Ctx) error {
	var req MinutesRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid body: %v", err), "", nil)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Transcript = strings.TrimSpace(req.Transcript)
	if err := s.validate.Struct(req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, "validation failed", "", formatValidationErrors(err))
	}
	if req.Name == "" {
		req.Name = defaultName
	}

	m, err := s.runner.Run(c.UserContext(), req.Name, req.Transcript, nil)
	if err != nil {
		return err
	}

	return c.JSON(MinutesResponse{
		RunID:       m.RunID,
		Entries:     m.Entries,
		Chunks:      m.Chunks,
		Summary:     m.Summary,
		ActionItems: m.ActionItems,
	})
}

// handleError maps pipeline errors onto status codes
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return respondWithError(c, fe.Code, fe.Message, "", nil)
	}

	code := statusFor(err)
	stage := ""
	var se *processor.StageError
	if errors.As(err, &se) {
		stage = se.Stage.String()
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "Request failed: %v", err)
	}
	return respondWithError(c, code, err.Error(), stage, nil)
}

func statusFor(err error) int {
	var cfgErr *tokenizer.ConfigurationError
	var svcErr *completion.ServiceError
	switch {
	case errors.As(err, &cfgErr):
		return fiber.StatusBadRequest
	case errors.As(err, &svcErr), errors.Is(err, completion.ErrEmptyResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondWithError(c *fiber.Ctx, code int, message, stage string, details []string) error {
	return c.Status(code).JSON(ErrorResponse{
		Status:  "error",
		Message: message,
		Stage:   stage,
		Errors:  details,
	})
}

// formatValidationErrors turns validator/v10 errors into readable lines
func formatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		line := fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			line = fmt.Sprintf("%s (value: %s)", line, fe.Param())
		}
		out = append(out, line)
	}
	return out
}

// requestLogger logs one line per request with its latency
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		ctx := logger.WithFields(c.UserContext(), map[string]string{
			"method": c.Method(),
			"path":   c.Path(),
		})
		c.SetUserContext(ctx)

		err := c.Next()
		if err != nil {
			// Let the error handler set the status before it is logged
			if herr := s.handleError(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		switch {
		case status >= fiber.StatusInternalServerError:
			s.logger.Error(ctx, "Request completed with server error: %d in %s", status, latency)
		case status >= fiber.StatusBadRequest:
			s.logger.Warn(ctx, "Request completed with client error: %d in %s", status, latency)
		default:
			s.logger.Info(ctx, "Request completed: %d in %s", status, latency)
		}
		return nil
	}
}
