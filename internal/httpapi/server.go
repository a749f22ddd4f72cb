package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/fukidashi/internal/auth"
	"horse.fit/fukidashi/internal/langdetect"
	"horse.fit/fukidashi/internal/language"
	"horse.fit/fukidashi/internal/translation"
)

const maxSegmentsPerRequest = 100

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// AccessKeyHash guards the API when set; requests must carry the
	// matching bearer key.
	AccessKeyHash string
}

// UsageReporter exposes token accounting for the usage endpoint.
type UsageReporter interface {
	TokenCount() (total, last int)
	ModelName() string
}

type Server struct {
	manager  *translation.Manager
	registry *translation.Registry
	usage    UsageReporter
	logger   zerolog.Logger
	opts     Options
}

func NewServer(manager *translation.Manager, registry *translation.Registry, usage UsageReporter, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8091
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Minute
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		manager:  manager,
		registry: registry,
		usage:    usage,
		logger:   logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			AccessKeyHash:   strings.TrimSpace(opts.AccessKeyHash),
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.manager == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("fukidashi API server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("fukidashi API server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.Use(s.accessKeyMiddleware)
	api.GET("/health", s.handleHealth)
	api.GET("/languages", s.handleLanguages)
	api.GET("/usage", s.handleUsage)
	api.POST("/translate", s.handleTranslate)

	return e
}

func (s *Server) accessKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.opts.AccessKeyHash == "" {
			return next(c)
		}

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		key, found := strings.CutPrefix(header, "Bearer ")
		if !found || !auth.VerifyAccessKey(key, s.opts.AccessKeyHash) {
			return fail(c, http.StatusUnauthorized, "Invalid or missing access key", nil)
		}
		return next(c)
	}
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "fukidashi",
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"languages":        translation.LanguageOptions(s.registry),
		"default_provider": s.manager.DefaultProvider(),
		"providers":        s.registry.ProviderNames(),
	})
}

func (s *Server) handleUsage(c echo.Context) error {
	if s.usage == nil {
		return fail(c, http.StatusNotFound, "Usage accounting is not available", nil)
	}
	total, last := s.usage.TokenCount()
	return success(c, map[string]any{
		"tokens_total": total,
		"tokens_last":  last,
		"model":        s.usage.ModelName(),
	})
}

type translateRequest struct {
	Segments   []string `json:"segments"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
	Provider   string   `json:"provider"`
	Force      bool     `json:"force"`
	DryRun     bool     `json:"dry_run"`
}

func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}

	fieldErrors := map[string]string{}

	targetLang := resolveLanguageCode(req.TargetLang)
	if targetLang == "" {
		fieldErrors["target_lang"] = "target_lang is required and must be a supported language code"
	}
	if len(req.Segments) == 0 {
		fieldErrors["segments"] = "segments must contain at least one entry"
	}
	if len(req.Segments) > maxSegmentsPerRequest {
		fieldErrors["segments"] = fmt.Sprintf("segments must contain at most %d entries", maxSegmentsPerRequest)
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	sourceLang := resolveLanguageCode(req.SourceLang)
	if sourceLang == "" && strings.TrimSpace(req.SourceLang) != "" {
		return failValidation(c, map[string]string{
			"source_lang": "source_lang must be a supported language code",
		})
	}
	if sourceLang == "" {
		sourceLang = langdetect.DetectAdapterCode(strings.Join(req.Segments, "\n"))
	}

	result, err := s.manager.TranslateSegments(c.Request().Context(), req.Segments, translation.RunOptions{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Provider:   req.Provider,
		Force:      req.Force,
		DryRun:     req.DryRun,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("target_lang", targetLang).Msg("translate request failed")
		return internalError(c, "Translation failed")
	}

	return success(c, result)
}

// resolveLanguageCode accepts either an adapter code ("ENG") or an ISO tag
// ("en", "zh-TW") and returns the adapter code, or "" when unsupported.
func resolveLanguageCode(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	normalized := translation.NormalizeLanguageCode(trimmed)
	if _, err := translation.LanguageName(normalized); err == nil {
		return normalized
	}
	return language.AdapterCode(trimmed)
}
