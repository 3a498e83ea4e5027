package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"talentai/internal/shared/server"
	"talentai/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

// NewHTTPServer wraps the app router. Write timeout covers OCR plus a slow
// model response.
func NewHTTPServer(app *App) *http.Server {
	return &http.Server{
		Addr:              server.Addr(app.Config.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      app.Config.LLMTimeout + 5*time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// Serve listens until ctx is done, then drains in-flight requests.
func Serve(ctx context.Context, app *App) error {
	srv := NewHTTPServer(app)
	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	telemetry.Info("server.shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
