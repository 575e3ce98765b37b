// Package httpapi は、デザイン生成と保存済みデザインを扱うJSON/PNGのHTTP APIを提供します
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"posterforge/internal/application"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// userIDHeader は、呼び出し元のユーザーIDを受け取るヘッダーです。認証は前段のバックエンドが行います
const userIDHeader = "X-User-ID"

// shutdownTimeout は、停止時に処理中のリクエストを待つ最大時間です
const shutdownTimeout = 10 * time.Second

// RateLimiter は、ユーザーごとのリクエスト数を制限するインターフェースです
type RateLimiter interface {
	Allow(userID string) bool
}

// Server は、HTTP APIのルーティングとハンドラーを保持します
type Server struct {
	router           chi.Router
	designService    *application.DesignApplicationService
	thumbnailService *application.ThumbnailApplicationService
	limiter          RateLimiter
}

// NewServer は新しいServerインスタンスを作成します。limiter が nil の場合は制限しません
func NewServer(
	designService *application.DesignApplicationService,
	thumbnailService *application.ThumbnailApplicationService,
	limiter RateLimiter,
) *Server {
	s := &Server{
		designService:    designService,
		thumbnailService: thumbnailService,
		limiter:          limiter,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.With(s.rateLimit).Post("/generate", s.handleGenerate)
		r.With(s.rateLimit).Post("/variations", s.handleVariations)
		r.With(s.rateLimit).Post("/render.png", s.handleRender)
		r.Get("/youtube/thumbnails", s.handleThumbnails)

		r.Route("/designs", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", s.handleListDesigns)
			r.Post("/", s.handleSaveDesign)
			r.Get("/{id}", s.handleGetDesign)
			r.Delete("/{id}", s.handleDeleteDesign)
			r.Get("/{id}/export.png", s.handleExportDesign)
		})
	})
	return r
}

// Handler は、ルーティング済みのhttp.Handlerを返します
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe は、ctx がキャンセルされるまでHTTP APIを提供します
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP APIを起動しました", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP APIの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("HTTP APIを停止しています")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP APIの停止に失敗: %w", err)
	}
	return nil
}

// requestLogger は、リクエストごとにステータスと所要時間を記録します
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug("HTTPリクエスト",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// requireUser は、X-User-ID ヘッダーのないリクエストを拒否します
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r) == "" {
			writeError(w, fmt.Errorf("%w: %s ヘッダーが必要です", errUnauthorized, userIDHeader))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit は、呼び出し元ごとにリクエスト数を制限します。ユーザーIDがない場合は接続元アドレスで数えます
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			key := userID(r)
			if key == "" {
				key = r.RemoteAddr
			}
			if !s.limiter.Allow(key) {
				writeError(w, errRateLimited)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}
