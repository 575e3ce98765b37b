package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes は、リクエスト本文の最大サイズです
const maxBodyBytes = 1 << 20

var (
	errBadRequest   = errors.New("不正なリクエストです")
	errUnauthorized = errors.New("ユーザーIDが指定されていません")
	errRateLimited  = errors.New("レート制限を超過しました")
)

type generateRequest struct {
	Prompt    string `json:"prompt"`
	Format    string `json:"format"`
	Variation int    `json:"variation"`
	Count     int    `json:"count"`
}

type saveDesignRequest struct {
	ID     string        `json:"id"`
	Prompt string        `json:"prompt"`
	Layout domain.Layout `json:"layout"`
	Scene  *domain.Scene `json:"scene"`
}

type renderRequest struct {
	Layout *domain.Layout `json:"layout"`
	Scene  *domain.Scene  `json:"scene"`
}

type thumbnailsResponse struct {
	VideoID    string             `json:"videoId"`
	Thumbnails []domain.Thumbnail `json:"thumbnails"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// designRequest は、本文からデザインの依頼を作成します。format が空の場合は未指定のままにします
func designRequest(r *http.Request, body generateRequest) (domain.DesignRequest, error) {
	var format domain.Format
	if body.Format != "" {
		parsed, err := domain.ParseFormat(body.Format)
		if err != nil {
			return domain.DesignRequest{}, err
		}
		format = parsed
	}
	if body.Variation < 0 {
		return domain.DesignRequest{}, fmt.Errorf("%w: variation は0以上である必要があります", errBadRequest)
	}

	user := domain.User{ID: userID(r)}
	return domain.NewDesignRequest(user, "", "", body.Prompt, format, body.Variation), nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	request, err := designRequest(r, body)
	if err != nil {
		writeError(w, err)
		return
	}

	layout, err := s.designService.Generate(r.Context(), request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	body := generateRequest{Count: application.MaxVariations}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Count <= 0 || body.Count > application.MaxVariations {
		writeError(w, fmt.Errorf("%w: count は1以上%d以下である必要があります", errBadRequest, application.MaxVariations))
		return
	}

	request, err := designRequest(r, body)
	if err != nil {
		writeError(w, err)
		return
	}

	layouts, err := s.designService.GenerateVariations(r.Context(), request, body.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Layout{"layouts": layouts})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var body renderRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	var (
		image []byte
		err   error
	)
	switch {
	case body.Scene != nil:
		if err := body.Scene.Dimensions.Validate(); err != nil {
			writeError(w, fmt.Errorf("%w: scene.dimensions: %w", errBadRequest, err))
			return
		}
		image, err = s.designService.RenderScene(body.Scene)
	case body.Layout != nil:
		if err := body.Layout.Validate(); err != nil {
			writeError(w, err)
			return
		}
		image, err = s.designService.RenderLayout(*body.Layout)
	default:
		writeError(w, fmt.Errorf("%w: layout または scene が必要です", errBadRequest))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, image)
}

func (s *Server) handleThumbnails(w http.ResponseWriter, r *http.Request) {
	videoID, thumbnails, err := s.thumbnailService.Lookup(r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.thumbnailService.RecordDownload(r.Context(), userID(r), videoID, thumbnails[0].URL); err != nil {
		log.Warn("サムネイル取得の記録に失敗しました", "video", videoID, "err", err)
	}
	writeJSON(w, http.StatusOK, thumbnailsResponse{VideoID: videoID, Thumbnails: thumbnails})
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	designs, err := s.designService.ListDesigns(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Design{"designs": designs})
}

func (s *Server) handleSaveDesign(w http.ResponseWriter, r *http.Request) {
	var body saveDesignRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	design, err := s.designService.SaveDesign(r.Context(), userID(r), body.ID, body.Prompt, body.Layout, body.Scene)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if body.ID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, design)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	design, err := s.designService.LoadDesign(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, design)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := s.designService.DeleteDesign(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportDesign(w http.ResponseWriter, r *http.Request) {
	image, _, err := s.designService.ExportDesign(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, image)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("レスポンスの書き込みに失敗", "err", err)
	}
}

func writePNG(w http.ResponseWriter, image []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		log.Error("画像の書き込みに失敗", "err", err)
	}
}

// statusFor は、エラーに対応するHTTPステータスを返します
func statusFor(err error) int {
	switch {
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrDesignNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidLayout),
		errors.Is(err, domain.ErrInvalidYouTubeURL),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidCanvasSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("リクエストの処理に失敗", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
