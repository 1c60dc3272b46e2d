package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ooo-portfolio/backend/internal/logging"
	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/service"
	"github.com/ooo-portfolio/backend/internal/upload"
)

const (
	uploadFormField   = "files"
	ndjsonContentType = "application/x-ndjson"
	// multipartOverhead covers boundaries and part headers on top of the file bytes.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// UploadLimits は画像アップロードの受付上限
type UploadLimits struct {
	MaxFileBytes  int64
	MaxFiles      int
	MaxBatchBytes int64
}

// ImageHandler はプロジェクト画像の一覧・アップロード・削除を処理する
type ImageHandler struct {
	imageService service.ImageService
	limits       UploadLimits
}

// NewImageHandler は ImageHandler を生成する
func NewImageHandler(imageService service.ImageService, limits UploadLimits) *ImageHandler {
	return &ImageHandler{imageService: imageService, limits: limits}
}

// List は GET /api/admin/projects/{id}/images を処理する
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.ListByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err, "list images failed")
		return
	}
	writeJSON(w, http.StatusOK, images)
}

// Delete は DELETE /api/admin/images/{id} を処理する。ストレージ上のファイルは残る
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.imageService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err, "delete image failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upload は POST /api/admin/projects/{id}/images を処理する。
// multipart の "files" を受け取り、内容が image/* でないものは読み飛ばす。
// Accept: application/x-ndjson の場合は進捗を逐次ストリームする。
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	candidates, skipped, ok := h.readCandidates(w, r)
	if !ok {
		return
	}

	if strings.Contains(r.Header.Get("Accept"), ndjsonContentType) {
		h.streamUpload(w, r, projectID, candidates, skipped)
		return
	}

	res, err := h.imageService.Upload(r.Context(), projectID, candidates, nil)
	if err != nil {
		writeUploadStartError(w, r, err)
		return
	}
	resp := newUploadResponse(res, candidates, skipped)
	if resp.Error != "" {
		logging.FromContext(r.Context()).Error("image upload aborted",
			"project_id", projectID, "aborted_at", res.AbortedAt, "error", res.Err)
	}
	writeJSON(w, uploadStatus(res), resp)
}

// readCandidates applies the acceptance rules and loads accepted files into memory.
func (h *ImageHandler) readCandidates(w http.ResponseWriter, r *http.Request) ([]upload.Candidate, []string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxBatchBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid_form")
		return nil, nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadFormField]
	if len(headers) > h.limits.MaxFiles {
		writeError(w, http.StatusBadRequest, "too_many_files")
		return nil, nil, false
	}

	var (
		candidates []upload.Candidate
		skipped    []string
	)
	for _, fh := range headers {
		if fh.Size > h.limits.MaxFileBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return nil, nil, false
		}
		data, err := readPart(fh, h.limits.MaxFileBytes)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_form")
			return nil, nil, false
		}
		// 宣言された Content-Type は信用せず、内容から判定する
		mt := mimetype.Detect(data)
		if !acceptedImage(mt) {
			skipped = append(skipped, fh.Filename)
			continue
		}
		candidates = append(candidates, upload.Candidate{Data: data, Filename: fh.Filename, ContentType: mt.String()})
	}

	if len(candidates) == 0 {
		writeError(w, http.StatusBadRequest, "files_required")
		return nil, nil, false
	}
	return candidates, skipped, true
}

// acceptedImage admits raster images only; SVG can carry script.
func acceptedImage(mt *mimetype.MIME) bool {
	return strings.HasPrefix(mt.String(), "image/") && !mt.Is("image/svg+xml")
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

func (h *ImageHandler) streamUpload(w http.ResponseWriter, r *http.Request, projectID string, candidates []upload.Candidate, skipped []string) {
	batch, err := h.imageService.StartUpload(r.Context(), projectID, candidates)
	if err != nil {
		writeUploadStartError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ndjsonContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	emit := func(ev uploadEvent) {
		_ = enc.Encode(ev)
		_ = rc.Flush()
	}

	batch.OnProgress(func(p upload.Progress) {
		emit(uploadEvent{Type: "progress", Progress: &p, Fraction: p.Fraction()})
	})

	var outcomes []upload.Outcome
	for o := range batch.Outcomes() {
		outcomes = append(outcomes, o)
		idx := o.Index
		ev := uploadEvent{Type: "outcome", Index: &idx, Image: o.Image}
		if o.Err != nil {
			ev.Error = uploadErrorCode(o.Err)
		}
		emit(ev)
	}

	res := &upload.Result{
		ProjectID: projectID,
		State:     batch.State(),
		Outcomes:  outcomes,
		Progress:  batch.Progress(),
		AbortedAt: batch.AbortedAt(),
		Err:       batch.Err(),
	}
	if res.Err != nil {
		logging.FromContext(r.Context()).Error("image upload aborted",
			"project_id", projectID, "aborted_at", res.AbortedAt, "error", res.Err)
	}
	emit(uploadEvent{Type: "done", Result: newUploadResponse(res, candidates, skipped)})
}

type uploadEvent struct {
	Type     string           `json:"type"`
	Progress *upload.Progress `json:"progress,omitempty"`
	Fraction float64          `json:"fraction,omitempty"`
	Index    *int             `json:"index,omitempty"`
	Image    *model.Image     `json:"image,omitempty"`
	Error    string           `json:"error,omitempty"`
	Result   *uploadResponse  `json:"result,omitempty"`
}

type uploadFailure struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Orphaned bool   `json:"orphaned"`
}

type uploadResponse struct {
	State    upload.State    `json:"state"`
	Progress upload.Progress `json:"progress"`
	Images   []*model.Image  `json:"images"`
	Skipped  []string        `json:"skipped,omitempty"`
	Error    string          `json:"error,omitempty"`
	Failure  *uploadFailure  `json:"failure,omitempty"`
}

func newUploadResponse(res *upload.Result, candidates []upload.Candidate, skipped []string) *uploadResponse {
	resp := &uploadResponse{
		State:    res.State,
		Progress: res.Progress,
		Images:   res.Images(),
		Skipped:  skipped,
	}
	if res.Err == nil {
		return resp
	}
	resp.Error = uploadErrorCode(res.Err)
	f := &uploadFailure{Index: res.AbortedAt, Error: resp.Error}
	if res.AbortedAt >= 0 && res.AbortedAt < len(candidates) {
		f.Filename = candidates[res.AbortedAt].Filename
	}
	var pe *upload.PersistenceError
	if errors.As(res.Err, &pe) {
		f.Orphaned = pe.Orphaned
	}
	resp.Failure = f
	return resp
}

func uploadErrorCode(err error) string {
	var (
		se *upload.StorageError
		pe *upload.PersistenceError
	)
	switch {
	case errors.As(err, &se):
		return "storage_failed"
	case errors.As(err, &pe):
		return "persistence_failed"
	default:
		return "upload_failed"
	}
}

func uploadStatus(res *upload.Result) int {
	if res.Err == nil {
		return http.StatusCreated
	}
	var se *upload.StorageError
	if errors.As(res.Err, &se) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeUploadStartError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *upload.ConfigurationError
	switch {
	case errors.Is(err, service.ErrNoFiles):
		writeError(w, http.StatusBadRequest, "files_required")
	case errors.As(err, &ce):
		writeError(w, http.StatusBadRequest, "project_id_required")
	default:
		writeLookupError(w, r, err, "start upload failed")
	}
}
