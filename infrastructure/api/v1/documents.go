// Package v1 implements the v1 REST API routers.
package v1

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	p3search "github.com/tadinve/p3-search"
	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/infrastructure/api/middleware"
	"github.com/tadinve/p3-search/infrastructure/api/v1/dto"
	"github.com/tadinve/p3-search/internal/log"
)

// maxUploadBytes bounds the accepted PDF size.
const maxUploadBytes = 100 << 20

// DocumentsRouter handles the document lifecycle endpoints.
type DocumentsRouter struct {
	client *p3search.Client
	logger *log.Logger
}

// NewDocumentsRouter creates a new DocumentsRouter.
func NewDocumentsRouter(client *p3search.Client) *DocumentsRouter {
	return &DocumentsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for document endpoints.
func (r *DocumentsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Upload)
	router.Get("/", r.List)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Delete("/", r.DeleteAll)

	return router
}

// Upload handles POST /api/v1/documents. The PDF is sent as a multipart
// form file under the "file" field.
func (r *DocumentsRouter) Upload(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)

	file, header, err := req.FormFile("file")
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "missing form file 'file'", err), r.logger)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "read upload", err), r.logger)
		return
	}

	receipt, err := r.client.Ingest.Ingest(ctx, header.Filename, data)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.UploadResponse{
		DocumentID:     receipt.DocumentID(),
		Filename:       receipt.Filename(),
		LinesProcessed: receipt.LinesProcessed(),
		ExtractionMode: string(receipt.Mode()),
	})
}

// List handles GET /api/v1/documents.
func (r *DocumentsRouter) List(w http.ResponseWriter, req *http.Request) {
	infos, err := r.client.Documents.List(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	summaries := make([]dto.DocumentSummary, len(infos))
	for i, info := range infos {
		summaries[i] = infoToSummary(info)
	}

	middleware.WriteJSON(w, http.StatusOK, dto.DocumentListResponse{
		Documents:  summaries,
		TotalCount: len(summaries),
	})
}

// Get handles GET /api/v1/documents/{id}.
func (r *DocumentsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	doc, err := r.client.Documents.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	info := doc.Info()
	lines := doc.Lines()

	response := dto.DocumentDetailResponse{
		DocumentID: info.DocumentID(),
		Filename:   info.Filename(),
		UploadDate: info.UploadDate(),
		LinesCount: info.LineCount(),
		Lines:      make([]dto.DocumentLine, len(lines)),
	}
	for i, line := range lines {
		response.Lines[i] = dto.DocumentLine{
			PageNumber: line.PageNumber(),
			LineNumber: line.LineNumber(),
			Content:    line.Content(),
			IsTable:    line.IsTable(),
		}
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

// Delete handles DELETE /api/v1/documents/{id}.
func (r *DocumentsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	receipt, err := r.client.Documents.Delete(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.DeleteResponse{
		DocumentID:   receipt.DocumentID(),
		Filename:     receipt.Filename(),
		DeletedLines: receipt.LinesDeleted(),
	})
}

// DeleteAll handles DELETE /api/v1/documents. Deleting from an empty
// store succeeds with zero counts.
func (r *DocumentsRouter) DeleteAll(w http.ResponseWriter, req *http.Request) {
	receipt, err := r.client.Documents.DeleteAll(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PurgeResponse{
		DeletedDocuments: receipt.DocumentsDeleted(),
		DeletedLines:     receipt.LinesDeleted(),
	})
}

func infoToSummary(info document.Info) dto.DocumentSummary {
	return dto.DocumentSummary{
		DocumentID: info.DocumentID(),
		Filename:   info.Filename(),
		UploadDate: info.UploadDate(),
		LinesCount: info.LineCount(),
		FirstPage:  info.FirstPage(),
		LastPage:   info.LastPage(),
	}
}
