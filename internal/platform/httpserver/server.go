package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	modelmarketplace "aimarket/contexts/asset-exchange/model-marketplace"
	marketplacedomainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	marketplacehttp "aimarket/contexts/asset-exchange/model-marketplace/transport/http"
	_ "aimarket/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxModelUploadBytes = 64 << 20

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	marketplace modelmarketplace.Module
}

func New(marketplace modelmarketplace.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		marketplace: marketplace,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/collection", s.handleGetCollection)
	s.mux.HandleFunc("GET /v1/tokens", s.handleListTokens)
	s.mux.HandleFunc("POST /v1/tokens", s.handleMintToken)
	s.mux.HandleFunc("GET /v1/tokens/{token_id}", s.handleGetToken)
	s.mux.HandleFunc("POST /v1/tokens/{token_id}/listing", s.handleListToken)
	s.mux.HandleFunc("POST /v1/tokens/{token_id}/purchase", s.handleBuyToken)
	s.mux.HandleFunc("GET /v1/tokens/{token_id}/sales", s.handleListSales)
	s.mux.HandleFunc("POST /v1/models", s.handlePublishModel)
	s.mux.HandleFunc("GET /v1/accounts/{account_id}/balance", s.handleGetBalance)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.GetCollectionHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := marketplacehttp.ListTokensRequest{
		Owner:  query.Get("owner"),
		Cursor: query.Get("cursor"),
	}

	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}
	if forSaleRaw := query.Get("for_sale"); forSaleRaw != "" {
		forSale, err := strconv.ParseBool(forSaleRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_for_sale", "for_sale must be a boolean")
			return
		}
		req.ForSale = &forSale
	}

	resp, err := s.marketplace.Handler.ListTokensHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req marketplacehttp.MintTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.MintTokenHandler(r.Context(), owner, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handlePublishModel(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxModelUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", "request must be multipart/form-data with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_file", "file could not be read")
		return
	}

	resp, err := s.marketplace.Handler.PublishModelHandler(r.Context(), owner, marketplacehttp.PublishModelRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		Description: r.FormValue("description"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.GetTokenHandler(r.Context(), r.PathValue("token_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req marketplacehttp.ListTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.ListTokenHandler(r.Context(), caller, r.PathValue("token_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuyToken(w http.ResponseWriter, r *http.Request) {
	buyer, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req marketplacehttp.BuyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.BuyTokenHandler(r.Context(), buyer, r.PathValue("token_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.ListSalesHandler(r.Context(), r.PathValue("token_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.GetBalanceHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, marketplacedomainerrors.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrNotForSale):
		writeError(w, http.StatusConflict, "not_for_sale", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrSelfPurchase):
		writeError(w, http.StatusConflict, "self_purchase", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrInsufficientPayment):
		writeError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	case errors.Is(err, marketplacedomainerrors.ErrContentResolution):
		writeError(w, http.StatusBadGateway, "content_resolution_failed", err.Error())
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, marketplacehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
