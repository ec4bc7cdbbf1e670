package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/parceldirect/consign/internal/model"
	"github.com/parceldirect/consign/internal/store"
	"github.com/parceldirect/consign/pkg/accounts"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// pathID parses the {id} path segment. A non-numeric value is a shape
// error, rejected before any lookup.
func pathID(r *http.Request, segment string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(segment), 10, 64)
	return id, err == nil
}

// ownedBy checks the token claim against the record's owning account.
func ownedBy(r *http.Request, c *model.Consignment) bool {
	claims := GetClaims(r.Context())
	return claims != nil && claims.AccountNo == c.AccountNo
}

// accountStatus maps accounts-service failures onto response codes: an
// unknown account is the caller's fault, everything else is an upstream
// problem.
func accountStatus(err error) (int, string) {
	switch {
	case errors.Is(err, accounts.ErrUnknownAccount):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, accounts.ErrUnavailable):
		return http.StatusBadGateway, "Accounts service unavailable"
	default:
		return http.StatusBadGateway, "Unknown error validating account"
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	cons, err := store.List(r.Context(), s.db)
	if err != nil {
		s.logger.Error("Listing consignments failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list consignments")
		return
	}
	if cons == nil {
		cons = []model.Consignment{}
	}
	respondJSON(w, http.StatusOK, cons)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "Invalid consignment id")
		return
	}

	con, err := store.Get(r.Context(), s.db, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	if err != nil {
		s.logger.Error("Fetching consignment failed", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch consignment")
		return
	}

	if !ownedBy(r, con) {
		respondError(w, http.StatusForbidden, "Token not valid for this account")
		return
	}
	respondJSON(w, http.StatusOK, con)
}

func (s *Server) handleGetByNumber(w http.ResponseWriter, r *http.Request) {
	number, ok := pathID(r, "number")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "Invalid consignment number")
		return
	}

	con, err := store.GetByNumber(r.Context(), s.db, number)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	if err != nil {
		s.logger.Error("Fetching consignment failed", zap.Int64("number", number), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch consignment")
		return
	}
	respondJSON(w, http.StatusOK, con)
}

func (s *Server) handleListAccount(w http.ResponseWriter, r *http.Request) {
	accountNo := r.PathValue("account_no")

	if err := s.accounts.Validate(r.Context(), accountNo); err != nil {
		s.metrics.RecordDependencyError("accounts", "validate")
		status, msg := accountStatus(err)
		respondError(w, status, msg)
		return
	}

	numbers, err := store.NumbersForAccount(r.Context(), s.db, accountNo)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No consignments found for this account")
		return
	}
	if err != nil {
		s.logger.Error("Listing account consignments failed",
			zap.String("account_no", accountNo), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list consignments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account_no":   accountNo,
		"consignments": numbers,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx := r.Context()

	if err := s.accounts.Validate(ctx, req.AccountNo); err != nil {
		s.metrics.RecordDependencyError("accounts", "validate")
		status, msg := accountStatus(err)
		respondError(w, status, msg)
		return
	}

	number, err := s.accounts.NextConsignmentNumber(ctx, req.AccountNo)
	if err != nil {
		s.metrics.RecordDependencyError("accounts", "allocate")
		respondError(w, http.StatusBadGateway, "Failed to allocate consignment number")
		return
	}

	depotCode, err := s.depot.Resolve(ctx, req.AddressLine4)
	if err != nil {
		s.metrics.RecordDependencyError("gazzing", "resolve")
		respondError(w, http.StatusBadGateway, "Failed to resolve delivery depot")
		return
	}

	con := &model.Consignment{
		AccountNo:         req.AccountNo,
		Name:              req.Name,
		AddressLine1:      req.AddressLine1,
		AddressLine2:      req.AddressLine2,
		AddressLine3:      req.AddressLine3,
		AddressLine4:      req.AddressLine4,
		Weight:            req.Weight,
		ConsignmentNumber: number,
		DeliveryDepot:     depotCode,
	}

	created, err := store.Create(ctx, s.db, con)
	if errors.Is(err, store.ErrDuplicateNumber) {
		// The allocator handed out a number that already exists; its
		// read-then-increment is not atomic. The unique index caught it.
		s.logger.Warn("Consignment number collision",
			zap.String("account_no", req.AccountNo),
			zap.Int64("consignment_number", number),
		)
		respondError(w, http.StatusBadRequest, "Consignment creation failed")
		return
	}
	if err != nil {
		s.logger.Error("Creating consignment failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Consignment creation failed")
		return
	}
	s.metrics.ConsignmentsCreated.Inc()

	// The record is already persisted; a failed render leaves it without
	// a label file rather than rolling anything back.
	if _, err := s.labels.Render(created); err != nil {
		s.logger.Error("Rendering label failed",
			zap.Int64("consignment_number", created.ConsignmentNumber),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to render label")
		return
	}
	s.metrics.LabelsRendered.Inc()

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "Invalid consignment id")
		return
	}

	ctx := r.Context()

	con, err := store.Get(ctx, s.db, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	if err != nil {
		s.logger.Error("Fetching consignment failed", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch consignment")
		return
	}
	if !ownedBy(r, con) {
		respondError(w, http.StatusForbidden, "Token not valid for this account")
		return
	}

	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := patch.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// A new fourth address line invalidates the stored depot; resolve
	// against the incoming value before persisting.
	var depotCode *int
	if patch.AddressLine4 != nil {
		code, err := s.depot.Resolve(ctx, *patch.AddressLine4)
		if err != nil {
			s.metrics.RecordDependencyError("gazzing", "resolve")
			respondError(w, http.StatusBadGateway, "Failed to resolve delivery depot")
			return
		}
		depotCode = &code
	}

	updated, err := store.Update(ctx, s.db, id, patch, depotCode)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	if errors.Is(err, store.ErrDuplicateNumber) {
		respondError(w, http.StatusBadRequest, "Invalid consignment details")
		return
	}
	if err != nil {
		s.logger.Error("Updating consignment failed", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update consignment")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "Invalid consignment id")
		return
	}

	ctx := r.Context()

	con, err := store.Get(ctx, s.db, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Consignment not found")
		return
	}
	if err != nil {
		s.logger.Error("Fetching consignment failed", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch consignment")
		return
	}
	if !ownedBy(r, con) {
		respondError(w, http.StatusForbidden, "Token not valid for this account")
		return
	}

	if err := store.Delete(ctx, s.db, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Consignment not found")
			return
		}
		s.logger.Error("Deleting consignment failed", zap.Int64("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete consignment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
