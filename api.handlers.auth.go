package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// TokenRequest is the payload expected by the token issuing endpoint.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IssueToken exchanges the configured credentials for a short-lived
// bearer token required by the create, update and delete endpoints.
func (api *APIHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	var req TokenRequest
	if r.Body == nil {
		api.logger.Error("failed to issue token", zap.String("request.id", requestID), zap.Error(errors.New("empty request body")))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to issue a token", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.logger.Error("failed to issue token", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to issue a token", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(api.config.Auth.Username))
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(api.config.Auth.Password))
	if userMatch*passMatch != 1 {
		api.logger.Error("invalid credentials on token request", zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusUnauthorized, "invalid credentials", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	token, err := api.tokens.Generate(req.Username, "ops")
	if err != nil {
		api.logger.Error("failed to sign token", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to issue a token", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Token issued successfully.", nil, map[string]string{"token": token})
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
