package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/user-records/internal/user"
)

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.handleCreateUser)
	router.Get("/users", h.handleListUsers)
	router.Get("/users/{id}", h.handleGetUserByID)
	router.Put("/users/{id}", h.handleUpdateUser)
	router.Delete("/users/{id}", h.handleDeleteUser)
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	requestPayload, ok := decodeUserRequest(w, r)
	if !ok {
		return
	}

	details, err := validateCreate(h.validate, requestPayload)
	if !h.checkValidation(w, details, err) {
		return
	}

	createdUser, err := h.service.CreateUser(r.Context(), requestPayload.toUser(0))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user via service")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(createdUser))
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users via service")
		respondWithServiceError(w, err)
		return
	}

	responsePayload := make([]UserResponse, 0, len(users))
	for i := range users {
		responsePayload = append(responsePayload, newUserResponse(&users[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	foundUser, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user by id via service")
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(foundUser))
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	requestPayload, ok := decodeUserRequest(w, r)
	if !ok {
		return
	}

	details, err := validateUpdate(h.validate, requestPayload)
	if !h.checkValidation(w, details, err) {
		return
	}

	updatedUser, err := h.service.UpdateUser(r.Context(), requestPayload.toUser(userID))
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update user via service")
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(updatedUser))
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	deletedUser, err := h.service.DeleteUser(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete user via service")
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DeleteUserResponse{
		Message: msgDeleted,
		User:    newUserResponse(deletedUser),
	})
}

// decodeUserRequest treats an empty body as an empty object and rejects
// anything after the first JSON value.
func decodeUserRequest(w http.ResponseWriter, r *http.Request) (UserRequest, bool) {
	var requestPayload UserRequest

	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&requestPayload)
	if errors.Is(err, io.EOF) {
		return UserRequest{}, true
	}
	if err == nil {
		if _, tokenErr := decoder.Token(); !errors.Is(tokenErr, io.EOF) {
			err = errors.New("unexpected data after JSON body")
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return UserRequest{}, false
	}

	return requestPayload, true
}

// userIDParam answers 404 for ids that cannot name a record.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	userID, ok := parseID(idParam)
	if !ok {
		log.Warn().Str("user_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return userID, true
}

func (h *UserHandler) checkValidation(w http.ResponseWriter, details []FieldError, err error) bool {
	if err != nil {
		log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		return false
	}

	if len(details) > 0 {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: details})
		return false
	}

	return true
}
