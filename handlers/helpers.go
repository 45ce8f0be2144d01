package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const defaultMaxBodyBytes = 1_048_576 // 1MB

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return readJSONLimit(w, r, dst, defaultMaxBodyBytes)
}

func readJSONLimit(w http.ResponseWriter, r *http.Request, dst interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ladder.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrMatchSetupNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrAuthEmailTaken),
		errors.Is(err, services.ErrUserEmailConflict):
		conflictResponse(w, r, err.Error())

	case errors.As(err, &verr):
		failedValidationResponse(w, r, map[string]string{"value": verr.Error()})

	// Правила матча, нарушенные клиентом
	case errors.Is(err, ladder.ErrIncomplete),
		errors.Is(err, ladder.ErrNoSuggestion),
		errors.Is(err, ladder.ErrSessionNotStarted),
		errors.Is(err, ladder.ErrSessionStarted),
		errors.Is(err, services.ErrMatchNotSubmitted):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, ladder.ErrUnsupportedPlayerCount),
		errors.Is(err, ladder.ErrInvalidPlayTo),
		errors.Is(err, ladder.ErrTooManyNames),
		errors.Is(err, ladder.ErrCellOutOfRange),
		errors.Is(err, ladder.ErrCellInactive),
		errors.Is(err, ladder.ErrPlayerOutOfRange),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrInvalidImageData),
		errors.Is(err, services.ErrPlayerSlotInvalid),
		errors.Is(err, services.ErrNoRecipients),
		errors.Is(err, services.ErrTooManyRecipients):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrAuthInvalidCredentials),
		errors.Is(err, services.ErrAuthenticationFailed):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())
	case errors.Is(err, services.ErrEmailNotConfigured):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func intURLParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in URL path", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format", name)
	}
	return v, nil
}
