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

	"github.com/jdl-league/constructor-system/services"
)

type jsonResponse map[string]interface{}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

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
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
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

// paginationParams читает limit/offset из query string с безопасными
// значениями по умолчанию.
func paginationParams(r *http.Request) (limit, offset int64) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
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

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Отсутствующие сущности
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrClassChangeNotFound),
		errors.Is(err, services.ErrPermissionNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSettingNotFound):
		notFoundResponse(w, r)

	// Конфликты
	case errors.Is(err, services.ErrJDLIDConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrPermissionConflict),
		errors.Is(err, services.ErrSettingKeyConflict),
		errors.Is(err, services.ErrTournamentFull),
		errors.Is(err, services.ErrAlreadyEntered),
		errors.Is(err, services.ErrAlreadyProcessed):
		conflictResponse(w, r, err.Error())

	// Невалидные данные / бизнес-правила
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPlayerNameRequired),
		errors.Is(err, services.ErrInvalidJDLID),
		errors.Is(err, services.ErrInvalidClass),
		errors.Is(err, services.ErrNegativeParticipation),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrInvalidTournamentDates),
		errors.Is(err, services.ErrInvalidEntryDates),
		errors.Is(err, services.ErrInvalidTournamentStatus),
		errors.Is(err, services.ErrInvalidTeamRole),
		errors.Is(err, services.ErrUserIDRequired),
		errors.Is(err, services.ErrTeamIDRequired),
		errors.Is(err, services.ErrSettingKeyRequired),
		errors.Is(err, services.ErrSameClass),
		errors.Is(err, services.ErrClassNotEligible),
		errors.Is(err, services.ErrPlayerNotInTeam):
		badRequestResponse(w, r, err)

	// Ошибки доступа
	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrManagerOnly),
		errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrEntryNotOpen),
		errors.Is(err, services.ErrEntryClosed):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
