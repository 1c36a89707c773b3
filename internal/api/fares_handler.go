package api

import (
	"net/http"
	"strconv"
	"strings"

	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/middleware"
	"lccwatch/faregraph/internal/models/dtos"
	"lccwatch/faregraph/internal/services"
)

// defaultCurrency is used when the origin country has no enriched
// currency code yet.
const defaultCurrency = "TWD"

// FaresHandler handles GET /api/fares?from=&to=&month=&airlines=
// It resolves airport codes and the quote currency from the graph,
// then aggregates the requested sources' daily fare series.
func FaresHandler(fareService *services.FareService, lookups *repositories.LookupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		month := query.Get("month")
		if month == "" {
			respondWithError(w, http.StatusBadRequest, "missing parameter: month")
			return
		}

		fromID, err := strconv.ParseUint(query.Get("from"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing or invalid parameter: from")
			return
		}
		toID, err := strconv.ParseUint(query.Get("to"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing or invalid parameter: to")
			return
		}

		airlineIDs, err := parseAirlineIDs(query.Get("airlines"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing or invalid parameter: airlines")
			return
		}

		pair, err := lookups.GetPairCodes(r.Context(), uint(fromID), uint(toID))
		if err != nil {
			logging.Error("failed to resolve airport pair",
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"from", fromID, "to", toID, "error", err.Error())
			respondWithError(w, http.StatusNotFound, "unknown airport pair")
			return
		}

		currency := pair.Currency
		if currency == "" {
			currency = defaultCurrency
		}

		fares, err := fareService.GetFares(r.Context(), month, pair.FromCode, pair.ToCode, airlineIDs, currency)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &dtos.FareSeriesResponse{
			Currency: currency,
			Fares:    fares,
		})
	}
}

func parseAirlineIDs(csv string) ([]int, error) {
	if csv == "" {
		return nil, strconv.ErrSyntax
	}

	var ids []int
	for _, part := range strings.Split(csv, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
