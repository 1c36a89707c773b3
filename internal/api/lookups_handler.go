package api

import (
	"net/http"
	"sort"
	"strconv"

	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/middleware"
	"lccwatch/faregraph/internal/models/dtos"
)

// AirportsHandler handles GET /api/airports[?from=id]
// Without "from", every known airport is returned; with it, only the
// airports actively reachable from that origin. Results are grouped by
// country display name, with the unenriched "Other" group sorted last.
func AirportsHandler(lookups *repositories.LookupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			rows []repositories.AirportRow
			err  error
		)

		if from := r.URL.Query().Get("from"); from != "" {
			fromID, parseErr := strconv.ParseUint(from, 10, 64)
			if parseErr != nil {
				respondWithError(w, http.StatusBadRequest, "invalid parameter: from")
				return
			}
			rows, err = lookups.ListDestinations(r.Context(), uint(fromID))
		} else {
			rows, err = lookups.ListAllAirports(r.Context())
		}

		if err != nil {
			logging.Error("failed to list airports",
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to list airports")
			return
		}

		groups := groupByCountry(rows)
		respondWithSuccess(w, http.StatusOK, &groups)
	}
}

// AirlinesHandler handles GET /api/airlines?from=&to=
// It returns the carriers with an active edge between the two
// airports.
func AirlinesHandler(lookups *repositories.LookupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fromID, err := strconv.ParseUint(r.URL.Query().Get("from"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing or invalid parameter: from")
			return
		}
		toID, err := strconv.ParseUint(r.URL.Query().Get("to"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing or invalid parameter: to")
			return
		}

		ids, err := lookups.ListAirlinesForPair(r.Context(), uint(fromID), uint(toID))
		if err != nil {
			logging.Error("failed to list airlines",
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"from", fromID, "to", toID, "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to list airlines")
			return
		}

		options := make([]dtos.AirlineOption, 0, len(ids))
		for _, id := range ids {
			options = append(options, dtos.AirlineOption{
				ID:   int(id),
				Name: id.Label(),
			})
		}

		respondWithSuccess(w, http.StatusOK, &options)
	}
}

func groupByCountry(rows []repositories.AirportRow) []dtos.CountryGroup {
	byCountry := make(map[string][]dtos.AirportOption)
	for _, row := range rows {
		byCountry[row.CountryName] = append(byCountry[row.CountryName], dtos.AirportOption{
			ID:   row.ID,
			Code: row.Code,
			Name: row.Name,
		})
	}

	names := make([]string, 0, len(byCountry))
	for name := range byCountry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		// airports without an enriched country sort last
		if names[i] == "Other" {
			return false
		}
		if names[j] == "Other" {
			return true
		}
		return names[i] < names[j]
	})

	groups := make([]dtos.CountryGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, dtos.CountryGroup{
			Country:  name,
			Airports: byCountry[name],
		})
	}
	return groups
}
