package constants

// Read-side lookup queries, run through sqlx with Rebind so the same
// text works on both sqlite and postgres.

const (
	ListAllAirports = `
	SELECT a.id, a.code, COALESCE(a.name, '') AS name, COALESCE(c.name, 'Other') AS country_name
	FROM airports a
	LEFT JOIN countries c ON a.country_id = c.id
	ORDER BY a.code
	`

	ListDestinationAirports = `
	SELECT DISTINCT a.id, a.code, COALESCE(a.name, '') AS name, COALESCE(c.name, 'Other') AS country_name
	FROM routes r
	JOIN airports a ON r.to_airport_id = a.id
	LEFT JOIN countries c ON a.country_id = c.id
	WHERE r.from_airport_id = ? AND r.is_active = ?
	ORDER BY a.code
	`

	ListAirlinesForPair = `
	SELECT DISTINCT airline_id FROM routes
	WHERE from_airport_id = ? AND to_airport_id = ? AND is_active = ?
	ORDER BY airline_id
	`

	GetPairCodes = `
	SELECT fap.code AS from_code, tap.code AS to_code, COALESCE(c.currency, '') AS currency
	FROM airports fap
	JOIN airports tap ON tap.id = ?
	LEFT JOIN countries c ON fap.country_id = c.id
	WHERE fap.id = ?
	`
)
