package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/reference"
)

// offsetGroupKeys names the leading letters whose localized reference
// page lays its table out one column earlier than the others.
var offsetGroupKeys = map[string]bool{
	"H": true, "I": true, "J": true, "K": true, "L": true,
	"M": true, "N": true, "O": true, "P": true, "R": true,
	"S": true, "T": true, "U": true,
}

var (
	annotationStart = regexp.MustCompile(`[\[(\d]`)
	anyDigit        = regexp.MustCompile(`\d`)
	latinLetter     = regexp.MustCompile(`[A-Za-z]`)
)

// EnrichmentService fills in airport and country display data from
// reference tables, grouped by the leading letter of the airport code
// so each reference page is fetched once per group. Every row is
// fault-isolated: a failure leaves that row untouched, is logged with
// the row's key, and processing continues.
type EnrichmentService struct {
	airports  *repositories.AirportRepository
	countries *repositories.CountryRepository
	ref       *reference.Client
}

// NewEnrichmentService creates a new metadata enrichment service
func NewEnrichmentService(db *gorm.DB, ref *reference.Client) *EnrichmentService {
	return &EnrichmentService{
		airports:  repositories.NewAirportRepository(db),
		countries: repositories.NewCountryRepository(db),
		ref:       ref,
	}
}

// Run executes all three enrichment passes in order.
func (s *EnrichmentService) Run(ctx context.Context) error {
	if err := s.EnrichDisplayNames(ctx); err != nil {
		return err
	}
	if err := s.EnrichLocalizedNames(ctx); err != nil {
		return err
	}
	return s.EnrichCurrencies(ctx)
}

// EnrichDisplayNames resolves each airport's English name and country
// from the per-letter IATA listing, creating country rows as needed.
func (s *EnrichmentService) EnrichDisplayNames(ctx context.Context) error {
	airports, err := s.airports.ListOrderedByCode(ctx)
	if err != nil {
		return fmt.Errorf("listing airports: %w", err)
	}

	for _, airport := range airports {
		if err := s.enrichDisplayName(ctx, airport.Code); err != nil {
			logging.Error("failed to enrich airport display info",
				"code", airport.Code,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (s *EnrichmentService) enrichDisplayName(ctx context.Context, code string) error {
	doc, err := s.ref.AirportPage(ctx, code[:1])
	if err != nil {
		return err
	}

	cells, err := reference.FindTableRow(doc, code)
	if err != nil {
		return err
	}
	if len(cells) < 4 {
		return fmt.Errorf("reference row for %s has %d cells", code, len(cells))
	}

	name := cleanAirportName(cells[2])
	countryName := cleanCountryName(cells[3])

	country, err := s.countries.EnsureByName(ctx, countryName)
	if err != nil {
		return err
	}

	return s.airports.SetDisplayInfo(ctx, code, name, country.ID)
}

// EnrichLocalizedNames resolves localized airport and country names
// from the differently-keyed localized listing. The airport name is
// only stored when it is fully localized (contains no Latin letters),
// since the page falls back to the English name otherwise.
func (s *EnrichmentService) EnrichLocalizedNames(ctx context.Context) error {
	airports, err := s.airports.ListOrderedByCode(ctx)
	if err != nil {
		return fmt.Errorf("listing airports: %w", err)
	}

	for _, airport := range airports {
		if err := s.enrichLocalizedName(ctx, airport.Code, airport.CountryID); err != nil {
			logging.Error("failed to enrich airport localized info",
				"code", airport.Code,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (s *EnrichmentService) enrichLocalizedName(ctx context.Context, code string, countryID *uint) error {
	letter := code[:1]
	doc, err := s.ref.LocalizedAirportPage(ctx, letter)
	if err != nil {
		return err
	}

	cells, err := reference.FindTableRow(doc, code)
	if err != nil {
		return err
	}

	// pages for part of the alphabet have no leading index column
	startIdx := 2
	if offsetGroupKeys[letter] {
		startIdx = 1
	}
	if len(cells) < startIdx+3 {
		return fmt.Errorf("reference row for %s has %d cells", code, len(cells))
	}

	name := strings.TrimSpace(strings.Split(cells[startIdx], "（")[0])
	countryName := strings.TrimSpace(cells[startIdx+2])

	if countryID != nil {
		if err := s.countries.SetLocalizedName(ctx, *countryID, countryName); err != nil {
			return err
		}
	}

	if !latinLetter.MatchString(name) {
		return s.airports.SetLocalizedName(ctx, code, name)
	}
	return nil
}

// EnrichCurrencies resolves each country's ISO currency code from the
// circulating-currencies listing.
func (s *EnrichmentService) EnrichCurrencies(ctx context.Context) error {
	countries, err := s.countries.List(ctx)
	if err != nil {
		return fmt.Errorf("listing countries: %w", err)
	}

	for _, country := range countries {
		if err := s.enrichCurrency(ctx, country.Name); err != nil {
			logging.Error("failed to enrich country currency",
				"country", country.Name,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (s *EnrichmentService) enrichCurrency(ctx context.Context, countryName string) error {
	doc, err := s.ref.CurrencyPage(ctx)
	if err != nil {
		return err
	}

	cells, err := reference.FindTableRow(doc, countryName)
	if err != nil {
		return err
	}
	if len(cells) < 4 {
		return fmt.Errorf("reference row for %s has %d cells", countryName, len(cells))
	}

	return s.countries.SetCurrency(ctx, countryName, strings.TrimSpace(cells[3]))
}

// cleanAirportName cuts the reference cell at the first bracketed
// annotation or numeric footnote.
func cleanAirportName(s string) string {
	if loc := annotationStart.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

// cleanCountryName keeps the trailing comma segment of a location
// cell and strips footnote digits.
func cleanCountryName(s string) string {
	parts := strings.Split(s, ",")
	last := parts[len(parts)-1]
	return strings.TrimSpace(anyDigit.ReplaceAllString(last, ""))
}
