// Package importer parses the delimited seed file the in-memory directory
// is populated from at startup. Import is a trusted source: rows default to
// approved and verified. Individual bad rows are collected as warnings and
// skipped; a single malformed record never aborts the batch.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
)

// Row is one raw record from the seed file, keyed by header name. Only the
// first six columns are required; the rest are optional.
type Row struct {
	Name             string
	Address          string
	Category         string
	Latitude         string
	Longitude        string
	IsFree           string
	WifiPassword     string
	Description      string
	IsVerified       string
	ModerationStatus string
	SubmittedBy      string
}

// ParseRow turns a raw row into a creation record. String fields are
// trimmed, boolean-ish fields compare case-insensitively against "true",
// and blank optionals become nil. isVerified defaults true and
// moderationStatus defaults approved: the import source is trusted.
func ParseRow(row Row) (repositories.NewHotspot, error) {
	name := strings.TrimSpace(row.Name)
	address := strings.TrimSpace(row.Address)
	if name == "" || address == "" {
		return repositories.NewHotspot{}, fmt.Errorf("missing name or address")
	}
	if strings.TrimSpace(row.Latitude) == "" || strings.TrimSpace(row.Longitude) == "" {
		return repositories.NewHotspot{}, fmt.Errorf("missing coordinates for %q", name)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(row.Latitude), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(row.Longitude), 64)
	if latErr != nil || lngErr != nil {
		return repositories.NewHotspot{}, fmt.Errorf("invalid coordinates for %q", name)
	}

	verified := true
	if row.IsVerified != "" {
		verified = parseBool(row.IsVerified)
	}
	status := entities.ModerationApproved
	if s := strings.TrimSpace(row.ModerationStatus); s != "" {
		status = entities.ModerationStatus(s)
	}

	return repositories.NewHotspot{
		Name:             name,
		Address:          address,
		Category:         strings.TrimSpace(row.Category),
		Latitude:         lat,
		Longitude:        lng,
		IsFree:           parseBool(row.IsFree),
		WifiPassword:     optional(row.WifiPassword),
		Description:      optional(row.Description),
		IsVerified:       verified,
		ModerationStatus: status,
		SubmittedBy:      optional(row.SubmittedBy),
	}, nil
}

// ImportFromReader streams CSV rows from r. The first record is the header.
// Rows that fail parsing are returned as warnings alongside the valid
// records.
func ImportFromReader(r io.Reader) ([]repositories.NewHotspot, []string) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return []repositories.NewHotspot{}, []string{fmt.Sprintf("failed to read header: %v", err)}
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	hotspots := []repositories.NewHotspot{}
	warnings := []string{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		row := Row{
			Name:             field(record, "name"),
			Address:          field(record, "address"),
			Category:         field(record, "category"),
			Latitude:         field(record, "latitude"),
			Longitude:        field(record, "longitude"),
			IsFree:           field(record, "isFree"),
			WifiPassword:     field(record, "wifiPassword"),
			Description:      field(record, "description"),
			IsVerified:       field(record, "isVerified"),
			ModerationStatus: field(record, "moderationStatus"),
			SubmittedBy:      field(record, "submittedBy"),
		}
		hotspot, err := ParseRow(row)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		hotspots = append(hotspots, hotspot)
	}
	return hotspots, warnings
}

// LoadInitialData reads the seed file. Seed data is optional: a missing or
// unreadable file yields an empty result and a logged diagnostic, never a
// hard failure.
func LoadInitialData(path string) []repositories.NewHotspot {
	f, err := os.Open(path)
	if err != nil {
		log.Info().Str("path", path).Err(err).Msg("no seed file loaded; starting with an empty directory")
		return []repositories.NewHotspot{}
	}
	defer f.Close()

	hotspots, warnings := ImportFromReader(f)
	for _, w := range warnings {
		log.Warn().Str("path", path).Msg("seed row skipped: " + w)
	}
	log.Info().Str("path", path).Int("count", len(hotspots)).Msg("loaded hotspots from seed file")
	return hotspots
}

func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
