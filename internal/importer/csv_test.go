package importer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/importer"
)

func TestParseRow_TrimsAndDefaults(t *testing.T) {
	hotspot, err := importer.ParseRow(importer.Row{
		Name:      "  Corner Cafe  ",
		Address:   " 1 Main St ",
		Category:  " Coffee Shop ",
		Latitude:  "37.7749",
		Longitude: "-122.4194",
		IsFree:    "TRUE",
	})
	require.NoError(t, err)

	assert.Equal(t, "Corner Cafe", hotspot.Name)
	assert.Equal(t, "1 Main St", hotspot.Address)
	assert.Equal(t, "Coffee Shop", hotspot.Category)
	assert.Equal(t, 37.7749, hotspot.Latitude)
	assert.Equal(t, -122.4194, hotspot.Longitude)
	assert.True(t, hotspot.IsFree)
	assert.True(t, hotspot.IsVerified, "import rows default to verified")
	assert.Equal(t, entities.ModerationApproved, hotspot.ModerationStatus)
	assert.Nil(t, hotspot.WifiPassword)
	assert.Nil(t, hotspot.Description)
	assert.Nil(t, hotspot.SubmittedBy)
}

func TestParseRow_OptionalFields(t *testing.T) {
	hotspot, err := importer.ParseRow(importer.Row{
		Name:         "Hotel Lobby",
		Address:      "2 Pier Rd",
		Category:     "Hotel",
		Latitude:     "37.8",
		Longitude:    "-122.4",
		IsFree:       "false",
		WifiPassword: " guest123 ",
		Description:  "Ask at the front desk",
		IsVerified:   "false",
		SubmittedBy:  "partner_feed",
	})
	require.NoError(t, err)

	assert.False(t, hotspot.IsFree)
	require.NotNil(t, hotspot.WifiPassword)
	assert.Equal(t, "guest123", *hotspot.WifiPassword)
	assert.False(t, hotspot.IsVerified)
	require.NotNil(t, hotspot.SubmittedBy)
	assert.Equal(t, "partner_feed", *hotspot.SubmittedBy)
}

func TestParseRow_Rejections(t *testing.T) {
	_, err := importer.ParseRow(importer.Row{Address: "1 Main St", Latitude: "1", Longitude: "1"})
	assert.Error(t, err)

	_, err = importer.ParseRow(importer.Row{Name: "No Coords", Address: "1 Main St"})
	assert.Error(t, err)

	_, err = importer.ParseRow(importer.Row{Name: "Bad Coords", Address: "1 Main St", Latitude: "north", Longitude: "west"})
	assert.Error(t, err)
}

func TestImportFromReader_SkipsBadRowsWithWarnings(t *testing.T) {
	csv := strings.Join([]string{
		"name,address,category,latitude,longitude,isFree,wifiPassword,description",
		"Corner Cafe,1 Main St,Coffee Shop,37.7749,-122.4194,true,,Free for customers",
		"Missing Coords,2 Main St,Library,,,true,,",
		"City Library,3 Main St,Library,37.7649,-122.4294,true,,",
		"Bad Coords,4 Main St,Hotel,abc,def,true,,",
	}, "\n")

	hotspots, warnings := importer.ImportFromReader(strings.NewReader(csv))

	assert.Len(t, hotspots, 2)
	assert.Len(t, warnings, 2)
	assert.Equal(t, "Corner Cafe", hotspots[0].Name)
	assert.Equal(t, "City Library", hotspots[1].Name)
}

func TestImportFromReader_MissingOptionalColumns(t *testing.T) {
	csv := strings.Join([]string{
		"name,address,category,latitude,longitude,isFree",
		"Minimal,5 Main St,Cafe,37.7,-122.4,true",
	}, "\n")

	hotspots, warnings := importer.ImportFromReader(strings.NewReader(csv))

	require.Len(t, hotspots, 1)
	assert.Empty(t, warnings)
	assert.True(t, hotspots[0].IsVerified)
}

func TestLoadInitialData_MissingFileIsEmpty(t *testing.T) {
	hotspots := importer.LoadInitialData(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Empty(t, hotspots)
}

func TestLoadInitialData_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	content := "name,address,category,latitude,longitude,isFree\n" +
		"Seeded,6 Main St,Cafe,37.7,-122.4,true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	hotspots := importer.LoadInitialData(path)
	require.Len(t, hotspots, 1)
	assert.Equal(t, "Seeded", hotspots[0].Name)
}
