package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/normafacile/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cat, ok := models.ParseCategory("startup_innovazione")
	require.True(t, ok)
	require.Equal(t, models.CategoryStartup, cat)

	_, ok = models.ParseCategory("sport")
	require.False(t, ok)

	_, ok = models.ParseCategory("")
	require.False(t, ok)
}

func TestDocumentIDStable(t *testing.T) {
	date := models.NewDate(2024, time.March, 15)
	id1 := models.DocumentID("Decreto fiscale", "Gazzetta Ufficiale", date)
	id2 := models.DocumentID("Decreto fiscale", "Gazzetta Ufficiale", date)
	require.NotEmpty(t, id1)
	require.Equal(t, id1, id2)

	other := models.DocumentID("Decreto fiscale", "INPS", date)
	require.NotEqual(t, id1, other)
}

func TestDocumentIDEmptyFieldsFallsBackToRandom(t *testing.T) {
	id1 := models.DocumentID("", "", models.Date{})
	id2 := models.DocumentID("", "", models.Date{})
	require.NotEmpty(t, id1)
	require.NotEqual(t, id1, id2)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "iso", raw: "2024-06-01", want: "2024-06-01"},
		{name: "rfc3339", raw: "2024-06-01T10:30:00Z", want: "2024-06-01"},
		{name: "rfc1123z", raw: "Sat, 01 Jun 2024 10:30:00 +0200", want: "2024-06-01"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseDate(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}

	_, err := models.ParseDate("primo giugno")
	require.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := models.NewDate(2024, time.January, 10)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-01-10"`, string(data))

	var back models.Date
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, d.String(), back.String())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "breve", models.Truncate("breve", 150))

	long := ""
	for range 40 {
		long += "norma"
	}
	got := models.Truncate(long, 150)
	require.Len(t, []rune(got), 153)
	require.Equal(t, "...", got[len(got)-3:])
}
