package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupExactWinsOverCaseInsensitive(t *testing.T) {
	payload := Payload{"A": "x", "a": "y"}

	v, ok := Lookup(payload, "A", "a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestLookupCaseInsensitiveFallback(t *testing.T) {
	payload := Payload{"PATIENT NAME": "Jane Doe"}

	v, ok := Lookup(payload, "patientName", "Patient Name")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", v)
}

func TestLookupAbsent(t *testing.T) {
	payload := Payload{"other": "value"}

	_, ok := Lookup(payload, "patientName", "Patient Name")
	assert.False(t, ok)
}

func TestCleanValueSentinels(t *testing.T) {
	for _, raw := range []string{"", "   ", "-", "n/a", "N/A", "  N/A  ", "null", "NULL"} {
		_, ok := CleanValue(raw)
		assert.False(t, ok, "expected %q to be absent", raw)
	}
}

func TestCleanValueTrims(t *testing.T) {
	v, ok := CleanValue("  Jane  ")
	require.True(t, ok)
	assert.Equal(t, "Jane", v)
}

func TestCleanValueNonStringPassthrough(t *testing.T) {
	v, ok := CleanValue(float64(42))
	require.True(t, ok)
	assert.Equal(t, float64(42), v)

	_, ok = CleanValue(nil)
	assert.False(t, ok)
}

func TestLookupCleansSentinel(t *testing.T) {
	payload := Payload{"email": "  N/A  "}

	_, ok := Lookup(payload, "email")
	assert.False(t, ok)
}

func TestParseAge(t *testing.T) {
	n, ok := ParseAge("26 years")
	require.True(t, ok)
	assert.Equal(t, 26, n)

	_, ok = ParseAge("unknown")
	assert.False(t, ok)

	n, ok = ParseAge(float64(30))
	require.True(t, ok)
	assert.Equal(t, 30, n)

	n, ok = ParseAge("age 41, approx")
	require.True(t, ok)
	assert.Equal(t, 41, n)
}

func TestStringRendersIntegralNumbers(t *testing.T) {
	payload := Payload{"billId": float64(100)}

	assert.Equal(t, "100", String(payload, "billId"))
}

func TestStringsScalarAndArray(t *testing.T) {
	assert.Equal(t, []string{"5"}, Strings(Payload{"testID": []interface{}{float64(5)}}, "testID"))
	assert.Equal(t, []string{"5", "7"}, Strings(Payload{"testID": []interface{}{float64(5), float64(7)}}, "testID"))
	assert.Equal(t, []string{"5"}, Strings(Payload{"testID": float64(5)}, "testID"))
	assert.Nil(t, Strings(Payload{}, "testID"))
}

func TestParseDate(t *testing.T) {
	ts, ok := ParseDate("2024-03-01T10:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = ParseDate("not a date")
	assert.False(t, ok)

	// Epoch milliseconds
	ts, ok = ParseDate(float64(1709288000000))
	require.True(t, ok)
	assert.Equal(t, 2024, ts.UTC().Year())
}

func TestExtractKnownAndPassthrough(t *testing.T) {
	payload := Payload{
		"billId":       float64(100),
		"Patient Name": "Jane Doe",
		"Patient Age":  "34 years",
		"customField":  "kept verbatim",
	}

	frag := Extract(payload)

	assert.Equal(t, "100", frag.BillID)
	assert.Equal(t, "Jane Doe", frag.Name)
	require.NotNil(t, frag.Age)
	assert.Equal(t, 34, *frag.Age)

	// Every raw key survives in the passthrough map.
	require.NotNil(t, frag.All)
	assert.Equal(t, "kept verbatim", frag.All["customField"])
	assert.Len(t, frag.All, 4)
}

func TestExtractAddressNestedAndFlat(t *testing.T) {
	frag := Extract(Payload{
		"address": map[string]interface{}{"city": "Pune", "street": "12 MG Road"},
	})
	require.NotNil(t, frag.Address)
	assert.Equal(t, "Pune", frag.Address["city"])
	assert.Equal(t, "12 MG Road", frag.Address["street"])

	frag = Extract(Payload{"city": "Pune"})
	require.NotNil(t, frag.Address)
	assert.Equal(t, "Pune", frag.Address["city"])
}

func TestExtractReferralDoctorFallsBackToDoctorName(t *testing.T) {
	frag := Extract(Payload{"Referred By": "Dr. Mehta"})
	assert.Equal(t, "Dr. Mehta", frag.DoctorName)
}
