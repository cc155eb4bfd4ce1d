package service

import (
	"context"
	"testing"

	"github.com/es2/countrysync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testlandJSON = `[{"name":{"common":"Testland"},"ccn3":"840","capital":["TestCity"],"population":100,"area":50.0,"currencies":{"TST":{"name":"Test Dollar","symbol":"T$"}}}]`

func TestTransformCountriesMapsFields(t *testing.T) {
	out, err := TransformCountries(context.Background(), []byte(testlandJSON))
	require.NoError(t, err)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, "Testland", c.CountryName)
	require.NotNil(t, c.NumericCode)
	assert.Equal(t, 840, *c.NumericCode)
	require.NotNil(t, c.CapitalCity)
	assert.Equal(t, "TestCity", *c.CapitalCity)
	require.NotNil(t, c.Population)
	assert.EqualValues(t, 100, *c.Population)
	require.NotNil(t, c.Area)
	assert.Equal(t, 50.0, *c.Area)
	require.Len(t, c.Currencies, 1)
	assert.Equal(t, "TST", c.Currencies[0].CurrencyCode)
	assert.Equal(t, "Test Dollar", *c.Currencies[0].CurrencyName)
	assert.Equal(t, "T$", *c.Currencies[0].CurrencySymbol)
}

func TestTransformCountriesNumericCode(t *testing.T) {
	tests := []struct {
		name string
		ccn3 string
		want *int
	}{
		{"leading zero", `"076"`, intPtr(76)},
		{"bare number", `4`, intPtr(4)},
		{"non numeric", `"abc"`, nil},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[{"name":{"common":"X"},"ccn3":` + tt.ccn3 + `}]`
			out, err := TransformCountries(context.Background(), []byte(raw))
			require.NoError(t, err)
			require.Len(t, out, 1, "record must be kept")
			assert.Equal(t, "X", out[0].CountryName)
			assert.Equal(t, tt.want, out[0].NumericCode)
		})
	}
}

func TestTransformCountriesLeavesMissingFieldsUnset(t *testing.T) {
	out, err := TransformCountries(context.Background(), []byte(`[{"name":{"common":"Nowhere"},"capital":[]}]`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].NumericCode)
	assert.Nil(t, out[0].CapitalCity)
	assert.Nil(t, out[0].Population)
	assert.Nil(t, out[0].Area)
	assert.Nil(t, out[0].Currencies)
}

func TestTransformCountriesSkipsMistypedFields(t *testing.T) {
	tests := []struct {
		name   string
		record string
		check  func(t *testing.T, c domain.CountryPayload)
	}{
		{"capital not an array", `{"name":{"common":"A"},"capital":"X","population":5}`, func(t *testing.T, c domain.CountryPayload) {
			assert.Equal(t, "A", c.CountryName)
			assert.Nil(t, c.CapitalCity)
			assert.EqualValues(t, 5, *c.Population)
		}},
		{"population not a number", `{"name":{"common":"A"},"population":"n/a","area":1.5}`, func(t *testing.T, c domain.CountryPayload) {
			assert.Nil(t, c.Population)
			assert.Equal(t, 1.5, *c.Area)
		}},
		{"area not a number", `{"name":{"common":"A"},"area":true,"ccn3":"004"}`, func(t *testing.T, c domain.CountryPayload) {
			assert.Nil(t, c.Area)
			assert.Equal(t, 4, *c.NumericCode)
		}},
		{"name not an object", `{"name":"A","capital":["X"]}`, func(t *testing.T, c domain.CountryPayload) {
			assert.Empty(t, c.CountryName)
			assert.Equal(t, "X", *c.CapitalCity)
		}},
		{"currencies not an object", `{"name":{"common":"A"},"currencies":["USD"]}`, func(t *testing.T, c domain.CountryPayload) {
			assert.Nil(t, c.Currencies)
		}},
		{"currency details mistyped", `{"name":{"common":"A"},"currencies":{"USD":{"name":1,"symbol":"$"},"EUR":"euro"}}`, func(t *testing.T, c domain.CountryPayload) {
			require.Len(t, c.Currencies, 2)
			assert.Nil(t, c.Currencies[0].CurrencyName)
			assert.Equal(t, "$", *c.Currencies[0].CurrencySymbol)
			assert.Equal(t, "EUR", c.Currencies[1].CurrencyCode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[` + tt.record + `,{"name":{"common":"B"}}]`
			out, err := TransformCountries(context.Background(), []byte(raw))
			require.NoError(t, err)
			require.Len(t, out, 2, "neither record may be dropped")
			tt.check(t, out[0])
			assert.Equal(t, "B", out[1].CountryName)
		})
	}
}

func TestTransformCountriesSkipsNonObjectElements(t *testing.T) {
	out, err := TransformCountries(context.Background(), []byte(`[1,null,"x",{"name":{"common":"A"}}]`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].CountryName)
}

func TestTransformCountriesKeepsCurrencyOrder(t *testing.T) {
	raw := `[{"name":{"common":"Zimbabwe"},"currencies":{"ZWL":{"name":"Zimbabwean dollar"},"BWP":{"name":"Botswana pula","symbol":"P"},"USD":{"symbol":"$"}}}]`
	out, err := TransformCountries(context.Background(), []byte(raw))
	require.NoError(t, err)
	require.Len(t, out[0].Currencies, 3)

	codes := []string{}
	for _, c := range out[0].Currencies {
		codes = append(codes, c.CurrencyCode)
	}
	assert.Equal(t, []string{"ZWL", "BWP", "USD"}, codes)
	assert.Nil(t, out[0].Currencies[0].CurrencySymbol)
	assert.Nil(t, out[0].Currencies[2].CurrencyName)
}

func TestTransformCountriesRejectsNonArray(t *testing.T) {
	_, err := TransformCountries(context.Background(), []byte(`{"status":404,"message":"Not Found"}`))
	assert.Error(t, err)

	_, err = TransformCountries(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}

func TestTransformCountriesEmptyArray(t *testing.T) {
	out, err := TransformCountries(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProviderSlug(t *testing.T) {
	assert.Equal(t, "rest_countries", ProviderSlug("Rest Countries", 1))
	assert.Equal(t, "rest_countries_v3", ProviderSlug("Rest \t Countries  V3", 1))
	assert.Equal(t, "provider_7", ProviderSlug("   ", 7))
	assert.Equal(t, "provider_7", ProviderSlug("", 7))
	assert.Equal(t, "a_b", ProviderSlug("a/b", 1))
}
