package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
)

// TransformCountries maps a raw restcountries document into country payloads.
// Each field is read on its own: a field that is absent, null or of an unexpected
// type is left unset with a warning and the rest of the record is kept. Array
// elements that are not objects are skipped.
// Parameters:
//   - ctx: context carrying the job logger.
//   - raw: JSON array as returned by <apiBaseUrl>/all.
// Returns:
//   - []domain.CountryPayload: one payload per object element, in document order.
//   - error: non-nil if raw is not a JSON array.
func TransformCountries(ctx context.Context, raw []byte) ([]domain.CountryPayload, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("parse raw countries: %w", err)
	}

	out := make([]domain.CountryPayload, 0, len(elements))
	for i, el := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(el, &fields); err != nil || fields == nil {
			logger.CtxWarn(ctx, "Skipping element %d: not a JSON object", i)
			continue
		}
		out = append(out, transformCountry(ctx, i, fields))
	}
	return out, nil
}

func transformCountry(ctx context.Context, i int, fields map[string]json.RawMessage) domain.CountryPayload {
	p := domain.CountryPayload{}
	skip := func(field string, raw json.RawMessage) {
		logger.CtxWarn(ctx, "Skipping %s of record %d (%q): unexpected value %s", field, i, p.CountryName, truncate(raw, 64))
	}

	if raw, ok := present(fields, "name"); ok {
		var name map[string]json.RawMessage
		if err := json.Unmarshal(raw, &name); err != nil {
			skip("name", raw)
		} else if common, ok := present(name, "common"); ok {
			if s, ok := jsonString(common); ok {
				p.CountryName = s
			} else {
				skip("name.common", common)
			}
		}
	}

	if raw, ok := present(fields, "ccn3"); ok {
		text, _ := jsonText(raw)
		if code, err := strconv.Atoi(text); err != nil {
			logger.CtxWarn(ctx, "Skipping numericCode for country %q: ccn3 %s is not a valid integer", p.CountryName, truncate(raw, 64))
		} else {
			p.NumericCode = &code
		}
	}

	if raw, ok := present(fields, "capital"); ok {
		var capitals []json.RawMessage
		if err := json.Unmarshal(raw, &capitals); err != nil {
			skip("capital", raw)
		} else if len(capitals) > 0 {
			if s, ok := jsonString(capitals[0]); ok {
				p.CapitalCity = &s
			} else if len(bytes.TrimSpace(capitals[0])) > 0 && string(bytes.TrimSpace(capitals[0])) != "null" {
				skip("capital", capitals[0])
			}
		}
	}

	if raw, ok := present(fields, "population"); ok {
		if n, err := numberToInt64(raw); err != nil {
			skip("population", raw)
		} else {
			p.Population = &n
		}
	}

	if raw, ok := present(fields, "area"); ok {
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			skip("area", raw)
		} else {
			p.Area = &f
		}
	}

	if raw, ok := present(fields, "currencies"); ok {
		currencies, err := orderedCurrencies(raw)
		if err != nil {
			skip("currencies", raw)
		} else {
			p.Currencies = currencies
		}
	}
	return p
}

// present returns the raw value of key unless it is missing or null.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// orderedCurrencies walks the currencies object token by token so entries keep document order.
// A name or symbol that is not a string is left unset.
func orderedCurrencies(raw json.RawMessage) ([]domain.CurrencyPayload, error) {
	if raw[0] != '{' {
		return nil, fmt.Errorf("currencies is not an object")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	list := make([]domain.CurrencyPayload, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		code, _ := tok.(string)

		var details json.RawMessage
		if err := dec.Decode(&details); err != nil {
			return nil, fmt.Errorf("currency %s: %w", code, err)
		}
		cur := domain.CurrencyPayload{CurrencyCode: code}
		var fields map[string]json.RawMessage
		if json.Unmarshal(details, &fields) == nil {
			if s, ok := jsonString(fields["name"]); ok {
				cur.CurrencyName = &s
			}
			if s, ok := jsonString(fields["symbol"]); ok {
				cur.CurrencySymbol = &s
			}
		}
		list = append(list, cur)
	}
	return list, nil
}

// jsonString decodes raw only if it is a JSON string.
func jsonString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func truncate(raw json.RawMessage, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}

// jsonText renders a scalar as text: strings unquoted, other literals verbatim. null and missing report false.
func jsonText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(raw), true
}

func numberToInt64(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
