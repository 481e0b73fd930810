package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/meshcompare/backend/internal/domain"
)

var validate = validator.New()

// listKeys are the wrapper keys accepted around list payloads, e.g. {"products": [...]}
var listKeys = []string{"products", "items", "data", "updates", "results"}

// Decode checks a provider payload against the schema of kind and returns the
// typed result. Anything that does not conform is an ErrExtractionFailure;
// callers never see a half-parsed structure.
func Decode(kind domain.CandidateKind, payload []byte) (*domain.ExtractionResult, error) {
	payload = stripCodeFence(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrExtractionFailure)
	}

	result := &domain.ExtractionResult{Kind: kind}

	switch kind {
	case domain.KindSingle:
		if payload[0] != '{' {
			return nil, fmt.Errorf("%w: expected a JSON object for a single product", domain.ErrExtractionFailure)
		}
		var p domain.SingleProduct
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
		}
		if err := validate.Struct(&p); err != nil {
			return nil, schemaError(0, err)
		}
		result.Single = &p

	case domain.KindBatch:
		if err := decodeList(payload, &result.Batch); err != nil {
			return nil, err
		}
		for i := range result.Batch {
			if err := validate.Struct(&result.Batch[i]); err != nil {
				return nil, schemaError(i, err)
			}
		}

	case domain.KindConsolidated:
		if err := decodeList(payload, &result.Consolidated); err != nil {
			return nil, err
		}
		for i := range result.Consolidated {
			if err := validate.Struct(&result.Consolidated[i]); err != nil {
				return nil, schemaError(i, err)
			}
		}

	case domain.KindPriceUpdate:
		if err := decodeList(payload, &result.PriceUpdates); err != nil {
			return nil, err
		}
		for i := range result.PriceUpdates {
			if err := validate.Struct(&result.PriceUpdates[i]); err != nil {
				return nil, schemaError(i, err)
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrExtractionFailure, kind)
	}

	return result, nil
}

// decodeList accepts a bare JSON array or an object wrapping one under a known key
func decodeList(payload []byte, out interface{}) error {
	switch payload[0] {
	case '[':
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
		}
		return nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
		}
		for _, key := range listKeys {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				return fmt.Errorf("%w: %q is not a list", domain.ErrExtractionFailure, key)
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
			}
			return nil
		}
		return fmt.Errorf("%w: object payload has no product list", domain.ErrExtractionFailure)
	default:
		return fmt.Errorf("%w: expected a JSON list", domain.ErrExtractionFailure)
	}
}

// stripCodeFence removes a markdown ```json fence that some models wrap around JSON
func stripCodeFence(payload []byte) []byte {
	payload = bytes.TrimSpace(payload)
	if !bytes.HasPrefix(payload, []byte("```")) {
		return payload
	}
	if nl := bytes.IndexByte(payload, '\n'); nl >= 0 {
		payload = payload[nl+1:]
	} else {
		payload = bytes.TrimPrefix(payload, []byte("```"))
	}
	payload = bytes.TrimSpace(payload)
	payload = bytes.TrimSuffix(payload, []byte("```"))
	return bytes.TrimSpace(payload)
}

func schemaError(index int, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: record %d: field %s failed %q", domain.ErrExtractionFailure, index, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: record %d: %v", domain.ErrExtractionFailure, index, err)
}
