package logger

import "time"

// Field names shared by every package that logs.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldDealID    = "deal_id"
	FieldURL       = "url"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldRequestID = "request_id"
)

// Fields pairs up alternating keys and values. A trailing key without a
// value and non-string keys are dropped.
//
//	log.Info("deck url set", logger.Fields(logger.FieldDealID, id, logger.FieldURL, u))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields describes a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DealFields identifies a deck URL record. An empty url is left out.
func DealFields(dealID, url string) map[string]interface{} {
	m := map[string]interface{}{FieldDealID: dealID}
	if url != "" {
		m[FieldURL] = url
	}
	return m
}

// DurableFields describes one call to a durable backend. err may be nil.
func DurableFields(op, backend, key string, d time.Duration, err error) map[string]interface{} {
	m := map[string]interface{}{
		FieldOperation: op,
		FieldBackend:   backend,
		FieldKey:       key,
		FieldDuration:  d.Milliseconds(),
	}
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}
