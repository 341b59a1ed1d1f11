package audit

// Redacted replaces sensitive values in stored audit payloads.
const Redacted = "[REDACTED]"

// sensitiveFields are matched against top-level snapshot keys only. Audit
// payloads are built by the feature packages' own snapshot funcs, whose nested
// values never carry credentials, so the scan is deliberately not recursive.
var sensitiveFields = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
	"key":      {},
}

// Sanitize returns a copy of the snapshot with sensitive top-level fields
// replaced by the redaction marker. A nil snapshot stays nil.
func Sanitize(snapshot map[string]any) map[string]any {
	if snapshot == nil {
		return nil
	}

	out := make(map[string]any, len(snapshot))
	for name, value := range snapshot {
		if _, sensitive := sensitiveFields[name]; sensitive {
			out[name] = Redacted
			continue
		}
		out[name] = value
	}
	return out
}
