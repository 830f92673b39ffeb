package latticescan

import "go.uber.org/zap"

// zapIdentifierField renders an identifier as a zap field for the
// structured-logging paths in ident.go.
func zapIdentifierField(id *Identifier) zap.Field {
	return zap.Stringer("identifier", id)
}

func zapAnyField(key string, v any) zap.Field {
	return zap.Any(key, v)
}
