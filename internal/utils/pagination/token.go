package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the precise time layout used inside pagination tokens.
const TimeFormat = time.RFC3339Nano

// EncodeMultiFieldToken creates an opaque token from any number of string
// fields. Callers decide the field layout; keyset queries on both sides must
// agree on it.
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token back into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
