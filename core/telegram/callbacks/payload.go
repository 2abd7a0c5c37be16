package callbacks

import (
	"strconv"
	"strings"
)

// ParseID extracts the numeric suffix from tokens like "order_detail_42".
func ParseID(data, prefix string) (int64, error) {
	rest := strings.TrimPrefix(data, prefix)
	return strconv.ParseInt(rest, 10, 64)
}

// ParseIDAndLabel splits tokens like "set_status_42_В работе" into the
// numeric part and the remainder. The remainder is returned verbatim and
// may itself contain separators.
func ParseIDAndLabel(data, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(data, prefix)
	parts := strings.SplitN(rest, "_", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", err
	}
	if len(parts) != 2 {
		return 0, "", strconv.ErrSyntax
	}
	return id, parts[1], nil
}
