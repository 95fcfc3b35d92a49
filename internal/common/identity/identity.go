// Package identity derives the stable identifier of a job posting.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// MissingValue is how an absent field is written into the identity key
const MissingValue = "None"

// JobID hashes the lowercased "title_company_location_source" key with md5
// and returns it as 32 lowercase hex characters.
func JobID(title, company, location, source string) string {
	key := strings.ToLower(strings.Join([]string{title, company, location, source}, "_"))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Field renders an optional field for use in JobID
func Field(v *string) string {
	if v == nil {
		return MissingValue
	}
	return *v
}
