package seminar

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"

	domseminar "seminar-api/internal/domain/seminar"
)

const cacheKeyPattern = "seminars:*"

type listCacheKeyInput struct {
	HasName   bool   `json:"has_name"`
	Name      string `json:"name"`
	Ascending bool   `json:"ascending"`
}

func DetailCacheKey(id uuid.UUID) string {
	return "seminars:detail:" + id.String()
}

func ListCacheKey(f domseminar.ListFilter) string {
	in := listCacheKeyInput{Ascending: f.Ascending}
	if f.NameContains != nil {
		in.HasName = true
		in.Name = *f.NameContains
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "seminars:list:" + hex.EncodeToString(sum[:])
}
