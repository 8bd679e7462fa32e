package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/carpenter-backend/internal/catalog"
)

// Ref is a relation to another record. It is written as a bare id and read
// back either as the id (depth 0) or as the populated document.
type Ref[T any] struct {
	ID  uint
	Doc *T
}

type (
	MediaRef   = Ref[catalog.MediaDTO]
	ProductRef = Ref[catalog.ProductDTO]
)

func (r Ref[T]) IsZero() bool {
	return r.ID == 0
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Doc != nil {
		return json.Marshal(r.Doc)
	}
	if r.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts an id or a populated document carrying an id, so a
// client can send back what it read.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Ref[T]{ID: id}
		return nil
	}
	var doc struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("relation must be an id or an object with an id: %w", err)
	}
	*r = Ref[T]{ID: doc.ID}
	return nil
}
