package clinic

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is the canonical string form of an upstream record identifier.
// Upstream documents carry their id under "_id" or "id" and encode it as a
// string or a bare number depending on which store produced the record, so
// every comparison in this codebase goes through this type instead of the
// raw JSON value.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// Equal reports whether two identifiers name the same record. Zero ids never
// match anything, including each other.
func (id ID) Equal(other ID) bool {
	return !id.IsZero() && id == other
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}

	// A reference field may arrive populated, i.e. as the full document
	// instead of a bare id.
	var doc struct {
		MongoID ID `json:"_id"`
		PlainID ID `json:"id"`
	}
	if err := json.Unmarshal(b, &doc); err == nil {
		*id = firstID(doc.MongoID, doc.PlainID)
		return nil
	}

	return fmt.Errorf("identifier is neither a string, a number, nor a document: %s", b)
}

// firstID picks the populated identifier when a document carries both the
// "_id" and "id" spellings.
func firstID(mongo, plain ID) ID {
	if !mongo.IsZero() {
		return mongo
	}
	return plain
}
