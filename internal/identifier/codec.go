// Package identifier translates between the external string form of a
// document id (24 hexadecimal characters) and the storage-native
// primitive.ObjectID.
package identifier

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvalidIdentifierError reports an id token that is not a valid object
// id. Field is the request field the token came from ("id",
// "categoryIds[2]", ...) so callers can produce field-addressable
// client errors.
type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q for field %s", e.Value, e.Field)
}

// Decode parses an external id token into an ObjectID. Any token that
// is not exactly 24 hexadecimal characters fails with
// *InvalidIdentifierError.
func Decode(field, value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, &InvalidIdentifierError{Field: field, Value: value}
	}
	return id, nil
}

// Encode renders an ObjectID in its external string form. Encode is
// total: Decode(field, Encode(x)) == x for every ObjectID x.
func Encode(id primitive.ObjectID) string {
	return id.Hex()
}

// DecodeAll decodes a list of id tokens, reporting the position of the
// first malformed element as field[i].
func DecodeAll(field string, values []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for i, v := range values {
		id, err := Decode(fmt.Sprintf("%s[%d]", field, i), v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
