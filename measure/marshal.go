package measure

import (
	"database/sql/driver"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Every boundary adapter below uses the canonical encoding, so a value
// persisted by one is readable by all the others. Sub-second precision
// does not survive any of them.

// MarshalText implements encoding.TextMarshaler. encoding/json and
// gopkg.in/yaml.v3 both pick it up, so JSON strings and YAML scalars
// carry the canonical encoding.
func (m Measurement) MarshalText() ([]byte, error) {
	return []byte(Encode(m)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Measurement) UnmarshalText(text []byte) error {
	v, err := Decode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalCBOR implements cbor.Marshaler as a CBOR text string.
func (m Measurement) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(Encode(m))
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (m *Measurement) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("measure: cbor: %w", err)
	}
	return m.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer, storing m in a TEXT column.
func (m Measurement) Value() (driver.Value, error) {
	return Encode(m), nil
}

// Scan implements sql.Scanner. NULL scans as Zero().
func (m *Measurement) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Zero()
		return nil
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	default:
		return fmt.Errorf("measure: cannot scan %T into Measurement", src)
	}
}
