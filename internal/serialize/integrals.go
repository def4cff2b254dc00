package serialize

import (
	"fmt"
	"io"

	"github.com/fyrsmithlabs/f2q/internal/fermion"
)

type probe struct {
	Type     string `json:"type" yaml:"type" toml:"type" msgpack:"type"`
	Encoding string `json:"encoding" yaml:"encoding" toml:"encoding" msgpack:"encoding"`
}

// WriteIntegrals encodes in as a plain integral table.
func WriteIntegrals(w io.Writer, f Format, in *fermion.Integrals) error {
	return Encode(w, f, in)
}

// ReadIntegrals decodes either a fermion document or a plain integral table.
// Documents carrying a type tag are treated as fermion documents; anything
// else is read as a table. The result is validated.
func ReadIntegrals(data []byte, f Format) (*fermion.Integrals, error) {
	var p probe
	if err := Decode(data, f, &p); err != nil {
		return nil, fmt.Errorf("decode %s input: %w", f, err)
	}

	if p.Type != "" {
		var doc FermionDocument
		if err := Decode(data, f, &doc); err != nil {
			return nil, fmt.Errorf("decode %s fermion document: %w", f, err)
		}
		return doc.Integrals()
	}

	var in fermion.Integrals
	if err := Decode(data, f, &in); err != nil {
		return nil, fmt.Errorf("decode %s integrals: %w", f, err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &in, nil
}
