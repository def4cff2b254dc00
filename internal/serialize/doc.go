// Package serialize reads and writes f2q documents.
//
// Two document shapes are supported, both tagged with type "sumrepr":
//
//	{"type": "sumrepr", "encoding": "qubits",
//	 "terms": [{"code": "IXYZ", "value": 0.5, "imag": 0.1}]}
//
//	{"type": "sumrepr", "encoding": "fermions",
//	 "terms": [{"code": [], "value": 0.7}, {"code": [0, 1], "value": 0.2},
//	           {"code": [0, 1, 1, 0], "value": 0.3}]}
//
// plus the plain integral table decoded into fermion.Integrals. Every shape
// can be written as JSON, YAML, TOML or MessagePack.
package serialize
