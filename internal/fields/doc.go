// Package fields maps the gateway's numeric snapshot field codes to semantic
// names and back.
//
// The mapping is static and open-world: codes without a catalog entry pass
// through untranslated so new gateway fields never get dropped.
package fields
