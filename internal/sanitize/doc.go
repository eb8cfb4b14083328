// Package sanitize converts arbitrary payloads into JSON-safe values and
// strips gateway transport metadata before a payload leaves the system.
//
// Value is total: it always produces something json.Marshal can encode, so
// the output boundary never fails on an odd value type.
package sanitize
