// Package fingerprint derives a low-entropy device/network fingerprint
// from HTTP request metadata and scores fingerprints against each other
// to detect likely session theft.
//
// A Fingerprint captures the client IP, its derived subnet, the
// user-agent string and the accept-language/accept-encoding headers.
// Validate compares two fingerprints with weighted point scoring out of
// 100 and applies a strict (85) or lenient (60) acceptance threshold.
// DeviceID hashes the stable components into a deterministic identifier
// for recognizing a returning device independent of session token.
package fingerprint
