// Package builtin provides the functions available inside {{...}}
// placeholders in scenario files.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(), date(layout), timestamp(): current time
//   - random(min, max), randomString(length): random values
//   - base64(s), base64Decode(s), md5(s), sha256(s): encodings and digests
//   - upper(s), lower(s), len(s): string helpers
//
// Arguments may be quoted with single or double quotes.
package builtin
