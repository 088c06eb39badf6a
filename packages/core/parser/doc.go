// Package parser reads scenario files: YAML or JSON documents that describe
// assertions for an expect.Suite.
//
// A scenario has:
//   - an optional title, used as the suite title
//   - optional variables for {{name}} placeholders
//   - top-level assertions, recorded in an untitled section
//   - sections, each with a title and a list of assertions
//
// Each assertion has a title, an optional actually value and exactly one
// operator key: is, has, hasError, stringifiesTo or passes (or their
// aliases toBe, toHave, toError, toJson and toMatch). A query mapping
// with db, sql and an optional scalar flag may stand in for actually.
package parser
