// Package runner records parsed scenario files into an expect.Suite.
//
// Assertions run in file order, top-level assertions first. Before each
// comparison the runner expands {{...}} placeholders in titles, actual
// values and expected values. Patterns and schemas given to passes are
// used as compiled.
//
// An assertion with a query takes its actual value from a SQL query, run
// through one database connection per connection string for the whole file.
package runner
